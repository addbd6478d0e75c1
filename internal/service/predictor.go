package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/set-predictor/internal/cache"
	"github.com/yourusername/set-predictor/internal/datasource"
	"github.com/yourusername/set-predictor/internal/logger"
	"github.com/yourusername/set-predictor/internal/metrics"
	"github.com/yourusername/set-predictor/internal/models"
	"github.com/yourusername/set-predictor/internal/probability"
	"github.com/yourusername/set-predictor/internal/repository"
	"github.com/yourusername/set-predictor/internal/simulator"
	"github.com/yourusername/set-predictor/internal/stats"
	"github.com/yourusername/set-predictor/internal/strategy"
)

// Options tunes the predictor service
type Options struct {
	Simulation  simulator.Config
	TopOutcomes int
	// Live hold probabilities must fall within [LiveMinHold, LiveMaxHold]
	LiveMinHold float64
	LiveMaxHold float64
	KellyScale  float64
	MinEdge     float64
	// RetryInterval throttles refresh attempts made on demand after a failure
	RetryInterval time.Duration
}

// DefaultOptions returns the settings the predictor ships with
func DefaultOptions() Options {
	return Options{
		Simulation:    simulator.DefaultConfig(),
		TopOutcomes:   10,
		LiveMinHold:   0.45,
		LiveMaxHold:   0.95,
		KellyScale:    0.5,
		RetryInterval: time.Minute,
	}
}

// PredictorService turns match logs into set-score predictions. It owns the
// refresh of the aggregated stat table and degrades to the stale table or
// manual overrides when the match source is unavailable.
type PredictorService struct {
	source    datasource.MatchSource
	overrides repository.OverrideRepository
	cache     *cache.StatCache
	evaluator *strategy.Evaluator
	opts      Options
	logger    *logrus.Logger
	simLog    *logger.SimulationLogger
	dataLog   *logger.DataLogger

	refreshMu   sync.Mutex
	stateMu     sync.RWMutex
	degraded    bool
	lastErr     error
	lastAttempt time.Time
}

// NewPredictorService creates a new predictor service
func NewPredictorService(
	source datasource.MatchSource,
	overrides repository.OverrideRepository,
	statCache *cache.StatCache,
	opts Options,
	log *logrus.Logger,
) *PredictorService {
	if log == nil {
		log = logger.Discard()
	}
	if overrides == nil {
		overrides = repository.NewMemoryOverrideRepository()
	}
	if opts.TopOutcomes <= 0 {
		opts.TopOutcomes = DefaultOptions().TopOutcomes
	}
	if opts.LiveMinHold == 0 && opts.LiveMaxHold == 0 {
		opts.LiveMinHold, opts.LiveMaxHold = DefaultOptions().LiveMinHold, DefaultOptions().LiveMaxHold
	}

	return &PredictorService{
		source:    source,
		overrides: overrides,
		cache:     statCache,
		evaluator: &strategy.Evaluator{KellyScale: opts.KellyScale, MinEdge: opts.MinEdge},
		opts:      opts,
		logger:    log,
		simLog:    logger.NewSimulationLogger(log),
		dataLog:   logger.NewDataLogger(log),
	}
}

// RefreshStats fetches the match logs, aggregates them and replaces the
// cached table. On failure the previous table stays in place, the service
// enters degraded mode and the returned error wraps ErrStatsUnavailable.
func (s *PredictorService) RefreshStats(ctx context.Context) (*RefreshReport, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *PredictorService) refreshLocked(ctx context.Context) (*RefreshReport, error) {
	report := &RefreshReport{
		RunID:     uuid.New(),
		Source:    s.source.Name(),
		StartTime: time.Now(),
	}

	s.stateMu.Lock()
	s.lastAttempt = report.StartTime
	s.stateMu.Unlock()

	records, err := s.source.FetchMatchRecords(ctx)
	report.Duration = time.Since(report.StartTime)
	if err != nil {
		metrics.RecordStatRefresh(report.Source, "failure", report.Duration.Seconds())

		if stale, ok := s.cache.Stale(); ok {
			report.StaleRows = stale.Table.Len()
		}
		report.Degraded = true
		report.Err = fmt.Errorf("%w: %w", models.ErrStatsUnavailable, err)
		s.setState(true, report.Err)
		s.dataLog.LogRefreshFailure(report.Source, err, report.StaleRows)
		return report, report.Err
	}

	table := stats.Aggregate(records)
	summary := stats.Summarize(len(records), table)

	s.cache.Set(&cache.Entry{
		Table:   table,
		Source:  report.Source,
		Records: len(records),
		BuiltAt: time.Now(),
	})
	s.setState(false, nil)

	report.Records = summary.Records
	report.Rows = summary.Rows
	report.ByGender = summary.ByGender
	report.BySurface = summary.BySurface

	metrics.RecordStatRefresh(report.Source, "success", report.Duration.Seconds())
	metrics.UpdateStatTable(summary.Records, map[string]int{
		models.GenderMale.Tour():   summary.ByGender[models.GenderMale],
		models.GenderFemale.Tour(): summary.ByGender[models.GenderFemale],
	})
	s.dataLog.LogStatsRefresh(report.Source, summary.Records, summary.Rows, report.Duration)

	return report, nil
}

func (s *PredictorService) setState(degraded bool, err error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.degraded = degraded
	s.lastErr = err
}

// StatTable returns the aggregated table merged with manual overrides. An
// expired cache triggers a refresh; if that fails the stale table is used,
// or only the overrides when nothing was ever loaded. The boolean reports
// degraded mode.
func (s *PredictorService) StatTable(ctx context.Context) (models.StatTable, bool, error) {
	aggregated, degraded := s.aggregatedTable(ctx)
	if err := ctx.Err(); err != nil {
		return nil, degraded, err
	}

	overrides, err := s.overrides.LoadManualOverrides(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load manual overrides, using aggregated stats only")
		return aggregated, true, nil
	}
	metrics.UpdateManualOverrides(overrides.Len())

	return aggregated.Merge(overrides), degraded, nil
}

func (s *PredictorService) aggregatedTable(ctx context.Context) (models.StatTable, bool) {
	if entry, ok := s.cache.Get(); ok {
		return entry.Table, false
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	// Another caller may have refreshed while we waited
	if entry, ok := s.cache.Get(); ok {
		return entry.Table, false
	}

	if s.shouldRetry() {
		if _, err := s.refreshLocked(ctx); err == nil {
			if entry, ok := s.cache.Get(); ok {
				return entry.Table, false
			}
		}
	}

	if stale, ok := s.cache.Stale(); ok {
		return stale.Table, true
	}
	return models.StatTable{}, true
}

func (s *PredictorService) shouldRetry() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if !s.degraded {
		return true
	}
	return time.Since(s.lastAttempt) >= s.opts.RetryInterval
}

// Status reports the state of the stat table
func (s *PredictorService) Status(ctx context.Context) StatsStatus {
	status := StatsStatus{}

	if entry, ok := s.cache.Stale(); ok {
		status.Rows = entry.Table.Len()
		status.BuiltAt = entry.BuiltAt
	}
	_, status.Fresh = s.cache.ExpiresAt()

	if overrides, err := s.overrides.LoadManualOverrides(ctx); err == nil {
		status.Overrides = overrides.Len()
	}

	s.stateMu.RLock()
	status.Degraded = s.degraded
	status.LastError = s.lastErr
	status.LastAttempt = s.lastAttempt
	s.stateMu.RUnlock()

	return status
}

// Players lists the players of a tour that have at least one stat row
func (s *PredictorService) Players(ctx context.Context, gender models.Gender) ([]string, error) {
	table, _, err := s.StatTable(ctx)
	if err != nil {
		return nil, err
	}
	return table.Players(gender), nil
}

// PredictSet simulates a set between two named players using their stats on
// the given surface
func (s *PredictorService) PredictSet(ctx context.Context, req PredictRequest) (*Prediction, error) {
	req.PlayerA = strings.TrimSpace(req.PlayerA)
	req.PlayerB = strings.TrimSpace(req.PlayerB)
	if req.PlayerA == "" || req.PlayerB == "" {
		return nil, fmt.Errorf("%w: both players are required", models.ErrInvalidMatchup)
	}
	if req.PlayerA == req.PlayerB {
		return nil, fmt.Errorf("%w: %s cannot play themselves", models.ErrInvalidMatchup, req.PlayerA)
	}

	table, degraded, err := s.StatTable(ctx)
	if err != nil {
		return nil, err
	}

	runID := uuid.New()
	holdA := s.estimateHold(runID, req.PlayerA, req.Surface, req.Gender, table)
	holdB := s.estimateHold(runID, req.PlayerB, req.Surface, req.Gender, table)

	pred, err := s.simulate(ctx, runID, ModePreMatch, holdA, holdB, req.FirstServer)
	if err != nil {
		return nil, err
	}
	pred.Surface = req.Surface
	pred.Gender = req.Gender
	pred.Degraded = degraded
	return pred, nil
}

// PredictLiveSet simulates the next set from hold probabilities supplied by
// the caller, typically read off the match in progress
func (s *PredictorService) PredictLiveSet(ctx context.Context, req LiveRequest) (*Prediction, error) {
	for _, p := range []struct {
		name string
		v    float64
	}{{"A", req.HoldA}, {"B", req.HoldB}} {
		if !(p.v >= s.opts.LiveMinHold && p.v <= s.opts.LiveMaxHold) {
			return nil, fmt.Errorf("%w: live hold probability %s = %v outside [%.2f, %.2f]",
				models.ErrInvalidProbability, p.name, p.v, s.opts.LiveMinHold, s.opts.LiveMaxHold)
		}
	}

	previous := strings.TrimSpace(req.PreviousSet)
	if previous != "" {
		score, err := models.ParseScore(previous)
		if err != nil {
			return nil, fmt.Errorf("previous set: %w", err)
		}
		previous = score.String()
	}

	runID := uuid.New()
	pred, err := s.simulate(ctx, runID, ModeLive,
		HoldEstimate{Player: "A", Probability: req.HoldA},
		HoldEstimate{Player: "B", Probability: req.HoldB},
		req.FirstServer,
	)
	if err != nil {
		return nil, err
	}
	pred.PreviousSet = previous
	return pred, nil
}

func (s *PredictorService) estimateHold(runID uuid.UUID, player string, surface models.Surface, gender models.Gender, table models.StatTable) HoldEstimate {
	est := HoldEstimate{Player: player}
	if stat, ok := table.Lookup(models.StatKey{Player: player, Surface: surface, Gender: gender}); ok {
		est.Probability = probability.FromStat(stat)
		est.Stat = &stat
	} else {
		est.Probability = probability.DefaultHold
		est.FromPrior = true
		metrics.RecordPriorFallback()
	}
	s.simLog.LogHoldProbability(runID.String(), player, string(surface), string(gender), est.Probability, est.FromPrior)
	return est
}

func (s *PredictorService) simulate(ctx context.Context, runID uuid.UUID, mode string, holdA, holdB HoldEstimate, first simulator.Player) (*Prediction, error) {
	start := time.Now()
	dist, err := simulator.SimulateSet(ctx, holdA.Probability, holdB.Probability, first, s.opts.Simulation)
	elapsed := time.Since(start)
	if err != nil {
		status := "error"
		if errors.Is(err, models.ErrNoTrialsCompleted) {
			status = "cancelled"
		}
		metrics.RecordSimulation(mode, status, 0, elapsed.Seconds())
		return nil, fmt.Errorf("simulation failed: %w", err)
	}

	status := "success"
	if !dist.IsComplete() {
		status = "cancelled"
	}
	metrics.RecordSimulation(mode, status, dist.Trials, elapsed.Seconds())
	s.simLog.LogSimulation(runID.String(), holdA.Probability, holdB.Probability, first.String(),
		dist.Trials, dist.Requested, dist.Seed, float64(elapsed.Microseconds())/1000)

	return &Prediction{
		RunID:        runID,
		Mode:         mode,
		HoldA:        holdA,
		HoldB:        holdB,
		FirstServer:  first,
		Distribution: dist,
		Top:          dist.Top(s.opts.TopOutcomes),
	}, nil
}

// CompareQuote evaluates a bookmaker quote against one score of a prediction
func (s *PredictorService) CompareQuote(pred *Prediction, scoreLabel string, quote float64) (models.QuoteComparison, error) {
	var dist *models.SetOutcomeDistribution
	runID := ""
	if pred != nil {
		dist = pred.Distribution
		runID = pred.RunID.String()
	}

	cmp, err := s.evaluator.Evaluate(dist, scoreLabel, quote)
	if err != nil {
		return models.QuoteComparison{}, err
	}

	metrics.RecordQuoteEvaluation(cmp.IsValueBet)
	s.simLog.LogQuoteComparison(runID, cmp.Label, cmp.Probability, cmp.Quote, cmp.FairOdds, cmp.ExpectedValue, cmp.IsValueBet)
	return cmp, nil
}

// FindValueBets evaluates every quoted score of a prediction and returns the
// value bets by descending expected value, plus the quotes that could not be
// evaluated
func (s *PredictorService) FindValueBets(pred *Prediction, quotes map[string]float64) ([]models.QuoteComparison, map[string]error) {
	var dist *models.SetOutcomeDistribution
	runID := ""
	if pred != nil {
		dist = pred.Distribution
		runID = pred.RunID.String()
	}

	bets, skipped := s.evaluator.FindValueBets(dist, quotes)
	for _, bet := range bets {
		metrics.RecordQuoteEvaluation(true)
		s.simLog.LogQuoteComparison(runID, bet.Label, bet.Probability, bet.Quote, bet.FairOdds, bet.ExpectedValue, true)
	}
	return bets, skipped
}

// SetOverride stores a manual stat row. The next StatTable call picks it up.
func (s *PredictorService) SetOverride(ctx context.Context, stat *models.PlayerSurfaceStat) error {
	if err := s.overrides.Upsert(ctx, stat); err != nil {
		return err
	}
	s.dataLog.LogOverrideChange("upsert", stat.Key.Player, string(stat.Key.Surface), string(stat.Key.Gender))
	return nil
}

// DeleteOverride removes a manual stat row
func (s *PredictorService) DeleteOverride(ctx context.Context, key models.StatKey) error {
	if err := s.overrides.Delete(ctx, key); err != nil {
		return err
	}
	s.dataLog.LogOverrideChange("delete", key.Player, string(key.Surface), string(key.Gender))
	return nil
}

// ListOverrides returns every manual stat row
func (s *PredictorService) ListOverrides(ctx context.Context) ([]*models.PlayerSurfaceStat, error) {
	list, err := s.overrides.List(ctx)
	if err != nil {
		return nil, err
	}
	metrics.UpdateManualOverrides(len(list))
	return list, nil
}
