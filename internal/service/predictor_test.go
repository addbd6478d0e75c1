package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/set-predictor/internal/cache"
	"github.com/yourusername/set-predictor/internal/models"
	"github.com/yourusername/set-predictor/internal/probability"
	"github.com/yourusername/set-predictor/internal/repository"
	"github.com/yourusername/set-predictor/internal/simulator"
)

// MockMatchSource mocks a match log source
type MockMatchSource struct {
	mock.Mock
}

func (m *MockMatchSource) FetchMatchRecords(ctx context.Context) ([]models.MatchRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MatchRecord), args.Error(1)
}

func (m *MockMatchSource) Name() string {
	return "mock"
}

// MockOverrideRepository mocks override storage
type MockOverrideRepository struct {
	mock.Mock
}

func (m *MockOverrideRepository) Upsert(ctx context.Context, stat *models.PlayerSurfaceStat) error {
	args := m.Called(ctx, stat)
	return args.Error(0)
}

func (m *MockOverrideRepository) Get(ctx context.Context, key models.StatKey) (*models.PlayerSurfaceStat, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerSurfaceStat), args.Error(1)
}

func (m *MockOverrideRepository) Delete(ctx context.Context, key models.StatKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockOverrideRepository) List(ctx context.Context) ([]*models.PlayerSurfaceStat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PlayerSurfaceStat), args.Error(1)
}

func (m *MockOverrideRepository) LoadManualOverrides(ctx context.Context) (models.StatTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.StatTable), args.Error(1)
}

// rivalry returns n hard-court ATP matches won by Alpha over Beta
func rivalry(n int) []models.MatchRecord {
	records := make([]models.MatchRecord, n)
	for i := range records {
		records[i] = models.MatchRecord{
			Surface:        models.SurfaceHard,
			Gender:         models.GenderMale,
			WinnerName:     "Alpha",
			LoserName:      "Beta",
			WinnerServePts: 80,
			WinnerFirstWon: 48,
			LoserServePts:  80,
			LoserFirstWon:  36,
		}
	}
	return records
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Simulation.Sims = 4000
	opts.Simulation.Seed = 7
	opts.Simulation.Workers = 2
	opts.RetryInterval = time.Hour
	return opts
}

func newTestService(source *MockMatchSource, overrides repository.OverrideRepository) *PredictorService {
	return NewPredictorService(source, overrides, cache.NewStatCache(time.Hour, time.Hour), testOptions(), nil)
}

func TestRefreshStats(t *testing.T) {
	source := new(MockMatchSource)
	source.On("FetchMatchRecords", mock.Anything).Return(rivalry(8), nil).Once()

	svc := newTestService(source, nil)
	report, err := svc.RefreshStats(context.Background())
	require.NoError(t, err)

	assert.False(t, report.Degraded)
	assert.Equal(t, 8, report.Records)
	assert.Equal(t, 2, report.Rows)
	assert.Equal(t, 2, report.ByGender[models.GenderMale])
	assert.Equal(t, 2, report.BySurface[models.SurfaceHard])
	assert.Contains(t, report.String(), "Records=8")

	status := svc.Status(context.Background())
	assert.True(t, status.Ready())
	assert.True(t, status.Fresh)
	assert.False(t, status.Degraded)
	source.AssertExpectations(t)
}

func TestRefreshStatsFailureKeepsStaleTable(t *testing.T) {
	source := new(MockMatchSource)
	source.On("FetchMatchRecords", mock.Anything).Return(rivalry(8), nil).Once()
	source.On("FetchMatchRecords", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	svc := newTestService(source, nil)
	_, err := svc.RefreshStats(context.Background())
	require.NoError(t, err)

	report, err := svc.RefreshStats(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrStatsUnavailable)
	assert.True(t, report.Degraded)
	assert.Equal(t, 2, report.StaleRows)
	assert.Contains(t, report.String(), "Degraded=true")

	// The earlier table still answers lookups
	table, _, err := svc.StatTable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	status := svc.Status(context.Background())
	assert.True(t, status.Degraded)
	assert.Error(t, status.LastError)
}

func TestStatTableDegradesToOverrides(t *testing.T) {
	source := new(MockMatchSource)
	source.On("FetchMatchRecords", mock.Anything).Return(nil, errors.New("timeout")).Once()

	overrides := repository.NewMemoryOverrideRepository()
	require.NoError(t, overrides.Upsert(context.Background(), &models.PlayerSurfaceStat{
		Key:          models.StatKey{Player: "Gamma", Surface: models.SurfaceClay, Gender: models.GenderFemale},
		ServePtsWon:  0.6,
		ReturnPtsWon: 0.45,
	}))

	svc := newTestService(source, overrides)
	table, degraded, err := svc.StatTable(context.Background())
	require.NoError(t, err)
	assert.True(t, degraded)
	assert.Equal(t, 1, table.Len())

	// A second call inside the retry interval does not refetch
	_, degraded, err = svc.StatTable(context.Background())
	require.NoError(t, err)
	assert.True(t, degraded)
	source.AssertNumberOfCalls(t, "FetchMatchRecords", 1)
}

func TestStatTableOverridesReplaceAggregatedRows(t *testing.T) {
	source := new(MockMatchSource)
	source.On("FetchMatchRecords", mock.Anything).Return(rivalry(8), nil).Once()

	key := models.StatKey{Player: "Alpha", Surface: models.SurfaceHard, Gender: models.GenderMale}
	manual := models.StatTable{key: {Key: key, ServePtsWon: 0.7, ReturnPtsWon: 0.5, Source: models.StatSourceManual}}

	overrides := new(MockOverrideRepository)
	overrides.On("LoadManualOverrides", mock.Anything).Return(manual, nil)

	svc := newTestService(source, overrides)
	table, degraded, err := svc.StatTable(context.Background())
	require.NoError(t, err)
	assert.False(t, degraded)

	stat, ok := table.Lookup(key)
	require.True(t, ok)
	assert.Equal(t, models.StatSourceManual, stat.Source)
	assert.InDelta(t, 0.7, stat.ServePtsWon, 1e-9)

	// Cached, so no second fetch
	_, _, err = svc.StatTable(context.Background())
	require.NoError(t, err)
	source.AssertNumberOfCalls(t, "FetchMatchRecords", 1)
}

func TestStatTableOverrideLoadFailure(t *testing.T) {
	source := new(MockMatchSource)
	source.On("FetchMatchRecords", mock.Anything).Return(rivalry(8), nil).Once()

	overrides := new(MockOverrideRepository)
	overrides.On("LoadManualOverrides", mock.Anything).Return(nil, errors.New("db down"))

	svc := newTestService(source, overrides)
	table, degraded, err := svc.StatTable(context.Background())
	require.NoError(t, err)
	assert.True(t, degraded)
	assert.Equal(t, 2, table.Len())
}

func TestPlayers(t *testing.T) {
	source := new(MockMatchSource)
	source.On("FetchMatchRecords", mock.Anything).Return(rivalry(8), nil).Once()

	svc := newTestService(source, nil)
	players, err := svc.Players(context.Background(), models.GenderMale)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta"}, players)

	players, err = svc.Players(context.Background(), models.GenderFemale)
	require.NoError(t, err)
	assert.Empty(t, players)
}

func TestPredictSet(t *testing.T) {
	source := new(MockMatchSource)
	source.On("FetchMatchRecords", mock.Anything).Return(rivalry(8), nil).Once()

	svc := newTestService(source, nil)
	pred, err := svc.PredictSet(context.Background(), PredictRequest{
		PlayerA:     "Alpha",
		PlayerB:     "Beta",
		Surface:     models.SurfaceHard,
		Gender:      models.GenderMale,
		FirstServer: simulator.PlayerA,
	})
	require.NoError(t, err)

	assert.Equal(t, ModePreMatch, pred.Mode)
	assert.False(t, pred.Degraded)
	assert.False(t, pred.HoldA.FromPrior)
	assert.False(t, pred.HoldB.FromPrior)
	require.NotNil(t, pred.HoldA.Stat)
	assert.Greater(t, pred.HoldA.Probability, pred.HoldB.Probability)
	assert.Greater(t, pred.WinProbabilityA(), 0.5)

	assert.Equal(t, 4000, pred.Distribution.Trials)
	assert.InDelta(t, 1.0, pred.Distribution.Total(), 1e-9)
	assert.NotEmpty(t, pred.Top)
	assert.LessOrEqual(t, len(pred.Top), 10)
	for i := 1; i < len(pred.Top); i++ {
		assert.GreaterOrEqual(t, pred.Top[i-1].Probability, pred.Top[i].Probability)
	}
}

func TestPredictSetUnknownPlayersUsePrior(t *testing.T) {
	source := new(MockMatchSource)
	source.On("FetchMatchRecords", mock.Anything).Return(nil, errors.New("offline"))

	svc := newTestService(source, nil)
	pred, err := svc.PredictSet(context.Background(), PredictRequest{
		PlayerA: "Nobody",
		PlayerB: "Someone",
		Surface: models.SurfaceGrass,
		Gender:  models.GenderFemale,
	})
	require.NoError(t, err)

	assert.True(t, pred.Degraded)
	assert.True(t, pred.HoldA.FromPrior)
	assert.True(t, pred.HoldB.FromPrior)
	assert.Equal(t, probability.DefaultHold, pred.HoldA.Probability)
	assert.Nil(t, pred.HoldA.Stat)
}

func TestPredictSetRejectsBadMatchups(t *testing.T) {
	svc := newTestService(new(MockMatchSource), nil)

	tests := []struct {
		name string
		req  PredictRequest
	}{
		{"missing player", PredictRequest{PlayerA: "Alpha", PlayerB: "  "}},
		{"same player", PredictRequest{PlayerA: "Alpha", PlayerB: " Alpha"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PredictSet(context.Background(), tt.req)
			assert.ErrorIs(t, err, models.ErrInvalidMatchup)
		})
	}
}

func TestPredictSetIsReproducibleWithSeed(t *testing.T) {
	source := new(MockMatchSource)
	source.On("FetchMatchRecords", mock.Anything).Return(rivalry(8), nil)

	req := PredictRequest{PlayerA: "Alpha", PlayerB: "Beta", Surface: models.SurfaceHard, Gender: models.GenderMale}

	first, err := newTestService(source, nil).PredictSet(context.Background(), req)
	require.NoError(t, err)
	second, err := newTestService(source, nil).PredictSet(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Distribution.Probabilities, second.Distribution.Probabilities)
}

func TestPredictLiveSet(t *testing.T) {
	svc := newTestService(new(MockMatchSource), nil)

	pred, err := svc.PredictLiveSet(context.Background(), LiveRequest{
		HoldA:       0.8,
		HoldB:       0.7,
		FirstServer: simulator.PlayerB,
		PreviousSet: " 7-6 ",
	})
	require.NoError(t, err)

	assert.Equal(t, ModeLive, pred.Mode)
	assert.Equal(t, "7-6", pred.PreviousSet)
	assert.Equal(t, simulator.PlayerB, pred.FirstServer)
	assert.False(t, pred.Distribution.FirstServerA)
	assert.InDelta(t, 1.0, pred.Distribution.Total(), 1e-9)
}

func TestPredictLiveSetValidation(t *testing.T) {
	svc := newTestService(new(MockMatchSource), nil)

	tests := []struct {
		name    string
		req     LiveRequest
		wantErr error
	}{
		{"hold below range", LiveRequest{HoldA: 0.3, HoldB: 0.7}, models.ErrInvalidProbability},
		{"hold above range", LiveRequest{HoldA: 0.8, HoldB: 0.99}, models.ErrInvalidProbability},
		{"illegal previous set", LiveRequest{HoldA: 0.8, HoldB: 0.7, PreviousSet: "6-5"}, models.ErrIllegalScore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PredictLiveSet(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPredictCancelledContext(t *testing.T) {
	svc := newTestService(new(MockMatchSource), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.PredictLiveSet(ctx, LiveRequest{HoldA: 0.8, HoldB: 0.7})
	assert.ErrorIs(t, err, models.ErrNoTrialsCompleted)
}

func TestCompareQuoteAndValueBets(t *testing.T) {
	svc := newTestService(new(MockMatchSource), nil)

	pred, err := svc.PredictLiveSet(context.Background(), LiveRequest{HoldA: 0.8, HoldB: 0.7})
	require.NoError(t, err)

	p, err := pred.Distribution.Probability("6-4")
	require.NoError(t, err)

	cmp, err := svc.CompareQuote(pred, "6-4", 1/p*2)
	require.NoError(t, err)
	assert.True(t, cmp.IsValueBet)
	assert.InDelta(t, 1.0, cmp.ExpectedValue, 1e-9)

	_, err = svc.CompareQuote(pred, "6-4", 0.5)
	assert.ErrorIs(t, err, models.ErrInvalidQuote)

	bets, skipped := svc.FindValueBets(pred, map[string]float64{
		"6-4": 1 / p * 2,
		"6-3": 1.01,
		"9-0": 5,
	})
	require.Len(t, bets, 1)
	assert.Equal(t, "6-4", bets[0].Label)
	assert.Contains(t, skipped, "9-0")
}

func TestOverrideLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(new(MockMatchSource), repository.NewMemoryOverrideRepository())

	stat := &models.PlayerSurfaceStat{
		Key:          models.StatKey{Player: "Delta", Surface: "grass", Gender: "wta"},
		ServePtsWon:  0.62,
		ReturnPtsWon: 0.41,
	}
	require.NoError(t, svc.SetOverride(ctx, stat))

	list, err := svc.ListOverrides(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.SurfaceGrass, list[0].Key.Surface)
	assert.Equal(t, models.GenderFemale, list[0].Key.Gender)

	err = svc.SetOverride(ctx, &models.PlayerSurfaceStat{Key: models.StatKey{Player: "Delta", Surface: "Carpet", Gender: "F"}})
	assert.ErrorIs(t, err, models.ErrInvalidOverride)

	require.NoError(t, svc.DeleteOverride(ctx, list[0].Key))
	assert.ErrorIs(t, svc.DeleteOverride(ctx, list[0].Key), models.ErrNotFound)
}
