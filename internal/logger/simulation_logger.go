package logger

import (
	"github.com/sirupsen/logrus"
)

// SimulationLogger provides dedicated logging for set simulations and quote checks.
type SimulationLogger struct {
	*logrus.Entry
}

// NewSimulationLogger creates a new simulation logger.
func NewSimulationLogger(baseLogger *logrus.Logger) *SimulationLogger {
	return &SimulationLogger{
		Entry: baseLogger.WithField("component", "simulation"),
	}
}

// LogHoldProbability logs the hold probability chosen for a player.
func (sl *SimulationLogger) LogHoldProbability(runID, player, surface, gender string, hold float64, usedPrior bool) {
	entry := sl.WithFields(logrus.Fields{
		"run_id":     runID,
		"player":     player,
		"surface":    surface,
		"gender":     gender,
		"hold":       hold,
		"used_prior": usedPrior,
	})
	if usedPrior {
		entry.Warn("No stats for player, using prior hold probability")
		return
	}
	entry.Debug("Hold probability computed")
}

// LogSimulation logs a completed set simulation.
func (sl *SimulationLogger) LogSimulation(runID string, holdA, holdB float64, firstServer string, trials, requested int, seed int64, durationMs float64) {
	entry := sl.WithFields(logrus.Fields{
		"run_id":       runID,
		"hold_a":       holdA,
		"hold_b":       holdB,
		"first_server": firstServer,
		"trials":       trials,
		"requested":    requested,
		"seed":         seed,
		"duration_ms":  durationMs,
	})
	if trials < requested {
		entry.Warn("Set simulation stopped early, distribution covers completed trials only")
		return
	}
	entry.Info("Set simulation completed")
}

// LogQuoteComparison logs a quote comparison.
func (sl *SimulationLogger) LogQuoteComparison(runID, score string, probability, quote, fairOdds, expectedValue float64, isValueBet bool) {
	sl.WithFields(logrus.Fields{
		"run_id":         runID,
		"score":          score,
		"probability":    probability,
		"quote":          quote,
		"fair_odds":      fairOdds,
		"expected_value": expectedValue,
		"value_bet":      isValueBet,
	}).Info("Quote compared")
}
