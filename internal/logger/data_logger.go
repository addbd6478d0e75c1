package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// DataLogger provides logging for the stat table lifecycle.
type DataLogger struct {
	*logrus.Entry
}

// NewDataLogger creates a new data logger.
func NewDataLogger(baseLogger *logrus.Logger) *DataLogger {
	return &DataLogger{
		Entry: baseLogger.WithField("component", "stats"),
	}
}

// LogStatsRefresh logs a successful stat table refresh.
func (dl *DataLogger) LogStatsRefresh(source string, records, rows int, duration time.Duration) {
	dl.WithFields(logrus.Fields{
		"source":      source,
		"records":     records,
		"rows":        rows,
		"duration_ms": duration.Milliseconds(),
		"event_type":  "refresh",
	}).Info("Stat table refreshed")
}

// LogRefreshFailure logs a failed refresh and whether a stale table remains usable.
func (dl *DataLogger) LogRefreshFailure(source string, err error, staleRows int) {
	dl.WithFields(logrus.Fields{
		"source":     source,
		"stale_rows": staleRows,
		"event_type": "refresh_failed",
	}).WithError(err).Warn("Stat refresh failed, serving stale or manual stats")
}

// LogOverrideChange logs a manual stat override edit.
func (dl *DataLogger) LogOverrideChange(action, player, surface, gender string) {
	dl.WithFields(logrus.Fields{
		"action":     action,
		"player":     player,
		"surface":    surface,
		"gender":     gender,
		"event_type": "override",
	}).Info("Manual stat override changed")
}
