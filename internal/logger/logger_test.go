package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLoggerWithOutput(buf, "debug", "production")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log.Info("hello")
	entry := parseLogOutput(buf)
	require.NotNil(t, entry)
	assert.Equal(t, "hello", entry["msg"])
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	log := NewLoggerWithOutput(&bytes.Buffer{}, "loud", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestSimulationLoggerSimulation(t *testing.T) {
	log, buf := setupTestLogger()
	simLogger := NewSimulationLogger(log)

	simLogger.LogSimulation("run-1", 0.8, 0.78, "A", 20000, 20000, 42, 12.5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "simulation", logEntry["component"])
	assert.Equal(t, "run-1", logEntry["run_id"])
	assert.Equal(t, float64(20000), logEntry["trials"])
	assert.Equal(t, "info", logEntry["level"])
}

func TestSimulationLoggerTruncatedRunWarns(t *testing.T) {
	log, buf := setupTestLogger()
	NewSimulationLogger(log).LogSimulation("run-2", 0.8, 0.78, "B", 4096, 20000, 1, 2)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
}

func TestSimulationLoggerPrior(t *testing.T) {
	log, buf := setupTestLogger()
	NewSimulationLogger(log).LogHoldProbability("run-3", "Unknown", "Clay", "F", 0.75, true)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, true, logEntry["used_prior"])
	assert.Equal(t, "warning", logEntry["level"])
}

func TestSimulationLoggerQuote(t *testing.T) {
	log, buf := setupTestLogger()
	NewSimulationLogger(log).LogQuoteComparison("run-4", "6-4", 0.25, 5, 4, 0.25, true)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "6-4", logEntry["score"])
	assert.Equal(t, true, logEntry["value_bet"])
}

func TestDataLoggerRefresh(t *testing.T) {
	log, buf := setupTestLogger()
	NewDataLogger(log).LogStatsRefresh("sackmann", 5000, 420, 1500*time.Millisecond)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "stats", logEntry["component"])
	assert.Equal(t, float64(1500), logEntry["duration_ms"])
}

func TestDataLoggerRefreshFailure(t *testing.T) {
	log, buf := setupTestLogger()
	NewDataLogger(log).LogRefreshFailure("sackmann", errors.New("timeout"), 12)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "timeout", logEntry["error"])
	assert.Equal(t, "refresh_failed", logEntry["event_type"])
}

func TestDataLoggerOverride(t *testing.T) {
	log, buf := setupTestLogger()
	NewDataLogger(log).LogOverrideChange("upsert", "Sinner", "Hard", "M")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "upsert", logEntry["action"])
}
