package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/set-predictor/internal/service"
)

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(ctx context.Context) error {
	return f.err
}

type fakeStats struct {
	status service.StatsStatus
}

func (f fakeStats) Status(ctx context.Context) service.StatsStatus {
	return f.status
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndLive(t *testing.T) {
	s := NewServer(Config{ServiceName: "stats-sync", Version: "1.0.0", Port: "0"})

	rec := get(t, s.Handler(), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "stats-sync", resp.Service)
	assert.Equal(t, "1.0.0", resp.Version)

	rec = get(t, s.Handler(), "/live")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReady(t *testing.T) {
	built := time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		ready      bool
		db         DatabasePinger
		stats      service.StatsStatus
		wantCode   int
		wantChecks map[string]string
	}{
		{
			name:       "not marked ready",
			ready:      false,
			stats:      service.StatsStatus{Rows: 10, Fresh: true, BuiltAt: built},
			wantCode:   http.StatusServiceUnavailable,
			wantChecks: map[string]string{"service": "not_ready", "stats": "ok"},
		},
		{
			name:       "fresh stats",
			ready:      true,
			stats:      service.StatsStatus{Rows: 10, Fresh: true, BuiltAt: built},
			wantCode:   http.StatusOK,
			wantChecks: map[string]string{"service": "ok", "stats": "ok"},
		},
		{
			name:       "degraded stats still serve",
			ready:      true,
			stats:      service.StatsStatus{Rows: 10, Degraded: true, LastError: errors.New("offline")},
			wantCode:   http.StatusOK,
			wantChecks: map[string]string{"service": "ok", "stats": "degraded"},
		},
		{
			name:       "overrides only",
			ready:      true,
			stats:      service.StatsStatus{Overrides: 2, Degraded: true},
			wantCode:   http.StatusOK,
			wantChecks: map[string]string{"service": "ok", "stats": "degraded"},
		},
		{
			name:       "no stats at all",
			ready:      true,
			stats:      service.StatsStatus{Degraded: true},
			wantCode:   http.StatusServiceUnavailable,
			wantChecks: map[string]string{"service": "ok", "stats": "empty"},
		},
		{
			name:       "database down",
			ready:      true,
			db:         fakePinger{err: errors.New("connection refused")},
			stats:      service.StatsStatus{Rows: 10, Fresh: true},
			wantCode:   http.StatusServiceUnavailable,
			wantChecks: map[string]string{"service": "ok", "stats": "ok", "database": "error: connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(Config{ServiceName: "stats-sync", DB: tt.db, Stats: fakeStats{status: tt.stats}})
			s.SetReady(tt.ready)

			rec := get(t, s.Handler(), "/ready")
			assert.Equal(t, tt.wantCode, rec.Code)

			var resp ReadyResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantChecks, resp.Checks)
			require.NotNil(t, resp.Stats)
			assert.Equal(t, tt.stats.Rows, resp.Stats.Rows)
			assert.Equal(t, tt.stats.Degraded, resp.Stats.Degraded)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("set_predictor_simulations_total 1\n"))
	})
	s := NewServer(Config{ServiceName: "stats-sync", Metrics: metrics})

	rec := get(t, s.Handler(), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "set_predictor_simulations_total")

	noMetrics := NewServer(Config{ServiceName: "stats-sync"})
	rec = get(t, noMetrics.Handler(), "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewServerDefaults(t *testing.T) {
	t.Setenv("HEALTH_PORT", "")
	s := NewServer(Config{})
	assert.Equal(t, "8080", s.port)
	assert.Equal(t, "/metrics", s.metricsPath)
	assert.False(t, s.IsReady())
	assert.NoError(t, s.Shutdown())
}
