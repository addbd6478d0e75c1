package metrics

import "github.com/prometheus/client_golang/prometheus"

// Stat table counter vectors
var (
	StatRefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stat_refresh_total",
		Help:      "Total number of stat table refreshes by source and status",
	}, []string{"source", "status"})
)

// Stat table histograms
var (
	StatRefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stat_refresh_duration_seconds",
		Help:      "Duration of stat table refreshes including download",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
	})
)

// Stat table gauges
var (
	StatTableRows = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stat_table_rows",
		Help:      "Rows in the aggregated stat table by tour",
	}, []string{"tour"})
	MatchRecordsLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "match_records_loaded",
		Help:      "Match records read during the last successful refresh",
	})
	StatTableLastRefresh = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stat_table_last_refresh_timestamp_seconds",
		Help:      "Unix time of the last successful stat refresh",
	})
	ManualOverrides = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "manual_overrides",
		Help:      "Number of manual stat overrides currently stored",
	})
)

// RecordStatRefresh records a refresh attempt.
// status should be one of: "success", "failure"
func RecordStatRefresh(source, status string, durationSeconds float64) {
	StatRefreshTotal.WithLabelValues(source, status).Inc()
	StatRefreshDuration.Observe(durationSeconds)
	if status == "success" {
		StatTableLastRefresh.SetToCurrentTime()
	}
}

// UpdateStatTable records the size of a freshly built table.
func UpdateStatTable(records int, rowsByTour map[string]int) {
	MatchRecordsLoaded.Set(float64(records))
	for tour, rows := range rowsByTour {
		StatTableRows.WithLabelValues(tour).Set(float64(rows))
	}
}

// UpdateManualOverrides records the number of stored overrides.
func UpdateManualOverrides(count int) {
	ManualOverrides.Set(float64(count))
}
