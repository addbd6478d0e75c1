// Package metrics provides centralized Prometheus metrics registry for the set predictor.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "set_predictor"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	SimulationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simulations_total",
		Help:      "Total number of set simulations by mode and status",
	}, []string{"mode", "status"})
	SimulationTrialsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simulation_trials_total",
		Help:      "Total number of simulated sets",
	})
	PriorFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prior_fallbacks_total",
		Help:      "Hold probabilities that fell back to the prior for lack of stats",
	})
	QuoteEvaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quote_evaluations_total",
		Help:      "Total number of quote comparisons by whether they offered value",
	}, []string{"value_bet"})
	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Stat cache lookups by result",
	}, []string{"result"})
	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of circuit breaker trips",
	})
)

// Gauge metrics
var (
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_hit_ratio",
		Help:      "Stat cache hit ratio since start",
	})
)

// Histogram metrics
var (
	SimulationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "simulation_duration_seconds",
		Help:      "Duration of set simulations in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(SimulationsTotal)
		registry.MustRegister(SimulationTrialsTotal)
		registry.MustRegister(PriorFallbacksTotal)
		registry.MustRegister(QuoteEvaluationsTotal)
		registry.MustRegister(CacheLookupsTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)

		// Register gauge metrics
		registry.MustRegister(CacheHitRatio)

		// Register histogram metrics
		registry.MustRegister(SimulationDuration)

		// Register stat table metrics
		registry.MustRegister(StatRefreshTotal)
		registry.MustRegister(StatRefreshDuration)
		registry.MustRegister(StatTableRows)
		registry.MustRegister(MatchRecordsLoaded)
		registry.MustRegister(StatTableLastRefresh)
		registry.MustRegister(ManualOverrides)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordSimulation records a finished simulation.
// mode is "prematch" or "live"; status is "success", "cancelled" or "error".
func RecordSimulation(mode, status string, trials int, durationSeconds float64) {
	SimulationsTotal.WithLabelValues(mode, status).Inc()
	if trials > 0 {
		SimulationTrialsTotal.Add(float64(trials))
	}
	SimulationDuration.Observe(durationSeconds)
}

// RecordPriorFallback records a hold probability taken from the prior.
func RecordPriorFallback() {
	PriorFallbacksTotal.Inc()
}

// RecordQuoteEvaluation records a quote comparison.
func RecordQuoteEvaluation(isValueBet bool) {
	label := "false"
	if isValueBet {
		label = "true"
	}
	QuoteEvaluationsTotal.WithLabelValues(label).Inc()
}

// RecordCacheLookup records a stat cache lookup and the running hit ratio.
func RecordCacheLookup(hit bool, ratio float64) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(result).Inc()
	CacheHitRatio.Set(ratio)
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}
