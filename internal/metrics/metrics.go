// Package metrics exposes Prometheus instrumentation for recommendations,
// the LLM oracles, the HTTP API and the database.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recommendation outcomes
const (
	OutcomeRecommended    = "recommended"
	OutcomeNoCandidates   = "no_candidates"
	OutcomeBelowThreshold = "below_threshold"
	OutcomeError          = "error"
)

var (
	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meal_recommendations_total",
			Help: "Total number of recommendation requests by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	CandidatePoolSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meal_candidate_pool_size",
			Help:    "Number of candidates generated per recommendation request",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 200},
		},
		[]string{"mode"},
	)

	WinningSatisfaction = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "meal_winning_satisfaction_score",
			Help:    "Satisfaction score of recommended meals",
			Buckets: []float64{85, 87.5, 90, 92.5, 95, 97.5, 100},
		},
	)

	// Oracle Metrics
	OracleCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meal_oracle_calls_total",
			Help: "Total number of LLM oracle calls by oracle and result",
		},
		[]string{"oracle", "result"},
	)

	OracleFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meal_oracle_fallbacks_total",
			Help: "Total number of times default values replaced oracle output",
		},
		[]string{"oracle", "reason"},
	)

	OracleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meal_oracle_duration_seconds",
			Help:    "LLM oracle call duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"oracle"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "meal_oracle_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of database query errors",
		},
		[]string{"operation"},
	)
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRecommendation records one engine run. score is observed only for recommended meals.
func RecordRecommendation(mode, outcome string, poolSize int, score float64) {
	RecommendationsTotal.WithLabelValues(mode, outcome).Inc()
	if outcome == OutcomeError {
		return
	}
	CandidatePoolSize.WithLabelValues(mode).Observe(float64(poolSize))
	if outcome == OutcomeRecommended {
		WinningSatisfaction.Observe(score)
	}
}

// RecordOracleCall records the duration and result of an oracle call.
func RecordOracleCall(oracle, result string, duration time.Duration) {
	OracleCallsTotal.WithLabelValues(oracle, result).Inc()
	OracleDuration.WithLabelValues(oracle).Observe(duration.Seconds())
}

// RecordOracleFallback records that defaults replaced oracle output.
func RecordOracleFallback(oracle, reason string) {
	OracleFallbacksTotal.WithLabelValues(oracle, reason).Inc()
}

// SetCircuitBreakerState publishes a breaker state as a gauge value.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordAPIRequest records API request metrics.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRateLimitHit records a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}
