// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Discovery metrics
	TokensDiscovered prometheus.Counter

	// Screening metrics
	TokensEvaluated   prometheus.Counter
	EvaluationErrors  prometheus.Counter
	Graduations       prometheus.Counter
	Demotions         prometheus.Counter
	FilterVerdicts    *prometheus.CounterVec
	CycleDuration     prometheus.Histogram
	TrackedTokens     prometheus.Gauge
	GraduatedTokens   prometheus.Gauge

	// Oracle metrics
	SecurityFetches     prometheus.Counter
	SecurityFetchErrors prometheus.Counter
	APICallLatency      *prometheus.HistogramVec

	// Paper trading metrics
	PositionsOpened prometheus.Counter
	PositionsClosed *prometheus.CounterVec
	RealizedPnLUSD  prometheus.Gauge
	PaperBalanceUSD prometheus.Gauge

	// Health metrics
	LastSuccessfulCycle prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "rugscreen"
	}

	return &Metrics{
		// Discovery metrics
		TokensDiscovered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "tokens_discovered_total",
			Help:      "Total number of newly tracked tokens",
		}),

		// Screening metrics
		TokensEvaluated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "screening",
			Name:      "tokens_evaluated_total",
			Help:      "Total number of per-token evaluations completed",
		}),
		EvaluationErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "screening",
			Name:      "evaluation_errors_total",
			Help:      "Total number of per-token evaluations that failed",
		}),
		Graduations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "screening",
			Name:      "graduations_total",
			Help:      "Total number of tokens graduated to the watchlist",
		}),
		Demotions: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "screening",
			Name:      "demotions_total",
			Help:      "Total number of graduated tokens demoted",
		}),
		FilterVerdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "screening",
			Name:      "filter_verdicts_total",
			Help:      "Total number of filter verdicts by status",
		}, []string{"status"}),
		CycleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "screening",
			Name:      "cycle_duration_seconds",
			Help:      "Screening cycle duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		TrackedTokens: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "screening",
			Name:      "tracked_tokens",
			Help:      "Number of tokens currently tracked",
		}),
		GraduatedTokens: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "screening",
			Name:      "graduated_tokens",
			Help:      "Number of tokens currently on the graduated watchlist",
		}),

		// Oracle metrics
		SecurityFetches: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "security_fetches_total",
			Help:      "Total number of security profile fetches",
		}),
		SecurityFetchErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "security_fetch_errors_total",
			Help:      "Total number of failed security profile fetches",
		}),
		APICallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "api_call_latency_seconds",
			Help:      "Upstream API call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"api"}),

		// Paper trading metrics
		PositionsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "paper",
			Name:      "positions_opened_total",
			Help:      "Total number of paper positions opened",
		}),
		PositionsClosed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "paper",
			Name:      "positions_closed_total",
			Help:      "Total number of paper positions closed by exit reason",
		}, []string{"reason"}),
		RealizedPnLUSD: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "paper",
			Name:      "realized_pnl_usd",
			Help:      "Cumulative realized paper P&L in USD",
		}),
		PaperBalanceUSD: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "paper",
			Name:      "balance_usd",
			Help:      "Current free paper trading balance in USD",
		}),

		// Health metrics
		LastSuccessfulCycle: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_cycle_timestamp",
			Help:      "Unix timestamp of last successful screening cycle",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordTokenDiscovered increments the discovery counter.
func RecordTokenDiscovered() {
	DefaultMetrics.TokensDiscovered.Inc()
}

// RecordEvaluation records one completed evaluation and its verdict.
func RecordEvaluation(status string) {
	DefaultMetrics.TokensEvaluated.Inc()
	DefaultMetrics.FilterVerdicts.WithLabelValues(status).Inc()
}

// RecordEvaluationError increments the failed evaluation counter.
func RecordEvaluationError() {
	DefaultMetrics.EvaluationErrors.Inc()
}

// RecordGraduation increments the graduation counter.
func RecordGraduation() {
	DefaultMetrics.Graduations.Inc()
}

// RecordDemotion increments the demotion counter.
func RecordDemotion() {
	DefaultMetrics.Demotions.Inc()
}

// RecordCycle records a completed screening cycle.
func RecordCycle(durationSeconds float64, tracked, graduated int, completedUnix int64) {
	DefaultMetrics.CycleDuration.Observe(durationSeconds)
	DefaultMetrics.TrackedTokens.Set(float64(tracked))
	DefaultMetrics.GraduatedTokens.Set(float64(graduated))
	DefaultMetrics.LastSuccessfulCycle.Set(float64(completedUnix))
}

// RecordSecurityFetch records a security profile fetch outcome.
func RecordSecurityFetch(err error) {
	DefaultMetrics.SecurityFetches.Inc()
	if err != nil {
		DefaultMetrics.SecurityFetchErrors.Inc()
	}
}

// RecordAPILatency records upstream API call latency.
func RecordAPILatency(api string, seconds float64) {
	DefaultMetrics.APICallLatency.WithLabelValues(api).Observe(seconds)
}

// RecordPositionOpened records a paper position entry.
func RecordPositionOpened(balanceUSD float64) {
	DefaultMetrics.PositionsOpened.Inc()
	DefaultMetrics.PaperBalanceUSD.Set(balanceUSD)
}

// RecordPositionClosed records a paper position exit.
func RecordPositionClosed(reason string, pnlUSD, balanceUSD float64) {
	DefaultMetrics.PositionsClosed.WithLabelValues(reason).Inc()
	DefaultMetrics.RealizedPnLUSD.Add(pnlUSD)
	DefaultMetrics.PaperBalanceUSD.Set(balanceUSD)
}
