package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification module.
type Metrics struct {
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	ProviderLatency prometheus.Histogram
	Outcomes        *prometheus.CounterVec
}

// New creates a Metrics instance with all verification metrics registered.
func New() *Metrics {
	return &Metrics{
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fnsgate_verification_cache_hits_total",
			Help: "Verification requests served from the cache",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fnsgate_verification_cache_misses_total",
			Help: "Verification requests that required an upstream registry call",
		}),
		ProviderLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fnsgate_provider_request_duration_seconds",
			Help:    "Duration of outbound registry provider calls",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fnsgate_verification_outcomes_total",
			Help: "Verification outcomes by status",
		}, []string{"status"}), // status: "success", "warning", "error"
	}
}

// IncrementCacheHit records a cache hit.
func (m *Metrics) IncrementCacheHit() {
	if m != nil && m.CacheHits != nil {
		m.CacheHits.Inc()
	}
}

// IncrementCacheMiss records a cache miss.
func (m *Metrics) IncrementCacheMiss() {
	if m != nil && m.CacheMisses != nil {
		m.CacheMisses.Inc()
	}
}

// ObserveProviderLatency records the duration of one provider call.
func (m *Metrics) ObserveProviderLatency(d time.Duration) {
	if m != nil && m.ProviderLatency != nil {
		m.ProviderLatency.Observe(d.Seconds())
	}
}

// IncrementOutcome records a verification outcome.
func (m *Metrics) IncrementOutcome(status string) {
	if m != nil && m.Outcomes != nil {
		m.Outcomes.WithLabelValues(status).Inc()
	}
}
