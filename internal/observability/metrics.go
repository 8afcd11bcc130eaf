package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	basecache "github.com/riskibarqy/bet-pool/internal/platform/cache"
)

const metricsNamespace = "bet_pool"

// Metrics owns the service's Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	scoringTotal    *prometheus.CounterVec
	scoringDuration *prometheus.HistogramVec
	betsScored      prometheus.Counter
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		scoringTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "scoring",
			Name:      "submissions_total",
			Help:      "Score submissions by outcome.",
		}, []string{"outcome"}),
		scoringDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "scoring",
			Name:      "duration_seconds",
			Help:      "Time spent in the scoring transaction.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		betsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "scoring",
			Name:      "bets_scored_total",
			Help:      "Bets that received points from a committed scoring transaction.",
		}),
	}
	registry.MustRegister(m.scoringTotal, m.scoringDuration, m.betsScored)

	return m
}

// ObserveScoring records one score submission.
func (m *Metrics) ObserveScoring(outcome string, betsScored int, elapsed time.Duration) {
	m.scoringTotal.WithLabelValues(outcome).Inc()
	m.scoringDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	if betsScored > 0 {
		m.betsScored.Add(float64(betsScored))
	}
}

// RegisterCacheStats exposes hit and miss counters of a read cache.
func (m *Metrics) RegisterCacheStats(name string, store *basecache.Store) {
	labels := prometheus.Labels{"cache": name}
	m.registry.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Subsystem:   "cache",
			Name:        "hits_total",
			Help:        "Cache lookups served from memory.",
			ConstLabels: labels,
		}, func() float64 { return float64(store.Stats().Hits) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Subsystem:   "cache",
			Name:        "misses_total",
			Help:        "Cache lookups that went to the backing repository.",
			ConstLabels: labels,
		}, func() float64 { return float64(store.Stats().Misses) }),
	)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
