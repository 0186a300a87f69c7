package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus metrics for the risk engine.
type Collector struct {
	registry *prometheus.Registry

	EvalDuration    *prometheus.HistogramVec
	CacheHits       *prometheus.CounterVec
	CacheMisses     *prometheus.CounterVec
	DegradedEvals   *prometheus.CounterVec
	ToggleFlips     *prometheus.CounterVec
	CoalitionEvents *prometheus.CounterVec
	TopicRisk       *prometheus.GaugeVec
}

// NewCollector registers all engine metrics on a private registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		EvalDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "syncrun_evaluation_duration_seconds",
				Help:    "Duration of topic risk evaluations",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"topic", "mode"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "syncrun_cache_hits_total",
				Help: "Evaluation cache hits per topic",
			},
			[]string{"topic"},
		),
		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "syncrun_cache_misses_total",
				Help: "Evaluation cache misses per topic",
			},
			[]string{"topic"},
		),
		DegradedEvals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "syncrun_degraded_contributions_total",
				Help: "Contributions served from a provider's deterministic fallback",
			},
			[]string{"signal"},
		),
		ToggleFlips: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "syncrun_toggle_mutations_total",
				Help: "What-if toggle state mutations per topic",
			},
			[]string{"topic"},
		),
		CoalitionEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "syncrun_coalition_events_total",
				Help: "Coalition mutations by event kind",
			},
			[]string{"kind"},
		),
		TopicRisk: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "syncrun_topic_final_risk",
				Help: "Most recently computed final risk per topic",
			},
			[]string{"topic"},
		),
	}

	c.registry.MustRegister(
		c.EvalDuration, c.CacheHits, c.CacheMisses,
		c.DegradedEvals, c.ToggleFlips, c.CoalitionEvents, c.TopicRisk,
	)
	return c
}

// Handler serves the registry for the /metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
