package intent

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts classification outcomes. All methods are nil-safe so the
// classifier works without a registry wired in.
type Metrics struct {
	stageHits      *prometheus.CounterVec
	oracleFailures *prometheus.CounterVec
	oracleLatency  prometheus.Histogram
}

// NewMetrics registers the classifier metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		stageHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxnav_intent_stage_hits_total",
			Help: "Classifications resolved per cascade stage.",
		}, []string{"stage"}),
		oracleFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxnav_intent_oracle_failures_total",
			Help: "Oracle calls that failed or returned an unusable shape, per stage.",
		}, []string{"stage"}),
		oracleLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voxnav_oracle_latency_seconds",
			Help:    "Latency of oracle completion calls.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) stageHit(stage string) {
	if m == nil {
		return
	}
	m.stageHits.WithLabelValues(stage).Inc()
}

func (m *Metrics) oracleFailure(stage string) {
	if m == nil {
		return
	}
	m.oracleFailures.WithLabelValues(stage).Inc()
}

func (m *Metrics) observeLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.oracleLatency.Observe(d.Seconds())
}
