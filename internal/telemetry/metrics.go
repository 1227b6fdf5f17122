package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the Prometheus collectors the workflow, queue, and
// extractor bank publish to. A single instance is constructed at startup and
// threaded through the activity context, following the same "construct once,
// pass explicitly" discipline as tarsy's per-worker health counters.
type Metrics struct {
	PhaseDuration     *prometheus.HistogramVec
	ActivityRetries   *prometheus.CounterVec
	BatchSize         *prometheus.HistogramVec
	WorkerPoolActive  prometheus.Gauge
	WorkerPoolIdle    prometheus.Gauge
	EntitiesExtracted *prometheus.CounterVec
	OrphansRecovered  prometheus.Counter
}

// NewMetrics registers and returns a Metrics bundle against the given
// registerer (pass prometheus.DefaultRegisterer in production, a fresh
// registry in tests).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PhaseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "knowledgepipeline",
			Name:      "phase_duration_seconds",
			Help:      "Duration of each workflow phase.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}, []string{"phase"}),
		ActivityRetries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "knowledgepipeline",
			Name:      "activity_retries_total",
			Help:      "Count of activity retry attempts by activity name.",
		}, []string{"activity"}),
		BatchSize: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "knowledgepipeline",
			Name:      "batch_size",
			Help:      "Size of parallel fan-out batches.",
			Buckets:   []float64{1, 2, 3, 5, 8, 10, 15},
		}, []string{"batch_kind"}),
		WorkerPoolActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "knowledgepipeline",
			Name:      "worker_pool_active",
			Help:      "Number of workers currently running a job.",
		}),
		WorkerPoolIdle: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "knowledgepipeline",
			Name:      "worker_pool_idle",
			Help:      "Number of idle workers in the pool.",
		}),
		EntitiesExtracted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "knowledgepipeline",
			Name:      "entities_extracted_total",
			Help:      "Count of entities persisted by kind.",
		}, []string{"kind"}),
		OrphansRecovered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "knowledgepipeline",
			Name:      "orphans_recovered_total",
			Help:      "Count of orphaned running workflows marked failed by the orphan scan.",
		}),
	}
}
