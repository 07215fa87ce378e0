package metrics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Gauges
var (
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tonemix_queue_depth",
		Help: "Number of chunks waiting in the work queue",
	})
	ActiveProducers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tonemix_active_producers",
		Help: "Number of tone producers currently generating",
	})
)

// Counters
var (
	ChunksPushedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tonemix_chunks_pushed_total",
		Help: "Total chunks pushed by producers",
	})
	ChunksConsumedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tonemix_chunks_consumed_total",
		Help: "Total chunks taken by the consumer",
	})
	SamplesGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tonemix_samples_generated_total",
		Help: "Total sine samples generated across all tones",
	})
	BytesWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tonemix_pcm_bytes_written_total",
		Help: "Total PCM bytes written to the output sink",
	})
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tonemix_runs_total",
		Help: "Total synthesis runs by outcome",
	}, []string{"outcome"})
	NormalizationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tonemix_normalizations_total",
		Help: "Total runs whose mix exceeded the peak and was scaled",
	})
)

// Histograms
var (
	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tonemix_stage_duration_seconds",
		Help:    "Duration of pipeline stages in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"stage"})
)

// Handler exposes the default registry on /metrics and a liveness probe on
// /healthz.
func Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
