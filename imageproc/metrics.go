package imageproc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors a Processor reports to.
type Metrics struct {
	Operations  *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	OutputBytes *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Operations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imageproc_operations_total",
				Help: "Image operations by kind and result code",
			},
			[]string{"op", "code"},
		),
		Duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "imageproc_operation_duration_seconds",
				Help:    "Image operation latency",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"op"},
		),
		OutputBytes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imageproc_output_bytes_total",
				Help: "Encoded JPEG bytes produced",
			},
			[]string{"op"},
		),
	}
}

func (m *Metrics) observe(op string, start time.Time, outBytes int, err error) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(op, CodeOf(err).String()).Inc()
	m.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err == nil && outBytes > 0 {
		m.OutputBytes.WithLabelValues(op).Add(float64(outBytes))
	}
}
