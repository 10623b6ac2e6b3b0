package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	processTotal     *prometheus.CounterVec
	processDuration  *prometheus.HistogramVec
	processInFlight  prometheus.Gauge
	placeholderTotal prometheus.Counter
	codesPerNote     prometheus.Histogram
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ucp",
			Subsystem: "worker",
			Name:      "note_process_total",
			Help:      "Total processed SOAP notes by status.",
		},
		[]string{"service", "status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ucp",
			Subsystem: "worker",
			Name:      "note_process_duration_seconds",
			Help:      "Note processing duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ucp",
			Subsystem: "worker",
			Name:      "note_process_in_flight",
			Help:      "Number of in-flight note processing tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	placeholderTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ucp",
			Subsystem: "worker",
			Name:      "placeholder_records_total",
			Help:      "Notes archived as error placeholders instead of coded records.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	codesPerNote := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ucp",
			Subsystem: "worker",
			Name:      "final_codes_per_note",
			Help:      "Number of final CPT codes selected per note.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 7, 10},
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(processTotal, processDuration, processInFlight, placeholderTotal, codesPerNote)

	return &WorkerMetrics{
		registry:         registry,
		processTotal:     processTotal,
		processDuration:  processDuration,
		processInFlight:  processInFlight,
		placeholderTotal: placeholderTotal,
		codesPerNote:     codesPerNote,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartNote() {
	m.processInFlight.Inc()
}

func (m *WorkerMetrics) FinishNote(service string, duration time.Duration, err error) {
	m.processInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.processTotal.WithLabelValues(service, status).Inc()
	m.processDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) RecordPlaceholder() {
	m.placeholderTotal.Inc()
}

func (m *WorkerMetrics) ObserveFinalCodes(count int) {
	m.codesPerNote.Observe(float64(count))
}
