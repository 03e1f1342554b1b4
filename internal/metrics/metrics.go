// Package metrics defines the Prometheus instruments exported by hf serve.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Path labels for Recorded.
const (
	PathNow      = "now"
	PathBackfill = "backfill"
	PathImport   = "import"
)

// Metrics holds the hf instruments.
type Metrics struct {
	// counters
	Recorded     *prometheus.CounterVec
	SaveFailures prometheus.Counter
	Requests     *prometheus.CounterVec

	// gauges
	Days              prometheus.Gauge
	PersistenceBroken prometheus.Gauge
}

// New registers the instruments with reg.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Recorded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exercises_recorded_total",
			Help:      "The total number of exercises recorded, by record path",
		}, []string{"path"}),
		SaveFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "save_failures_total",
			Help:      "The total number of failed history saves",
		}),
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "The total number of API requests",
		}, []string{"method", "status"}),
		Days: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_days",
			Help:      "Number of exercise days currently held in history",
		}),
		PersistenceBroken: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "persistence_broken",
			Help:      "1 when the history file could not be loaded",
		}),
	}
}

// NewTest returns Metrics bound to a fresh registry.
func NewTest() (*Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return New("hf", reg), reg
}
