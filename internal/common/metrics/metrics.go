package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "homework_bot"

// Metrics holds the poll loop collectors.
type Metrics struct {
	CyclesTotal        *prometheus.CounterVec
	NotificationsTotal *prometheus.CounterVec
	CycleDuration      prometheus.Histogram
	Cursor             prometheus.Gauge
	LastSuccess        prometheus.Gauge
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CyclesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "poll_cycles_total",
				Help:      "Total number of poll cycles.",
			},
			[]string{"result"}, // ok or the fault code
		),
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Total number of chat notifications attempted.",
			},
			[]string{"kind", "result"}, // kind: status, failure
		),
		CycleDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "poll_cycle_duration_seconds",
				Help:      "Duration of poll cycles.",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		Cursor: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cursor_seconds",
				Help:      "Current from_date cursor.",
			},
		),
		LastSuccess: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last successful poll cycle.",
			},
		),
	}
}
