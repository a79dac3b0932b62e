// Package metrics объявляет метрики Prometheus приложения.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics — набор метрик рассылки и ежедневной проверки.
type Metrics struct {
	NotificationsTotal *prometheus.CounterVec
	SendDuration       prometheus.Histogram
	SweepRunsTotal     prometheus.Counter
	SweepRecordsTotal  *prometheus.CounterVec
	SweepDuration      prometheus.Histogram
	LastSweepTimestamp prometheus.Gauge
}

// New создаёт метрики и регистрирует их в reg. nil reg — метрики не регистрируются.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		NotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agora",
			Name:      "notifications_total",
			Help:      "Notifications dispatched, by message kind and result.",
		}, []string{"kind", "result"}),
		SendDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agora",
			Name:      "notification_send_seconds",
			Help:      "Time spent in a single transport send.",
			Buckets:   prometheus.DefBuckets,
		}),
		SweepRunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agora",
			Name:      "sweep_runs_total",
			Help:      "Expiration sweeps executed.",
		}),
		SweepRecordsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agora",
			Name:      "sweep_records_total",
			Help:      "Subscriptions processed by sweeps, by outcome.",
		}, []string{"outcome"}),
		SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agora",
			Name:      "sweep_duration_seconds",
			Help:      "Duration of one expiration sweep.",
			Buckets:   prometheus.DefBuckets,
		}),
		LastSweepTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "agora",
			Name:      "sweep_last_run_timestamp_seconds",
			Help:      "Unix time of the last finished sweep.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.NotificationsTotal,
			m.SendDuration,
			m.SweepRunsTotal,
			m.SweepRecordsTotal,
			m.SweepDuration,
			m.LastSweepTimestamp,
		)
	}
	return m
}
