// Package metrics exposes Prometheus instrumentation for the
// reconciliation loop and the DNS write path.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	registry *prometheus.Registry

	TicksTotal        *prometheus.CounterVec
	IPChangesTotal    prometheus.Counter
	ResolveErrors     prometheus.Counter
	UpdatesTotal      *prometheus.CounterVec
	AutoDisablesTotal prometheus.Counter
	TickDuration      prometheus.Histogram
}

// New builds the metric set on its own registry so instrumentation is
// injected rather than living in process globals.
func New() (m *Metrics, err error) {
	m = &Metrics{
		registry: prometheus.NewRegistry(),
		TicksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flarewatcher_ticks_total",
			Help: "Total number of reconciliation ticks, by kind",
		}, []string{"kind"}),
		IPChangesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flarewatcher_ip_changes_total",
			Help: "Total number of public IP changes detected",
		}),
		ResolveErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flarewatcher_ip_resolve_errors_total",
			Help: "Total number of failed public IP resolutions",
		}),
		UpdatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flarewatcher_dns_updates_total",
			Help: "Total number of DNS write attempts, by trigger and status",
		}, []string{"trigger", "status"}),
		AutoDisablesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flarewatcher_auto_disables_total",
			Help: "Total number of records removed from monitoring after auto-update failures",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "flarewatcher_tick_duration_seconds",
			Help:    "Histogram of reconciliation tick duration",
			Buckets: prometheus.DefBuckets,
		}),
	}

	collectors := []prometheus.Collector{
		m.TicksTotal, m.IPChangesTotal, m.ResolveErrors,
		m.UpdatesTotal, m.AutoDisablesTotal, m.TickDuration,
	}
	for _, collector := range collectors {
		err = m.registry.Register(collector)
		if err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Registry returns the registry to expose through an HTTP handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
