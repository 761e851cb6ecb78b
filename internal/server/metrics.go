package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tartampluch/go-birthday-web/internal/config"
)

// Metrics holds the Prometheus collectors of one server.
// Each server owns its registry so tests can build several side by side.
type Metrics struct {
	registry *prometheus.Registry

	UsersRegistered  prometheus.Counter
	LoginFailures    prometheus.Counter
	BirthdaysCreated prometheus.Counter
	BirthdaysUpdated prometheus.Counter
	BirthdaysDeleted prometheus.Counter
	ParseFailures    prometheus.Counter
	VCardsImported   prometheus.Counter
	RequestDuration  *prometheus.HistogramVec
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		UsersRegistered: f.NewCounter(prometheus.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricUsersRegistered,
			Help:      config.HelpUsersRegistered,
		}),
		LoginFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricLoginFailures,
			Help:      config.HelpLoginFailures,
		}),
		BirthdaysCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricBirthdaysCreated,
			Help:      config.HelpBirthdaysCreated,
		}),
		BirthdaysUpdated: f.NewCounter(prometheus.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricBirthdaysUpdated,
			Help:      config.HelpBirthdaysUpdated,
		}),
		BirthdaysDeleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricBirthdaysDeleted,
			Help:      config.HelpBirthdaysDeleted,
		}),
		ParseFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricParseFailures,
			Help:      config.HelpParseFailures,
		}),
		VCardsImported: f.NewCounter(prometheus.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricVCardsImported,
			Help:      config.HelpVCardsImported,
		}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricRequestDuration,
			Help:      config.HelpRequestDuration,
			Buckets:   prometheus.DefBuckets,
		}, []string{config.MetricLabelRoute}),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
