// Package metrics exposes prometheus counters on a private registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	Taps         *prometheus.CounterVec
	Upgrades     *prometheus.CounterVec
	AuthFailures prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Taps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tokentap_taps_total",
			Help: "Tap actions by outcome.",
		}, []string{"result"}),
		Upgrades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tokentap_upgrades_total",
			Help: "Upgrade actions by outcome.",
		}, []string{"result"}),
		AuthFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tokentap_auth_failures_total",
			Help: "Rejected credential verifications.",
		}),
	}
	m.registry.MustRegister(m.Taps, m.Upgrades, m.AuthFailures)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Outcome maps an action's applied flag to the metric label.
func Outcome(applied bool) string {
	if applied {
		return "applied"
	}
	return "skipped"
}
