// Package metrics collects and exposes Prometheus metrics for the
// portal's auth and upload paths.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector counts sign-in attempts, role lookups, and upload outcomes.
type Collector struct {
	signInSuccess prometheus.Counter
	signInFail    prometheus.Counter
	roleLookups   *prometheus.CounterVec
	uploads       *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signInSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "caseport_sign_in_success_total",
			Help: "Total successful sign-ins.",
		}),
		signInFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "caseport_sign_in_fail_total",
			Help: "Total rejected sign-ins.",
		}),
		roleLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "caseport_role_lookups_total",
			Help: "Role resolutions by outcome.",
		}, []string{"outcome"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "caseport_uploads_total",
			Help: "Upload attempts by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.signInSuccess,
		c.signInFail,
		c.roleLookups,
		c.uploads,
	)

	return c
}

// RecordSignIn records one sign-in attempt.
func (c *Collector) RecordSignIn(success bool) {
	if success {
		c.signInSuccess.Inc()
		return
	}
	c.signInFail.Inc()
}

// RecordRoleLookup records one role resolution with the given outcome.
func (c *Collector) RecordRoleLookup(outcome string) {
	c.roleLookups.WithLabelValues(outcome).Inc()
}

// RecordUpload records one upload attempt with the given outcome.
func (c *Collector) RecordUpload(outcome string) {
	c.uploads.WithLabelValues(outcome).Inc()
}

// Handler returns the HTTP handler Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
