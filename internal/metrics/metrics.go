// Package metrics exposes Prometheus counters for the auth portal.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes.
const (
	OutcomeSuccess            = "success"
	OutcomeValidationError    = "validation_error"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeUserAlreadyExists  = "user_already_exists"
	OutcomeResetTokenInvalid  = "reset_token_invalid"
	OutcomeRejected           = "rejected"
	OutcomeError              = "error"
)

// Metrics contains the auth portal's Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	SubmissionsTotal   *prometheus.CounterVec
	LocaleChangesTotal *prometheus.CounterVec
	RedirectsTotal     *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates and registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SubmissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_portal_submissions_total",
				Help: "Total number of form submissions by form and outcome",
			},
			[]string{"form", "outcome"},
		),
		LocaleChangesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_portal_locale_changes_total",
				Help: "Total number of language switches by target locale",
			},
			[]string{"locale"},
		),
		RedirectsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_portal_role_redirects_total",
				Help: "Total number of post sign-in redirects by role area",
			},
			[]string{"path"},
		),
	}

	reg.MustRegister(m.SubmissionsTotal)
	reg.MustRegister(m.LocaleChangesTotal)
	reg.MustRegister(m.RedirectsTotal)

	return m
}

// NewRegistry creates a registry with the Go and process collectors plus the portal metrics.
func NewRegistry() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := NewMetrics(registry)
	m.registry = registry
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordSubmission counts one submission of form with the given outcome.
func (m *Metrics) RecordSubmission(form, outcome string) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(form, outcome).Inc()
}

// RecordLocaleChange counts a switch to locale.
func (m *Metrics) RecordLocaleChange(locale string) {
	if m == nil {
		return
	}
	m.LocaleChangesTotal.WithLabelValues(locale).Inc()
}

// RecordRedirect counts a role redirect to path.
func (m *Metrics) RecordRedirect(path string) {
	if m == nil {
		return
	}
	m.RedirectsTotal.WithLabelValues(path).Inc()
}
