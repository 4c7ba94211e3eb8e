package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSubmission(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordSubmission("login", OutcomeSuccess)
	m.RecordSubmission("login", OutcomeSuccess)
	m.RecordSubmission("login", OutcomeInvalidCredentials)

	assert.InDelta(t, 2, testutil.ToFloat64(m.SubmissionsTotal.WithLabelValues("login", OutcomeSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SubmissionsTotal.WithLabelValues("login", OutcomeInvalidCredentials)), 0)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordSubmission("login", OutcomeError)
		m.RecordLocaleChange("hi")
		m.RecordRedirect("/student")
	})
}

func TestHandlerExposesPortalMetrics(t *testing.T) {
	m := NewRegistry()
	m.RecordLocaleChange("kn")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `auth_portal_locale_changes_total{locale="kn"} 1`)
}
