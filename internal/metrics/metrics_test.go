package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveDistributionCountsOutcomes(t *testing.T) {
	r := New()

	r.ObserveDistribution(OutcomeExact, 3)
	r.ObserveDistribution(OutcomeExact, 0)
	r.ObserveDistribution(OutcomeInfeasibleLow, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.distributions.WithLabelValues(OutcomeExact)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.distributions.WithLabelValues(OutcomeInfeasibleLow)))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.distributions.WithLabelValues(OutcomeExhausted)))
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.ObserveDistribution(OutcomeExact, 1)
	r.ObserveAlternatives(1, 1)
	r.ObserveRequest(http.MethodGet, "GET /api/health", http.StatusOK, time.Millisecond)
}

func TestObserveRequestLabelsRoute(t *testing.T) {
	r := New()

	r.ObserveRequest(http.MethodPost, "POST /api/distributions", http.StatusOK, 5*time.Millisecond)
	r.ObserveRequest(http.MethodPost, "POST /api/distributions", http.StatusUnprocessableEntity, time.Millisecond)
	r.ObserveRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues(http.MethodPost, "POST /api/distributions", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues(http.MethodPost, "POST /api/distributions", "422")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues(http.MethodGet, "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.requestDuration))
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := New()
	r.ObserveDistribution(OutcomeExhausted, 1000)
	r.ObserveAlternatives(2, 100)
	r.ObserveRequest(http.MethodGet, "GET /api/health", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, name := range []string{
		"coupon_distributions_total",
		"coupon_adjustment_rounds",
		"coupon_alternatives_found",
		"coupon_alternative_attempts",
		"coupon_http_requests_total",
	} {
		assert.True(t, strings.Contains(body, name), "expected %s in exposition", name)
	}
}

func TestRecordersDoNotShareRegistries(t *testing.T) {
	a, b := New(), New()
	require.NotSame(t, a.Registry(), b.Registry())
}
