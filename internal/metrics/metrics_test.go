package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/hubspot-oauth-quickstart/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := metrics.New()
	m.ObserveExchange("refresh_token", metrics.OutcomeSuccess)
	m.ObserveExchange("refresh_token", metrics.OutcomeSuccess)
	m.ObserveCache(true)
	m.ObserveCache(false)
	m.ObserveAPICall("get_contact", http.StatusOK)

	count, err := testutil.GatherAndCount(m.Registry(),
		"quickstart_token_exchanges_total",
		"quickstart_access_token_cache_total",
		"quickstart_api_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveExchange("authorization_code", metrics.OutcomeFailure)
		m.ObserveCache(true)
		m.ObserveAPICall("create_page", 0)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.ObserveCache(true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `quickstart_access_token_cache_total{result="hit"} 1`)
}
