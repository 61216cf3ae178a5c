package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMetrics struct {
	noopMetrics
	endpoints []string
	statuses  []int
	durations int
}

func (r *recordingMetrics) IncRequestsTotal(endpoint string, status int) {
	r.endpoints = append(r.endpoints, endpoint)
	r.statuses = append(r.statuses, status)
}

func (r *recordingMetrics) ObserveRequestDuration(_ string, _ time.Duration) {
	r.durations++
}

func TestMetricsMiddleware_RecordsEndpointAndStatus(t *testing.T) {
	metrics := &recordingMetrics{}
	handler := MetricsMiddleware(metrics, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/snapshot", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, metrics.statuses, 1)
	assert.Equal(t, "/snapshot", metrics.endpoints[0])
	assert.Equal(t, http.StatusTeapot, metrics.statuses[0])
	assert.Equal(t, 1, metrics.durations)
}

func TestMetricsMiddleware_DefaultsTo200(t *testing.T) {
	metrics := &recordingMetrics{}
	handler := MetricsMiddleware(metrics, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, metrics.statuses, 1)
	assert.Equal(t, http.StatusOK, metrics.statuses[0])
}

func TestHttpStatusBucket(t *testing.T) {
	assert.Equal(t, "1xx", httpStatusBucket(101))
	assert.Equal(t, "2xx", httpStatusBucket(201))
	assert.Equal(t, "3xx", httpStatusBucket(302))
	assert.Equal(t, "4xx", httpStatusBucket(422))
	assert.Equal(t, "5xx", httpStatusBucket(503))
}
