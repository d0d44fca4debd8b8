package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.CommentCreated(false)
	m.CommentCreated(true)
	m.CommentCreated(true)
	m.CommentDeleted("erased")
	m.CommentReported("spam")
	m.TombstonesSwept(3)
	m.TombstonesSwept(0)
	m.PanicRecovered("GET /health")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.commentsCreated.WithLabelValues("comment")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.commentsCreated.WithLabelValues("reply")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commentsDeleted.WithLabelValues("erased")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reportsFiled.WithLabelValues("spam")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.tombstonesSwept))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.panics.WithLabelValues("GET /health")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.CommentCreated(true)
		m.CommentDeleted("tombstoned")
		m.CommentReported("other")
		m.TombstonesSwept(1)
		m.ObserveRequest("GET", "/health", 200, time.Millisecond)
		m.PanicRecovered("unmatched")
	})
}

func TestHandler_ExposesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveRequest("GET", "GET /health", http.StatusOK, 5*time.Millisecond)
	m.CommentCreated(false)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "launchit_comments_created_total"))
	assert.True(t, strings.Contains(body, "launchit_http_request_duration_seconds_bucket"))
}
