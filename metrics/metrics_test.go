package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestMiddlewareLabelsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/ping/:id", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping/abc", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	body := scrape(t)
	assert.Contains(t, body, `http_requests_total{method="GET",path="/ping/:id",status="200"}`)
	assert.Contains(t, body, `http_requests_total{method="GET",path="unmatched",status="404"}`)
	assert.Contains(t, body, `http_request_duration_seconds_bucket{method="GET",path="/ping/:id",status="200"`)
	assert.NotContains(t, body, `path="/ping/abc"`)
}

func TestHandlerExposesDomainCounters(t *testing.T) {
	PackChecksCreated.Inc()
	ScanOutsCreated.WithLabelValues("true").Inc()
	DeliveryReminders.WithLabelValues("sent").Inc()

	body := scrape(t)
	assert.Contains(t, body, "pillflow_pack_checks_created_total")
	assert.Contains(t, body, `pillflow_scan_outs_created_total{checked="true"}`)
	assert.Contains(t, body, `pillflow_delivery_reminders_total{status="sent"}`)
}
