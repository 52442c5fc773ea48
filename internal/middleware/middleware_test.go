package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/annel0/voxel-world/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *PrometheusMiddleware, *prometheus.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	pm := NewPrometheusMiddleware("test_api", reg)

	r := gin.New()
	r.Use(NewRequestLogger().Handler())
	r.Use(pm.Handler())
	pm.RegisterMetricsEndpoint(r, reg)

	r.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(TraceIDKey))
	})
	r.GET("/fail", func(c *gin.Context) {
		c.Status(http.StatusBadRequest)
	})
	r.GET("/chunks/:x", func(c *gin.Context) {
		c.String(http.StatusOK, strings.Repeat("v", 1000))
	})
	return r, pm, reg
}

func TestRequestLoggerSetsTraceID(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	require.Equal(t, http.StatusOK, w.Code)
	traceID := w.Header().Get("X-Trace-Id")
	assert.NotEmpty(t, traceID)
	assert.Equal(t, traceID, w.Body.String())
}

func TestPrometheusMiddlewareCountsErrors(t *testing.T) {
	r, pm, _ := newTestRouter(t)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
		require.Equal(t, http.StatusBadRequest, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, float64(2), testutil.ToFloat64(pm.reqErrors.WithLabelValues("GET", "/fail", "400")))
	assert.Equal(t, float64(0), testutil.ToFloat64(pm.reqInflight))
	assert.Equal(t, 2, testutil.CollectAndCount(pm.reqDuration))
}

func TestMetricsEndpoint(t *testing.T) {
	r, _, _ := newTestRouter(t)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "test_api_http_request_duration_seconds"))
}

func TestPrometheusMiddlewareUsesRouteTemplate(t *testing.T) {
	r, pm, _ := newTestRouter(t)

	for _, x := range []string{"1", "2", "-7"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chunks/"+x, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/no/such/route", nil))

	// Один ряд на шаблон маршрута, без координат в метках
	assert.Equal(t, 1, testutil.CollectAndCount(pm.responseSize))
	assert.Equal(t, float64(1), testutil.ToFloat64(pm.reqErrors.WithLabelValues("GET", unmatchedPath, "404")))
}

func TestRequestLoggerLevels(t *testing.T) {
	rl := NewRequestLogger("/api/stats")

	assert.Equal(t, logging.DEBUG, rl.levelFor("/health", http.StatusOK))
	assert.Equal(t, logging.DEBUG, rl.levelFor("/metrics", http.StatusOK))
	assert.Equal(t, logging.DEBUG, rl.levelFor("/api/stats", http.StatusOK))
	assert.Equal(t, logging.INFO, rl.levelFor("/api/chunks", http.StatusOK))
	assert.Equal(t, logging.WARN, rl.levelFor("/health", http.StatusNotFound))
	assert.Equal(t, logging.ERROR, rl.levelFor("/api/chunks", http.StatusInternalServerError))
}
