package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/web-ordering-backend/config"
	"github.com/ikkim/web-ordering-backend/internal/app/controller"
	"github.com/ikkim/web-ordering-backend/internal/middleware"
	"github.com/ikkim/web-ordering-backend/pkg/logger"
	"github.com/ikkim/web-ordering-backend/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func setupRouter(t *testing.T, gatherer prometheus.Gatherer) *gin.Engine {
	t.Helper()
	logger.Initialize(logger.Config{Level: "warn", Output: io.Discard})

	cfg := &config.Config{}
	cfg.Server.GinMode = gin.TestMode
	cfg.CORS.AllowedOrigins = []string{"http://localhost:3000"}

	// 세션 없는 요청은 컨트롤러까지 가지 않는다
	r := NewRouter(
		controller.NewSessionController(nil),
		controller.NewCatalogController(nil),
		controller.NewCustomizationController(nil),
		controller.NewCartController(nil),
		controller.NewCheckoutController(nil),
		controller.NewOrderController(nil),
		controller.NewEventsController(nil, cfg.CORS.AllowedOrigins),
		middleware.NewSessionMiddleware("test-secret", nil),
		gatherer,
		cfg,
	)
	return r.Setup()
}

func TestHealth(t *testing.T) {
	engine := setupRouter(t, nil)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewOrderingMetrics(reg)
	engine := setupRouter(t, reg)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "customization_sessions_active")
}

func TestMetricsEndpoint_Disabled(t *testing.T) {
	engine := setupRouter(t, nil)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionRoutesRequireToken(t *testing.T) {
	engine := setupRouter(t, nil)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodDelete, "/api/v1/cart"},
		{http.MethodPut, "/api/v1/cart/items/abc"},
		{http.MethodPost, "/api/v1/customizations"},
		{http.MethodPost, "/api/v1/customizations/abc/confirm"},
		{http.MethodPost, "/api/v1/checkout"},
		{http.MethodGet, "/api/v1/orders"},
		{http.MethodGet, "/api/v1/orders/abc"},
		{http.MethodDelete, "/api/v1/sessions/current"},
		{http.MethodGet, "/api/v1/events"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	engine := setupRouter(t, nil)

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/menu", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/menu", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
