package app_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-fleet/internal/app"
	"go-fleet/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Env: config.EnvTest, RequestTimeout: 5 * time.Second},
		RateLimit: config.RateLimitConfig{Window: time.Minute, Max: 100},
	}
}

func TestNewRouter(t *testing.T) {
	r := app.NewRouter(testConfig(), zap.NewNop())

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, config.EnvTest, body["environment"])
		assert.NotEmpty(t, body["timestamp"])
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("unknown route", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"success":false,"message":"Route not found","errorKind":"NOT_FOUND"}`, w.Body.String())
	})

	t.Run("metrics", func(t *testing.T) {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "fleet_http_requests_total")
	})
}

func TestNewRouter_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Max = 2
	r := app.NewRouter(cfg, zap.NewNop())

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		codes[i] = w.Code
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
