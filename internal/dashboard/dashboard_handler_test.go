package dashboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-fleet/internal/dashboard"
	"go-fleet/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	dashboard.Service
	stats  func(ctx context.Context, tenantID string) (dashboard.StatsResponse, error)
	public func(ctx context.Context) (dashboard.PublicStats, error)
}

func (f fakeService) Stats(ctx context.Context, tenantID string) (dashboard.StatsResponse, error) {
	return f.stats(ctx, tenantID)
}

func (f fakeService) PublicStats(ctx context.Context) (dashboard.PublicStats, error) {
	return f.public(ctx)
}

func newRouter(svc dashboard.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := dashboard.NewHandler(svc)
	r := gin.New()
	r.GET("/dashboard/public-stats", h.PublicStats)
	r.GET("/dashboard/stats", func(c *gin.Context) {
		c.Set(middleware.ContextTenantID, "tenant-1")
	}, h.Stats)
	return r
}

func TestDashboardHandler_Stats(t *testing.T) {
	t.Run("envelope", func(t *testing.T) {
		svc := fakeService{stats: func(_ context.Context, tenantID string) (dashboard.StatsResponse, error) {
			assert.Equal(t, "tenant-1", tenantID)
			return dashboard.StatsResponse{Stats: expectedStats()}, nil
		}}

		w := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Success bool            `json:"success"`
			Stats   dashboard.Stats `json:"stats"`
			Charts  json.RawMessage `json:"charts"`
			Recent  json.RawMessage `json:"recent"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, expectedStats(), body.Stats)
		assert.NotEmpty(t, body.Charts)
		assert.NotEmpty(t, body.Recent)
	})

	t.Run("aggregate failure", func(t *testing.T) {
		svc := fakeService{stats: func(context.Context, string) (dashboard.StatsResponse, error) {
			return dashboard.StatsResponse{}, errors.New("db down")
		}}

		w := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})
}

func TestDashboardHandler_PublicStats(t *testing.T) {
	svc := fakeService{public: func(context.Context) (dashboard.PublicStats, error) {
		return dashboard.PublicStats{Tenants: 2, Vehicles: 9, ActiveTrips: 1}, nil
	}}

	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/public-stats", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"stats":{"tenants":2,"vehicles":9,"activeTrips":1}}`, w.Body.String())
}
