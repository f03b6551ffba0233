package tenant_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-fleet/internal/tenant"
	tenanterrors "go-fleet/internal/tenant/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeTenantService struct {
	GetCurrentFn     func(ctx context.Context, tenantID string) (tenant.TenantResponse, error)
	UpdateSettingsFn func(ctx context.Context, tenantID string, req tenant.UpdateSettingsRequest) (tenant.TenantResponse, error)
}

func (f *fakeTenantService) GetCurrent(ctx context.Context, tenantID string) (tenant.TenantResponse, error) {
	return f.GetCurrentFn(ctx, tenantID)
}

func (f *fakeTenantService) UpdateSettings(ctx context.Context, tenantID string, req tenant.UpdateSettingsRequest) (tenant.TenantResponse, error) {
	return f.UpdateSettingsFn(ctx, tenantID, req)
}

func TestTenantHandler_GetCurrent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tenantID := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		svc := &fakeTenantService{
			GetCurrentFn: func(_ context.Context, id string) (tenant.TenantResponse, error) {
				assert.Equal(t, tenantID, id)
				return tenant.TenantResponse{ID: id, Slug: "demo-fleet"}, nil
			},
		}
		h := tenant.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/tenants/me", nil)
		c.Set("tenant_id", tenantID)

		h.GetCurrent(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"success":true`)
		assert.Contains(t, w.Body.String(), "demo-fleet")
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeTenantService{
			GetCurrentFn: func(context.Context, string) (tenant.TenantResponse, error) {
				return tenant.TenantResponse{}, tenanterrors.ErrTenantNotFound
			},
		}
		h := tenant.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/tenants/me", nil)
		c.Set("tenant_id", tenantID)

		h.GetCurrent(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), `"errorKind":"NOT_FOUND"`)
	})
}

func TestTenantHandler_UpdateSettings(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid fuel unit", func(t *testing.T) {
		h := tenant.NewHandler(&fakeTenantService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/api/tenants/me/settings", strings.NewReader(`{"fuelUnit":"buckets"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("tenant_id", uuid.NewString())

		h.UpdateSettings(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_INPUT")
	})

	t.Run("success", func(t *testing.T) {
		svc := &fakeTenantService{
			UpdateSettingsFn: func(_ context.Context, _ string, req tenant.UpdateSettingsRequest) (tenant.TenantResponse, error) {
				assert.Equal(t, 15, *req.MaxDrivers)
				return tenant.TenantResponse{Settings: tenant.Settings{MaxDrivers: 15}}, nil
			},
		}
		h := tenant.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/api/tenants/me/settings", strings.NewReader(`{"maxDrivers":15}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("tenant_id", uuid.NewString())

		h.UpdateSettings(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"maxDrivers":15`)
	})
}
