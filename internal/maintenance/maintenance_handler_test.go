package maintenance_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-fleet/internal/maintenance"
	maintenanceerrors "go-fleet/internal/maintenance/errors"
	"go-fleet/internal/middleware"
	"go-fleet/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	maintenance.Service
	list   func(ctx context.Context, tenantID string, q maintenance.ListLogsQuery) ([]maintenance.LogResponse, int64, error)
	create func(ctx context.Context, caller contextutil.Principal, req maintenance.CreateLogRequest) (maintenance.LogResponse, error)
	update func(ctx context.Context, caller contextutil.Principal, id string, req maintenance.UpdateLogRequest) (maintenance.LogResponse, error)
}

func (f fakeService) List(ctx context.Context, tenantID string, q maintenance.ListLogsQuery) ([]maintenance.LogResponse, int64, error) {
	return f.list(ctx, tenantID, q)
}

func (f fakeService) Create(ctx context.Context, caller contextutil.Principal, req maintenance.CreateLogRequest) (maintenance.LogResponse, error) {
	return f.create(ctx, caller, req)
}

func (f fakeService) Update(ctx context.Context, caller contextutil.Principal, id string, req maintenance.UpdateLogRequest) (maintenance.LogResponse, error) {
	return f.update(ctx, caller, id, req)
}

func newRouter(svc maintenance.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := maintenance.NewHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextTenantID, "tenant-1")
		c.Request = c.Request.WithContext(contextutil.WithPrincipal(c.Request.Context(),
			contextutil.Principal{UserID: "user-1", TenantID: "tenant-1", Role: "manager"}))
	})
	r.GET("/maintenance", h.List)
	r.POST("/maintenance", h.Create)
	r.PUT("/maintenance/:id", h.Update)
	return r
}

func send(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestMaintenanceHandler_List(t *testing.T) {
	svc := fakeService{list: func(_ context.Context, _ string, q maintenance.ListLogsQuery) ([]maintenance.LogResponse, int64, error) {
		assert.Equal(t, maintenance.StatusScheduled, q.Status)
		assert.Equal(t, 2, q.Page)
		return []maintenance.LogResponse{{Title: "Brakes"}}, 21, nil
	}}

	w := send(newRouter(svc), http.MethodGet, "/maintenance?status=scheduled&page=2", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(2), body["pages"])
	assert.Len(t, body["logs"], 1)
}

func TestMaintenanceHandler_Create(t *testing.T) {
	t.Run("unknown type", func(t *testing.T) {
		w := send(newRouter(fakeService{}), http.MethodPost, "/maintenance", map[string]any{
			"vehicleId":     "0b7c6f0e-3a43-4c0c-9a55-6d2f5b1f9e01",
			"type":          "paint",
			"title":         "Respray",
			"scheduledDate": "2026-05-02T09:00:00Z",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_INPUT", decode(t, w)["errorKind"])
	})

	t.Run("created", func(t *testing.T) {
		svc := fakeService{create: func(_ context.Context, _ contextutil.Principal, req maintenance.CreateLogRequest) (maintenance.LogResponse, error) {
			return maintenance.LogResponse{Title: req.Title, Status: maintenance.StatusScheduled}, nil
		}}

		w := send(newRouter(svc), http.MethodPost, "/maintenance", map[string]any{
			"vehicleId":     "0b7c6f0e-3a43-4c0c-9a55-6d2f5b1f9e01",
			"type":          "brake",
			"title":         "Brake pads",
			"scheduledDate": "2026-05-02T09:00:00Z",
			"partsReplaced": []map[string]any{{"name": "Pad set", "quantity": 2, "cost": 40}},
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Maintenance log created successfully", body["message"])
		assert.Equal(t, "Brake pads", body["log"].(map[string]any)["title"])
	})
}

func TestMaintenanceHandler_Update(t *testing.T) {
	svc := fakeService{update: func(context.Context, contextutil.Principal, string, maintenance.UpdateLogRequest) (maintenance.LogResponse, error) {
		return maintenance.LogResponse{}, maintenanceerrors.ErrInvalidTransition
	}}

	w := send(newRouter(svc), http.MethodPut, "/maintenance/m-1", map[string]any{"status": "completed"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_STATE", decode(t, w)["errorKind"])
}
