package user_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-fleet/internal/shared/contextutil"
	"go-fleet/internal/user"
	usererrors "go-fleet/internal/user/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	list   func(ctx context.Context, tenantID string, q user.ListUsersQuery) ([]user.UserResponse, int64, error)
	get    func(ctx context.Context, tenantID, id string) (user.UserResponse, error)
	update func(ctx context.Context, caller contextutil.Principal, id string, req user.UpdateUserRequest) (user.UserResponse, error)
}

func (f fakeService) List(ctx context.Context, tenantID string, q user.ListUsersQuery) ([]user.UserResponse, int64, error) {
	return f.list(ctx, tenantID, q)
}

func (f fakeService) GetByID(ctx context.Context, tenantID, id string) (user.UserResponse, error) {
	return f.get(ctx, tenantID, id)
}

func (f fakeService) Update(ctx context.Context, caller contextutil.Principal, id string, req user.UpdateUserRequest) (user.UserResponse, error) {
	return f.update(ctx, caller, id, req)
}

func newRouter(svc user.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := user.NewHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("tenant_id", "tenant-1")
		p := contextutil.Principal{UserID: "caller-1", TenantID: "tenant-1", Role: "admin"}
		c.Request = c.Request.WithContext(contextutil.WithPrincipal(c.Request.Context(), p))
	})
	r.GET("/users", h.List)
	r.GET("/users/:id", h.GetByID)
	r.PATCH("/users/:id", h.Update)
	return r
}

func TestUserHandler_List(t *testing.T) {
	var got user.ListUsersQuery
	svc := fakeService{list: func(_ context.Context, tenantID string, q user.ListUsersQuery) ([]user.UserResponse, int64, error) {
		assert.Equal(t, "tenant-1", tenantID)
		got = q
		return []user.UserResponse{{ID: "u1"}}, 41, nil
	}}

	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users?page=3&limit=20&role=driver", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.ListUsersQuery{Page: 3, Limit: 20, Role: "driver"}, got)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, float64(41), body["total"])
	assert.Equal(t, float64(3), body["pages"])
}

func TestUserHandler_GetByID_NotFound(t *testing.T) {
	svc := fakeService{get: func(context.Context, string, string) (user.UserResponse, error) {
		return user.UserResponse{}, usererrors.ErrUserNotFound
	}}

	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/x", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"User not found","errorKind":"NOT_FOUND"}`, w.Body.String())
}

func TestUserHandler_Update(t *testing.T) {
	t.Run("passes caller from context", func(t *testing.T) {
		svc := fakeService{update: func(_ context.Context, caller contextutil.Principal, id string, req user.UpdateUserRequest) (user.UserResponse, error) {
			assert.Equal(t, "caller-1", caller.UserID)
			assert.Equal(t, "u-2", id)
			assert.False(t, *req.IsActive)
			return user.UserResponse{ID: id, IsActive: false}, nil
		}}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/users/u-2", bytes.NewBufferString(`{"isActive":false}`))
		req.Header.Set("Content-Type", "application/json")
		newRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/users/u-2", bytes.NewBufferString(`{"role":"owner"}`))
		req.Header.Set("Content-Type", "application/json")
		newRouter(fakeService{}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_INPUT")
	})
}
