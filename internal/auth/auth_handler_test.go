package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-fleet/internal/auth"
	autherrors "go-fleet/internal/auth/errors"
	"go-fleet/internal/shared/contextutil"
	"go-fleet/internal/tenant"
	"go-fleet/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	registerTenant func(ctx context.Context, req auth.RegisterTenantRequest) (auth.AuthResult, error)
	login          func(ctx context.Context, req auth.LoginRequest) (auth.AuthResult, error)
	me             func(ctx context.Context, caller contextutil.Principal) (auth.MeResponse, error)
	registerUser   func(ctx context.Context, caller contextutil.Principal, req auth.RegisterUserRequest) (user.UserResponse, error)
}

func (f fakeService) RegisterTenant(ctx context.Context, req auth.RegisterTenantRequest) (auth.AuthResult, error) {
	return f.registerTenant(ctx, req)
}

func (f fakeService) Login(ctx context.Context, req auth.LoginRequest) (auth.AuthResult, error) {
	return f.login(ctx, req)
}

func (f fakeService) Me(ctx context.Context, caller contextutil.Principal) (auth.MeResponse, error) {
	return f.me(ctx, caller)
}

func (f fakeService) RegisterUser(ctx context.Context, caller contextutil.Principal, req auth.RegisterUserRequest) (user.UserResponse, error) {
	return f.registerUser(ctx, caller, req)
}

func newAuthRouter(svc auth.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := auth.NewHandler(svc, false)
	r := gin.New()
	r.POST("/auth/register-tenant", h.RegisterTenant)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)

	protected := r.Group("/auth", func(c *gin.Context) {
		p := contextutil.Principal{UserID: "admin-1", TenantID: "tenant-1", Role: "admin"}
		c.Request = c.Request.WithContext(contextutil.WithPrincipal(c.Request.Context(), p))
	})
	protected.GET("/me", h.Me)
	protected.POST("/register-user", h.RegisterUser)
	return r
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func tokenCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}

func TestAuthHandler_RegisterTenant(t *testing.T) {
	svc := fakeService{registerTenant: func(_ context.Context, req auth.RegisterTenantRequest) (auth.AuthResult, error) {
		assert.Equal(t, "Acme", req.CompanyName)
		return auth.AuthResult{
			Token:     "jwt",
			ExpiresAt: time.Now().Add(time.Hour),
			User:      user.UserResponse{ID: "u1", Role: "admin"},
			Tenant:    tenant.TenantResponse{ID: "t1", Slug: "acme-1"},
		}, nil
	}}

	w := postJSON(newAuthRouter(svc), "/auth/register-tenant", map[string]any{
		"companyName": "Acme",
		"email":       "ops@acme.io",
		"name":        "Ada",
		"password":    "password123",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "jwt", body["token"])
	assert.Equal(t, "acme-1", body["tenant"].(map[string]any)["slug"])

	c := tokenCookie(w)
	require.NotNil(t, c)
	assert.Equal(t, "jwt", c.Value)
	assert.True(t, c.HttpOnly)
}

func TestAuthHandler_RegisterTenant_Validation(t *testing.T) {
	w := postJSON(newAuthRouter(fakeService{}), "/auth/register-tenant", map[string]any{
		"companyName": "Acme",
		"email":       "ops@acme.io",
		"name":        "Ada",
		"password":    "123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "INVALID_INPUT", body["errorKind"])
	assert.Equal(t, "Password must be at least 6", body["message"])
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"success", nil, http.StatusOK, ""},
		{"bad credentials", autherrors.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"deactivated", autherrors.ErrAccountDeactivated, http.StatusUnauthorized, "ACCOUNT_DEACTIVATED"},
		{"ambiguous", autherrors.ErrAmbiguousTenant, http.StatusBadRequest, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := fakeService{login: func(_ context.Context, req auth.LoginRequest) (auth.AuthResult, error) {
				assert.Equal(t, "acme", req.TenantSlug)
				if tt.err != nil {
					return auth.AuthResult{}, tt.err
				}
				return auth.AuthResult{Token: "jwt", ExpiresAt: time.Now().Add(time.Hour)}, nil
			}}

			w := postJSON(newAuthRouter(svc), "/auth/login", map[string]any{
				"email": "a@b.io", "password": "pw", "tenantSlug": "acme",
			})

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeBody(t, w)
			if tt.wantKind == "" {
				assert.Equal(t, "Login successful", body["message"])
				assert.NotNil(t, tokenCookie(w))
				return
			}
			assert.Equal(t, tt.wantKind, body["errorKind"])
			assert.Nil(t, tokenCookie(w))
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	w := postJSON(newAuthRouter(fakeService{}), "/auth/logout", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	c := tokenCookie(w)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Negative(t, c.MaxAge)
}

func TestAuthHandler_Me(t *testing.T) {
	svc := fakeService{me: func(_ context.Context, caller contextutil.Principal) (auth.MeResponse, error) {
		assert.Equal(t, "admin-1", caller.UserID)
		return auth.MeResponse{User: user.UserResponse{ID: "admin-1"}, Tenant: tenant.TenantResponse{ID: "tenant-1"}}, nil
	}}

	w := httptest.NewRecorder()
	newAuthRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "admin-1", body["user"].(map[string]any)["id"])
	assert.Equal(t, "tenant-1", body["tenant"].(map[string]any)["id"])
}

func TestAuthHandler_RegisterUser(t *testing.T) {
	svc := fakeService{registerUser: func(_ context.Context, caller contextutil.Principal, req auth.RegisterUserRequest) (user.UserResponse, error) {
		assert.Equal(t, "tenant-1", caller.TenantID)
		assert.Equal(t, "manager", req.Role)
		return user.UserResponse{ID: "u2", Role: "manager"}, nil
	}}

	w := postJSON(newAuthRouter(svc), "/auth/register-user", map[string]any{
		"name": "Max Manager", "email": "max@fleet.io", "password": "secret1", "role": "manager",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "manager", decodeBody(t, w)["user"].(map[string]any)["role"])
}

func TestAuthHandler_RegisterUser_RejectsUnknownRole(t *testing.T) {
	w := postJSON(newAuthRouter(fakeService{}), "/auth/register-user", map[string]any{
		"name": "Max", "email": "max@fleet.io", "password": "secret1", "role": "owner",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Role must be one of: superadmin, admin, manager, driver", decodeBody(t, w)["message"])
}
