package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	autherrors "go-fleet/internal/auth/errors"
	"go-fleet/internal/domain"
	"go-fleet/internal/middleware"
	"go-fleet/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeAuthenticator struct {
	principal contextutil.Principal
	err       error
	gotToken  string
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, raw string) (contextutil.Principal, error) {
	f.gotToken = raw
	return f.principal, f.err
}

type fakePolicy struct {
	allowed bool
	err     error
}

func (f fakePolicy) Enforce(_, _, _ string) (bool, error) {
	return f.allowed, f.err
}

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthMiddleware(t *testing.T) {
	principal := contextutil.Principal{UserID: "u-1", TenantID: "t-1", Role: "manager"}

	newRouter := func(authn middleware.Authenticator) *gin.Engine {
		r := gin.New()
		r.GET("/x", middleware.AuthMiddleware(authn), func(c *gin.Context) {
			p, _ := contextutil.GetPrincipal(c.Request.Context())
			c.JSON(http.StatusOK, gin.H{
				"tenant":  c.GetString(middleware.ContextTenantID),
				"role":    c.GetString(middleware.ContextRole),
				"ctxUser": p.UserID,
			})
		})
		return r
	}

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		newRouter(&fakeAuthenticator{}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		body := decode(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "MISSING_TOKEN", body["errorKind"])
	})

	t.Run("bearer token accepted", func(t *testing.T) {
		authn := &fakeAuthenticator{principal: principal}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer abc.def")
		newRouter(authn).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "abc.def", authn.gotToken)
		body := decode(t, w)
		assert.Equal(t, "t-1", body["tenant"])
		assert.Equal(t, "manager", body["role"])
		assert.Equal(t, "u-1", body["ctxUser"])
	})

	t.Run("cookie token accepted", func(t *testing.T) {
		authn := &fakeAuthenticator{principal: principal}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: "from-cookie"})
		newRouter(authn).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "from-cookie", authn.gotToken)
	})

	t.Run("expired token keeps its kind", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer old")
		newRouter(&fakeAuthenticator{err: autherrors.ErrTokenExpired}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "TOKEN_EXPIRED", decode(t, w)["errorKind"])
	})

	t.Run("deactivated account", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer ok")
		newRouter(&fakeAuthenticator{err: autherrors.ErrAccountDeactivated}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "ACCOUNT_DEACTIVATED", decode(t, w)["errorKind"])
	})
}

func TestRequireRole(t *testing.T) {
	run := func(role string) *httptest.ResponseRecorder {
		r := gin.New()
		r.POST("/x",
			func(c *gin.Context) { c.Set(middleware.ContextRole, role) },
			middleware.RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin),
			func(c *gin.Context) { c.Status(http.StatusNoContent) },
		)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		return w
	}

	assert.Equal(t, http.StatusNoContent, run("admin").Code)

	w := run("manager")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", decode(t, w)["errorKind"])
}

func TestRBACAuthorize(t *testing.T) {
	run := func(policy middleware.PolicyEnforcer, role string) *httptest.ResponseRecorder {
		r := gin.New()
		r.POST("/vehicles",
			func(c *gin.Context) {
				if role != "" {
					c.Set(middleware.ContextRole, role)
				}
			},
			middleware.RBACAuthorize(policy, "vehicle", "create"),
			func(c *gin.Context) { c.Status(http.StatusCreated) },
		)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/vehicles", nil))
		return w
	}

	t.Run("allowed", func(t *testing.T) {
		assert.Equal(t, http.StatusCreated, run(fakePolicy{allowed: true}, "manager").Code)
	})

	t.Run("denied", func(t *testing.T) {
		w := run(fakePolicy{allowed: false}, "driver")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", decode(t, w)["errorKind"])
	})

	t.Run("no role in context", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, run(fakePolicy{allowed: true}, "").Code)
	})

	t.Run("enforcer error", func(t *testing.T) {
		w := run(fakePolicy{err: assert.AnError}, "manager")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "INTERNAL_ERROR", decode(t, w)["errorKind"])
	})
}

func TestIncludeInactive(t *testing.T) {
	run := func(policy middleware.PolicyEnforcer, query string) (*httptest.ResponseRecorder, bool) {
		var included bool
		r := gin.New()
		r.GET("/vehicles",
			func(c *gin.Context) { c.Set(middleware.ContextRole, "driver") },
			middleware.IncludeInactive(policy),
			func(c *gin.Context) {
				included = c.GetBool(middleware.ContextIncludeInactive)
				c.Status(http.StatusOK)
			},
		)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vehicles"+query, nil))
		return w, included
	}

	t.Run("not requested", func(t *testing.T) {
		w, included := run(fakePolicy{allowed: false}, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, included)
	})

	t.Run("requested and allowed", func(t *testing.T) {
		w, included := run(fakePolicy{allowed: true}, "?includeInactive=true")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, included)
	})

	t.Run("requested and denied", func(t *testing.T) {
		w, included := run(fakePolicy{allowed: false}, "?includeInactive=true")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, included)
	})
}
