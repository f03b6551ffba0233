package middleware

import (
	"context"
	"strings"

	autherrors "go-fleet/internal/auth/errors"
	"go-fleet/internal/domain"
	"go-fleet/internal/shared/apperror"
	"go-fleet/internal/shared/contextutil"
	"go-fleet/internal/shared/metrics"
	"go-fleet/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ContextUserID   = "user_id"
	ContextTenantID = "tenant_id"
	ContextRole     = "role"

	tokenCookie = "token"
)

// Authenticator resolves a raw bearer token to the calling principal.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (contextutil.Principal, error)
}

func bearerToken(c *gin.Context) string {
	if token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); found {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}
	if cookie, err := c.Cookie(tokenCookie); err == nil {
		return cookie
	}
	return ""
}

func AuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			metrics.AuthAttempts.WithLabelValues("missing_token").Inc()
			abortWithError(c, autherrors.ErrMissingToken)
			return
		}

		principal, err := authn.Authenticate(c.Request.Context(), raw)
		if err != nil {
			metrics.AuthAttempts.WithLabelValues(authOutcome(err)).Inc()
			abortWithError(c, err)
			return
		}
		metrics.AuthAttempts.WithLabelValues("success").Inc()

		c.Set(ContextUserID, principal.UserID)
		c.Set(ContextTenantID, principal.TenantID)
		c.Set(ContextRole, principal.Role)

		ctx := contextutil.WithPrincipal(c.Request.Context(), principal)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func authOutcome(err error) string {
	switch {
	case apperror.IsCode(err, apperror.CodeTokenExpired):
		return "expired_token"
	case apperror.IsCode(err, apperror.CodeAccountDeactivated):
		return "deactivated"
	case apperror.IsCode(err, apperror.CodeInvalidToken):
		return "invalid_token"
	}
	return "error"
}

// RequireRole admits only callers whose role is one of roles.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := domain.Authorize(roles, domain.Role(c.GetString(ContextRole)))
		if !decision.Allowed {
			contextutil.GetLogger(c.Request.Context(), nil).Debug("role check denied", zap.String("reason", decision.Reason))
			response.Abort(c, autherrors.ErrForbidden.HTTPStatus, autherrors.ErrForbidden.Code, autherrors.ErrForbidden.Message)
			return
		}
		c.Next()
	}
}

func abortWithError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Abort(c, httpErr.Status, httpErr.Code, httpErr.Message)
}
