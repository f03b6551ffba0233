package middleware

import (
	autherrors "go-fleet/internal/auth/errors"
	"go-fleet/internal/shared/apperror"
	"go-fleet/internal/shared/contextutil"
	"go-fleet/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PolicyEnforcer is satisfied by rbac.Service.
type PolicyEnforcer interface {
	Enforce(role, resource, action string) (bool, error)
}

func RBACAuthorize(policy PolicyEnforcer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role == "" {
			response.Abort(c, autherrors.ErrMissingToken.HTTPStatus, autherrors.ErrMissingToken.Code, autherrors.ErrMissingToken.Message)
			return
		}

		allowed, err := policy.Enforce(role, resource, action)
		if err != nil {
			contextutil.GetLogger(c.Request.Context(), nil).Error("policy enforcement failed",
				zap.String("resource", resource),
				zap.String("action", action),
				zap.Error(err),
			)
			response.Abort(c, apperror.ErrInternal.HTTPStatus, apperror.ErrInternal.Code, apperror.ErrInternal.Message)
			return
		}

		if !allowed {
			contextutil.GetLogger(c.Request.Context(), nil).Debug("permission denied",
				zap.String("role", role),
				zap.String("required", resource+":"+action),
			)
			response.Abort(c, autherrors.ErrForbidden.HTTPStatus, autherrors.ErrForbidden.Code, autherrors.ErrForbidden.Message)
			return
		}
		c.Next()
	}
}

const ContextIncludeInactive = "include_inactive"

// IncludeInactive honours ?includeInactive=true for callers whose role may
// read soft-deleted records. Anyone else asking for them is refused.
func IncludeInactive(policy PolicyEnforcer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("includeInactive") != "true" {
			c.Next()
			return
		}

		allowed, err := policy.Enforce(c.GetString(ContextRole), "inactive_records", "read")
		if err != nil {
			response.Abort(c, apperror.ErrInternal.HTTPStatus, apperror.ErrInternal.Code, apperror.ErrInternal.Message)
			return
		}
		if !allowed {
			response.Abort(c, autherrors.ErrForbidden.HTTPStatus, autherrors.ErrForbidden.Code, autherrors.ErrForbidden.Message)
			return
		}

		c.Set(ContextIncludeInactive, true)
		c.Next()
	}
}
