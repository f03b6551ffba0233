package middleware

import (
	"go-fleet/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger builds the request scoped logger. It must run after
// AuthMiddleware so the caller identity is known.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		rid := contextutil.GetRequestID(ctx)
		if rid == "" {
			rid = c.GetString(ContextRequestID)
		}

		reqLogger := logger.With(
			zap.String("request_id", rid),
			zap.String("user_id", c.GetString(ContextUserID)),
			zap.String("tenant_id", c.GetString(ContextTenantID)),
			zap.String("role", c.GetString(ContextRole)),
		)

		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
