package tenant

import (
	"go-fleet/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authn middleware.Authenticator,
	policy middleware.PolicyEnforcer,
	logger *zap.Logger,
) {
	tenants := r.Group("/tenants")
	tenants.Use(middleware.AuthMiddleware(authn))
	tenants.Use(middleware.ContextLogger(logger))
	{
		tenants.GET("/me", handler.GetCurrent)
		tenants.PUT("/me/settings",
			middleware.RBACAuthorize(policy, "tenant_settings", "update"),
			handler.UpdateSettings,
		)
	}
}
