package maintenance

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
	logs := r.Group("/maintenance")
	logs.Use(middleware.AuthMiddleware(authn))
	logs.Use(middleware.ContextLogger(logger))
	{
		logs.GET("",
			middleware.RBACAuthorize(policy, "maintenance", "read"),
			handler.List,
		)

		logs.POST("",
			middleware.RBACAuthorize(policy, "maintenance", "create"),
			handler.Create,
		)

		logs.GET("/:id",
			middleware.RBACAuthorize(policy, "maintenance", "read"),
			handler.GetByID,
		)

		logs.PUT("/:id",
			middleware.RBACAuthorize(policy, "maintenance", "update"),
			handler.Update,
		)

		logs.DELETE("/:id",
			middleware.RBACAuthorize(policy, "maintenance", "delete"),
			handler.Delete,
		)
	}
}
