package user

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
	users := r.Group("/auth/users")
	users.Use(middleware.AuthMiddleware(authn))
	users.Use(middleware.ContextLogger(logger))
	{
		users.GET("",
			middleware.RBACAuthorize(policy, "user", "read"),
			handler.List,
		)

		users.GET("/:id",
			middleware.RBACAuthorize(policy, "user", "read"),
			handler.GetByID,
		)

		users.PATCH("/:id",
			middleware.RBACAuthorize(policy, "user", "update"),
			handler.Update,
		)
	}
}
