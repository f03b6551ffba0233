package trip

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
	idempotency gin.HandlerFunc,
	logger *zap.Logger,
) {
	trips := r.Group("/trips")
	trips.Use(middleware.AuthMiddleware(authn))
	trips.Use(middleware.ContextLogger(logger))
	{
		trips.GET("",
			middleware.RBACAuthorize(policy, "trip", "read"),
			handler.List,
		)

		trips.POST("",
			middleware.RBACAuthorize(policy, "trip", "create"),
			idempotency,
			handler.Create,
		)

		trips.GET("/:id",
			middleware.RBACAuthorize(policy, "trip", "read"),
			handler.GetByID,
		)

		trips.PUT("/:id",
			middleware.RBACAuthorize(policy, "trip", "update"),
			handler.Update,
		)

		trips.DELETE("/:id",
			middleware.RBACAuthorize(policy, "trip", "delete"),
			handler.Delete,
		)
	}
}
