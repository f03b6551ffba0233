package vehicle

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
	gpsLimiter gin.HandlerFunc,
	logger *zap.Logger,
) {
	vehicles := r.Group("/vehicles")
	vehicles.Use(middleware.AuthMiddleware(authn))
	vehicles.Use(middleware.ContextLogger(logger))
	{
		vehicles.GET("",
			middleware.RBACAuthorize(policy, "vehicle", "read"),
			middleware.IncludeInactive(policy),
			handler.List,
		)

		vehicles.POST("",
			middleware.RBACAuthorize(policy, "vehicle", "create"),
			handler.Create,
		)

		vehicles.GET("/:id",
			middleware.RBACAuthorize(policy, "vehicle", "read"),
			middleware.IncludeInactive(policy),
			handler.GetByID,
		)

		vehicles.PUT("/:id",
			middleware.RBACAuthorize(policy, "vehicle", "update"),
			handler.Update,
		)

		vehicles.DELETE("/:id",
			middleware.RBACAuthorize(policy, "vehicle", "delete"),
			handler.Delete,
		)

		vehicles.PATCH("/:id/gps",
			middleware.RBACAuthorize(policy, "vehicle_gps", "update"),
			gpsLimiter,
			handler.UpdateGPS,
		)
	}
}
