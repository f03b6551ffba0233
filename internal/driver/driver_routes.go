package driver

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
	drivers := r.Group("/drivers")
	drivers.Use(middleware.AuthMiddleware(authn))
	drivers.Use(middleware.ContextLogger(logger))
	{
		drivers.GET("",
			middleware.RBACAuthorize(policy, "driver", "read"),
			middleware.IncludeInactive(policy),
			handler.List,
		)

		drivers.POST("",
			middleware.RBACAuthorize(policy, "driver", "create"),
			handler.Create,
		)

		drivers.GET("/:id",
			middleware.RBACAuthorize(policy, "driver", "read"),
			middleware.IncludeInactive(policy),
			handler.GetByID,
		)

		drivers.PUT("/:id",
			middleware.RBACAuthorize(policy, "driver", "update"),
			handler.Update,
		)

		drivers.DELETE("/:id",
			middleware.RBACAuthorize(policy, "driver", "delete"),
			handler.Delete,
		)
	}
}
