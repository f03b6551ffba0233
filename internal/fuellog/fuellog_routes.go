package fuellog

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
	logs := r.Group("/fuel-logs")
	logs.Use(middleware.AuthMiddleware(authn))
	logs.Use(middleware.ContextLogger(logger))
	{
		logs.GET("",
			middleware.RBACAuthorize(policy, "fuel_log", "read"),
			handler.List,
		)

		logs.POST("",
			middleware.RBACAuthorize(policy, "fuel_log", "create"),
			idempotency,
			handler.Create,
		)

		logs.GET("/export",
			middleware.RBACAuthorize(policy, "fuel_log", "export"),
			handler.Export,
		)

		logs.GET("/:id",
			middleware.RBACAuthorize(policy, "fuel_log", "read"),
			handler.GetByID,
		)

		logs.PUT("/:id",
			middleware.RBACAuthorize(policy, "fuel_log", "update"),
			handler.Update,
		)

		logs.DELETE("/:id",
			middleware.RBACAuthorize(policy, "fuel_log", "delete"),
			handler.Delete,
		)
	}
}
