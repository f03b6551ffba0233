package auth

import (
	"go-fleet/internal/domain"
	"go-fleet/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterRoutes mounts /auth. authLimiter guards the unauthenticated
// credential endpoints.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authn middleware.Authenticator,
	authLimiter gin.HandlerFunc,
	logger *zap.Logger,
) {
	auth := r.Group("/auth")
	{
		auth.POST("/register-tenant", authLimiter, handler.RegisterTenant)
		auth.POST("/login", authLimiter, handler.Login)
		auth.POST("/logout", handler.Logout)
	}

	protected := auth.Group("")
	protected.Use(middleware.AuthMiddleware(authn))
	protected.Use(middleware.ContextLogger(logger))
	{
		protected.GET("/me", handler.Me)
		protected.POST("/register-user",
			middleware.RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin),
			handler.RegisterUser,
		)
	}
}
