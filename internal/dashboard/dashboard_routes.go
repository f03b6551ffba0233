package dashboard

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
	dash := r.Group("/dashboard")
	dash.GET("/public-stats", handler.PublicStats)

	private := dash.Group("")
	private.Use(middleware.AuthMiddleware(authn))
	private.Use(middleware.ContextLogger(logger))
	{
		private.GET("/stats",
			middleware.RBACAuthorize(policy, "dashboard", "read"),
			handler.Stats,
		)
	}
}
