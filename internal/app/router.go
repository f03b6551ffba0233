package app

import (
	"net/http"
	"time"

	"go-fleet/internal/middleware"
	"go-fleet/internal/shared/apperror"
	"go-fleet/internal/shared/config"
	"go-fleet/internal/shared/metrics"
	"go-fleet/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the engine with the global middleware chain and the
// routes that need no module: health, metrics and the 404 fallback.
func NewRouter(cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	limit, burst := middleware.PerWindow(cfg.RateLimit.Max, cfg.RateLimit.Window)

	r := gin.New()
	r.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Metrics(),
		middleware.Timeout(cfg.Server.RequestTimeout),
		middleware.RateLimitByIP("global", limit, burst),
	)

	r.GET("/api/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "Fleet Management API is running", gin.H{
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": cfg.Server.Env,
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, apperror.ErrNotFound.Code, "Route not found")
	})

	return r
}
