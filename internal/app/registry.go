package app

import (
	"time"

	"go-fleet/internal/auth"
	"go-fleet/internal/dashboard"
	"go-fleet/internal/driver"
	"go-fleet/internal/fuellog"
	"go-fleet/internal/maintenance"
	"go-fleet/internal/messaging/kafka"
	"go-fleet/internal/middleware"
	"go-fleet/internal/rbac"
	"go-fleet/internal/rbac/infra"
	"go-fleet/internal/shared/config"
	"go-fleet/internal/shared/counter"
	"go-fleet/internal/tenant"
	"go-fleet/internal/trip"
	"go-fleet/internal/user"
	"go-fleet/internal/vehicle"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// gpsUpdatesPerMinute bounds how often one user may push vehicle positions.
const gpsUpdatesPerMinute = 60

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	tenantRepo := tenant.NewRepository(db)
	userRepo := user.NewRepository(db)
	vehicleRepo := vehicle.NewRepository(db)
	driverRepo := driver.NewRepository(db)
	tripRepo := trip.NewRepository(db)
	maintenanceRepo := maintenance.NewRepository(db)
	fuelRepo := fuellog.NewRepository(db)
	counterRepo := counter.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)
	dashboardRepo := dashboard.NewRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer, logger)

	// --- Auth ---
	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	provider := auth.NewProvider(cfg, tokens, userRepo, logger)
	hasher := auth.NewBcryptHasher(cfg.Security.BcryptCost)

	// --- Services ---
	dashboardService := dashboard.NewService(dashboard.Sources{
		Vehicles:    vehicleRepo,
		Drivers:     driverRepo,
		Trips:       tripRepo,
		Maintenance: maintenanceRepo,
		FuelLogs:    fuelRepo,
	}, dashboardRepo, rdb, cfg.Dashboard.CacheTTL, logger)

	authService := auth.NewService(db, tenantRepo, userRepo, outboxRepo, tokens, hasher, logger)
	tenantService := tenant.NewService(tenantRepo, logger)
	userService := user.NewService(db, userRepo, tenantRepo, logger)
	vehicleService := vehicle.NewService(db, vehicleRepo, tenantRepo, dashboardService, logger)
	driverService := driver.NewService(db, driverRepo, tenantRepo, dashboardService, logger)
	tripService := trip.NewService(db, tripRepo, vehicleRepo, driverRepo, counterRepo, outboxRepo, dashboardService, logger)
	maintenanceService := maintenance.NewService(db, maintenanceRepo, vehicleRepo, outboxRepo, dashboardService, logger)
	fuelService := fuellog.NewService(db, fuelRepo, outboxRepo, dashboardService, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, cfg.IsProduction(), logger)
	tenantHandler := tenant.NewHandler(tenantService, logger)
	userHandler := user.NewHandler(userService, logger)
	vehicleHandler := vehicle.NewHandler(vehicleService, logger)
	driverHandler := driver.NewHandler(driverService, logger)
	tripHandler := trip.NewHandler(tripService, logger)
	maintenanceHandler := maintenance.NewHandler(maintenanceService, logger)
	fuelHandler := fuellog.NewHandler(fuelService, logger)
	dashboardHandler := dashboard.NewHandler(dashboardService, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)

	// --- Route-level middleware ---
	authLimit, authBurst := middleware.PerWindow(cfg.RateLimit.AuthMax, cfg.RateLimit.Window)
	authLimiter := middleware.RateLimitByIP("auth", authLimit, authBurst)
	gpsLimit, gpsBurst := middleware.PerWindow(gpsUpdatesPerMinute, time.Minute)
	gpsLimiter := middleware.RateLimitByUser("vehicle_gps", gpsLimit, gpsBurst)
	idempotency := middleware.Idempotency(rdb)

	// --- Routes Registration ---
	api := router.Group("/api")
	{
		auth.RegisterRoutes(api, authHandler, provider, authLimiter, logger)
		user.RegisterRoutes(api, userHandler, provider, rbacService, logger)
		tenant.RegisterRoutes(api, tenantHandler, provider, rbacService, logger)
		vehicle.RegisterRoutes(api, vehicleHandler, provider, rbacService, gpsLimiter, logger)
		driver.RegisterRoutes(api, driverHandler, provider, rbacService, logger)
		trip.RegisterRoutes(api, tripHandler, provider, rbacService, idempotency, logger)
		maintenance.RegisterRoutes(api, maintenanceHandler, provider, rbacService, logger)
		fuellog.RegisterRoutes(api, fuelHandler, provider, rbacService, idempotency, logger)
		dashboard.RegisterRoutes(api, dashboardHandler, provider, rbacService, logger)
		rbac.RegisterRoutes(api, rbacHandler, provider, logger)
	}

	return nil
}
