package app

import (
	"go-fleet/internal/migrations"
	"go-fleet/internal/shared/config"
	"go-fleet/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const redisRetries = 5

type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

// BuildApp connects the stores, applies pending migrations and registers
// every module on a fresh router.
func BuildApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	// 1. Setup Infrastructure
	db, err := connection.ConnectGORMWithRetry(cfg.Database, nil)
	if err != nil {
		return nil, err
	}

	if err := migrations.Migrate(db); err != nil {
		return nil, multierr.Append(err, closeDB(db))
	}
	logger.Info("database migrations applied")

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, redisRetries)
	if err != nil {
		return nil, multierr.Append(err, closeDB(db))
	}

	// 2. Register Modules & Routes
	router := NewRouter(cfg, logger)
	if err := registerModules(router, cfg, db, rdb, logger); err != nil {
		return nil, multierr.Combine(err, rdb.Close(), closeDB(db))
	}

	return &App{Router: router, DB: db, Redis: rdb}, nil
}

// Close releases every connection and reports all failures together.
func (a *App) Close() error {
	var err error
	if a.Redis != nil {
		err = multierr.Append(err, a.Redis.Close())
	}
	if a.DB != nil {
		err = multierr.Append(err, closeDB(a.DB))
	}
	return err
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
