package main

import (
	"log"
	"time"

	"go-fleet/internal/app"
	"go-fleet/internal/bootstrap"
	"go-fleet/internal/shared/apperror"
	"go-fleet/internal/shared/config"
	"go-fleet/internal/shared/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer zl.Sync()

	apperror.Init()

	// build dependency + routes
	a, err := app.BuildApp(cfg, zl)
	if err != nil {
		zl.Fatal("build app failed", zap.Error(err))
	}

	serveErr := bootstrap.StartHTTPServer(
		a.Router,
		bootstrap.ServerConfig{
			Port:         cfg.Server.Port,
			Env:          cfg.Server.Env,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: cfg.Server.RequestTimeout + 5*time.Second,
			IdleTimeout:  60 * time.Second,
		},
		bootstrap.NewZapAuditLogger("go-fleet-api", zl),
	)
	if err := a.Close(); err != nil {
		zl.Error("close resources failed", zap.Error(err))
	}
	if serveErr != nil {
		zl.Fatal("http server failed", zap.Error(serveErr))
	}
}
