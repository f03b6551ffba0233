package main

import (
	"log"

	"go-fleet/internal/app"
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

	if err := app.RunWorker(cfg, zl); err != nil {
		zl.Fatal("run worker failed", zap.Error(err))
	}
}
