package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"go-fleet/internal/messaging/kafka"
	"go-fleet/internal/messaging/kafka/producer"
	"go-fleet/internal/shared/config"
	"go-fleet/internal/shared/connection"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	kafkaRetries       = 5
	outboxPollInterval = 3 * time.Second
)

// RunWorker relays the outbox to kafka until SIGINT or SIGTERM.
func RunWorker(cfg *config.Config, logger *zap.Logger) (err error) {
	log := logger.Named("app.worker")

	if cfg.Kafka.Broker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, nil)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeDB(gormDB)) }()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, kafkaRetries)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, kafkaWriter.Close()) }()

	outboxRepo := kafka.NewOutboxRepository(gormDB)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	producer.ProcessOutboxEvents(ctx, outboxRepo, kafkaWriter, logger, outboxPollInterval)

	log.Info("worker shutting down")
	return nil
}
