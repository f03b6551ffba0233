package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"go-fleet/internal/dashboard"
	"go-fleet/internal/events"
	"go-fleet/internal/messaging/kafka/consumer"
	"go-fleet/internal/shared/config"
	"go-fleet/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const dashboardConsumerGroup = "go-fleet-dashboard"

// RunConsumer drops cached dashboards as lifecycle events arrive. It only
// needs redis: invalidation never reads the database.
func RunConsumer(cfg *config.Config, logger *zap.Logger) (err error) {
	log := logger.Named("app.consumer")

	if cfg.Kafka.Broker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, redisRetries)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, rdb.Close()) }()

	cache := dashboard.NewService(dashboard.Sources{}, nil, rdb, cfg.Dashboard.CacheTTL, logger)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.LifecycleTopic,
		GroupID:        dashboardConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer func() { err = multierr.Append(err, reader.Close()) }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer.ConsumeFleetLifecycle(ctx, reader, cache, logger)

	log.Info("consumer shutting down")
	return nil
}
