package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-fleet/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type CacheInvalidator = events.CacheInvalidator

const (
	defaultInvalidateAttempts = 3
	defaultRetryDelay         = 200 * time.Millisecond
	defaultFetchBackoff       = time.Second
	maxFetchBackoff           = 30 * time.Second
)

type options struct {
	attempts     int
	retryDelay   time.Duration
	fetchBackoff time.Duration
}

type Option func(*options)

// WithRetry sets how many times an invalidation is tried and the linear
// delay step between tries.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(o *options) {
		if attempts > 0 {
			o.attempts = attempts
		}
		if delay >= 0 {
			o.retryDelay = delay
		}
	}
}

// WithFetchBackoff sets the first pause after a failed fetch. It doubles on
// every consecutive failure up to 30s.
func WithFetchBackoff(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.fetchBackoff = d
		}
	}
}

// ConsumeFleetLifecycle invalidates dashboard caches for every trip,
// maintenance or fuel event until ctx is done.
//
// kafka-go commits offsets, not individual messages, so a message that
// still fails after the retries is logged and committed past. The cache
// TTL bounds how stale the dashboard can get in that case.
func ConsumeFleetLifecycle(
	ctx context.Context,
	reader MessageReader,
	cache CacheInvalidator,
	logger *zap.Logger,
	opts ...Option,
) {
	o := options{
		attempts:     defaultInvalidateAttempts,
		retryDelay:   defaultRetryDelay,
		fetchBackoff: defaultFetchBackoff,
	}
	for _, opt := range opts {
		opt(&o)
	}

	log := logger.Named("kafka.consumer.fleet_lifecycle")
	log.Info("fleet lifecycle consumer started")

	backoff := o.fetchBackoff
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("fleet lifecycle consumer stopped")
				return
			}
			log.Error("fetch fleet lifecycle message failed",
				zap.Duration("retry_in", backoff),
				zap.Error(err),
			)
			if !sleep(ctx, backoff) {
				log.Info("fleet lifecycle consumer stopped")
				return
			}
			backoff = min(backoff*2, maxFetchBackoff)
			continue
		}
		backoff = o.fetchBackoff

		if err := handleWithRetry(ctx, msg, cache, log, o); err != nil {
			if ctx.Err() != nil {
				log.Info("fleet lifecycle consumer stopped")
				return
			}
			log.Warn("dashboard invalidation skipped after retries",
				zap.Int("attempts", o.attempts),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit fleet lifecycle message failed", zap.Error(err))
		}
	}
}

func handleWithRetry(ctx context.Context, msg kafkago.Message, cache CacheInvalidator, log *zap.Logger, o options) error {
	var err error
	for attempt := 1; attempt <= o.attempts; attempt++ {
		if err = HandleMessage(ctx, msg, cache, log); err == nil {
			return nil
		}
		if attempt < o.attempts && !sleep(ctx, time.Duration(attempt)*o.retryDelay) {
			return ctx.Err()
		}
	}
	return err
}

// sleep waits for d or until ctx is done, reporting whether the full wait
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// HandleMessage applies one message. Undecodable messages are logged and
// treated as handled so they do not block the partition.
func HandleMessage(ctx context.Context, msg kafkago.Message, cache CacheInvalidator, log *zap.Logger) error {
	var event events.LifecycleEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode fleet lifecycle event failed", zap.Error(err))
		return nil
	}

	if !event.AffectsDashboard() || event.TenantID == "" {
		return nil
	}

	if err := cache.Invalidate(ctx, event.TenantID); err != nil {
		log.Error("invalidate dashboard cache failed",
			zap.String("tenant_id", event.TenantID),
			zap.String("event_type", event.EventType),
			zap.Error(err),
		)
		return err
	}

	log.Debug("dashboard cache invalidated",
		zap.String("tenant_id", event.TenantID),
		zap.String("event_type", event.EventType),
	)
	return nil
}
