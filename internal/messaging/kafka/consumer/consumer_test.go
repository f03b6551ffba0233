package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-fleet/internal/events"
	"go-fleet/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeCache struct {
	tenants []string
	err     error
	// okAfter > 0 fails only the first okAfter calls.
	okAfter int
}

func (f *fakeCache) Invalidate(_ context.Context, tenantID string) error {
	f.tenants = append(f.tenants, tenantID)
	if f.err != nil && (f.okAfter == 0 || len(f.tenants) <= f.okAfter) {
		return f.err
	}
	return nil
}

func message(t *testing.T, e events.LifecycleEvent) kafkago.Message {
	t.Helper()
	b, err := json.Marshal(e)
	assert.NoError(t, err)
	return kafkago.Message{Value: b}
}

func TestHandleMessage(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	t.Run("trip event invalidates tenant cache", func(t *testing.T) {
		cache := &fakeCache{}
		err := consumer.HandleMessage(ctx, message(t, events.LifecycleEvent{
			EventType: events.TripStatusChanged, TenantID: "t-1", AggregateType: events.AggregateTrip,
		}), cache, log)

		assert.NoError(t, err)
		assert.Equal(t, []string{"t-1"}, cache.tenants)
	})

	t.Run("tenant registration is ignored", func(t *testing.T) {
		cache := &fakeCache{}
		err := consumer.HandleMessage(ctx, message(t, events.LifecycleEvent{
			EventType: events.TenantRegistered, TenantID: "t-1", AggregateType: events.AggregateTenant,
		}), cache, log)

		assert.NoError(t, err)
		assert.Empty(t, cache.tenants)
	})

	t.Run("garbage is dropped", func(t *testing.T) {
		cache := &fakeCache{}
		err := consumer.HandleMessage(ctx, kafkago.Message{Value: []byte("{nope")}, cache, log)

		assert.NoError(t, err)
		assert.Empty(t, cache.tenants)
	})

	t.Run("cache failure is returned to the caller", func(t *testing.T) {
		cache := &fakeCache{err: errors.New("redis down")}
		err := consumer.HandleMessage(ctx, message(t, events.LifecycleEvent{
			EventType: events.FuelLogged, TenantID: "t-1", AggregateType: events.AggregateFuelLog,
		}), cache, log)

		assert.Error(t, err)
	})
}

type scriptedFetch struct {
	msg kafkago.Message
	err error
}

type fakeReader struct {
	script    []scriptedFetch
	committed []kafkago.Message
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.script) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	next := r.script[0]
	r.script = r.script[1:]
	return next.msg, next.err
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func TestConsumeFleetLifecycle(t *testing.T) {
	log := zap.NewNop()
	fast := []consumer.Option{consumer.WithRetry(3, 0), consumer.WithFetchBackoff(0)}

	t.Run("transient cache failure is retried before commit", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		msg := message(t, events.LifecycleEvent{
			EventType: events.TripStatusChanged, TenantID: "t-1", AggregateType: events.AggregateTrip,
		})
		msg.Offset = 7
		reader := &fakeReader{script: []scriptedFetch{{msg: msg}}, cancel: cancel}
		cache := &fakeCache{err: errors.New("redis down"), okAfter: 2}

		consumer.ConsumeFleetLifecycle(ctx, reader, cache, log, fast...)

		assert.Equal(t, []string{"t-1", "t-1", "t-1"}, cache.tenants)
		if assert.Len(t, reader.committed, 1) {
			assert.Equal(t, int64(7), reader.committed[0].Offset)
		}
	})

	t.Run("persistent cache failure is bounded and committed past", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		first := message(t, events.LifecycleEvent{
			EventType: events.FuelLogged, TenantID: "t-1", AggregateType: events.AggregateFuelLog,
		})
		second := message(t, events.LifecycleEvent{
			EventType: events.FuelLogged, TenantID: "t-2", AggregateType: events.AggregateFuelLog,
		})
		reader := &fakeReader{script: []scriptedFetch{{msg: first}, {msg: second}}, cancel: cancel}
		cache := &fakeCache{err: errors.New("redis down")}

		consumer.ConsumeFleetLifecycle(ctx, reader, cache, log, fast...)

		assert.Equal(t, []string{"t-1", "t-1", "t-1", "t-2", "t-2", "t-2"}, cache.tenants)
		assert.Len(t, reader.committed, 2)
	})

	t.Run("fetch errors back off and the loop keeps going", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		msg := message(t, events.LifecycleEvent{
			EventType: events.TripStatusChanged, TenantID: "t-3", AggregateType: events.AggregateTrip,
		})
		broker := errors.New("broker unavailable")
		reader := &fakeReader{
			script: []scriptedFetch{{err: broker}, {err: broker}, {msg: msg}},
			cancel: cancel,
		}
		cache := &fakeCache{}

		start := time.Now()
		consumer.ConsumeFleetLifecycle(ctx, reader, cache, log,
			consumer.WithRetry(1, 0), consumer.WithFetchBackoff(10*time.Millisecond))

		// 10ms then 20ms
		assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
		assert.Equal(t, []string{"t-3"}, cache.tenants)
		assert.Len(t, reader.committed, 1)
	})

	t.Run("cancel during fetch backoff stops the consumer", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &fakeReader{
			script: []scriptedFetch{{err: errors.New("broker unavailable")}},
			cancel: cancel,
		}
		cancel()

		consumer.ConsumeFleetLifecycle(ctx, reader, &fakeCache{}, log, consumer.WithFetchBackoff(time.Hour))

		assert.Empty(t, reader.committed)
	})
}
