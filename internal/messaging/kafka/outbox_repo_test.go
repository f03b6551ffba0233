package kafka_test

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"go-fleet/internal/events"
	"go-fleet/internal/messaging/kafka"
	"go-fleet/internal/shared/contextutil"
	"go-fleet/internal/shared/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLifecycleEvent(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "rid-9")

	ev, err := kafka.NewLifecycleEvent(ctx, events.LifecycleEvent{
		EventType:     events.TripStatusChanged,
		TenantID:      "tenant-a",
		AggregateType: events.AggregateTrip,
		AggregateID:   "trip-1",
		From:          "in-progress",
		To:            "completed",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, ev.ID)
	assert.Equal(t, "rid-9", ev.RequestID)
	assert.Equal(t, events.LifecycleTopic, ev.Topic)
	assert.Equal(t, kafka.OutboxStatusPending, ev.Status)
	assert.Contains(t, string(ev.Payload), `"to":"completed"`)
	assert.Contains(t, string(ev.Payload), `"occurred_at"`)
	assert.NoError(t, kafka.ValidateOutboxEvent(ev))
}

func TestValidateOutboxEvent(t *testing.T) {
	valid, err := kafka.NewLifecycleEvent(context.Background(), events.LifecycleEvent{TenantID: "t"})
	require.NoError(t, err)

	noTopic := valid
	noTopic.Topic = ""
	assert.Error(t, kafka.ValidateOutboxEvent(noTopic))

	badStatus := valid
	badStatus.Status = "queued"
	assert.Error(t, kafka.ValidateOutboxEvent(badStatus))

	noID := valid
	noID.ID = uuid.Nil
	assert.Error(t, kafka.ValidateOutboxEvent(noID))
}

func TestOutboxRepository_Create(t *testing.T) {
	db, mock := testutil.NewGormMock(t)
	repo := kafka.NewOutboxRepository(db)

	ev, err := kafka.NewLifecycleEvent(context.Background(), events.LifecycleEvent{TenantID: "t"})
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "outbox_events"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Create(context.Background(), ev))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailed_TruncatesReason(t *testing.T) {
	db, mock := testutil.NewGormMock(t)
	repo := kafka.NewOutboxRepository(db)
	id := uuid.New()
	reason := strings.Repeat("x", 800)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "outbox_events" SET`)).
		WithArgs(strings.Repeat("x", 500), "failed", sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkFailed(context.Background(), id, reason))
	assert.NoError(t, mock.ExpectationsWereMet())
}
