package maintenance_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go-fleet/internal/events"
	"go-fleet/internal/maintenance"
	maintenanceerrors "go-fleet/internal/maintenance/errors"
	"go-fleet/internal/maintenance/mock"
	"go-fleet/internal/messaging/kafka"
	kafkamock "go-fleet/internal/messaging/kafka/mock"
	"go-fleet/internal/shared/contextutil"
	"go-fleet/internal/shared/testutil"
	"go-fleet/internal/vehicle"
	vehicleerrors "go-fleet/internal/vehicle/errors"
	vehiclemock "go-fleet/internal/vehicle/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type recordingCache struct {
	tenants []string
}

func (c *recordingCache) Invalidate(_ context.Context, tenantID string) error {
	c.tenants = append(c.tenants, tenantID)
	return nil
}

type fixture struct {
	svc      maintenance.Service
	repo     *mock.MockRepository
	vehicles *vehiclemock.MockRepository
	outbox   *kafkamock.MockOutboxRepository
	cache    *recordingCache
	tx       func(commit bool)
}

func setup(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	db, sqlMock := testutil.NewGormMock(t)
	f := fixture{
		repo:     mock.NewMockRepository(ctrl),
		vehicles: vehiclemock.NewMockRepository(ctrl),
		outbox:   kafkamock.NewMockOutboxRepository(ctrl),
		cache:    &recordingCache{},
		tx:       func(commit bool) { testutil.ExpectTx(t, sqlMock, commit) },
	}
	f.repo.EXPECT().WithTx(gomock.Any()).Return(f.repo).AnyTimes()
	f.vehicles.EXPECT().WithTx(gomock.Any()).Return(f.vehicles).AnyTimes()
	f.outbox.EXPECT().WithTx(gomock.Any()).Return(f.outbox).AnyTimes()

	f.svc = maintenance.NewService(db, f.repo, f.vehicles, f.outbox, f.cache)
	return f
}

func ptr[T any](v T) *T { return &v }

func TestMaintenanceService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.NewString()
	vehicleID := uuid.NewString()
	caller := contextutil.Principal{UserID: uuid.NewString(), TenantID: tenantID, Role: "manager"}
	req := maintenance.CreateLogRequest{
		VehicleID:     vehicleID,
		Type:          "oil-change",
		Title:         " Oil change ",
		ScheduledDate: time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC),
	}

	created := func(f fixture) {
		var l *maintenance.Log
		f.repo.EXPECT().Create(gomock.Any(), tenantID, gomock.Any()).DoAndReturn(func(_ context.Context, _ string, in *maintenance.Log) error {
			l = in
			return nil
		})
		f.repo.EXPECT().FindByID(gomock.Any(), tenantID, gomock.Any()).DoAndReturn(func(context.Context, string, string) (*maintenance.Log, error) {
			return l, nil
		})
	}

	t.Run("scheduled work only locks the vehicle", func(t *testing.T) {
		f := setup(t)

		f.tx(true)
		f.vehicles.EXPECT().FindForUpdate(gomock.Any(), tenantID, vehicleID).Return(&vehicle.Vehicle{IsActive: true, Version: 1}, nil)
		created(f)
		f.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, row kafka.OutboxEvent) error {
			var ev events.LifecycleEvent
			require.NoError(t, json.Unmarshal(row.Payload, &ev))
			assert.Equal(t, events.MaintenanceCreated, ev.EventType)
			assert.Equal(t, maintenance.StatusScheduled, ev.To)
			return nil
		})

		res, err := f.svc.Create(ctx, caller, req)

		require.NoError(t, err)
		assert.Equal(t, "Oil change", res.Title)
		assert.Equal(t, maintenance.StatusScheduled, res.Status)
		assert.Equal(t, []maintenance.Part{}, res.PartsReplaced)
		assert.Equal(t, []string{tenantID}, f.cache.tenants)
	})

	t.Run("work under way takes the vehicle off the road", func(t *testing.T) {
		f := setup(t)
		r := req
		r.Status = maintenance.StatusInProgress

		f.tx(true)
		f.vehicles.EXPECT().FindForUpdate(gomock.Any(), tenantID, vehicleID).Return(&vehicle.Vehicle{IsActive: true, Version: 4}, nil)
		f.vehicles.EXPECT().UpdateVersioned(gomock.Any(), tenantID, vehicleID, int64(4), map[string]any{
			"status": vehicle.StatusMaintenance,
		}).Return(nil)
		created(f)
		f.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.Create(ctx, caller, r)

		require.NoError(t, err)
	})

	t.Run("completed work records the service date", func(t *testing.T) {
		f := setup(t)
		r := req
		r.Status = maintenance.StatusCompleted
		done := time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)
		r.CompletedDate = &done

		f.tx(true)
		f.vehicles.EXPECT().FindForUpdate(gomock.Any(), tenantID, vehicleID).Return(&vehicle.Vehicle{IsActive: true, Version: 1}, nil)
		f.vehicles.EXPECT().UpdateVersioned(gomock.Any(), tenantID, vehicleID, int64(1), map[string]any{
			"last_service": done,
		}).Return(nil)
		created(f)
		f.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Create(ctx, caller, r)

		require.NoError(t, err)
		assert.Equal(t, "2026-05-03T00:00:00Z", *res.CompletedDate)
	})

	t.Run("deleted vehicle", func(t *testing.T) {
		f := setup(t)

		f.tx(false)
		f.vehicles.EXPECT().FindForUpdate(gomock.Any(), tenantID, vehicleID).Return(&vehicle.Vehicle{IsActive: false}, nil)

		_, err := f.svc.Create(ctx, caller, req)

		assert.ErrorIs(t, err, vehicleerrors.ErrVehicleNotFound)
	})

	t.Run("vehicle of another tenant", func(t *testing.T) {
		f := setup(t)

		f.tx(false)
		f.vehicles.EXPECT().FindForUpdate(gomock.Any(), tenantID, vehicleID).Return(nil, gorm.ErrRecordNotFound)

		_, err := f.svc.Create(ctx, caller, req)

		assert.ErrorIs(t, err, vehicleerrors.ErrVehicleNotFound)
	})
}

func TestMaintenanceService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.NewString()
	id := uuid.New()
	vehicleID := uuid.New()
	caller := contextutil.Principal{UserID: uuid.NewString(), TenantID: tenantID, Role: "manager"}

	current := func(status string) *maintenance.Log {
		return &maintenance.Log{ID: id, VehicleID: vehicleID, Status: status, Version: 2}
	}

	expectStatusChange := func(t *testing.T, f fixture, from, to string) {
		f.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, row kafka.OutboxEvent) error {
			var ev events.LifecycleEvent
			require.NoError(t, json.Unmarshal(row.Payload, &ev))
			assert.Equal(t, events.MaintenanceStatusChanged, ev.EventType)
			assert.Equal(t, from, ev.From)
			assert.Equal(t, to, ev.To)
			return nil
		})
	}

	t.Run("start puts vehicle in maintenance", func(t *testing.T) {
		f := setup(t)

		f.tx(true)
		f.repo.EXPECT().FindForUpdate(gomock.Any(), tenantID, id.String()).Return(current(maintenance.StatusScheduled), nil)
		f.vehicles.EXPECT().FindForUpdate(gomock.Any(), tenantID, vehicleID.String()).Return(&vehicle.Vehicle{Version: 7}, nil)
		f.vehicles.EXPECT().UpdateVersioned(gomock.Any(), tenantID, vehicleID.String(), int64(7), map[string]any{
			"status": vehicle.StatusMaintenance,
		}).Return(nil)
		expectStatusChange(t, f, maintenance.StatusScheduled, maintenance.StatusInProgress)
		f.repo.EXPECT().UpdateVersioned(gomock.Any(), tenantID, id.String(), int64(2), map[string]any{
			"status": maintenance.StatusInProgress,
		}).Return(nil)
		f.repo.EXPECT().FindByID(gomock.Any(), tenantID, id.String()).Return(current(maintenance.StatusInProgress), nil)

		res, err := f.svc.Update(ctx, caller, id.String(), maintenance.UpdateLogRequest{Status: ptr(maintenance.StatusInProgress)})

		require.NoError(t, err)
		assert.Equal(t, maintenance.StatusInProgress, res.Status)
		assert.Equal(t, []string{tenantID}, f.cache.tenants)
	})

	t.Run("completion idles vehicle and stamps dates", func(t *testing.T) {
		f := setup(t)
		var vehicleValues, written map[string]any

		f.tx(true)
		f.repo.EXPECT().FindForUpdate(gomock.Any(), tenantID, id.String()).Return(current(maintenance.StatusInProgress), nil)
		f.vehicles.EXPECT().FindForUpdate(gomock.Any(), tenantID, vehicleID.String()).Return(&vehicle.Vehicle{Version: 1}, nil)
		f.vehicles.EXPECT().UpdateVersioned(gomock.Any(), tenantID, vehicleID.String(), int64(1), gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ string, _ int64, values map[string]any) error {
				vehicleValues = values
				return nil
			})
		expectStatusChange(t, f, maintenance.StatusInProgress, maintenance.StatusCompleted)
		f.repo.EXPECT().UpdateVersioned(gomock.Any(), tenantID, id.String(), int64(2), gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ string, _ int64, values map[string]any) error {
				written = values
				return nil
			})
		f.repo.EXPECT().FindByID(gomock.Any(), tenantID, id.String()).Return(current(maintenance.StatusCompleted), nil)

		_, err := f.svc.Update(ctx, caller, id.String(), maintenance.UpdateLogRequest{Status: ptr(maintenance.StatusCompleted)})

		require.NoError(t, err)
		assert.Equal(t, vehicle.StatusIdle, vehicleValues["status"])
		assert.IsType(t, time.Time{}, vehicleValues["last_service"])
		assert.Equal(t, maintenance.StatusCompleted, written["status"])
		assert.Contains(t, written, "completed_date")
	})

	t.Run("cancelling scheduled work leaves the vehicle alone", func(t *testing.T) {
		f := setup(t)

		f.tx(true)
		f.repo.EXPECT().FindForUpdate(gomock.Any(), tenantID, id.String()).Return(current(maintenance.StatusScheduled), nil)
		expectStatusChange(t, f, maintenance.StatusScheduled, maintenance.StatusCancelled)
		f.repo.EXPECT().UpdateVersioned(gomock.Any(), tenantID, id.String(), int64(2), gomock.Any()).Return(nil)
		f.repo.EXPECT().FindByID(gomock.Any(), tenantID, id.String()).Return(current(maintenance.StatusCancelled), nil)

		_, err := f.svc.Update(ctx, caller, id.String(), maintenance.UpdateLogRequest{Status: ptr(maintenance.StatusCancelled)})

		require.NoError(t, err)
	})

	t.Run("cancelling work under way idles the vehicle", func(t *testing.T) {
		f := setup(t)

		f.tx(true)
		f.repo.EXPECT().FindForUpdate(gomock.Any(), tenantID, id.String()).Return(current(maintenance.StatusInProgress), nil)
		f.vehicles.EXPECT().FindForUpdate(gomock.Any(), tenantID, vehicleID.String()).Return(&vehicle.Vehicle{Version: 3}, nil)
		f.vehicles.EXPECT().UpdateVersioned(gomock.Any(), tenantID, vehicleID.String(), int64(3), map[string]any{
			"status": vehicle.StatusIdle,
		}).Return(nil)
		expectStatusChange(t, f, maintenance.StatusInProgress, maintenance.StatusCancelled)
		f.repo.EXPECT().UpdateVersioned(gomock.Any(), tenantID, id.String(), int64(2), gomock.Any()).Return(nil)
		f.repo.EXPECT().FindByID(gomock.Any(), tenantID, id.String()).Return(current(maintenance.StatusCancelled), nil)

		_, err := f.svc.Update(ctx, caller, id.String(), maintenance.UpdateLogRequest{Status: ptr(maintenance.StatusCancelled)})

		require.NoError(t, err)
	})

	t.Run("scheduled cannot jump to completed", func(t *testing.T) {
		f := setup(t)

		f.tx(false)
		f.repo.EXPECT().FindForUpdate(gomock.Any(), tenantID, id.String()).Return(current(maintenance.StatusScheduled), nil)

		_, err := f.svc.Update(ctx, caller, id.String(), maintenance.UpdateLogRequest{Status: ptr(maintenance.StatusCompleted)})

		assert.ErrorIs(t, err, maintenanceerrors.ErrInvalidTransition)
		assert.Empty(t, f.cache.tenants)
	})

	t.Run("unknown log", func(t *testing.T) {
		f := setup(t)

		f.tx(false)
		f.repo.EXPECT().FindForUpdate(gomock.Any(), tenantID, id.String()).Return(nil, gorm.ErrRecordNotFound)

		_, err := f.svc.Update(ctx, caller, id.String(), maintenance.UpdateLogRequest{Cost: ptr(10.0)})

		assert.ErrorIs(t, err, maintenanceerrors.ErrMaintenanceNotFound)
	})
}

func TestMaintenanceService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.NewString()
	id := uuid.New()
	vehicleID := uuid.New()

	t.Run("work under way releases the vehicle", func(t *testing.T) {
		f := setup(t)

		f.tx(true)
		f.repo.EXPECT().FindForUpdate(gomock.Any(), tenantID, id.String()).
			Return(&maintenance.Log{ID: id, VehicleID: vehicleID, Status: maintenance.StatusInProgress}, nil)
		f.vehicles.EXPECT().FindForUpdate(gomock.Any(), tenantID, vehicleID.String()).Return(&vehicle.Vehicle{Version: 1}, nil)
		f.vehicles.EXPECT().UpdateVersioned(gomock.Any(), tenantID, vehicleID.String(), int64(1), map[string]any{
			"status": vehicle.StatusIdle,
		}).Return(nil)
		f.repo.EXPECT().Delete(gomock.Any(), tenantID, id.String()).Return(nil)

		require.NoError(t, f.svc.Delete(ctx, tenantID, id.String()))
	})

	t.Run("other tenant's log", func(t *testing.T) {
		f := setup(t)

		f.tx(false)
		f.repo.EXPECT().FindForUpdate(gomock.Any(), tenantID, id.String()).Return(nil, gorm.ErrRecordNotFound)

		assert.ErrorIs(t, f.svc.Delete(ctx, tenantID, id.String()), maintenanceerrors.ErrMaintenanceNotFound)
	})
}
