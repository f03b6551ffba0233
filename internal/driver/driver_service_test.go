package driver_test

import (
	"context"
	"testing"
	"time"

	"go-fleet/internal/driver"
	drivererrors "go-fleet/internal/driver/errors"
	"go-fleet/internal/driver/mock"
	"go-fleet/internal/shared/apperror"
	"go-fleet/internal/shared/testutil"
	"go-fleet/internal/tenant"
	tenanterrors "go-fleet/internal/tenant/errors"
	tenantmock "go-fleet/internal/tenant/mock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/datatypes"
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
	svc     driver.Service
	repo    *mock.MockRepository
	tenants *tenantmock.MockRepository
	cache   *recordingCache
	tx      func(commit bool)
}

func setup(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	db, sqlMock := testutil.NewGormMock(t)
	repo := mock.NewMockRepository(ctrl)
	tenants := tenantmock.NewMockRepository(ctrl)

	repo.EXPECT().WithTx(gomock.Any()).Return(repo).AnyTimes()
	tenants.EXPECT().WithTx(gomock.Any()).Return(tenants).AnyTimes()

	cache := &recordingCache{}

	return fixture{
		svc:     driver.NewService(db, repo, tenants, cache),
		repo:    repo,
		tenants: tenants,
		cache:   cache,
		tx:      func(commit bool) { testutil.ExpectTx(t, sqlMock, commit) },
	}
}

func ptr[T any](v T) *T { return &v }

func withDefaults(id string) *tenant.Tenant {
	return &tenant.Tenant{ID: uuid.MustParse(id), Settings: datatypes.NewJSONType(tenant.DefaultSettings())}
}

func TestDriverService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.NewString()
	req := driver.CreateDriverRequest{
		Name:          "Ravi Kumar",
		Phone:         "+91 98000 00000",
		LicenseNumber: "dl-0420110012345",
		LicenseType:   "C",
		LicenseExpiry: time.Date(2030, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	t.Run("defaults", func(t *testing.T) {
		f := setup(t)

		f.tx(true)
		f.tenants.EXPECT().LockByID(gomock.Any(), tenantID).Return(withDefaults(tenantID), nil)
		f.repo.EXPECT().CountActive(gomock.Any(), tenantID).Return(int64(19), nil)
		f.repo.EXPECT().Create(gomock.Any(), tenantID, gomock.Any()).Return(nil)

		res, err := f.svc.Create(ctx, tenantID, req)

		require.NoError(t, err)
		assert.Equal(t, "DL-0420110012345", res.LicenseNumber)
		assert.Equal(t, driver.StatusAvailable, res.Status)
		assert.Equal(t, float64(5), res.Rating)
		assert.Equal(t, "2030-01-31", res.LicenseExpiry)
		assert.Equal(t, []string{tenantID}, f.cache.tenants)
	})

	t.Run("quota reached", func(t *testing.T) {
		f := setup(t)

		f.tx(false)
		f.tenants.EXPECT().LockByID(gomock.Any(), tenantID).Return(withDefaults(tenantID), nil)
		f.repo.EXPECT().CountActive(gomock.Any(), tenantID).Return(int64(20), nil)

		_, err := f.svc.Create(ctx, tenantID, req)

		assert.ErrorIs(t, err, tenanterrors.ErrQuotaExceeded)
	})

	t.Run("duplicate license within tenant", func(t *testing.T) {
		f := setup(t)

		f.tx(false)
		f.tenants.EXPECT().LockByID(gomock.Any(), tenantID).Return(withDefaults(tenantID), nil)
		f.repo.EXPECT().CountActive(gomock.Any(), tenantID).Return(int64(1), nil)
		f.repo.EXPECT().Create(gomock.Any(), tenantID, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_driver_tenant_license"})

		_, err := f.svc.Create(ctx, tenantID, req)

		assert.ErrorIs(t, err, drivererrors.ErrDriverAlreadyExists)
	})

	t.Run("malformed vehicle id", func(t *testing.T) {
		f := setup(t)
		r := req
		r.AssignedVehicleID = ptr("nope")

		f.tx(false)

		_, err := f.svc.Create(ctx, tenantID, r)

		assert.ErrorIs(t, err, drivererrors.ErrVehicleNotFound)
	})
}

func TestDriverService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.NewString()
	id := uuid.New()

	t.Run("assigns a vehicle of the same tenant", func(t *testing.T) {
		f := setup(t)
		vehicleID := uuid.New()

		f.tx(true)
		f.repo.EXPECT().FindForUpdate(gomock.Any(), tenantID, id.String()).Return(&driver.Driver{ID: id, Version: 2}, nil)
		f.repo.EXPECT().VehicleExists(gomock.Any(), tenantID, vehicleID.String()).Return(true, nil)
		f.repo.EXPECT().UpdateVersioned(gomock.Any(), tenantID, id.String(), int64(2), map[string]any{
			"assigned_vehicle_id": vehicleID,
			"status":              driver.StatusOffDuty,
		}).Return(nil)
		f.repo.EXPECT().FindByID(gomock.Any(), tenantID, id.String()).Return(&driver.Driver{
			ID: id, Version: 3, Status: driver.StatusOffDuty, AssignedVehicleID: &vehicleID, IsActive: true,
			AssignedVehicle: &driver.AssignedVehicle{ID: vehicleID, RegistrationNumber: "AB-123"},
		}, nil)

		res, err := f.svc.Update(ctx, tenantID, id.String(), driver.UpdateDriverRequest{
			AssignedVehicleID: ptr(vehicleID.String()),
			Status:            ptr(driver.StatusOffDuty),
		})

		require.NoError(t, err)
		assert.Equal(t, "AB-123", res.AssignedVehicle.RegistrationNumber)
		assert.Equal(t, int64(3), res.Version)
		assert.Equal(t, []string{tenantID}, f.cache.tenants)
	})

	t.Run("concurrent writer won", func(t *testing.T) {
		f := setup(t)

		f.tx(false)
		f.repo.EXPECT().FindForUpdate(gomock.Any(), tenantID, id.String()).Return(&driver.Driver{ID: id, Version: 2}, nil)
		f.repo.EXPECT().UpdateVersioned(gomock.Any(), tenantID, id.String(), int64(2), gomock.Any()).Return(apperror.ErrVersionConflict)

		_, err := f.svc.Update(ctx, tenantID, id.String(), driver.UpdateDriverRequest{Name: ptr("New Name")})

		assert.ErrorIs(t, err, apperror.ErrVersionConflict)
		assert.Empty(t, f.cache.tenants)
	})
}

func TestDriverService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.NewString()
	id := uuid.NewString()

	t.Run("deactivates and drops the dashboard", func(t *testing.T) {
		f := setup(t)
		f.repo.EXPECT().SoftDelete(gomock.Any(), tenantID, id).Return(nil)

		assert.NoError(t, f.svc.Delete(ctx, tenantID, id))
		assert.Equal(t, []string{tenantID}, f.cache.tenants)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := setup(t)
		f.repo.EXPECT().SoftDelete(gomock.Any(), tenantID, id).Return(gorm.ErrRecordNotFound)

		assert.ErrorIs(t, f.svc.Delete(ctx, tenantID, id), drivererrors.ErrDriverNotFound)
		assert.Empty(t, f.cache.tenants)
	})
}

func TestRelease(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.NewString()
	id := uuid.NewString()

	t.Run("completed trip adds to totals", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)

		repo.EXPECT().FindForUpdate(gomock.Any(), tenantID, id).
			Return(&driver.Driver{Version: 9, Status: driver.StatusOnTrip, TotalTrips: 3, TotalDistance: 500}, nil)
		repo.EXPECT().UpdateVersioned(gomock.Any(), tenantID, id, int64(9), map[string]any{
			"status":         driver.StatusAvailable,
			"total_trips":    int64(4),
			"total_distance": float64(650),
		}).Return(nil)

		_, err := driver.Release(ctx, repo, tenantID, id, true, 150)
		assert.NoError(t, err)
	})

	t.Run("cancelled trip only frees the driver", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)

		repo.EXPECT().FindForUpdate(gomock.Any(), tenantID, id).
			Return(&driver.Driver{Version: 1, TotalTrips: 3}, nil)
		repo.EXPECT().UpdateVersioned(gomock.Any(), tenantID, id, int64(1), map[string]any{
			"status": driver.StatusAvailable,
		}).Return(nil)

		_, err := driver.Release(ctx, repo, tenantID, id, false, 150)
		assert.NoError(t, err)
	})

	t.Run("driver gone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)

		repo.EXPECT().FindForUpdate(gomock.Any(), tenantID, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := driver.Release(ctx, repo, tenantID, id, true, 1)
		assert.ErrorIs(t, err, drivererrors.ErrDriverNotFound)
	})
}

func TestDispatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	tenantID := uuid.NewString()
	id := uuid.NewString()

	repo.EXPECT().FindForUpdate(gomock.Any(), tenantID, id).Return(&driver.Driver{Version: 5, Status: driver.StatusAvailable}, nil)
	repo.EXPECT().UpdateVersioned(gomock.Any(), tenantID, id, int64(5), map[string]any{"status": driver.StatusOnTrip}).Return(nil)

	before, err := driver.Dispatch(context.Background(), repo, tenantID, id)

	assert.NoError(t, err)
	assert.Equal(t, driver.StatusAvailable, before.Status)
}
