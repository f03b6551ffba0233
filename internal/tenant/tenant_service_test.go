package tenant_test

import (
	"context"
	"errors"
	"testing"

	"go-fleet/internal/tenant"
	tenanterrors "go-fleet/internal/tenant/errors"
	tenantMock "go-fleet/internal/tenant/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTenant() *tenant.Tenant {
	return &tenant.Tenant{
		ID:       uuid.New(),
		Name:     "Demo Fleet Corp",
		Slug:     "demo-fleet",
		Email:    "demo@fleet.com",
		Plan:     tenant.PlanFree,
		Settings: datatypes.NewJSONType(tenant.DefaultSettings()),
		IsActive: true,
	}
}

func TestTenantService_GetCurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := tenantMock.NewMockRepository(ctrl)
	svc := tenant.NewService(repo)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		existing := newTenant()
		repo.EXPECT().FindByID(ctx, existing.ID.String()).Return(existing, nil)

		resp, err := svc.GetCurrent(ctx, existing.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, "demo-fleet", resp.Slug)
		assert.Equal(t, 10, resp.Settings.MaxVehicles)
	})

	t.Run("not found", func(t *testing.T) {
		repo.EXPECT().FindByID(ctx, gomock.Any()).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.GetCurrent(ctx, uuid.NewString())

		assert.ErrorIs(t, err, tenanterrors.ErrTenantNotFound)
	})
}

func TestTenantService_UpdateSettings(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := tenantMock.NewMockRepository(ctrl)
	svc := tenant.NewService(repo)
	ctx := context.Background()

	t.Run("merges only provided fields", func(t *testing.T) {
		existing := newTenant()
		maxVehicles := 50
		unit := "gallons"

		repo.EXPECT().FindByID(ctx, existing.ID.String()).Return(existing, nil)
		repo.EXPECT().Update(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, updated *tenant.Tenant) error {
				s := updated.Settings.Data()
				assert.Equal(t, 50, s.MaxVehicles)
				assert.Equal(t, 20, s.MaxDrivers)
				assert.Equal(t, "gallons", s.FuelUnit)
				assert.Equal(t, "Demo Fleet Corp", updated.Name)
				return nil
			})

		resp, err := svc.UpdateSettings(ctx, existing.ID.String(), tenant.UpdateSettingsRequest{
			MaxVehicles: &maxVehicles,
			FuelUnit:    &unit,
		})

		assert.NoError(t, err)
		assert.Equal(t, 50, resp.Settings.MaxVehicles)
	})

	t.Run("persist failure surfaces", func(t *testing.T) {
		existing := newTenant()
		boom := errors.New("db down")

		repo.EXPECT().FindByID(ctx, existing.ID.String()).Return(existing, nil)
		repo.EXPECT().Update(ctx, gomock.Any()).Return(boom)

		_, err := svc.UpdateSettings(ctx, existing.ID.String(), tenant.UpdateSettingsRequest{})

		assert.ErrorIs(t, err, boom)
	})
}
