package dashboard

import (
	"context"

	"go-fleet/internal/trip"

	"gorm.io/gorm"
)

//go:generate mockgen -source=dashboard_repo.go -destination=mock/dashboard_repo_mock.go -package=mock
type Repository interface {
	CountActiveTenants(ctx context.Context) (int64, error)
	CountActiveVehicles(ctx context.Context) (int64, error)
	CountTripsInProgress(ctx context.Context) (int64, error)
}

// repository reads across every tenant. It only ever returns counts.
type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) count(ctx context.Context, table, where string, arg any) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Table(table).Where(where, arg).Count(&total).Error
	return total, err
}

func (r *repository) CountActiveTenants(ctx context.Context) (int64, error) {
	return r.count(ctx, "tenants", "is_active = ?", true)
}

func (r *repository) CountActiveVehicles(ctx context.Context) (int64, error) {
	return r.count(ctx, "vehicles", "is_active = ?", true)
}

func (r *repository) CountTripsInProgress(ctx context.Context) (int64, error) {
	return r.count(ctx, "trips", "status = ?", trip.StatusInProgress)
}
