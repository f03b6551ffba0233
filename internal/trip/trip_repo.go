package trip

import (
	"context"
	"time"

	"go-fleet/internal/tenant"

	"gorm.io/gorm"
)

// MonthlyCount is one calendar month of trips, bucketed by creation time.
type MonthlyCount struct {
	Year      int   `json:"year"`
	Month     int   `json:"month"`
	Count     int64 `json:"count"`
	Completed int64 `json:"completed"`
}

//go:generate mockgen -source=trip_repo.go -destination=mock/trip_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, tenantID string, t *Trip) error
	FindByID(ctx context.Context, tenantID, id string) (*Trip, error)
	FindForUpdate(ctx context.Context, tenantID, id string) (*Trip, error)
	List(ctx context.Context, tenantID string, q ListTripsQuery) ([]Trip, int64, error)
	UpdateVersioned(ctx context.Context, tenantID, id string, version int64, values map[string]any) error
	Delete(ctx context.Context, tenantID, id string) error
	CountByStatus(ctx context.Context, tenantID string) (map[string]int64, error)
	Recent(ctx context.Context, tenantID string, limit int) ([]Trip, error)
	MonthlyCounts(ctx context.Context, tenantID string, since time.Time) ([]MonthlyCount, error)
}

type repository struct {
	store *tenant.Store[Trip, *Trip]
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{store: tenant.NewStore[Trip](db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{store: r.store.WithTx(tx)}
}

func (r *repository) Create(ctx context.Context, tenantID string, t *Trip) error {
	return r.store.Create(ctx, tenantID, t)
}

func withParties(tenantID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Preload("Vehicle", tenant.Scope(tenantID)).
			Preload("Driver", tenant.Scope(tenantID))
	}
}

func (r *repository) FindByID(ctx context.Context, tenantID, id string) (*Trip, error) {
	return r.store.First(ctx, tenantID, id, withParties(tenantID))
}

func (r *repository) FindForUpdate(ctx context.Context, tenantID, id string) (*Trip, error) {
	return r.store.FirstForUpdate(ctx, tenantID, id)
}

func (r *repository) List(ctx context.Context, tenantID string, q ListTripsQuery) ([]Trip, int64, error) {
	lq := tenant.ListQuery{
		Page:    q.Page,
		Limit:   q.Limit,
		Order:   "created_at DESC",
		Preload: []string{"Vehicle", "Driver"},
	}
	if q.Status != "" {
		status := q.Status
		lq.Filters = append(lq.Filters, func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", status)
		})
	}
	if q.VehicleID != "" {
		vehicleID := q.VehicleID
		lq.Filters = append(lq.Filters, func(db *gorm.DB) *gorm.DB {
			return db.Where("vehicle_id = ?", vehicleID)
		})
	}
	if q.DriverID != "" {
		driverID := q.DriverID
		lq.Filters = append(lq.Filters, func(db *gorm.DB) *gorm.DB {
			return db.Where("driver_id = ?", driverID)
		})
	}
	return r.store.Page(ctx, tenantID, lq)
}

func (r *repository) UpdateVersioned(ctx context.Context, tenantID, id string, version int64, values map[string]any) error {
	return r.store.UpdateVersioned(ctx, tenantID, id, version, values)
}

func (r *repository) Delete(ctx context.Context, tenantID, id string) error {
	rows, err := r.store.Delete(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CountByStatus(ctx context.Context, tenantID string) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.store.Query(ctx, tenantID).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}

func (r *repository) Recent(ctx context.Context, tenantID string, limit int) ([]Trip, error) {
	trips := make([]Trip, 0, limit)
	err := r.store.Query(ctx, tenantID).
		Scopes(withParties(tenantID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}

func createdSince(since time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("created_at >= ?", since)
	}
}

func (r *repository) MonthlyCounts(ctx context.Context, tenantID string, since time.Time) ([]MonthlyCount, error) {
	var rows []MonthlyCount
	err := r.store.Query(ctx, tenantID).
		Select(
			"EXTRACT(YEAR FROM created_at)::int AS year, " +
				"EXTRACT(MONTH FROM created_at)::int AS month, " +
				"COUNT(*) AS count, " +
				"COUNT(*) FILTER (WHERE status = ?) AS completed",
			StatusCompleted,
		).
		Scopes(createdSince(since)).
		Group("year, month").
		Order("year ASC, month ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
