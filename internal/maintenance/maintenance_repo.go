package maintenance

import (
	"context"

	"go-fleet/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=maintenance_repo.go -destination=mock/maintenance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, tenantID string, l *Log) error
	FindByID(ctx context.Context, tenantID, id string) (*Log, error)
	FindForUpdate(ctx context.Context, tenantID, id string) (*Log, error)
	List(ctx context.Context, tenantID string, q ListLogsQuery) ([]Log, int64, error)
	UpdateVersioned(ctx context.Context, tenantID, id string, version int64, values map[string]any) error
	Delete(ctx context.Context, tenantID, id string) error
	CountPending(ctx context.Context, tenantID string) (int64, error)
}

type repository struct {
	store *tenant.Store[Log, *Log]
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{store: tenant.NewStore[Log](db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{store: r.store.WithTx(tx)}
}

func (r *repository) Create(ctx context.Context, tenantID string, l *Log) error {
	return r.store.Create(ctx, tenantID, l)
}

func (r *repository) FindByID(ctx context.Context, tenantID, id string) (*Log, error) {
	return r.store.First(ctx, tenantID, id, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Vehicle", tenant.Scope(tenantID))
	})
}

func (r *repository) FindForUpdate(ctx context.Context, tenantID, id string) (*Log, error) {
	return r.store.FirstForUpdate(ctx, tenantID, id)
}

func (r *repository) List(ctx context.Context, tenantID string, q ListLogsQuery) ([]Log, int64, error) {
	lq := tenant.ListQuery{
		Page:    q.Page,
		Limit:   q.Limit,
		Order:   "scheduled_date DESC",
		Preload: []string{"Vehicle"},
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

// CountPending counts work that is scheduled or under way.
func (r *repository) CountPending(ctx context.Context, tenantID string) (int64, error) {
	return r.store.Count(ctx, tenantID, func(db *gorm.DB) *gorm.DB {
		return db.Where("status IN ?", []string{StatusScheduled, StatusInProgress})
	})
}
