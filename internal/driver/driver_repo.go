package driver

import (
	"context"
	"errors"
	"strings"

	"go-fleet/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=driver_repo.go -destination=mock/driver_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, tenantID string, d *Driver) error
	FindByID(ctx context.Context, tenantID, id string) (*Driver, error)
	FindForUpdate(ctx context.Context, tenantID, id string) (*Driver, error)
	List(ctx context.Context, tenantID string, q ListDriversQuery) ([]Driver, int64, error)
	CountActive(ctx context.Context, tenantID string) (int64, error)
	CountByStatus(ctx context.Context, tenantID string) (map[string]int64, error)
	VehicleExists(ctx context.Context, tenantID, vehicleID string) (bool, error)
	UpdateVersioned(ctx context.Context, tenantID, id string, version int64, values map[string]any) error
	SoftDelete(ctx context.Context, tenantID, id string) error
}

type repository struct {
	store    *tenant.Store[Driver, *Driver]
	vehicles *tenant.Store[AssignedVehicle, *AssignedVehicle]
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{
		store:    tenant.NewStore[Driver](db),
		vehicles: tenant.NewStore[AssignedVehicle](db),
	}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{store: r.store.WithTx(tx), vehicles: r.vehicles.WithTx(tx)}
}

func (r *repository) Create(ctx context.Context, tenantID string, d *Driver) error {
	return r.store.Create(ctx, tenantID, d)
}

func (r *repository) FindByID(ctx context.Context, tenantID, id string) (*Driver, error) {
	return r.store.First(ctx, tenantID, id, func(db *gorm.DB) *gorm.DB {
		return db.Preload("AssignedVehicle", tenant.Scope(tenantID))
	})
}

func (r *repository) FindForUpdate(ctx context.Context, tenantID, id string) (*Driver, error) {
	return r.store.FirstForUpdate(ctx, tenantID, id)
}

func (r *repository) List(ctx context.Context, tenantID string, q ListDriversQuery) ([]Driver, int64, error) {
	lq := tenant.ListQuery{
		Page:    q.Page,
		Limit:   q.Limit,
		Order:   "created_at DESC",
		Preload: []string{"AssignedVehicle"},
	}
	if !q.IncludeInactive {
		lq.Filters = append(lq.Filters, tenant.ActiveOnly)
	}
	if q.Status != "" {
		status := q.Status
		lq.Filters = append(lq.Filters, func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", status)
		})
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + s + "%"
		lq.Filters = append(lq.Filters, func(db *gorm.DB) *gorm.DB {
			return db.Where("name ILIKE ? OR license_number ILIKE ? OR phone ILIKE ?", like, like, like)
		})
	}
	return r.store.Page(ctx, tenantID, lq)
}

func (r *repository) CountActive(ctx context.Context, tenantID string) (int64, error) {
	return r.store.Count(ctx, tenantID, tenant.ActiveOnly)
}

func (r *repository) CountByStatus(ctx context.Context, tenantID string) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.store.Query(ctx, tenantID).
		Scopes(tenant.ActiveOnly).
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

func (r *repository) VehicleExists(ctx context.Context, tenantID, vehicleID string) (bool, error) {
	_, err := r.vehicles.First(ctx, tenantID, vehicleID, tenant.ActiveOnly)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *repository) UpdateVersioned(ctx context.Context, tenantID, id string, version int64, values map[string]any) error {
	return r.store.UpdateVersioned(ctx, tenantID, id, version, values)
}

func (r *repository) SoftDelete(ctx context.Context, tenantID, id string) error {
	rows, err := r.store.Updates(ctx, tenantID, id, map[string]any{
		"is_active": false,
		"version":   gorm.Expr("version + 1"),
	})
	if err != nil {
		return err
	}
	if rows == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
