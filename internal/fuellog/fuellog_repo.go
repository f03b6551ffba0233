package fuellog

import (
	"context"
	"errors"
	"time"

	"go-fleet/internal/tenant"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxExportRows = 10000

// MonthlyTotal is one calendar month of fuel purchases.
type MonthlyTotal struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	TotalQuantity decimal.Decimal `json:"totalQuantity"`
	Count         int64           `json:"count"`
}

//go:generate mockgen -source=fuellog_repo.go -destination=mock/fuellog_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, tenantID string, l *FuelLog) error
	FindByID(ctx context.Context, tenantID, id string) (*FuelLog, error)
	FindForUpdate(ctx context.Context, tenantID, id string) (*FuelLog, error)
	List(ctx context.Context, tenantID string, q ListFuelLogsQuery) ([]FuelLog, int64, error)
	ListForExport(ctx context.Context, tenantID string, from, to *time.Time) ([]FuelLog, error)
	UpdateVersioned(ctx context.Context, tenantID, id string, version int64, values map[string]any) error
	Delete(ctx context.Context, tenantID, id string) error
	VehicleExists(ctx context.Context, tenantID, vehicleID string) (bool, error)
	DriverExists(ctx context.Context, tenantID, driverID string) (bool, error)
	Recent(ctx context.Context, tenantID string, limit int) ([]FuelLog, error)
	MonthlyTotals(ctx context.Context, tenantID string, since time.Time) ([]MonthlyTotal, error)
}

type repository struct {
	store    *tenant.Store[FuelLog, *FuelLog]
	vehicles *tenant.Store[FuelVehicle, *FuelVehicle]
	drivers  *tenant.Store[FuelDriver, *FuelDriver]
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{
		store:    tenant.NewStore[FuelLog](db),
		vehicles: tenant.NewStore[FuelVehicle](db),
		drivers:  tenant.NewStore[FuelDriver](db),
	}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{
		store:    r.store.WithTx(tx),
		vehicles: r.vehicles.WithTx(tx),
		drivers:  r.drivers.WithTx(tx),
	}
}

func (r *repository) Create(ctx context.Context, tenantID string, l *FuelLog) error {
	return r.store.Create(ctx, tenantID, l)
}

func withParties(tenantID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Preload("Vehicle", tenant.Scope(tenantID)).
			Preload("Driver", tenant.Scope(tenantID))
	}
}

func (r *repository) FindByID(ctx context.Context, tenantID, id string) (*FuelLog, error) {
	return r.store.First(ctx, tenantID, id, withParties(tenantID))
}

func (r *repository) FindForUpdate(ctx context.Context, tenantID, id string) (*FuelLog, error) {
	return r.store.FirstForUpdate(ctx, tenantID, id)
}

func dateRange(from, to *time.Time) []func(*gorm.DB) *gorm.DB {
	var filters []func(*gorm.DB) *gorm.DB
	if from != nil {
		f := *from
		filters = append(filters, func(db *gorm.DB) *gorm.DB {
			return db.Where("date >= ?", f)
		})
	}
	if to != nil {
		t := *to
		filters = append(filters, func(db *gorm.DB) *gorm.DB {
			return db.Where("date < ?", t)
		})
	}
	return filters
}

func (r *repository) List(ctx context.Context, tenantID string, q ListFuelLogsQuery) ([]FuelLog, int64, error) {
	lq := tenant.ListQuery{
		Page:    q.Page,
		Limit:   q.Limit,
		Order:   "date DESC",
		Preload: []string{"Vehicle", "Driver"},
		Filters: dateRange(q.From, q.To),
	}
	if q.VehicleID != "" {
		vehicleID := q.VehicleID
		lq.Filters = append(lq.Filters, func(db *gorm.DB) *gorm.DB {
			return db.Where("vehicle_id = ?", vehicleID)
		})
	}
	return r.store.Page(ctx, tenantID, lq)
}

// ListForExport returns at most maxExportRows logs, oldest first.
func (r *repository) ListForExport(ctx context.Context, tenantID string, from, to *time.Time) ([]FuelLog, error) {
	logs := make([]FuelLog, 0)
	err := r.store.Query(ctx, tenantID).
		Scopes(dateRange(from, to)...).
		Scopes(withParties(tenantID)).
		Order("date ASC").
		Limit(maxExportRows).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
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

func (r *repository) VehicleExists(ctx context.Context, tenantID, vehicleID string) (bool, error) {
	_, err := r.vehicles.First(ctx, tenantID, vehicleID, tenant.ActiveOnly)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *repository) DriverExists(ctx context.Context, tenantID, driverID string) (bool, error) {
	_, err := r.drivers.First(ctx, tenantID, driverID, tenant.ActiveOnly)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *repository) Recent(ctx context.Context, tenantID string, limit int) ([]FuelLog, error) {
	logs := make([]FuelLog, 0, limit)
	err := r.store.Query(ctx, tenantID).
		Scopes(withParties(tenantID)).
		Order("date DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *repository) MonthlyTotals(ctx context.Context, tenantID string, since time.Time) ([]MonthlyTotal, error) {
	var rows []MonthlyTotal
	err := r.store.Query(ctx, tenantID).
		Select(
			"EXTRACT(YEAR FROM date)::int AS year, " +
				"EXTRACT(MONTH FROM date)::int AS month, " +
				"COALESCE(SUM(total_cost), 0) AS total_cost, " +
				"COALESCE(SUM(quantity), 0) AS total_quantity, " +
				"COUNT(*) AS count",
		).
		Scopes(dateRange(&since, nil)...).
		Group("year, month").
		Order("year ASC, month ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
