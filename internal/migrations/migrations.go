package migrations

import (
	"go-fleet/internal/driver"
	"go-fleet/internal/fuellog"
	"go-fleet/internal/maintenance"
	"go-fleet/internal/messaging/kafka"
	"go-fleet/internal/shared/counter"
	"go-fleet/internal/tenant"
	"go-fleet/internal/trip"
	"go-fleet/internal/user"
	"go-fleet/internal/vehicle"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

type foreignKey struct {
	table, name, column, ref string
	onDelete                 string
}

// Relations between tenant-owned tables. Vehicle and driver assignment
// reference each other, so they are added after both tables exist.
var foreignKeys = []foreignKey{
	{"users", "fk_users_tenant", "tenant_id", "tenants(id)", "CASCADE"},
	{"drivers", "fk_drivers_tenant", "tenant_id", "tenants(id)", "CASCADE"},
	{"vehicles", "fk_vehicles_tenant", "tenant_id", "tenants(id)", "CASCADE"},
	{"vehicles", "fk_vehicles_assigned_driver", "assigned_driver_id", "drivers(id)", "SET NULL"},
	{"drivers", "fk_drivers_assigned_vehicle", "assigned_vehicle_id", "vehicles(id)", "SET NULL"},
	{"trips", "fk_trips_vehicle", "vehicle_id", "vehicles(id)", "RESTRICT"},
	{"trips", "fk_trips_driver", "driver_id", "drivers(id)", "RESTRICT"},
	{"maintenance_logs", "fk_maintenance_logs_vehicle", "vehicle_id", "vehicles(id)", "RESTRICT"},
	{"fuel_logs", "fk_fuel_logs_vehicle", "vehicle_id", "vehicles(id)", "RESTRICT"},
	{"fuel_logs", "fk_fuel_logs_driver", "driver_id", "drivers(id)", "SET NULL"},
}

func List() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "202605010001_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&tenant.Tenant{},
					&user.User{},
					&driver.Driver{},
					&vehicle.Vehicle{},
					&trip.Trip{},
					&maintenance.Log{},
					&fuellog.FuelLog{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					"fuel_logs", "maintenance_logs", "trips", "vehicles", "drivers", "users", "tenants",
				)
			},
		},
		{
			ID: "202605010002_create_support_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&counter.TenantCounter{}, &kafka.OutboxEvent{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("outbox_events", "tenant_counters")
			},
		},
		{
			ID: "202605010003_add_foreign_keys",
			Migrate: func(tx *gorm.DB) error {
				for _, fk := range foreignKeys {
					if err := tx.Exec(
						"ALTER TABLE " + fk.table + " DROP CONSTRAINT IF EXISTS " + fk.name,
					).Error; err != nil {
						return err
					}
					if err := tx.Exec(
						"ALTER TABLE " + fk.table + " ADD CONSTRAINT " + fk.name +
							" FOREIGN KEY (" + fk.column + ") REFERENCES " + fk.ref +
							" ON DELETE " + fk.onDelete,
					).Error; err != nil {
						return err
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				for i := len(foreignKeys) - 1; i >= 0; i-- {
					fk := foreignKeys[i]
					if err := tx.Exec("ALTER TABLE " + fk.table + " DROP CONSTRAINT IF EXISTS " + fk.name).Error; err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}

func New(db *gorm.DB) *gormigrate.Gormigrate {
	opts := *gormigrate.DefaultOptions
	opts.UseTransaction = true
	return gormigrate.New(db, &opts, List())
}

func Migrate(db *gorm.DB) error {
	return New(db).Migrate()
}

func RollbackLast(db *gorm.DB) error {
	return New(db).RollbackLast()
}
