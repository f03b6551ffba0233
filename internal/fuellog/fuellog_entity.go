package fuellog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	UnitLiters  = "liters"
	UnitGallons = "gallons"
	UnitKWh     = "kwh"
)

type Station struct {
	Name     string `json:"name,omitempty"`
	Location string `json:"location,omitempty"`
}

type FuelLog struct {
	ID           uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID                   `gorm:"type:uuid;not null;index:idx_fuel_tenant_vehicle,priority:1;index:idx_fuel_tenant_date,priority:1"`
	VehicleID    uuid.UUID                   `gorm:"type:uuid;not null;index:idx_fuel_tenant_vehicle,priority:2"`
	DriverID     *uuid.UUID                  `gorm:"type:uuid"`
	Date         time.Time                   `gorm:"not null;index:idx_fuel_tenant_date,priority:2,sort:desc"`
	FuelType     string                      `gorm:"type:varchar(20);not null"`
	Quantity     decimal.Decimal             `gorm:"type:numeric(12,3);not null"`
	Unit         string                      `gorm:"type:varchar(10);not null;default:liters"`
	PricePerUnit decimal.Decimal             `gorm:"type:numeric(12,3);not null"`
	TotalCost    decimal.Decimal             `gorm:"type:numeric(14,2);not null"`
	Odometer     float64                     `gorm:"not null"`
	Station      datatypes.JSONType[Station] `gorm:"type:jsonb"`
	FullTank     bool                        `gorm:"not null;default:true"`
	Notes        string                      `gorm:"type:text"`
	CreatedBy    *uuid.UUID                  `gorm:"type:uuid"`
	Version      int64                       `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Vehicle *FuelVehicle `gorm:"foreignKey:VehicleID;references:ID"`
	Driver  *FuelDriver  `gorm:"foreignKey:DriverID;references:ID"`
}

func (FuelLog) TableName() string {
	return "fuel_logs"
}

func (l *FuelLog) SetTenantID(id uuid.UUID) {
	l.TenantID = id
}

// TotalCost is quantity times unit price rounded to cents. It is the only
// way a log's total is ever set.
func TotalCost(quantity, pricePerUnit decimal.Decimal) decimal.Decimal {
	return quantity.Mul(pricePerUnit).Round(2)
}

type FuelVehicle struct {
	ID                 uuid.UUID `gorm:"primaryKey"`
	TenantID           uuid.UUID
	RegistrationNumber string
	Make               string
	IsActive           bool
}

func (FuelVehicle) TableName() string {
	return "vehicles"
}

func (v *FuelVehicle) SetTenantID(id uuid.UUID) {
	v.TenantID = id
}

type FuelDriver struct {
	ID       uuid.UUID `gorm:"primaryKey"`
	TenantID uuid.UUID
	Name     string
	IsActive bool
}

func (FuelDriver) TableName() string {
	return "drivers"
}

func (d *FuelDriver) SetTenantID(id uuid.UUID) {
	d.TenantID = id
}
