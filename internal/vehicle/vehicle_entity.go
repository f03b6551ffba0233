package vehicle

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	StatusActive      = "active"
	StatusIdle        = "idle"
	StatusMaintenance = "maintenance"
	StatusRetired     = "retired"
)

const MinYear = 1990

// GPS is the last reported position. It is a snapshot, not a track.
type GPS struct {
	Lat         *float64   `json:"lat,omitempty"`
	Lng         *float64   `json:"lng,omitempty"`
	Speed       float64    `json:"speed"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

type Insurance struct {
	Provider     string     `json:"provider,omitempty"`
	PolicyNumber string     `json:"policyNumber,omitempty"`
	ExpiryDate   *time.Time `json:"expiryDate,omitempty"`
}

// Vehicle status is mostly driven by trips and maintenance. Every write
// goes through the version column.
type Vehicle struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID           uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_vehicle_tenant_reg,priority:1"`
	RegistrationNumber string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_vehicle_tenant_reg,priority:2"`
	Make               string    `gorm:"type:varchar(60);not null"`
	Model              string    `gorm:"type:varchar(60);not null"`
	Year               int       `gorm:"not null"`
	Type               string    `gorm:"type:varchar(20);not null"`
	FuelType           string    `gorm:"type:varchar(20);not null;default:diesel"`
	Status             string    `gorm:"type:varchar(20);not null;default:idle;index"`
	Odometer           float64   `gorm:"not null;default:0"`
	Capacity           *float64
	Color              string                        `gorm:"type:varchar(30)"`
	VIN                string                        `gorm:"column:vin;type:varchar(40)"`
	AssignedDriverID   *uuid.UUID                    `gorm:"type:uuid"`
	Insurance          datatypes.JSONType[Insurance] `gorm:"type:jsonb"`
	LastService        *time.Time
	NextServiceDue     *time.Time
	GPS                datatypes.JSONType[GPS] `gorm:"column:gps;type:jsonb"`
	Notes              string                  `gorm:"type:text"`
	IsActive           bool                    `gorm:"not null;default:true"`
	Version            int64                   `gorm:"not null;default:1"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	AssignedDriver *AssignedDriver `gorm:"foreignKey:AssignedDriverID;references:ID"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

func (v *Vehicle) SetTenantID(id uuid.UUID) {
	v.TenantID = id
}

// AssignedDriver is the part of a driver row shown next to a vehicle.
type AssignedDriver struct {
	ID            uuid.UUID `gorm:"primaryKey"`
	TenantID      uuid.UUID
	Name          string
	Phone         string
	LicenseNumber string
}

func (AssignedDriver) TableName() string {
	return "drivers"
}

func (d *AssignedDriver) SetTenantID(id uuid.UUID) {
	d.TenantID = id
}
