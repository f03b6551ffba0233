package driver

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	StatusAvailable = "available"
	StatusOnTrip    = "on-trip"
	StatusOffDuty   = "off-duty"
	StatusSuspended = "suspended"
)

type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

type EmergencyContact struct {
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Relation string `json:"relation,omitempty"`
}

type Driver struct {
	ID                uuid.UUID                            `gorm:"type:uuid;primaryKey"`
	TenantID          uuid.UUID                            `gorm:"type:uuid;not null;index;uniqueIndex:uq_driver_tenant_license,priority:1"`
	Name              string                               `gorm:"type:varchar(100);not null"`
	Email             string                               `gorm:"type:varchar(255)"`
	Phone             string                               `gorm:"type:varchar(30);not null"`
	LicenseNumber     string                               `gorm:"type:varchar(40);not null;uniqueIndex:uq_driver_tenant_license,priority:2"`
	LicenseType       string                               `gorm:"type:varchar(2);not null"`
	LicenseExpiry     time.Time                            `gorm:"type:date;not null"`
	DateOfBirth       *time.Time                           `gorm:"type:date"`
	Address           datatypes.JSONType[Address]          `gorm:"type:jsonb"`
	Status            string                               `gorm:"type:varchar(20);not null;default:available;index"`
	AssignedVehicleID *uuid.UUID                           `gorm:"type:uuid"`
	TotalTrips        int64                                `gorm:"not null;default:0"`
	TotalDistance     float64                              `gorm:"not null;default:0"`
	Rating            float64                              `gorm:"not null;default:5"`
	EmergencyContact  datatypes.JSONType[EmergencyContact] `gorm:"type:jsonb"`
	Notes             string                               `gorm:"type:text"`
	IsActive          bool                                 `gorm:"not null;default:true"`
	Version           int64                                `gorm:"not null;default:1"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	AssignedVehicle *AssignedVehicle `gorm:"foreignKey:AssignedVehicleID;references:ID"`
}

func (Driver) TableName() string {
	return "drivers"
}

func (d *Driver) SetTenantID(id uuid.UUID) {
	d.TenantID = id
}

// AssignedVehicle is the part of a vehicle row shown next to a driver.
type AssignedVehicle struct {
	ID                 uuid.UUID `gorm:"primaryKey"`
	TenantID           uuid.UUID
	RegistrationNumber string
	Make               string
	Model              string
}

func (AssignedVehicle) TableName() string {
	return "vehicles"
}

func (v *AssignedVehicle) SetTenantID(id uuid.UUID) {
	v.TenantID = id
}
