package trip

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusDelayed    = "delayed"
)

const (
	StopPending = "pending"
	StopArrived = "arrived"
	StopSkipped = "skipped"
)

type Location struct {
	Address string   `json:"address"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

type Cargo struct {
	Description string   `json:"description,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	Unit        string   `json:"unit,omitempty"`
}

type Stop struct {
	Address       string     `json:"address"`
	Lat           *float64   `json:"lat,omitempty"`
	Lng           *float64   `json:"lng,omitempty"`
	ScheduledTime *time.Time `json:"scheduledTime,omitempty"`
	ArrivedTime   *time.Time `json:"arrivedTime,omitempty"`
	Status        string     `json:"status"`
}

type Trip struct {
	ID              uuid.UUID                    `gorm:"type:uuid;primaryKey"`
	TenantID        uuid.UUID                    `gorm:"type:uuid;not null;index:idx_trip_tenant_status,priority:1;uniqueIndex:uq_trip_tenant_number,priority:1"`
	TripNumber      string                       `gorm:"type:varchar(20);not null;uniqueIndex:uq_trip_tenant_number,priority:2"`
	VehicleID       uuid.UUID                    `gorm:"type:uuid;not null;index"`
	DriverID        uuid.UUID                    `gorm:"type:uuid;not null;index"`
	Origin          datatypes.JSONType[Location] `gorm:"type:jsonb;not null"`
	Destination     datatypes.JSONType[Location] `gorm:"type:jsonb;not null"`
	CurrentLocation datatypes.JSONType[Location] `gorm:"type:jsonb"`
	ScheduledStart  time.Time                    `gorm:"not null"`
	ScheduledEnd    *time.Time
	ActualStart     *time.Time
	ActualEnd       *time.Time
	Status          string                     `gorm:"type:varchar(20);not null;default:scheduled;index:idx_trip_tenant_status,priority:2"`
	Distance        float64                    `gorm:"not null;default:0"`
	FuelUsed        float64                    `gorm:"not null;default:0"`
	Cost            float64                    `gorm:"not null;default:0"`
	Cargo           datatypes.JSONType[Cargo]  `gorm:"type:jsonb"`
	Stops           datatypes.JSONType[[]Stop] `gorm:"type:jsonb"`
	Notes           string                     `gorm:"type:text"`
	CreatedBy       *uuid.UUID                 `gorm:"type:uuid"`
	Version         int64                      `gorm:"not null;default:1"`
	CreatedAt       time.Time                  `gorm:"index"`
	UpdatedAt       time.Time

	Vehicle *TripVehicle `gorm:"foreignKey:VehicleID;references:ID"`
	Driver  *TripDriver  `gorm:"foreignKey:DriverID;references:ID"`
}

func (Trip) TableName() string {
	return "trips"
}

func (t *Trip) SetTenantID(id uuid.UUID) {
	t.TenantID = id
}

// TripVehicle is the slice of a vehicle row shown next to a trip.
type TripVehicle struct {
	ID                 uuid.UUID `gorm:"primaryKey"`
	TenantID           uuid.UUID
	RegistrationNumber string
	Make               string
	Model              string
}

func (TripVehicle) TableName() string {
	return "vehicles"
}

type TripDriver struct {
	ID       uuid.UUID `gorm:"primaryKey"`
	TenantID uuid.UUID
	Name     string
	Phone    string
}

func (TripDriver) TableName() string {
	return "drivers"
}
