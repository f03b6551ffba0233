package maintenance

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
)

type Vendor struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type Part struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Cost     float64 `json:"cost"`
}

type Log struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID            uuid.UUID `gorm:"type:uuid;not null;index:idx_maintenance_tenant_vehicle,priority:1;index:idx_maintenance_tenant_status,priority:1"`
	VehicleID           uuid.UUID `gorm:"type:uuid;not null;index:idx_maintenance_tenant_vehicle,priority:2"`
	Type                string    `gorm:"type:varchar(20);not null"`
	Title               string    `gorm:"type:varchar(150);not null"`
	Description         string    `gorm:"type:text"`
	Status              string    `gorm:"type:varchar(20);not null;default:scheduled;index:idx_maintenance_tenant_status,priority:2"`
	ScheduledDate       time.Time `gorm:"not null"`
	CompletedDate       *time.Time
	OdometerAtService   *float64
	NextServiceOdometer *float64
	Cost                float64                    `gorm:"not null;default:0"`
	Vendor              datatypes.JSONType[Vendor] `gorm:"type:jsonb"`
	PartsReplaced       datatypes.JSONType[[]Part] `gorm:"type:jsonb"`
	Notes               string                     `gorm:"type:text"`
	CreatedBy           *uuid.UUID                 `gorm:"type:uuid"`
	Version             int64                      `gorm:"not null;default:1"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Vehicle *LogVehicle `gorm:"foreignKey:VehicleID;references:ID"`
}

func (Log) TableName() string {
	return "maintenance_logs"
}

func (l *Log) SetTenantID(id uuid.UUID) {
	l.TenantID = id
}

type LogVehicle struct {
	ID                 uuid.UUID `gorm:"primaryKey"`
	TenantID           uuid.UUID
	RegistrationNumber string
	Make               string
	Model              string
}

func (LogVehicle) TableName() string {
	return "vehicles"
}
