package tenant

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	PlanFree         = "free"
	PlanStarter      = "starter"
	PlanProfessional = "professional"
	PlanEnterprise   = "enterprise"
)

type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
	Zip     string `json:"zip,omitempty"`
}

type Settings struct {
	MaxVehicles  int    `json:"maxVehicles"`
	MaxDrivers   int    `json:"maxDrivers"`
	MaxUsers     int    `json:"maxUsers"`
	FuelUnit     string `json:"fuelUnit"`
	DistanceUnit string `json:"distanceUnit"`
	Currency     string `json:"currency"`
}

func DefaultSettings() Settings {
	return Settings{
		MaxVehicles:  10,
		MaxDrivers:   20,
		MaxUsers:     5,
		FuelUnit:     "liters",
		DistanceUnit: "km",
		Currency:     "INR",
	}
}

// Tenant is the root of isolation. It is the only fleet table without a
// tenant_id column.
type Tenant struct {
	ID        uuid.UUID                    `gorm:"type:uuid;primaryKey"`
	Name      string                       `gorm:"type:varchar(100);not null"`
	Slug      string                       `gorm:"type:varchar(140);not null;uniqueIndex:uq_tenant_slug"`
	Email     string                       `gorm:"type:varchar(255);not null;uniqueIndex:uq_tenant_email"`
	Phone     string                       `gorm:"type:varchar(30)"`
	Address   datatypes.JSONType[Address]  `gorm:"type:jsonb"`
	Plan      string                       `gorm:"type:varchar(20);not null;default:free"`
	Settings  datatypes.JSONType[Settings] `gorm:"type:jsonb"`
	IsActive  bool                         `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Tenant) TableName() string {
	return "tenants"
}
