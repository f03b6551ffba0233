package user

import (
	"time"

	"github.com/google/uuid"
)

// User emails are unique per tenant only. Two organizations may each
// have an admin@x.com.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_user_tenant_email,priority:1"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_user_tenant_email,priority:2;index"`
	Password  string    `gorm:"column:password_hash;type:text;not null"`
	Role      string    `gorm:"type:varchar(20);not null;default:driver"`
	Phone     string    `gorm:"type:varchar(30)"`
	IsActive  bool      `gorm:"not null;default:true"`
	LastLogin *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	Tenant *UserTenant `gorm:"foreignKey:TenantID;references:ID"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) SetTenantID(id uuid.UUID) {
	u.TenantID = id
}

// UserTenant is the slice of the tenant row login needs.
type UserTenant struct {
	ID       uuid.UUID `gorm:"primaryKey"`
	Name     string
	Slug     string
	IsActive bool
}

func (UserTenant) TableName() string {
	return "tenants"
}
