package auth

import (
	"time"

	"go-fleet/internal/tenant"
	"go-fleet/internal/user"
)

type RegisterTenantRequest struct {
	CompanyName string `json:"companyName" binding:"required,min=2,max=100"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"omitempty,max=30"`
	Plan        string `json:"plan" binding:"omitempty,oneof=free starter professional enterprise"`
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Password    string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	TenantSlug string `json:"tenantSlug"`
}

type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=superadmin admin manager driver"`
	Phone    string `json:"phone" binding:"omitempty,max=30"`
}

type AuthResult struct {
	Token     string                `json:"token"`
	ExpiresAt time.Time             `json:"expiresAt"`
	User      user.UserResponse     `json:"user"`
	Tenant    tenant.TenantResponse `json:"tenant"`
}

type MeResponse struct {
	User   user.UserResponse     `json:"user"`
	Tenant tenant.TenantResponse `json:"tenant"`
}
