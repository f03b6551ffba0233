package driver

import "time"

type VehicleSummary struct {
	ID                 string `json:"id"`
	RegistrationNumber string `json:"registrationNumber"`
	Make               string `json:"make,omitempty"`
	Model              string `json:"model,omitempty"`
}

type DriverResponse struct {
	ID                string           `json:"id"`
	TenantID          string           `json:"tenantId"`
	Name              string           `json:"name"`
	Email             string           `json:"email,omitempty"`
	Phone             string           `json:"phone"`
	LicenseNumber     string           `json:"licenseNumber"`
	LicenseType       string           `json:"licenseType"`
	LicenseExpiry     string           `json:"licenseExpiry"`
	DateOfBirth       *string          `json:"dateOfBirth,omitempty"`
	Address           Address          `json:"address"`
	Status            string           `json:"status"`
	AssignedVehicleID *string          `json:"assignedVehicleId"`
	AssignedVehicle   *VehicleSummary  `json:"assignedVehicle,omitempty"`
	TotalTrips        int64            `json:"totalTrips"`
	TotalDistance     float64          `json:"totalDistance"`
	Rating            float64          `json:"rating"`
	EmergencyContact  EmergencyContact `json:"emergencyContact"`
	Notes             string           `json:"notes,omitempty"`
	IsActive          bool             `json:"isActive"`
	Version           int64            `json:"version"`
	CreatedAt         string           `json:"createdAt"`
	UpdatedAt         string           `json:"updatedAt"`
}

type ListDriversQuery struct {
	Page            int
	Limit           int
	Status          string
	Search          string
	IncludeInactive bool
}

type CreateDriverRequest struct {
	Name              string            `json:"name" binding:"required,min=2,max=100"`
	Email             string            `json:"email" binding:"omitempty,email"`
	Phone             string            `json:"phone" binding:"required,max=30"`
	LicenseNumber     string            `json:"licenseNumber" binding:"required,max=40"`
	LicenseType       string            `json:"licenseType" binding:"required,oneof=A B C D E"`
	LicenseExpiry     time.Time         `json:"licenseExpiry" binding:"required"`
	DateOfBirth       *time.Time        `json:"dateOfBirth"`
	Address           *Address          `json:"address"`
	Status            string            `json:"status" binding:"omitempty,oneof=available on-trip off-duty suspended"`
	AssignedVehicleID *string           `json:"assignedVehicleId" binding:"omitempty,uuid"`
	Rating            *float64          `json:"rating" binding:"omitempty,min=1,max=5"`
	EmergencyContact  *EmergencyContact `json:"emergencyContact"`
	Notes             string            `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateDriverRequest replaces the fields that are present. Trip totals
// are maintained by trips and cannot be set here.
type UpdateDriverRequest struct {
	Name              *string           `json:"name" binding:"omitempty,min=2,max=100"`
	Email             *string           `json:"email" binding:"omitempty,email"`
	Phone             *string           `json:"phone" binding:"omitempty,min=1,max=30"`
	LicenseNumber     *string           `json:"licenseNumber" binding:"omitempty,min=1,max=40"`
	LicenseType       *string           `json:"licenseType" binding:"omitempty,oneof=A B C D E"`
	LicenseExpiry     *time.Time        `json:"licenseExpiry"`
	DateOfBirth       *time.Time        `json:"dateOfBirth"`
	Address           *Address          `json:"address"`
	Status            *string           `json:"status" binding:"omitempty,oneof=available on-trip off-duty suspended"`
	AssignedVehicleID *string           `json:"assignedVehicleId"`
	Rating            *float64          `json:"rating" binding:"omitempty,min=1,max=5"`
	EmergencyContact  *EmergencyContact `json:"emergencyContact"`
	Notes             *string           `json:"notes" binding:"omitempty,max=2000"`
	Version           *int64            `json:"version" binding:"omitempty,min=1"`
}
