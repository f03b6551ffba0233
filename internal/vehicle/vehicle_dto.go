package vehicle

import "time"

type DriverSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone,omitempty"`
	LicenseNumber string `json:"licenseNumber,omitempty"`
}

type VehicleResponse struct {
	ID                 string         `json:"id"`
	TenantID           string         `json:"tenantId"`
	RegistrationNumber string         `json:"registrationNumber"`
	Make               string         `json:"make"`
	Model              string         `json:"model"`
	Year               int            `json:"year"`
	Type               string         `json:"type"`
	FuelType           string         `json:"fuelType"`
	Status             string         `json:"status"`
	Odometer           float64        `json:"odometer"`
	Capacity           *float64       `json:"capacity,omitempty"`
	Color              string         `json:"color,omitempty"`
	VIN                string         `json:"vin,omitempty"`
	AssignedDriverID   *string        `json:"assignedDriverId"`
	AssignedDriver     *DriverSummary `json:"assignedDriver,omitempty"`
	Insurance          Insurance      `json:"insurance"`
	LastService        *string        `json:"lastService,omitempty"`
	NextServiceDue     *string        `json:"nextServiceDue,omitempty"`
	GPS                GPS            `json:"gps"`
	Notes              string         `json:"notes,omitempty"`
	IsActive           bool           `json:"isActive"`
	Version            int64          `json:"version"`
	CreatedAt          string         `json:"createdAt"`
	UpdatedAt          string         `json:"updatedAt"`
}

type ListVehiclesQuery struct {
	Page            int
	Limit           int
	Status          string
	Type            string
	Search          string
	IncludeInactive bool
}

type CreateVehicleRequest struct {
	RegistrationNumber string     `json:"registrationNumber" binding:"required,max=30"`
	Make               string     `json:"make" binding:"required,max=60"`
	Model              string     `json:"model" binding:"required,max=60"`
	Year               int        `json:"year" binding:"required,min=1990"`
	Type               string     `json:"type" binding:"required,oneof=truck van car bus motorcycle suv pickup other"`
	FuelType           string     `json:"fuelType" binding:"omitempty,oneof=petrol diesel electric hybrid cng lpg"`
	Status             string     `json:"status" binding:"omitempty,oneof=active idle maintenance retired"`
	Odometer           float64    `json:"odometer" binding:"omitempty,min=0"`
	Capacity           *float64   `json:"capacity" binding:"omitempty,min=0"`
	Color              string     `json:"color" binding:"omitempty,max=30"`
	VIN                string     `json:"vin" binding:"omitempty,max=40"`
	AssignedDriverID   *string    `json:"assignedDriverId" binding:"omitempty,uuid"`
	Insurance          *Insurance `json:"insurance"`
	LastService        *time.Time `json:"lastService"`
	NextServiceDue     *time.Time `json:"nextServiceDue"`
	Notes              string     `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateVehicleRequest replaces the fields that are present. Version is
// optional; when sent it must match the stored row.
type UpdateVehicleRequest struct {
	RegistrationNumber *string    `json:"registrationNumber" binding:"omitempty,min=1,max=30"`
	Make               *string    `json:"make" binding:"omitempty,min=1,max=60"`
	Model              *string    `json:"model" binding:"omitempty,min=1,max=60"`
	Year               *int       `json:"year" binding:"omitempty,min=1990"`
	Type               *string    `json:"type" binding:"omitempty,oneof=truck van car bus motorcycle suv pickup other"`
	FuelType           *string    `json:"fuelType" binding:"omitempty,oneof=petrol diesel electric hybrid cng lpg"`
	Status             *string    `json:"status" binding:"omitempty,oneof=active idle maintenance retired"`
	Odometer           *float64   `json:"odometer" binding:"omitempty,min=0"`
	Capacity           *float64   `json:"capacity" binding:"omitempty,min=0"`
	Color              *string    `json:"color" binding:"omitempty,max=30"`
	VIN                *string    `json:"vin" binding:"omitempty,max=40"`
	AssignedDriverID   *string    `json:"assignedDriverId" binding:"omitempty"`
	Insurance          *Insurance `json:"insurance"`
	LastService        *time.Time `json:"lastService"`
	NextServiceDue     *time.Time `json:"nextServiceDue"`
	Notes              *string    `json:"notes" binding:"omitempty,max=2000"`
	Version            *int64     `json:"version" binding:"omitempty,min=1"`
}

type UpdateGPSRequest struct {
	Lat   *float64 `json:"lat" binding:"required,min=-90,max=90"`
	Lng   *float64 `json:"lng" binding:"required,min=-180,max=180"`
	Speed float64  `json:"speed" binding:"omitempty,min=0"`
}
