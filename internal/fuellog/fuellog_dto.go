package fuellog

import "time"

type VehicleSummary struct {
	ID                 string `json:"id"`
	RegistrationNumber string `json:"registrationNumber"`
	Make               string `json:"make"`
}

type DriverSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type FuelLogResponse struct {
	ID           string          `json:"id"`
	TenantID     string          `json:"tenantId"`
	VehicleID    string          `json:"vehicleId"`
	Vehicle      *VehicleSummary `json:"vehicle,omitempty"`
	DriverID     *string         `json:"driverId"`
	Driver       *DriverSummary  `json:"driver,omitempty"`
	Date         string          `json:"date"`
	FuelType     string          `json:"fuelType"`
	Quantity     float64         `json:"quantity"`
	Unit         string          `json:"unit"`
	PricePerUnit float64         `json:"pricePerUnit"`
	TotalCost    float64         `json:"totalCost"`
	Odometer     float64         `json:"odometer"`
	Station      Station         `json:"station"`
	FullTank     bool            `json:"fullTank"`
	Notes        string          `json:"notes,omitempty"`
	CreatedBy    *string         `json:"createdBy,omitempty"`
	Version      int64           `json:"version"`
	CreatedAt    string          `json:"createdAt"`
	UpdatedAt    string          `json:"updatedAt"`
}

type ListFuelLogsQuery struct {
	Page      int
	Limit     int
	VehicleID string
	From      *time.Time
	To        *time.Time
}

type StationInput struct {
	Name     string `json:"name" binding:"omitempty,max=120"`
	Location string `json:"location" binding:"omitempty,max=255"`
}

// CreateFuelLogRequest has no totalCost. A client-sent value is dropped
// when the body is decoded.
type CreateFuelLogRequest struct {
	VehicleID    string        `json:"vehicleId" binding:"required,uuid"`
	DriverID     *string       `json:"driverId" binding:"omitempty,uuid"`
	Date         *time.Time    `json:"date"`
	FuelType     string        `json:"fuelType" binding:"required,oneof=petrol diesel electric hybrid cng lpg"`
	Quantity     float64       `json:"quantity" binding:"required,gt=0"`
	Unit         string        `json:"unit" binding:"omitempty,oneof=liters gallons kwh"`
	PricePerUnit float64       `json:"pricePerUnit" binding:"required,gt=0"`
	Odometer     float64       `json:"odometer" binding:"min=0"`
	Station      *StationInput `json:"station"`
	FullTank     *bool         `json:"fullTank"`
	Notes        string        `json:"notes" binding:"omitempty,max=2000"`
}

type UpdateFuelLogRequest struct {
	DriverID     *string       `json:"driverId" binding:"omitempty,uuid"`
	Date         *time.Time    `json:"date"`
	FuelType     *string       `json:"fuelType" binding:"omitempty,oneof=petrol diesel electric hybrid cng lpg"`
	Quantity     *float64      `json:"quantity" binding:"omitempty,gt=0"`
	Unit         *string       `json:"unit" binding:"omitempty,oneof=liters gallons kwh"`
	PricePerUnit *float64      `json:"pricePerUnit" binding:"omitempty,gt=0"`
	Odometer     *float64      `json:"odometer" binding:"omitempty,min=0"`
	Station      *StationInput `json:"station"`
	FullTank     *bool         `json:"fullTank"`
	Notes        *string       `json:"notes" binding:"omitempty,max=2000"`
	Version      *int64        `json:"version" binding:"omitempty,min=1"`
}
