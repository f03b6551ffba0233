package trip

import "time"

type VehicleSummary struct {
	ID                 string `json:"id"`
	RegistrationNumber string `json:"registrationNumber"`
	Make               string `json:"make"`
	Model              string `json:"model"`
}

type DriverSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

type TripResponse struct {
	ID              string          `json:"id"`
	TenantID        string          `json:"tenantId"`
	TripNumber      string          `json:"tripNumber"`
	VehicleID       string          `json:"vehicleId"`
	Vehicle         *VehicleSummary `json:"vehicle,omitempty"`
	DriverID        string          `json:"driverId"`
	Driver          *DriverSummary  `json:"driver,omitempty"`
	Origin          Location        `json:"origin"`
	Destination     Location        `json:"destination"`
	CurrentLocation *Location       `json:"currentLocation,omitempty"`
	ScheduledStart  string          `json:"scheduledStart"`
	ScheduledEnd    *string         `json:"scheduledEnd,omitempty"`
	ActualStart     *string         `json:"actualStart,omitempty"`
	ActualEnd       *string         `json:"actualEnd,omitempty"`
	Status          string          `json:"status"`
	Distance        float64         `json:"distance"`
	FuelUsed        float64         `json:"fuelUsed"`
	Cost            float64         `json:"cost"`
	Cargo           Cargo           `json:"cargo"`
	Stops           []Stop          `json:"stops"`
	Notes           string          `json:"notes,omitempty"`
	CreatedBy       *string         `json:"createdBy,omitempty"`
	Version         int64           `json:"version"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
}

type ListTripsQuery struct {
	Page      int
	Limit     int
	Status    string
	VehicleID string
	DriverID  string
}

type LocationInput struct {
	Address string   `json:"address" binding:"required,max=255"`
	Lat     *float64 `json:"lat" binding:"omitempty,min=-90,max=90"`
	Lng     *float64 `json:"lng" binding:"omitempty,min=-180,max=180"`
}

type CargoInput struct {
	Description string   `json:"description" binding:"omitempty,max=500"`
	Weight      *float64 `json:"weight" binding:"omitempty,min=0"`
	Unit        string   `json:"unit" binding:"omitempty,oneof=kg tons lbs"`
}

type StopInput struct {
	Address       string     `json:"address" binding:"required,max=255"`
	Lat           *float64   `json:"lat" binding:"omitempty,min=-90,max=90"`
	Lng           *float64   `json:"lng" binding:"omitempty,min=-180,max=180"`
	ScheduledTime *time.Time `json:"scheduledTime"`
	ArrivedTime   *time.Time `json:"arrivedTime"`
	Status        string     `json:"status" binding:"omitempty,oneof=pending arrived skipped"`
}

type CreateTripRequest struct {
	VehicleID      string        `json:"vehicleId" binding:"required,uuid"`
	DriverID       string        `json:"driverId" binding:"required,uuid"`
	Origin         LocationInput `json:"origin" binding:"required"`
	Destination    LocationInput `json:"destination" binding:"required"`
	ScheduledStart time.Time     `json:"scheduledStart" binding:"required"`
	ScheduledEnd   *time.Time    `json:"scheduledEnd"`
	Status         string        `json:"status" binding:"omitempty,oneof=scheduled in-progress completed cancelled delayed"`
	Distance       float64       `json:"distance" binding:"omitempty,min=0"`
	FuelUsed       float64       `json:"fuelUsed" binding:"omitempty,min=0"`
	Cost           float64       `json:"cost" binding:"omitempty,min=0"`
	Cargo          *CargoInput   `json:"cargo"`
	Stops          []StopInput   `json:"stops" binding:"omitempty,dive"`
	Notes          string        `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateTripRequest replaces the fields that are present. Vehicle and
// driver are fixed once the trip exists.
type UpdateTripRequest struct {
	Origin          *LocationInput `json:"origin"`
	Destination     *LocationInput `json:"destination"`
	CurrentLocation *LocationInput `json:"currentLocation"`
	ScheduledStart  *time.Time     `json:"scheduledStart"`
	ScheduledEnd    *time.Time     `json:"scheduledEnd"`
	Status          *string        `json:"status" binding:"omitempty,oneof=scheduled in-progress completed cancelled delayed"`
	Distance        *float64       `json:"distance" binding:"omitempty,min=0"`
	FuelUsed        *float64       `json:"fuelUsed" binding:"omitempty,min=0"`
	Cost            *float64       `json:"cost" binding:"omitempty,min=0"`
	Cargo           *CargoInput    `json:"cargo"`
	Stops           []StopInput    `json:"stops" binding:"omitempty,dive"`
	Notes           *string        `json:"notes" binding:"omitempty,max=2000"`
	Version         *int64         `json:"version" binding:"omitempty,min=1"`
}
