package dashboard

import (
	"go-fleet/internal/fuellog"
	"go-fleet/internal/trip"
)

type VehicleStats struct {
	Total       int64 `json:"total"`
	Active      int64 `json:"active"`
	Idle        int64 `json:"idle"`
	Maintenance int64 `json:"maintenance"`
}

type DriverStats struct {
	Total     int64 `json:"total"`
	Available int64 `json:"available"`
	OnTrip    int64 `json:"onTrip"`
}

type TripStats struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
}

type MaintenanceStats struct {
	Pending int64 `json:"pending"`
}

type Stats struct {
	Vehicles    VehicleStats     `json:"vehicles"`
	Drivers     DriverStats      `json:"drivers"`
	Trips       TripStats        `json:"trips"`
	Maintenance MaintenanceStats `json:"maintenance"`
}

type MonthlyFuel struct {
	Year          int     `json:"year"`
	Month         int     `json:"month"`
	TotalCost     float64 `json:"totalCost"`
	TotalQuantity float64 `json:"totalQuantity"`
	Count         int64   `json:"count"`
}

type Charts struct {
	MonthlyFuel  []MonthlyFuel       `json:"monthlyFuel"`
	MonthlyTrips []trip.MonthlyCount `json:"monthlyTrips"`
}

type Recent struct {
	Trips    []trip.TripResponse       `json:"trips"`
	FuelLogs []fuellog.FuelLogResponse `json:"fuelLogs"`
}

type StatsResponse struct {
	Stats  Stats  `json:"stats"`
	Charts Charts `json:"charts"`
	Recent Recent `json:"recent"`
}

type PublicStats struct {
	Tenants     int64 `json:"tenants"`
	Vehicles    int64 `json:"vehicles"`
	ActiveTrips int64 `json:"activeTrips"`
}
