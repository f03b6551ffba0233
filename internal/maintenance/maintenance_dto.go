package maintenance

import "time"

type VehicleSummary struct {
	ID                 string `json:"id"`
	RegistrationNumber string `json:"registrationNumber"`
	Make               string `json:"make"`
	Model              string `json:"model"`
}

type LogResponse struct {
	ID                  string          `json:"id"`
	TenantID            string          `json:"tenantId"`
	VehicleID           string          `json:"vehicleId"`
	Vehicle             *VehicleSummary `json:"vehicle,omitempty"`
	Type                string          `json:"type"`
	Title               string          `json:"title"`
	Description         string          `json:"description,omitempty"`
	Status              string          `json:"status"`
	ScheduledDate       string          `json:"scheduledDate"`
	CompletedDate       *string         `json:"completedDate,omitempty"`
	OdometerAtService   *float64        `json:"odometerAtService,omitempty"`
	NextServiceOdometer *float64        `json:"nextServiceOdometer,omitempty"`
	Cost                float64         `json:"cost"`
	Vendor              Vendor          `json:"vendor"`
	PartsReplaced       []Part          `json:"partsReplaced"`
	Notes               string          `json:"notes,omitempty"`
	CreatedBy           *string         `json:"createdBy,omitempty"`
	Version             int64           `json:"version"`
	CreatedAt           string          `json:"createdAt"`
	UpdatedAt           string          `json:"updatedAt"`
}

type ListLogsQuery struct {
	Page      int
	Limit     int
	Status    string
	VehicleID string
}

type VendorInput struct {
	Name    string `json:"name" binding:"omitempty,max=120"`
	Phone   string `json:"phone" binding:"omitempty,max=30"`
	Address string `json:"address" binding:"omitempty,max=255"`
}

type PartInput struct {
	Name     string  `json:"name" binding:"required,max=120"`
	Quantity int     `json:"quantity" binding:"omitempty,min=0"`
	Cost     float64 `json:"cost" binding:"omitempty,min=0"`
}

type CreateLogRequest struct {
	VehicleID           string       `json:"vehicleId" binding:"required,uuid"`
	Type                string       `json:"type" binding:"required,oneof=routine repair inspection tire oil-change brake engine electrical other"`
	Title               string       `json:"title" binding:"required,max=150"`
	Description         string       `json:"description" binding:"omitempty,max=2000"`
	Status              string       `json:"status" binding:"omitempty,oneof=scheduled in-progress completed"`
	ScheduledDate       time.Time    `json:"scheduledDate" binding:"required"`
	CompletedDate       *time.Time   `json:"completedDate"`
	OdometerAtService   *float64     `json:"odometerAtService" binding:"omitempty,min=0"`
	NextServiceOdometer *float64     `json:"nextServiceOdometer" binding:"omitempty,min=0"`
	Cost                float64      `json:"cost" binding:"omitempty,min=0"`
	Vendor              *VendorInput `json:"vendor"`
	PartsReplaced       []PartInput  `json:"partsReplaced" binding:"omitempty,dive"`
	Notes               string       `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateLogRequest replaces the fields that are present. The vehicle is
// fixed once the log exists.
type UpdateLogRequest struct {
	Type                *string      `json:"type" binding:"omitempty,oneof=routine repair inspection tire oil-change brake engine electrical other"`
	Title               *string      `json:"title" binding:"omitempty,min=1,max=150"`
	Description         *string      `json:"description" binding:"omitempty,max=2000"`
	Status              *string      `json:"status" binding:"omitempty,oneof=scheduled in-progress completed cancelled"`
	ScheduledDate       *time.Time   `json:"scheduledDate"`
	CompletedDate       *time.Time   `json:"completedDate"`
	OdometerAtService   *float64     `json:"odometerAtService" binding:"omitempty,min=0"`
	NextServiceOdometer *float64     `json:"nextServiceOdometer" binding:"omitempty,min=0"`
	Cost                *float64     `json:"cost" binding:"omitempty,min=0"`
	Vendor              *VendorInput `json:"vendor"`
	PartsReplaced       []PartInput  `json:"partsReplaced" binding:"omitempty,dive"`
	Notes               *string      `json:"notes" binding:"omitempty,max=2000"`
	Version             *int64       `json:"version" binding:"omitempty,min=1"`
}
