package tenant

type TenantResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Slug      string   `json:"slug"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone,omitempty"`
	Address   Address  `json:"address"`
	Plan      string   `json:"plan"`
	Settings  Settings `json:"settings"`
	IsActive  bool     `json:"isActive"`
	CreatedAt string   `json:"createdAt"`
}

type UpdateSettingsRequest struct {
	Name         *string  `json:"name" binding:"omitempty,min=1,max=100"`
	Phone        *string  `json:"phone" binding:"omitempty,max=30"`
	Address      *Address `json:"address"`
	MaxVehicles  *int     `json:"maxVehicles" binding:"omitempty,min=1"`
	MaxDrivers   *int     `json:"maxDrivers" binding:"omitempty,min=1"`
	MaxUsers     *int     `json:"maxUsers" binding:"omitempty,min=1"`
	FuelUnit     *string  `json:"fuelUnit" binding:"omitempty,oneof=liters gallons kwh"`
	DistanceUnit *string  `json:"distanceUnit" binding:"omitempty,oneof=km miles"`
	Currency     *string  `json:"currency" binding:"omitempty,len=3"`
}
