package seed

import (
	"context"
	"errors"
	"time"

	"go-fleet/internal/auth"
	"go-fleet/internal/domain"
	"go-fleet/internal/driver"
	"go-fleet/internal/shared/counter"
	"go-fleet/internal/tenant"
	"go-fleet/internal/trip"
	"go-fleet/internal/user"
	"go-fleet/internal/vehicle"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DemoSlug     = "demo-fleet"
	DemoEmail    = "admin@demo.com"
	DemoPassword = "password123"
	DemoVehicle  = "DEMO-001"
	DemoLicense  = "DL-DEMO-001"
)

func ptr[T any](v T) *T { return &v }

// Run creates the demo tenant and its fleet. Every step looks for its row
// first, so running it again changes nothing.
func Run(ctx context.Context, db *gorm.DB, hasher auth.PasswordHasher, logger *zap.Logger) error {
	log := logger.Named("seed")

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := ensureTenant(tx, log)
		if err != nil {
			return err
		}
		admin, err := ensureAdmin(tx, t.ID, hasher, log)
		if err != nil {
			return err
		}
		v, err := ensureVehicle(tx, t.ID, log)
		if err != nil {
			return err
		}
		d, err := ensureDriver(tx, t.ID, log)
		if err != nil {
			return err
		}
		return ensureTrips(ctx, tx, t.ID, admin.ID, v.ID, d.ID, log)
	})
}

// firstOrNil treats a missing row as (nil, nil).
func firstOrNil[T any](tx *gorm.DB, query string, args ...any) (*T, error) {
	var out T
	err := tx.Where(query, args...).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func ensureTenant(tx *gorm.DB, log *zap.Logger) (*tenant.Tenant, error) {
	t, err := firstOrNil[tenant.Tenant](tx, "slug = ?", DemoSlug)
	if err != nil || t != nil {
		return t, err
	}

	settings := tenant.DefaultSettings()
	t = &tenant.Tenant{
		ID:       uuid.New(),
		Name:     "Demo Fleet Corp",
		Slug:     DemoSlug,
		Email:    "demo@fleet.com",
		Plan:     tenant.PlanFree,
		Settings: datatypes.NewJSONType(settings),
		IsActive: true,
	}
	if err := tx.Create(t).Error; err != nil {
		return nil, err
	}
	log.Info("tenant created", zap.String("slug", t.Slug))
	return t, nil
}

func ensureAdmin(tx *gorm.DB, tenantID uuid.UUID, hasher auth.PasswordHasher, log *zap.Logger) (*user.User, error) {
	u, err := firstOrNil[user.User](tx, "tenant_id = ? AND email = ?", tenantID, DemoEmail)
	if err != nil || u != nil {
		return u, err
	}

	hash, err := hasher.Hash(DemoPassword)
	if err != nil {
		return nil, err
	}
	u = &user.User{
		ID:       uuid.New(),
		TenantID: tenantID,
		Name:     "Admin User",
		Email:    DemoEmail,
		Password: hash,
		Role:     string(domain.RoleAdmin),
		IsActive: true,
	}
	if err := tx.Create(u).Error; err != nil {
		return nil, err
	}
	log.Info("admin user created", zap.String("email", u.Email))
	return u, nil
}

func ensureVehicle(tx *gorm.DB, tenantID uuid.UUID, log *zap.Logger) (*vehicle.Vehicle, error) {
	v, err := firstOrNil[vehicle.Vehicle](tx, "tenant_id = ? AND registration_number = ?", tenantID, DemoVehicle)
	if err != nil || v != nil {
		return v, err
	}

	v = &vehicle.Vehicle{
		ID:                 uuid.New(),
		TenantID:           tenantID,
		RegistrationNumber: DemoVehicle,
		Make:               "Tesla",
		Model:              "Model Semi",
		Year:               2024,
		Type:               "truck",
		FuelType:           "electric",
		Status:             vehicle.StatusActive,
		GPS:                datatypes.NewJSONType(vehicle.GPS{Lat: ptr(19.0760), Lng: ptr(72.8777), Speed: 65}),
		IsActive:           true,
		Version:            1,
	}
	if err := tx.Create(v).Error; err != nil {
		return nil, err
	}
	log.Info("vehicle created", zap.String("registration_number", v.RegistrationNumber))
	return v, nil
}

func ensureDriver(tx *gorm.DB, tenantID uuid.UUID, log *zap.Logger) (*driver.Driver, error) {
	d, err := firstOrNil[driver.Driver](tx, "tenant_id = ? AND license_number = ?", tenantID, DemoLicense)
	if err != nil || d != nil {
		return d, err
	}

	d = &driver.Driver{
		ID:            uuid.New(),
		TenantID:      tenantID,
		Name:          "John Doe",
		Phone:         "+91 9876543210",
		LicenseNumber: DemoLicense,
		LicenseType:   "C",
		LicenseExpiry: time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC),
		Status:        driver.StatusOnTrip,
		Rating:        5,
		IsActive:      true,
		Version:       1,
	}
	if err := tx.Create(d).Error; err != nil {
		return nil, err
	}
	log.Info("driver created", zap.String("license_number", d.LicenseNumber))
	return d, nil
}

type demoTrip struct {
	origin, destination, current trip.Location
	distance                     float64
}

func loc(address string, lat, lng float64) trip.Location {
	return trip.Location{Address: address, Lat: ptr(lat), Lng: ptr(lng)}
}

var demoTrips = []demoTrip{
	{
		origin:      loc("Mumbai Port, Maharashtra", 18.9438, 72.8387),
		destination: loc("Pune Logistics Park, Maharashtra", 18.5204, 73.8567),
		current:     loc("En Route - Expressway", 18.7500, 73.3500),
		distance:    150,
	},
	{
		origin:      loc("Delhi Hub, New Delhi", 28.6139, 77.2090),
		destination: loc("Electronic City, Bangalore", 12.9716, 77.5946),
		current:     loc("Processing - NH44", 21.1458, 79.0882),
		distance:    2100,
	},
}

// ensureTrips adds the demo trips to a tenant that has none. Numbers come
// from the tenant counter so later trips continue the sequence.
func ensureTrips(ctx context.Context, tx *gorm.DB, tenantID, adminID, vehicleID, driverID uuid.UUID, log *zap.Logger) error {
	var existing int64
	if err := tx.Model(&trip.Trip{}).Where("tenant_id = ?", tenantID).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	counters := counter.NewRepository(tx)
	now := time.Now().UTC()
	for _, dt := range demoTrips {
		n, err := counters.GetNextValue(ctx, tenantID.String(), counter.TripNumber)
		if err != nil {
			return err
		}
		t := &trip.Trip{
			ID:              uuid.New(),
			TenantID:        tenantID,
			TripNumber:      trip.FormatTripNumber(n),
			VehicleID:       vehicleID,
			DriverID:        driverID,
			Origin:          datatypes.NewJSONType(dt.origin),
			Destination:     datatypes.NewJSONType(dt.destination),
			CurrentLocation: datatypes.NewJSONType(dt.current),
			ScheduledStart:  now,
			ActualStart:     &now,
			Status:          trip.StatusInProgress,
			Distance:        dt.distance,
			Stops:           datatypes.NewJSONType([]trip.Stop{}),
			CreatedBy:       &adminID,
			Version:         1,
		}
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		log.Info("trip created", zap.String("trip_number", t.TripNumber))
	}
	return nil
}
