package driver

import (
	"context"
	"strings"
	"time"

	drivererrors "go-fleet/internal/driver/errors"
	"go-fleet/internal/events"
	"go-fleet/internal/shared/apperror"
	"go-fleet/internal/shared/contextutil"
	"go-fleet/internal/tenant"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service interface {
	List(ctx context.Context, tenantID string, q ListDriversQuery) ([]DriverResponse, int64, error)
	GetByID(ctx context.Context, tenantID, id string, includeInactive bool) (DriverResponse, error)
	Create(ctx context.Context, tenantID string, req CreateDriverRequest) (DriverResponse, error)
	Update(ctx context.Context, tenantID, id string, req UpdateDriverRequest) (DriverResponse, error)
	Delete(ctx context.Context, tenantID, id string) error
}

type service struct {
	db      *gorm.DB
	repo    Repository
	tenants tenant.Repository
	cache   events.CacheInvalidator
	logger  *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, tenants tenant.Repository, cache events.CacheInvalidator, logger ...*zap.Logger) Service {
	l := zap.L().Named("driver.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("driver.service")
	}
	return &service{db: db, repo: repo, tenants: tenants, cache: cache, logger: l}
}

func normalizeLicense(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *service) List(ctx context.Context, tenantID string, q ListDriversQuery) ([]DriverResponse, int64, error) {
	drivers, total, err := s.repo.List(ctx, tenantID, q)
	if err != nil {
		s.logger.Error("list drivers failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		return nil, 0, mapRepositoryError(err)
	}

	resp := make([]DriverResponse, len(drivers))
	for i, d := range drivers {
		resp[i] = MapToResponse(d)
	}
	return resp, total, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string, includeInactive bool) (DriverResponse, error) {
	d, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return DriverResponse{}, mapRepositoryError(err)
	}
	if !d.IsActive && !includeInactive {
		return DriverResponse{}, drivererrors.ErrDriverNotFound
	}
	return MapToResponse(*d), nil
}

func (s *service) resolveVehicle(ctx context.Context, repo Repository, tenantID, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, drivererrors.ErrVehicleNotFound
	}
	ok, err := repo.VehicleExists(ctx, tenantID, id.String())
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, drivererrors.ErrVehicleNotFound
	}
	return id, nil
}

func (s *service) Create(ctx context.Context, tenantID string, req CreateDriverRequest) (DriverResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	d := &Driver{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(req.Name),
		Email:         normalizeEmail(req.Email),
		Phone:         strings.TrimSpace(req.Phone),
		LicenseNumber: normalizeLicense(req.LicenseNumber),
		LicenseType:   req.LicenseType,
		LicenseExpiry: req.LicenseExpiry,
		DateOfBirth:   req.DateOfBirth,
		Status:        req.Status,
		Rating:        5,
		Notes:         req.Notes,
		IsActive:      true,
		Version:       1,
	}
	if d.Status == "" {
		d.Status = StatusAvailable
	}
	if req.Rating != nil {
		d.Rating = *req.Rating
	}
	if req.Address != nil {
		d.Address = datatypes.NewJSONType(*req.Address)
	}
	if req.EmergencyContact != nil {
		d.EmergencyContact = datatypes.NewJSONType(*req.EmergencyContact)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if req.AssignedVehicleID != nil && *req.AssignedVehicleID != "" {
			vehicleID, err := s.resolveVehicle(ctx, repo, tenantID, *req.AssignedVehicleID)
			if err != nil {
				return err
			}
			d.AssignedVehicleID = &vehicleID
		}

		t, err := s.tenants.WithTx(tx).LockByID(ctx, tenantID)
		if err != nil {
			return tenant.MapRepositoryError(err)
		}
		active, err := repo.CountActive(ctx, tenantID)
		if err != nil {
			return err
		}
		if err := tenant.EnsureCapacity(t.Settings.Data(), tenant.ResourceDrivers, active); err != nil {
			return err
		}

		return repo.Create(ctx, tenantID, d)
	})
	if err != nil {
		s.logger.Warn("create driver failed",
			zap.String("request_id", rid),
			zap.String("tenant_id", tenantID),
			zap.String("license_number", d.LicenseNumber),
			zap.Error(err),
		)
		return DriverResponse{}, mapRepositoryError(err)
	}

	s.invalidate(ctx, tenantID)
	s.logger.Info("driver created",
		zap.String("request_id", rid),
		zap.String("tenant_id", tenantID),
		zap.String("driver_id", d.ID.String()),
	)
	return MapToResponse(*d), nil
}

func (s *service) Update(ctx context.Context, tenantID, id string, req UpdateDriverRequest) (DriverResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		d, err := repo.FindForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if req.Version != nil && *req.Version != d.Version {
			return apperror.ErrVersionConflict
		}

		values := map[string]any{}
		if req.Name != nil {
			values["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Email != nil {
			values["email"] = normalizeEmail(*req.Email)
		}
		if req.Phone != nil {
			values["phone"] = strings.TrimSpace(*req.Phone)
		}
		if req.LicenseNumber != nil {
			values["license_number"] = normalizeLicense(*req.LicenseNumber)
		}
		if req.LicenseType != nil {
			values["license_type"] = *req.LicenseType
		}
		if req.LicenseExpiry != nil {
			values["license_expiry"] = *req.LicenseExpiry
		}
		if req.DateOfBirth != nil {
			values["date_of_birth"] = *req.DateOfBirth
		}
		if req.Address != nil {
			values["address"] = datatypes.NewJSONType(*req.Address)
		}
		if req.Status != nil {
			values["status"] = *req.Status
		}
		if req.Rating != nil {
			values["rating"] = *req.Rating
		}
		if req.EmergencyContact != nil {
			values["emergency_contact"] = datatypes.NewJSONType(*req.EmergencyContact)
		}
		if req.Notes != nil {
			values["notes"] = *req.Notes
		}
		if req.AssignedVehicleID != nil {
			if *req.AssignedVehicleID == "" {
				values["assigned_vehicle_id"] = nil
			} else {
				vehicleID, err := s.resolveVehicle(ctx, repo, tenantID, *req.AssignedVehicleID)
				if err != nil {
					return err
				}
				values["assigned_vehicle_id"] = vehicleID
			}
		}

		if len(values) == 0 {
			return nil
		}
		return repo.UpdateVersioned(ctx, tenantID, id, d.Version, values)
	})
	if err != nil {
		s.logger.Warn("update driver failed",
			zap.String("request_id", rid),
			zap.String("tenant_id", tenantID),
			zap.String("driver_id", id),
			zap.Error(err),
		)
		return DriverResponse{}, mapRepositoryError(err)
	}

	s.invalidate(ctx, tenantID)
	return s.GetByID(ctx, tenantID, id, true)
}

func (s *service) Delete(ctx context.Context, tenantID, id string) error {
	if err := s.repo.SoftDelete(ctx, tenantID, id); err != nil {
		return mapRepositoryError(err)
	}
	s.invalidate(ctx, tenantID)
	s.logger.Info("driver deactivated",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("tenant_id", tenantID),
		zap.String("driver_id", id),
	)
	return nil
}

func (s *service) invalidate(ctx context.Context, tenantID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, tenantID); err != nil {
		s.logger.Warn("invalidate dashboard cache failed",
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
	}
}

// Release frees a driver at the end of a trip. A completed trip also
// counts toward the driver's totals; the row is locked, so the new totals
// are computed from what was read.
func Release(ctx context.Context, repo Repository, tenantID, id string, completed bool, distance float64) (*Driver, error) {
	d, err := repo.FindForUpdate(ctx, tenantID, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	values := map[string]any{"status": StatusAvailable}
	if completed {
		values["total_trips"] = d.TotalTrips + 1
		values["total_distance"] = d.TotalDistance + distance
	}
	if err := repo.UpdateVersioned(ctx, tenantID, id, d.Version, values); err != nil {
		return nil, mapRepositoryError(err)
	}
	return d, nil
}

// Dispatch marks a driver as on a trip and returns the row as it was
// before.
func Dispatch(ctx context.Context, repo Repository, tenantID, id string) (*Driver, error) {
	d, err := repo.FindForUpdate(ctx, tenantID, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := repo.UpdateVersioned(ctx, tenantID, id, d.Version, map[string]any{"status": StatusOnTrip}); err != nil {
		return nil, mapRepositoryError(err)
	}
	return d, nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func MapToResponse(d Driver) DriverResponse {
	resp := DriverResponse{
		ID:               d.ID.String(),
		TenantID:         d.TenantID.String(),
		Name:             d.Name,
		Email:            d.Email,
		Phone:            d.Phone,
		LicenseNumber:    d.LicenseNumber,
		LicenseType:      d.LicenseType,
		LicenseExpiry:    d.LicenseExpiry.Format(time.DateOnly),
		DateOfBirth:      formatTime(d.DateOfBirth),
		Address:          d.Address.Data(),
		Status:           d.Status,
		TotalTrips:       d.TotalTrips,
		TotalDistance:    d.TotalDistance,
		Rating:           d.Rating,
		EmergencyContact: d.EmergencyContact.Data(),
		Notes:            d.Notes,
		IsActive:         d.IsActive,
		Version:          d.Version,
		CreatedAt:        d.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        d.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if d.AssignedVehicleID != nil {
		id := d.AssignedVehicleID.String()
		resp.AssignedVehicleID = &id
	}
	if d.AssignedVehicle != nil {
		resp.AssignedVehicle = &VehicleSummary{
			ID:                 d.AssignedVehicle.ID.String(),
			RegistrationNumber: d.AssignedVehicle.RegistrationNumber,
			Make:               d.AssignedVehicle.Make,
			Model:              d.AssignedVehicle.Model,
		}
	}
	return resp
}
