package vehicle

import (
	"context"
	"strings"
	"time"

	"go-fleet/internal/events"
	"go-fleet/internal/shared/apperror"
	"go-fleet/internal/shared/contextutil"
	"go-fleet/internal/tenant"
	vehicleerrors "go-fleet/internal/vehicle/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service interface {
	List(ctx context.Context, tenantID string, q ListVehiclesQuery) ([]VehicleResponse, int64, error)
	GetByID(ctx context.Context, tenantID, id string, includeInactive bool) (VehicleResponse, error)
	Create(ctx context.Context, tenantID string, req CreateVehicleRequest) (VehicleResponse, error)
	Update(ctx context.Context, tenantID, id string, req UpdateVehicleRequest) (VehicleResponse, error)
	Delete(ctx context.Context, tenantID, id string) error
	UpdateGPS(ctx context.Context, tenantID, id string, req UpdateGPSRequest) (GPS, error)
}

type service struct {
	db      *gorm.DB
	repo    Repository
	tenants tenant.Repository
	cache   events.CacheInvalidator
	now     func() time.Time
	logger  *zap.Logger
}

// NewService builds the vehicle service. cache may be nil; otherwise the
// tenant's dashboard is invalidated after every committed write that
// changes what it counts.
func NewService(db *gorm.DB, repo Repository, tenants tenant.Repository, cache events.CacheInvalidator, logger ...*zap.Logger) Service {
	l := zap.L().Named("vehicle.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("vehicle.service")
	}
	return &service{db: db, repo: repo, tenants: tenants, cache: cache, now: time.Now, logger: l}
}

func normalizeRegistration(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func (s *service) checkYear(year int) error {
	if year < MinYear || year > s.now().Year()+1 {
		return vehicleerrors.ErrInvalidYear
	}
	return nil
}

func (s *service) List(ctx context.Context, tenantID string, q ListVehiclesQuery) ([]VehicleResponse, int64, error) {
	vehicles, total, err := s.repo.List(ctx, tenantID, q)
	if err != nil {
		s.logger.Error("list vehicles failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		return nil, 0, mapRepositoryError(err)
	}

	resp := make([]VehicleResponse, len(vehicles))
	for i, v := range vehicles {
		resp[i] = MapToResponse(v)
	}
	return resp, total, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string, includeInactive bool) (VehicleResponse, error) {
	v, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return VehicleResponse{}, mapRepositoryError(err)
	}
	if !v.IsActive && !includeInactive {
		return VehicleResponse{}, vehicleerrors.ErrVehicleNotFound
	}
	return MapToResponse(*v), nil
}

func (s *service) Create(ctx context.Context, tenantID string, req CreateVehicleRequest) (VehicleResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if err := s.checkYear(req.Year); err != nil {
		return VehicleResponse{}, err
	}

	v := &Vehicle{
		ID:                 uuid.New(),
		RegistrationNumber: normalizeRegistration(req.RegistrationNumber),
		Make:               strings.TrimSpace(req.Make),
		Model:              strings.TrimSpace(req.Model),
		Year:               req.Year,
		Type:               req.Type,
		FuelType:           req.FuelType,
		Status:             req.Status,
		Odometer:           req.Odometer,
		Capacity:           req.Capacity,
		Color:              req.Color,
		VIN:                strings.TrimSpace(req.VIN),
		LastService:        req.LastService,
		NextServiceDue:     req.NextServiceDue,
		Notes:              req.Notes,
		IsActive:           true,
		Version:            1,
	}
	if v.FuelType == "" {
		v.FuelType = "diesel"
	}
	if v.Status == "" {
		v.Status = StatusIdle
	}
	if req.Insurance != nil {
		v.Insurance = datatypes.NewJSONType(*req.Insurance)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if req.AssignedDriverID != nil && *req.AssignedDriverID != "" {
			driverID, err := s.resolveDriver(ctx, repo, tenantID, *req.AssignedDriverID)
			if err != nil {
				return err
			}
			v.AssignedDriverID = &driverID
		}

		t, err := s.tenants.WithTx(tx).LockByID(ctx, tenantID)
		if err != nil {
			return tenant.MapRepositoryError(err)
		}
		active, err := repo.CountActive(ctx, tenantID)
		if err != nil {
			return err
		}
		if err := tenant.EnsureCapacity(t.Settings.Data(), tenant.ResourceVehicles, active); err != nil {
			return err
		}

		return repo.Create(ctx, tenantID, v)
	})
	if err != nil {
		s.logger.Warn("create vehicle failed",
			zap.String("request_id", rid),
			zap.String("tenant_id", tenantID),
			zap.String("registration_number", v.RegistrationNumber),
			zap.Error(err),
		)
		return VehicleResponse{}, mapRepositoryError(err)
	}

	s.invalidate(ctx, tenantID)
	s.logger.Info("vehicle created",
		zap.String("request_id", rid),
		zap.String("tenant_id", tenantID),
		zap.String("vehicle_id", v.ID.String()),
	)
	return MapToResponse(*v), nil
}

func (s *service) resolveDriver(ctx context.Context, repo Repository, tenantID, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, vehicleerrors.ErrDriverNotFound
	}
	ok, err := repo.DriverExists(ctx, tenantID, id.String())
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, vehicleerrors.ErrDriverNotFound
	}
	return id, nil
}

func (s *service) Update(ctx context.Context, tenantID, id string, req UpdateVehicleRequest) (VehicleResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if req.Year != nil {
		if err := s.checkYear(*req.Year); err != nil {
			return VehicleResponse{}, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		v, err := repo.FindForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if req.Version != nil && *req.Version != v.Version {
			return apperror.ErrVersionConflict
		}

		values := map[string]any{}
		setString := func(col string, p *string, norm func(string) string) {
			if p != nil {
				values[col] = norm(*p)
			}
		}
		setString("registration_number", req.RegistrationNumber, normalizeRegistration)
		setString("make", req.Make, strings.TrimSpace)
		setString("model", req.Model, strings.TrimSpace)
		setString("type", req.Type, strings.TrimSpace)
		setString("fuel_type", req.FuelType, strings.TrimSpace)
		setString("status", req.Status, strings.TrimSpace)
		setString("color", req.Color, strings.TrimSpace)
		setString("vin", req.VIN, strings.TrimSpace)
		setString("notes", req.Notes, strings.TrimSpace)
		if req.Year != nil {
			values["year"] = *req.Year
		}
		if req.Odometer != nil {
			values["odometer"] = *req.Odometer
		}
		if req.Capacity != nil {
			values["capacity"] = *req.Capacity
		}
		if req.LastService != nil {
			values["last_service"] = *req.LastService
		}
		if req.NextServiceDue != nil {
			values["next_service_due"] = *req.NextServiceDue
		}
		if req.Insurance != nil {
			values["insurance"] = datatypes.NewJSONType(*req.Insurance)
		}
		if req.AssignedDriverID != nil {
			if *req.AssignedDriverID == "" {
				values["assigned_driver_id"] = nil
			} else {
				driverID, err := s.resolveDriver(ctx, repo, tenantID, *req.AssignedDriverID)
				if err != nil {
					return err
				}
				values["assigned_driver_id"] = driverID
			}
		}

		if len(values) == 0 {
			return nil
		}
		return repo.UpdateVersioned(ctx, tenantID, id, v.Version, values)
	})
	if err != nil {
		s.logger.Warn("update vehicle failed",
			zap.String("request_id", rid),
			zap.String("tenant_id", tenantID),
			zap.String("vehicle_id", id),
			zap.Error(err),
		)
		return VehicleResponse{}, mapRepositoryError(err)
	}

	s.invalidate(ctx, tenantID)
	s.logger.Info("vehicle updated",
		zap.String("request_id", rid),
		zap.String("tenant_id", tenantID),
		zap.String("vehicle_id", id),
	)
	return s.GetByID(ctx, tenantID, id, true)
}

func (s *service) Delete(ctx context.Context, tenantID, id string) error {
	if err := s.repo.SoftDelete(ctx, tenantID, id); err != nil {
		return mapRepositoryError(err)
	}
	s.invalidate(ctx, tenantID)
	s.logger.Info("vehicle deactivated",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("tenant_id", tenantID),
		zap.String("vehicle_id", id),
	)
	return nil
}

func (s *service) UpdateGPS(ctx context.Context, tenantID, id string, req UpdateGPSRequest) (GPS, error) {
	now := s.now().UTC()
	gps := GPS{Lat: req.Lat, Lng: req.Lng, Speed: req.Speed, LastUpdated: &now}

	if err := s.repo.UpdateGPS(ctx, tenantID, id, gps); err != nil {
		return GPS{}, mapRepositoryError(err)
	}
	return gps, nil
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

// Transition locks a vehicle and writes values under its current
// version. Trips and maintenance call it with a repository bound to their
// transaction.
func Transition(ctx context.Context, repo Repository, tenantID, id string, values map[string]any) (*Vehicle, error) {
	v, err := repo.FindForUpdate(ctx, tenantID, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := repo.UpdateVersioned(ctx, tenantID, id, v.Version, values); err != nil {
		return nil, mapRepositoryError(err)
	}
	return v, nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func MapToResponse(v Vehicle) VehicleResponse {
	resp := VehicleResponse{
		ID:                 v.ID.String(),
		TenantID:           v.TenantID.String(),
		RegistrationNumber: v.RegistrationNumber,
		Make:               v.Make,
		Model:              v.Model,
		Year:               v.Year,
		Type:               v.Type,
		FuelType:           v.FuelType,
		Status:             v.Status,
		Odometer:           v.Odometer,
		Capacity:           v.Capacity,
		Color:              v.Color,
		VIN:                v.VIN,
		Insurance:          v.Insurance.Data(),
		LastService:        formatTime(v.LastService),
		NextServiceDue:     formatTime(v.NextServiceDue),
		GPS:                v.GPS.Data(),
		Notes:              v.Notes,
		IsActive:           v.IsActive,
		Version:            v.Version,
		CreatedAt:          v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:          v.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if v.AssignedDriverID != nil {
		id := v.AssignedDriverID.String()
		resp.AssignedDriverID = &id
	}
	if v.AssignedDriver != nil {
		resp.AssignedDriver = &DriverSummary{
			ID:            v.AssignedDriver.ID.String(),
			Name:          v.AssignedDriver.Name,
			Phone:         v.AssignedDriver.Phone,
			LicenseNumber: v.AssignedDriver.LicenseNumber,
		}
	}
	return resp
}
