package fuellog

import (
	"bytes"
	"context"
	"strings"
	"time"

	"go-fleet/internal/events"
	fuellogerrors "go-fleet/internal/fuellog/errors"
	"go-fleet/internal/messaging/kafka"
	"go-fleet/internal/shared/apperror"
	"go-fleet/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service interface {
	List(ctx context.Context, tenantID string, q ListFuelLogsQuery) ([]FuelLogResponse, int64, error)
	GetByID(ctx context.Context, tenantID, id string) (FuelLogResponse, error)
	Create(ctx context.Context, caller contextutil.Principal, req CreateFuelLogRequest) (FuelLogResponse, error)
	Update(ctx context.Context, caller contextutil.Principal, id string, req UpdateFuelLogRequest) (FuelLogResponse, error)
	Delete(ctx context.Context, tenantID, id string) error
	Export(ctx context.Context, tenantID string, from, to *time.Time) (*bytes.Buffer, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	outbox kafka.OutboxRepository
	cache  events.CacheInvalidator
	now    func() time.Time
	logger *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	outbox kafka.OutboxRepository,
	cache events.CacheInvalidator,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("fuellog.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("fuellog.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, cache: cache, now: time.Now, logger: l}
}

func (s *service) List(ctx context.Context, tenantID string, q ListFuelLogsQuery) ([]FuelLogResponse, int64, error) {
	if q.VehicleID != "" {
		if _, err := uuid.Parse(q.VehicleID); err != nil {
			return []FuelLogResponse{}, 0, nil
		}
	}

	logs, total, err := s.repo.List(ctx, tenantID, q)
	if err != nil {
		s.logger.Error("list fuel logs failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		return nil, 0, mapRepositoryError(err)
	}

	resp := make([]FuelLogResponse, len(logs))
	for i, l := range logs {
		resp[i] = MapToResponse(l)
	}
	return resp, total, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (FuelLogResponse, error) {
	l, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return FuelLogResponse{}, mapRepositoryError(err)
	}
	return MapToResponse(*l), nil
}

func (s *service) Create(ctx context.Context, caller contextutil.Principal, req CreateFuelLogRequest) (FuelLogResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	tenantID := caller.TenantID

	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		return FuelLogResponse{}, fuellogerrors.ErrVehicleNotFound
	}
	quantity := decimal.NewFromFloat(req.Quantity)
	price := decimal.NewFromFloat(req.PricePerUnit)

	l := &FuelLog{
		ID:           uuid.New(),
		VehicleID:    vehicleID,
		Date:         s.now().UTC(),
		FuelType:     req.FuelType,
		Quantity:     quantity,
		Unit:         req.Unit,
		PricePerUnit: price,
		TotalCost:    TotalCost(quantity, price),
		Odometer:     req.Odometer,
		FullTank:     true,
		Notes:        strings.TrimSpace(req.Notes),
		Version:      1,
	}
	if req.Date != nil {
		l.Date = req.Date.UTC()
	}
	if l.Unit == "" {
		l.Unit = UnitLiters
	}
	if req.FullTank != nil {
		l.FullTank = *req.FullTank
	}
	if req.Station != nil {
		l.Station = datatypes.NewJSONType(toStation(*req.Station))
	}
	if uid, err := uuid.Parse(caller.UserID); err == nil {
		l.CreatedBy = &uid
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		ok, err := repo.VehicleExists(ctx, tenantID, req.VehicleID)
		if err != nil {
			return err
		}
		if !ok {
			return fuellogerrors.ErrVehicleNotFound
		}
		if req.DriverID != nil && *req.DriverID != "" {
			driverID, err := s.resolveDriver(ctx, repo, tenantID, *req.DriverID)
			if err != nil {
				return err
			}
			l.DriverID = &driverID
		}

		if err := repo.Create(ctx, tenantID, l); err != nil {
			return err
		}
		return kafka.Record(ctx, s.outbox, tx, events.LifecycleEvent{
			EventType:     events.FuelLogged,
			TenantID:      tenantID,
			AggregateType: events.AggregateFuelLog,
			AggregateID:   l.ID.String(),
			ActorID:       caller.UserID,
		})
	})
	if err != nil {
		s.logger.Warn("create fuel log failed",
			zap.String("request_id", rid),
			zap.String("tenant_id", tenantID),
			zap.String("vehicle_id", req.VehicleID),
			zap.Error(err),
		)
		return FuelLogResponse{}, mapRepositoryError(err)
	}

	s.invalidate(ctx, tenantID)
	s.logger.Info("fuel logged",
		zap.String("request_id", rid),
		zap.String("tenant_id", tenantID),
		zap.String("fuel_log_id", l.ID.String()),
		zap.String("total_cost", l.TotalCost.StringFixed(2)),
	)
	return s.GetByID(ctx, tenantID, l.ID.String())
}

func (s *service) resolveDriver(ctx context.Context, repo Repository, tenantID, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fuellogerrors.ErrDriverNotFound
	}
	ok, err := repo.DriverExists(ctx, tenantID, id.String())
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, fuellogerrors.ErrDriverNotFound
	}
	return id, nil
}

func (s *service) Update(ctx context.Context, caller contextutil.Principal, id string, req UpdateFuelLogRequest) (FuelLogResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	tenantID := caller.TenantID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		l, err := repo.FindForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if req.Version != nil && *req.Version != l.Version {
			return apperror.ErrVersionConflict
		}

		values := map[string]any{}
		if req.Date != nil {
			values["date"] = req.Date.UTC()
		}
		if req.FuelType != nil {
			values["fuel_type"] = *req.FuelType
		}
		if req.Unit != nil {
			values["unit"] = *req.Unit
		}
		if req.Odometer != nil {
			values["odometer"] = *req.Odometer
		}
		if req.Station != nil {
			values["station"] = datatypes.NewJSONType(toStation(*req.Station))
		}
		if req.FullTank != nil {
			values["full_tank"] = *req.FullTank
		}
		if req.Notes != nil {
			values["notes"] = strings.TrimSpace(*req.Notes)
		}
		if req.DriverID != nil {
			if *req.DriverID == "" {
				values["driver_id"] = nil
			} else {
				driverID, err := s.resolveDriver(ctx, repo, tenantID, *req.DriverID)
				if err != nil {
					return err
				}
				values["driver_id"] = driverID
			}
		}

		quantity, price := l.Quantity, l.PricePerUnit
		if req.Quantity != nil {
			quantity = decimal.NewFromFloat(*req.Quantity)
			values["quantity"] = quantity
		}
		if req.PricePerUnit != nil {
			price = decimal.NewFromFloat(*req.PricePerUnit)
			values["price_per_unit"] = price
		}
		if len(values) == 0 {
			return nil
		}
		values["total_cost"] = TotalCost(quantity, price)

		return repo.UpdateVersioned(ctx, tenantID, id, l.Version, values)
	})
	if err != nil {
		s.logger.Warn("update fuel log failed",
			zap.String("request_id", rid),
			zap.String("tenant_id", tenantID),
			zap.String("fuel_log_id", id),
			zap.Error(err),
		)
		return FuelLogResponse{}, mapRepositoryError(err)
	}

	s.invalidate(ctx, tenantID)
	return s.GetByID(ctx, tenantID, id)
}

func (s *service) Delete(ctx context.Context, tenantID, id string) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return mapRepositoryError(err)
	}

	s.invalidate(ctx, tenantID)
	s.logger.Info("fuel log deleted",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("tenant_id", tenantID),
		zap.String("fuel_log_id", id),
	)
	return nil
}

func (s *service) Export(ctx context.Context, tenantID string, from, to *time.Time) (*bytes.Buffer, error) {
	logs, err := s.repo.ListForExport(ctx, tenantID, from, to)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	buf, err := BuildWorkbook(logs, s.now())
	if err != nil {
		s.logger.Error("build fuel log workbook failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		return nil, err
	}
	return buf, nil
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

func toStation(in StationInput) Station {
	return Station{Name: strings.TrimSpace(in.Name), Location: strings.TrimSpace(in.Location)}
}

func MapToResponse(l FuelLog) FuelLogResponse {
	resp := FuelLogResponse{
		ID:           l.ID.String(),
		TenantID:     l.TenantID.String(),
		VehicleID:    l.VehicleID.String(),
		Date:         l.Date.UTC().Format(time.RFC3339),
		FuelType:     l.FuelType,
		Quantity:     l.Quantity.InexactFloat64(),
		Unit:         l.Unit,
		PricePerUnit: l.PricePerUnit.InexactFloat64(),
		TotalCost:    l.TotalCost.InexactFloat64(),
		Odometer:     l.Odometer,
		Station:      l.Station.Data(),
		FullTank:     l.FullTank,
		Notes:        l.Notes,
		Version:      l.Version,
		CreatedAt:    l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    l.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if l.DriverID != nil {
		id := l.DriverID.String()
		resp.DriverID = &id
	}
	if l.CreatedBy != nil {
		by := l.CreatedBy.String()
		resp.CreatedBy = &by
	}
	if l.Vehicle != nil {
		resp.Vehicle = &VehicleSummary{
			ID:                 l.Vehicle.ID.String(),
			RegistrationNumber: l.Vehicle.RegistrationNumber,
			Make:               l.Vehicle.Make,
		}
	}
	if l.Driver != nil {
		resp.Driver = &DriverSummary{ID: l.Driver.ID.String(), Name: l.Driver.Name}
	}
	return resp
}
