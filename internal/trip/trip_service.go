package trip

import (
	"context"
	"strings"
	"time"

	"go-fleet/internal/driver"
	drivererrors "go-fleet/internal/driver/errors"
	"go-fleet/internal/events"
	"go-fleet/internal/messaging/kafka"
	"go-fleet/internal/shared/apperror"
	"go-fleet/internal/shared/contextutil"
	"go-fleet/internal/shared/counter"
	"go-fleet/internal/shared/metrics"
	triperrors "go-fleet/internal/trip/errors"
	"go-fleet/internal/vehicle"
	vehicleerrors "go-fleet/internal/vehicle/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service interface {
	List(ctx context.Context, tenantID string, q ListTripsQuery) ([]TripResponse, int64, error)
	GetByID(ctx context.Context, tenantID, id string) (TripResponse, error)
	Create(ctx context.Context, caller contextutil.Principal, req CreateTripRequest) (TripResponse, error)
	Update(ctx context.Context, caller contextutil.Principal, id string, req UpdateTripRequest) (TripResponse, error)
	Delete(ctx context.Context, tenantID, id string) error
}

type service struct {
	db       *gorm.DB
	repo     Repository
	vehicles vehicle.Repository
	drivers  driver.Repository
	counters counter.Repository
	outbox   kafka.OutboxRepository
	cache    events.CacheInvalidator
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	vehicles vehicle.Repository,
	drivers driver.Repository,
	counters counter.Repository,
	outbox kafka.OutboxRepository,
	cache events.CacheInvalidator,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("trip.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("trip.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		vehicles: vehicles,
		drivers:  drivers,
		counters: counters,
		outbox:   outbox,
		cache:    cache,
		now:      time.Now,
		logger:   l,
	}
}

func (s *service) List(ctx context.Context, tenantID string, q ListTripsQuery) ([]TripResponse, int64, error) {
	for _, raw := range []string{q.VehicleID, q.DriverID} {
		if raw == "" {
			continue
		}
		if _, err := uuid.Parse(raw); err != nil {
			return []TripResponse{}, 0, nil
		}
	}

	trips, total, err := s.repo.List(ctx, tenantID, q)
	if err != nil {
		s.logger.Error("list trips failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		return nil, 0, mapRepositoryError(err)
	}

	resp := make([]TripResponse, len(trips))
	for i, t := range trips {
		resp[i] = MapToResponse(t)
	}
	return resp, total, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (TripResponse, error) {
	t, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return TripResponse{}, mapRepositoryError(err)
	}
	return MapToResponse(*t), nil
}

func (s *service) Create(ctx context.Context, caller contextutil.Principal, req CreateTripRequest) (TripResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	tenantID := caller.TenantID
	now := s.now().UTC()

	if req.ScheduledEnd != nil && req.ScheduledEnd.Before(req.ScheduledStart) {
		return TripResponse{}, triperrors.ErrInvalidSchedule
	}
	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		return TripResponse{}, vehicleerrors.ErrVehicleNotFound
	}
	driverID, err := uuid.Parse(req.DriverID)
	if err != nil {
		return TripResponse{}, drivererrors.ErrDriverNotFound
	}

	t := &Trip{
		ID:             uuid.New(),
		VehicleID:      vehicleID,
		DriverID:       driverID,
		Origin:         datatypes.NewJSONType(toLocation(req.Origin)),
		Destination:    datatypes.NewJSONType(toLocation(req.Destination)),
		ScheduledStart: req.ScheduledStart.UTC(),
		ScheduledEnd:   req.ScheduledEnd,
		Status:         req.Status,
		Distance:       req.Distance,
		FuelUsed:       req.FuelUsed,
		Cost:           req.Cost,
		Stops:          datatypes.NewJSONType(toStops(req.Stops)),
		Notes:          strings.TrimSpace(req.Notes),
		Version:        1,
	}
	if t.Status == "" {
		t.Status = StatusScheduled
	}
	if req.Cargo != nil {
		t.Cargo = datatypes.NewJSONType(toCargo(*req.Cargo))
	}
	if uid, err := uuid.Parse(caller.UserID); err == nil {
		t.CreatedBy = &uid
	}
	switch {
	case t.Status == StatusInProgress:
		t.ActualStart = &now
	case IsTerminal(t.Status):
		t.ActualEnd = &now
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if IsTerminal(t.Status) {
			if err := s.release(ctx, tx, tenantID, t, t.Status == StatusCompleted, t.Distance); err != nil {
				return err
			}
		} else if err := s.dispatch(ctx, tx, tenantID, t); err != nil {
			return err
		}

		next, err := s.counters.WithTx(tx).GetNextValue(ctx, tenantID, counter.TripNumber)
		if err != nil {
			return err
		}
		t.TripNumber = FormatTripNumber(next)

		if err := s.repo.WithTx(tx).Create(ctx, tenantID, t); err != nil {
			return err
		}
		return kafka.Record(ctx, s.outbox, tx, events.LifecycleEvent{
			EventType:     events.TripCreated,
			TenantID:      tenantID,
			AggregateType: events.AggregateTrip,
			AggregateID:   t.ID.String(),
			To:            t.Status,
			ActorID:       caller.UserID,
		})
	})
	if err != nil {
		s.logger.Warn("create trip failed",
			zap.String("request_id", rid),
			zap.String("tenant_id", tenantID),
			zap.String("vehicle_id", req.VehicleID),
			zap.String("driver_id", req.DriverID),
			zap.Error(err),
		)
		return TripResponse{}, mapRepositoryError(err)
	}

	s.invalidate(ctx, tenantID)
	s.logger.Info("trip created",
		zap.String("request_id", rid),
		zap.String("tenant_id", tenantID),
		zap.String("trip_id", t.ID.String()),
		zap.String("trip_number", t.TripNumber),
	)
	return s.GetByID(ctx, tenantID, t.ID.String())
}

// dispatch puts the vehicle on the road and the driver on the trip. The
// vehicle is always locked before the driver so concurrent trips take the
// locks in the same order.
func (s *service) dispatch(ctx context.Context, tx *gorm.DB, tenantID string, t *Trip) error {
	v, err := vehicle.Transition(ctx, s.vehicles.WithTx(tx), tenantID, t.VehicleID.String(),
		map[string]any{"status": vehicle.StatusActive})
	if err != nil {
		return err
	}
	if !v.IsActive {
		return vehicleerrors.ErrVehicleNotFound
	}

	d, err := driver.Dispatch(ctx, s.drivers.WithTx(tx), tenantID, t.DriverID.String())
	if err != nil {
		return err
	}
	if !d.IsActive {
		return drivererrors.ErrDriverNotFound
	}
	return nil
}

// release returns the vehicle to idle and frees the driver, crediting the
// distance when the trip completed.
func (s *service) release(ctx context.Context, tx *gorm.DB, tenantID string, t *Trip, completed bool, distance float64) error {
	if _, err := vehicle.Transition(ctx, s.vehicles.WithTx(tx), tenantID, t.VehicleID.String(),
		map[string]any{"status": vehicle.StatusIdle}); err != nil {
		return err
	}
	_, err := driver.Release(ctx, s.drivers.WithTx(tx), tenantID, t.DriverID.String(), completed, distance)
	return err
}

func (s *service) Update(ctx context.Context, caller contextutil.Principal, id string, req UpdateTripRequest) (TripResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	tenantID := caller.TenantID
	var from, to string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		t, err := repo.FindForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if req.Version != nil && *req.Version != t.Version {
			return apperror.ErrVersionConflict
		}

		values := map[string]any{}
		if req.Origin != nil {
			values["origin"] = datatypes.NewJSONType(toLocation(*req.Origin))
		}
		if req.Destination != nil {
			values["destination"] = datatypes.NewJSONType(toLocation(*req.Destination))
		}
		if req.CurrentLocation != nil {
			values["current_location"] = datatypes.NewJSONType(toLocation(*req.CurrentLocation))
		}
		start, end := t.ScheduledStart, t.ScheduledEnd
		if req.ScheduledStart != nil {
			start = req.ScheduledStart.UTC()
			values["scheduled_start"] = start
		}
		if req.ScheduledEnd != nil {
			end = req.ScheduledEnd
			values["scheduled_end"] = *req.ScheduledEnd
		}
		if end != nil && end.Before(start) {
			return triperrors.ErrInvalidSchedule
		}
		distance := t.Distance
		if req.Distance != nil {
			distance = *req.Distance
			values["distance"] = distance
		}
		if req.FuelUsed != nil {
			values["fuel_used"] = *req.FuelUsed
		}
		if req.Cost != nil {
			values["cost"] = *req.Cost
		}
		if req.Cargo != nil {
			values["cargo"] = datatypes.NewJSONType(toCargo(*req.Cargo))
		}
		if req.Stops != nil {
			values["stops"] = datatypes.NewJSONType(toStops(req.Stops))
		}
		if req.Notes != nil {
			values["notes"] = strings.TrimSpace(*req.Notes)
		}

		if req.Status != nil && *req.Status != t.Status {
			if err := CheckTransition(t.Status, *req.Status); err != nil {
				return err
			}
			from, to = t.Status, *req.Status
			values["status"] = to

			now := s.now().UTC()
			switch to {
			case StatusInProgress:
				if t.ActualStart == nil {
					values["actual_start"] = now
				}
			case StatusCompleted, StatusCancelled:
				if t.ActualEnd == nil {
					values["actual_end"] = now
				}
				if err := s.release(ctx, tx, tenantID, t, to == StatusCompleted, distance); err != nil {
					return err
				}
			}

			if err := kafka.Record(ctx, s.outbox, tx, events.LifecycleEvent{
				EventType:     events.TripStatusChanged,
				TenantID:      tenantID,
				AggregateType: events.AggregateTrip,
				AggregateID:   t.ID.String(),
				From:          from,
				To:            to,
				ActorID:       caller.UserID,
			}); err != nil {
				return err
			}
		}

		if len(values) == 0 {
			return nil
		}
		return repo.UpdateVersioned(ctx, tenantID, id, t.Version, values)
	})
	if err != nil {
		s.logger.Warn("update trip failed",
			zap.String("request_id", rid),
			zap.String("tenant_id", tenantID),
			zap.String("trip_id", id),
			zap.Error(err),
		)
		return TripResponse{}, mapRepositoryError(err)
	}

	if to != "" {
		metrics.StatusTransitions.WithLabelValues("trip", from, to).Inc()
		s.invalidate(ctx, tenantID)
		s.logger.Info("trip status changed",
			zap.String("request_id", rid),
			zap.String("tenant_id", tenantID),
			zap.String("trip_id", id),
			zap.String("from", from),
			zap.String("to", to),
		)
	}
	return s.GetByID(ctx, tenantID, id)
}

// Delete removes the trip. A trip that had not finished frees its vehicle
// and driver without crediting the driver.
func (s *service) Delete(ctx context.Context, tenantID, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		t, err := repo.FindForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if !IsTerminal(t.Status) {
			if err := s.release(ctx, tx, tenantID, t, false, 0); err != nil {
				return err
			}
		}
		return repo.Delete(ctx, tenantID, id)
	})
	if err != nil {
		return mapRepositoryError(err)
	}

	s.invalidate(ctx, tenantID)
	s.logger.Info("trip deleted",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("tenant_id", tenantID),
		zap.String("trip_id", id),
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

func toLocation(in LocationInput) Location {
	return Location{Address: strings.TrimSpace(in.Address), Lat: in.Lat, Lng: in.Lng}
}

func toCargo(in CargoInput) Cargo {
	return Cargo{Description: strings.TrimSpace(in.Description), Weight: in.Weight, Unit: in.Unit}
}

func toStops(in []StopInput) []Stop {
	stops := make([]Stop, len(in))
	for i, st := range in {
		status := st.Status
		if status == "" {
			status = StopPending
		}
		stops[i] = Stop{
			Address:       strings.TrimSpace(st.Address),
			Lat:           st.Lat,
			Lng:           st.Lng,
			ScheduledTime: st.ScheduledTime,
			ArrivedTime:   st.ArrivedTime,
			Status:        status,
		}
	}
	return stops
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func MapToResponse(t Trip) TripResponse {
	resp := TripResponse{
		ID:             t.ID.String(),
		TenantID:       t.TenantID.String(),
		TripNumber:     t.TripNumber,
		VehicleID:      t.VehicleID.String(),
		DriverID:       t.DriverID.String(),
		Origin:         t.Origin.Data(),
		Destination:    t.Destination.Data(),
		ScheduledStart: t.ScheduledStart.UTC().Format(time.RFC3339),
		ScheduledEnd:   formatTime(t.ScheduledEnd),
		ActualStart:    formatTime(t.ActualStart),
		ActualEnd:      formatTime(t.ActualEnd),
		Status:         t.Status,
		Distance:       t.Distance,
		FuelUsed:       t.FuelUsed,
		Cost:           t.Cost,
		Cargo:          t.Cargo.Data(),
		Stops:          t.Stops.Data(),
		Notes:          t.Notes,
		Version:        t.Version,
		CreatedAt:      t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      t.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if resp.Stops == nil {
		resp.Stops = []Stop{}
	}
	if loc := t.CurrentLocation.Data(); loc.Address != "" || loc.Lat != nil {
		resp.CurrentLocation = &loc
	}
	if t.CreatedBy != nil {
		by := t.CreatedBy.String()
		resp.CreatedBy = &by
	}
	if t.Vehicle != nil {
		resp.Vehicle = &VehicleSummary{
			ID:                 t.Vehicle.ID.String(),
			RegistrationNumber: t.Vehicle.RegistrationNumber,
			Make:               t.Vehicle.Make,
			Model:              t.Vehicle.Model,
		}
	}
	if t.Driver != nil {
		resp.Driver = &DriverSummary{
			ID:    t.Driver.ID.String(),
			Name:  t.Driver.Name,
			Phone: t.Driver.Phone,
		}
	}
	return resp
}
