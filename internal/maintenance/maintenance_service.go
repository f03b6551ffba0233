package maintenance

import (
	"context"
	"strings"
	"time"

	"go-fleet/internal/events"
	"go-fleet/internal/messaging/kafka"
	"go-fleet/internal/shared/apperror"
	"go-fleet/internal/shared/contextutil"
	"go-fleet/internal/shared/metrics"
	"go-fleet/internal/vehicle"
	vehicleerrors "go-fleet/internal/vehicle/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service interface {
	List(ctx context.Context, tenantID string, q ListLogsQuery) ([]LogResponse, int64, error)
	GetByID(ctx context.Context, tenantID, id string) (LogResponse, error)
	Create(ctx context.Context, caller contextutil.Principal, req CreateLogRequest) (LogResponse, error)
	Update(ctx context.Context, caller contextutil.Principal, id string, req UpdateLogRequest) (LogResponse, error)
	Delete(ctx context.Context, tenantID, id string) error
}

type service struct {
	db       *gorm.DB
	repo     Repository
	vehicles vehicle.Repository
	outbox   kafka.OutboxRepository
	cache    events.CacheInvalidator
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	vehicles vehicle.Repository,
	outbox kafka.OutboxRepository,
	cache events.CacheInvalidator,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("maintenance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("maintenance.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		vehicles: vehicles,
		outbox:   outbox,
		cache:    cache,
		now:      time.Now,
		logger:   l,
	}
}

func (s *service) List(ctx context.Context, tenantID string, q ListLogsQuery) ([]LogResponse, int64, error) {
	if q.VehicleID != "" {
		if _, err := uuid.Parse(q.VehicleID); err != nil {
			return []LogResponse{}, 0, nil
		}
	}

	logs, total, err := s.repo.List(ctx, tenantID, q)
	if err != nil {
		s.logger.Error("list maintenance logs failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		return nil, 0, mapRepositoryError(err)
	}

	resp := make([]LogResponse, len(logs))
	for i, l := range logs {
		resp[i] = MapToResponse(l)
	}
	return resp, total, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (LogResponse, error) {
	l, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return LogResponse{}, mapRepositoryError(err)
	}
	return MapToResponse(*l), nil
}

func (s *service) Create(ctx context.Context, caller contextutil.Principal, req CreateLogRequest) (LogResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	tenantID := caller.TenantID
	now := s.now().UTC()

	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		return LogResponse{}, vehicleerrors.ErrVehicleNotFound
	}

	l := &Log{
		ID:                  uuid.New(),
		VehicleID:           vehicleID,
		Type:                req.Type,
		Title:               strings.TrimSpace(req.Title),
		Description:         strings.TrimSpace(req.Description),
		Status:              req.Status,
		ScheduledDate:       req.ScheduledDate.UTC(),
		CompletedDate:       req.CompletedDate,
		OdometerAtService:   req.OdometerAtService,
		NextServiceOdometer: req.NextServiceOdometer,
		Cost:                req.Cost,
		PartsReplaced:       datatypes.NewJSONType(toParts(req.PartsReplaced)),
		Notes:               strings.TrimSpace(req.Notes),
		Version:             1,
	}
	if l.Status == "" {
		l.Status = StatusScheduled
	}
	if req.Vendor != nil {
		l.Vendor = datatypes.NewJSONType(toVendor(*req.Vendor))
	}
	if uid, err := uuid.Parse(caller.UserID); err == nil {
		l.CreatedBy = &uid
	}

	var vehicleValues map[string]any
	switch l.Status {
	case StatusInProgress:
		vehicleValues = map[string]any{"status": vehicle.StatusMaintenance}
	case StatusCompleted:
		if l.CompletedDate == nil {
			l.CompletedDate = &now
		}
		vehicleValues = map[string]any{"last_service": *l.CompletedDate}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.lockVehicle(ctx, tx, tenantID, vehicleID.String(), vehicleValues); err != nil {
			return err
		}
		if err := s.repo.WithTx(tx).Create(ctx, tenantID, l); err != nil {
			return err
		}
		return kafka.Record(ctx, s.outbox, tx, events.LifecycleEvent{
			EventType:     events.MaintenanceCreated,
			TenantID:      tenantID,
			AggregateType: events.AggregateMaintenance,
			AggregateID:   l.ID.String(),
			To:            l.Status,
			ActorID:       caller.UserID,
		})
	})
	if err != nil {
		s.logger.Warn("create maintenance log failed",
			zap.String("request_id", rid),
			zap.String("tenant_id", tenantID),
			zap.String("vehicle_id", req.VehicleID),
			zap.Error(err),
		)
		return LogResponse{}, mapRepositoryError(err)
	}

	s.invalidate(ctx, tenantID)
	s.logger.Info("maintenance log created",
		zap.String("request_id", rid),
		zap.String("tenant_id", tenantID),
		zap.String("maintenance_id", l.ID.String()),
	)
	return s.GetByID(ctx, tenantID, l.ID.String())
}

// lockVehicle locks the serviced vehicle and applies values to it, if any.
// Retired or deleted vehicles cannot take new work.
func (s *service) lockVehicle(ctx context.Context, tx *gorm.DB, tenantID, vehicleID string, values map[string]any) error {
	repo := s.vehicles.WithTx(tx)

	var (
		v   *vehicle.Vehicle
		err error
	)
	if len(values) == 0 {
		v, err = repo.FindForUpdate(ctx, tenantID, vehicleID)
		err = vehicle.MapRepositoryError(err)
	} else {
		v, err = vehicle.Transition(ctx, repo, tenantID, vehicleID, values)
	}
	if err != nil {
		return err
	}
	if !v.IsActive {
		return vehicleerrors.ErrVehicleNotFound
	}
	return nil
}

func (s *service) Update(ctx context.Context, caller contextutil.Principal, id string, req UpdateLogRequest) (LogResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	tenantID := caller.TenantID
	var from, to string

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
		setString := func(col string, p *string) {
			if p != nil {
				values[col] = strings.TrimSpace(*p)
			}
		}
		setString("type", req.Type)
		setString("title", req.Title)
		setString("description", req.Description)
		setString("notes", req.Notes)
		if req.ScheduledDate != nil {
			values["scheduled_date"] = req.ScheduledDate.UTC()
		}
		if req.CompletedDate != nil {
			values["completed_date"] = req.CompletedDate.UTC()
		}
		if req.OdometerAtService != nil {
			values["odometer_at_service"] = *req.OdometerAtService
		}
		if req.NextServiceOdometer != nil {
			values["next_service_odometer"] = *req.NextServiceOdometer
		}
		if req.Cost != nil {
			values["cost"] = *req.Cost
		}
		if req.Vendor != nil {
			values["vendor"] = datatypes.NewJSONType(toVendor(*req.Vendor))
		}
		if req.PartsReplaced != nil {
			values["parts_replaced"] = datatypes.NewJSONType(toParts(req.PartsReplaced))
		}

		if req.Status != nil && *req.Status != l.Status {
			if err := CheckTransition(l.Status, *req.Status); err != nil {
				return err
			}
			from, to = l.Status, *req.Status
			values["status"] = to

			vehicleValues, err := s.transitionEffects(l, to, values)
			if err != nil {
				return err
			}
			if len(vehicleValues) > 0 {
				if _, err := vehicle.Transition(ctx, s.vehicles.WithTx(tx), tenantID, l.VehicleID.String(), vehicleValues); err != nil {
					return err
				}
			}

			if err := kafka.Record(ctx, s.outbox, tx, events.LifecycleEvent{
				EventType:     events.MaintenanceStatusChanged,
				TenantID:      tenantID,
				AggregateType: events.AggregateMaintenance,
				AggregateID:   l.ID.String(),
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
		return repo.UpdateVersioned(ctx, tenantID, id, l.Version, values)
	})
	if err != nil {
		s.logger.Warn("update maintenance log failed",
			zap.String("request_id", rid),
			zap.String("tenant_id", tenantID),
			zap.String("maintenance_id", id),
			zap.Error(err),
		)
		return LogResponse{}, mapRepositoryError(err)
	}

	if to != "" {
		metrics.StatusTransitions.WithLabelValues("maintenance", from, to).Inc()
		s.invalidate(ctx, tenantID)
		s.logger.Info("maintenance status changed",
			zap.String("request_id", rid),
			zap.String("tenant_id", tenantID),
			zap.String("maintenance_id", id),
			zap.String("from", from),
			zap.String("to", to),
		)
	}
	return s.GetByID(ctx, tenantID, id)
}

// transitionEffects fills in the log's own columns for a move to status
// to and returns what must be written to the vehicle.
func (s *service) transitionEffects(l *Log, to string, values map[string]any) (map[string]any, error) {
	now := s.now().UTC()

	switch to {
	case StatusInProgress:
		return map[string]any{"status": vehicle.StatusMaintenance}, nil
	case StatusCompleted:
		completed := now
		if l.CompletedDate != nil {
			completed = *l.CompletedDate
		}
		if _, set := values["completed_date"]; !set {
			values["completed_date"] = completed
		}
		return map[string]any{"status": vehicle.StatusIdle, "last_service": now}, nil
	case StatusCancelled:
		if l.Status == StatusInProgress {
			return map[string]any{"status": vehicle.StatusIdle}, nil
		}
	}
	return nil, nil
}

// Delete removes the log. Work that was under way releases the vehicle.
func (s *service) Delete(ctx context.Context, tenantID, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		l, err := repo.FindForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if l.Status == StatusInProgress {
			if _, err := vehicle.Transition(ctx, s.vehicles.WithTx(tx), tenantID, l.VehicleID.String(),
				map[string]any{"status": vehicle.StatusIdle}); err != nil {
				return err
			}
		}
		return repo.Delete(ctx, tenantID, id)
	})
	if err != nil {
		return mapRepositoryError(err)
	}

	s.invalidate(ctx, tenantID)
	s.logger.Info("maintenance log deleted",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("tenant_id", tenantID),
		zap.String("maintenance_id", id),
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

func toVendor(in VendorInput) Vendor {
	return Vendor{
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
	}
}

func toParts(in []PartInput) []Part {
	parts := make([]Part, len(in))
	for i, p := range in {
		parts[i] = Part{Name: strings.TrimSpace(p.Name), Quantity: p.Quantity, Cost: p.Cost}
	}
	return parts
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func MapToResponse(l Log) LogResponse {
	resp := LogResponse{
		ID:                  l.ID.String(),
		TenantID:            l.TenantID.String(),
		VehicleID:           l.VehicleID.String(),
		Type:                l.Type,
		Title:               l.Title,
		Description:         l.Description,
		Status:              l.Status,
		ScheduledDate:       l.ScheduledDate.UTC().Format(time.RFC3339),
		CompletedDate:       formatTime(l.CompletedDate),
		OdometerAtService:   l.OdometerAtService,
		NextServiceOdometer: l.NextServiceOdometer,
		Cost:                l.Cost,
		Vendor:              l.Vendor.Data(),
		PartsReplaced:       l.PartsReplaced.Data(),
		Notes:               l.Notes,
		Version:             l.Version,
		CreatedAt:           l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:           l.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if resp.PartsReplaced == nil {
		resp.PartsReplaced = []Part{}
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
			Model:              l.Vehicle.Model,
		}
	}
	return resp
}
