package tenant

import (
	"context"
	"time"

	"go-fleet/internal/shared/contextutil"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Service interface {
	GetCurrent(ctx context.Context, tenantID string) (TenantResponse, error)
	UpdateSettings(ctx context.Context, tenantID string, req UpdateSettingsRequest) (TenantResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("tenant.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("tenant.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetCurrent(ctx context.Context, tenantID string) (TenantResponse, error) {
	t, err := s.repo.FindByID(ctx, tenantID)
	if err != nil {
		return TenantResponse{}, mapRepositoryError(err)
	}
	return MapToResponse(*t), nil
}

func (s *service) UpdateSettings(ctx context.Context, tenantID string, req UpdateSettingsRequest) (TenantResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	t, err := s.repo.FindByID(ctx, tenantID)
	if err != nil {
		return TenantResponse{}, mapRepositoryError(err)
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Phone != nil {
		t.Phone = *req.Phone
	}
	if req.Address != nil {
		t.Address = datatypes.NewJSONType(*req.Address)
	}

	settings := t.Settings.Data()
	if req.MaxVehicles != nil {
		settings.MaxVehicles = *req.MaxVehicles
	}
	if req.MaxDrivers != nil {
		settings.MaxDrivers = *req.MaxDrivers
	}
	if req.MaxUsers != nil {
		settings.MaxUsers = *req.MaxUsers
	}
	if req.FuelUnit != nil {
		settings.FuelUnit = *req.FuelUnit
	}
	if req.DistanceUnit != nil {
		settings.DistanceUnit = *req.DistanceUnit
	}
	if req.Currency != nil {
		settings.Currency = *req.Currency
	}
	t.Settings = datatypes.NewJSONType(settings)

	if err := s.repo.Update(ctx, t); err != nil {
		s.logger.Error("update tenant settings failed",
			zap.String("request_id", rid),
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		return TenantResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("tenant settings updated",
		zap.String("request_id", rid),
		zap.String("tenant_id", tenantID),
	)
	return MapToResponse(*t), nil
}

func MapToResponse(t Tenant) TenantResponse {
	return TenantResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		Slug:      t.Slug,
		Email:     t.Email,
		Phone:     t.Phone,
		Address:   t.Address.Data(),
		Plan:      t.Plan,
		Settings:  t.Settings.Data(),
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}
}
