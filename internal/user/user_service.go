package user

import (
	"context"
	"time"

	"go-fleet/internal/domain"
	"go-fleet/internal/shared/contextutil"
	"go-fleet/internal/tenant"
	usererrors "go-fleet/internal/user/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	List(ctx context.Context, tenantID string, q ListUsersQuery) ([]UserResponse, int64, error)
	GetByID(ctx context.Context, tenantID, id string) (UserResponse, error)
	Update(ctx context.Context, caller contextutil.Principal, id string, req UpdateUserRequest) (UserResponse, error)
}

type service struct {
	db      *gorm.DB
	repo    Repository
	tenants tenant.Repository
	logger  *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, tenants tenant.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{db: db, repo: repo, tenants: tenants, logger: l}
}

func (s *service) List(ctx context.Context, tenantID string, q ListUsersQuery) ([]UserResponse, int64, error) {
	users, total, err := s.repo.List(ctx, tenantID, q)
	if err != nil {
		s.logger.Error("list users failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		return nil, 0, mapRepositoryError(err)
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = MapToResponse(u)
	}
	return resp, total, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (UserResponse, error) {
	u, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	return MapToResponse(*u), nil
}

// Update changes name, role and active flag. Role changes follow the
// same hierarchy as account creation, applied to both the current and the
// requested role, so an admin cannot demote another admin. Activation
// changes are checked against the account's current role the same way.
func (s *service) Update(ctx context.Context, caller contextutil.Principal, id string, req UpdateUserRequest) (UserResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	callerRole := domain.Role(caller.Role)

	var updated User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		u, err := repo.FindByID(ctx, caller.TenantID, id)
		if err != nil {
			return err
		}

		values := map[string]any{}
		currentRole := domain.Role(u.Role)

		if req.Name != nil && *req.Name != u.Name {
			values["name"] = *req.Name
			u.Name = *req.Name
		}

		if req.Role != nil && *req.Role != u.Role {
			target, ok := domain.ParseRole(*req.Role)
			if !ok {
				return usererrors.ErrInvalidRole
			}
			if d := domain.CanAssignRole(callerRole, currentRole); !d.Allowed {
				return usererrors.ErrRoleAssignment.WithMessage(d.Reason)
			}
			if d := domain.CanAssignRole(callerRole, target); !d.Allowed {
				return usererrors.ErrRoleAssignment.WithMessage(d.Reason)
			}
			values["role"] = string(target)
			u.Role = string(target)
		}

		if req.IsActive != nil && *req.IsActive != u.IsActive {
			if !*req.IsActive && u.ID.String() == caller.UserID {
				return usererrors.ErrSelfDeactivation
			}
			if d := domain.CanManageAccount(callerRole, currentRole); !d.Allowed {
				return usererrors.ErrRoleAssignment.WithMessage(d.Reason)
			}
			if *req.IsActive {
				t, err := s.tenants.WithTx(tx).LockByID(ctx, caller.TenantID)
				if err != nil {
					return tenant.MapRepositoryError(err)
				}
				active, err := repo.CountActive(ctx, caller.TenantID)
				if err != nil {
					return err
				}
				if err := tenant.EnsureCapacity(t.Settings.Data(), tenant.ResourceUsers, active); err != nil {
					return err
				}
			}
			values["is_active"] = *req.IsActive
			u.IsActive = *req.IsActive
		}

		if len(values) > 0 {
			if err := repo.Update(ctx, caller.TenantID, id, values); err != nil {
				return err
			}
		}

		updated = *u
		return nil
	})
	if err != nil {
		s.logger.Warn("update user failed",
			zap.String("request_id", rid),
			zap.String("tenant_id", caller.TenantID),
			zap.String("user_id", id),
			zap.Error(err),
		)
		return UserResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("user updated",
		zap.String("request_id", rid),
		zap.String("tenant_id", caller.TenantID),
		zap.String("user_id", id),
		zap.String("by", caller.UserID),
	)
	return MapToResponse(updated), nil
}

func MapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:        u.ID.String(),
		TenantID:  u.TenantID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Phone:     u.Phone,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
	if u.LastLogin != nil {
		ll := u.LastLogin.UTC().Format(time.RFC3339)
		resp.LastLogin = &ll
	}
	return resp
}
