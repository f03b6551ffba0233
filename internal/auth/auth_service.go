package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	autherrors "go-fleet/internal/auth/errors"
	"go-fleet/internal/domain"
	"go-fleet/internal/events"
	"go-fleet/internal/messaging/kafka"
	"go-fleet/internal/shared/contextutil"
	"go-fleet/internal/shared/metrics"
	"go-fleet/internal/tenant"
	tenanterrors "go-fleet/internal/tenant/errors"
	"go-fleet/internal/user"
	usererrors "go-fleet/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service interface {
	RegisterTenant(ctx context.Context, req RegisterTenantRequest) (AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (AuthResult, error)
	Me(ctx context.Context, caller contextutil.Principal) (MeResponse, error)
	RegisterUser(ctx context.Context, caller contextutil.Principal, req RegisterUserRequest) (user.UserResponse, error)
}

type service struct {
	db        *gorm.DB
	tenants   tenant.Repository
	users     user.Repository
	outbox    kafka.OutboxRepository
	tokens    *TokenService
	hasher    PasswordHasher
	// dummyHash is compared against when no account matches, so unknown
	// emails cost the same hash work as wrong passwords.
	dummyHash func() string
	now       func() time.Time
	logger    *zap.Logger
}

const dummyPassword = "fleet-login-placeholder"

func NewService(
	db *gorm.DB,
	tenants tenant.Repository,
	users user.Repository,
	outbox kafka.OutboxRepository,
	tokens *TokenService,
	hasher PasswordHasher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	s := &service{
		db:      db,
		tenants: tenants,
		users:   users,
		outbox:  outbox,
		tokens:  tokens,
		hasher:  hasher,
		now:     time.Now,
		logger:  l,
	}
	s.dummyHash = sync.OnceValue(func() string {
		h, err := hasher.Hash(dummyPassword)
		if err != nil {
			l.Warn("prepare login dummy hash failed", zap.Error(err))
		}
		return h
	})
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterTenant creates the organization and its first admin in one
// transaction and signs the admin in.
func (s *service) RegisterTenant(ctx context.Context, req RegisterTenantRequest) (AuthResult, error) {
	rid := contextutil.GetRequestID(ctx)
	now := s.now()

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return AuthResult{}, err
	}

	plan := req.Plan
	if plan == "" {
		plan = tenant.PlanFree
	}

	t := &tenant.Tenant{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.CompanyName),
		Slug:     tenant.GenerateSlug(req.CompanyName, now),
		Email:    normalizeEmail(req.Email),
		Phone:    req.Phone,
		Plan:     plan,
		Settings: datatypes.NewJSONType(tenant.DefaultSettings()),
		IsActive: true,
	}
	u := &user.User{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		Email:    normalizeEmail(req.Email),
		Password: hash,
		Role:     string(domain.RoleAdmin),
		Phone:    req.Phone,
		IsActive: true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.tenants.WithTx(tx).Create(ctx, t); err != nil {
			return tenant.MapRepositoryError(err)
		}
		if err := s.users.WithTx(tx).Create(ctx, t.ID.String(), u); err != nil {
			return user.MapRepositoryError(err)
		}
		return kafka.Record(ctx, s.outbox, tx, events.LifecycleEvent{
			EventType:     events.TenantRegistered,
			TenantID:      t.ID.String(),
			AggregateType: events.AggregateTenant,
			AggregateID:   t.ID.String(),
			ActorID:       u.ID.String(),
		})
	})
	if err != nil {
		s.logger.Warn("register tenant failed",
			zap.String("request_id", rid),
			zap.String("email", t.Email),
			zap.Error(err),
		)
		return AuthResult{}, err
	}

	s.logger.Info("tenant registered",
		zap.String("request_id", rid),
		zap.String("tenant_id", t.ID.String()),
		zap.String("slug", t.Slug),
	)
	t.CreatedAt, u.CreatedAt = now, now
	return s.result(*u, *t)
}

// Login resolves the account by email. Emails are unique per tenant, so
// when several organizations share one the caller must name the tenant.
func (s *service) Login(ctx context.Context, req LoginRequest) (AuthResult, error) {
	rid := contextutil.GetRequestID(ctx)
	email := normalizeEmail(req.Email)

	candidates, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Error("login lookup failed", zap.String("request_id", rid), zap.Error(err))
		return AuthResult{}, err
	}

	u, err := pickLoginCandidate(candidates, strings.TrimSpace(req.TenantSlug))
	if err != nil {
		if errors.Is(err, autherrors.ErrInvalidCredentials) {
			_ = s.hasher.Compare(s.dummyHash(), req.Password)
		}
		metrics.AuthAttempts.WithLabelValues("invalid_credentials").Inc()
		return AuthResult{}, err
	}

	if err := s.hasher.Compare(u.Password, req.Password); err != nil {
		metrics.AuthAttempts.WithLabelValues("invalid_credentials").Inc()
		s.logger.Info("login rejected", zap.String("request_id", rid), zap.String("email", email))
		return AuthResult{}, autherrors.ErrInvalidCredentials
	}
	if !u.IsActive {
		metrics.AuthAttempts.WithLabelValues("deactivated").Inc()
		return AuthResult{}, autherrors.ErrAccountDeactivated
	}
	if u.Tenant == nil || !u.Tenant.IsActive {
		return AuthResult{}, tenanterrors.ErrTenantInactive
	}

	t, err := s.tenants.FindByID(ctx, u.TenantID.String())
	if err != nil {
		return AuthResult{}, tenant.MapRepositoryError(err)
	}

	now := s.now()
	if err := s.users.TouchLastLogin(ctx, u.TenantID.String(), u.ID.String(), now); err != nil {
		s.logger.Warn("update last login failed", zap.String("request_id", rid), zap.Error(err))
	} else {
		u.LastLogin = &now
	}

	metrics.AuthAttempts.WithLabelValues("login").Inc()
	s.logger.Info("user logged in",
		zap.String("request_id", rid),
		zap.String("tenant_id", u.TenantID.String()),
		zap.String("user_id", u.ID.String()),
	)
	return s.result(u, *t)
}

func pickLoginCandidate(candidates []user.User, tenantSlug string) (user.User, error) {
	if tenantSlug != "" {
		filtered := candidates[:0:0]
		for _, c := range candidates {
			if c.Tenant != nil && c.Tenant.Slug == tenantSlug {
				filtered = append(filtered, c)
			}
		}
		candidates = filtered
	}

	if len(candidates) > 1 {
		active := candidates[:0:0]
		for _, c := range candidates {
			if c.Tenant != nil && c.Tenant.IsActive {
				active = append(active, c)
			}
		}
		if len(active) > 1 {
			return user.User{}, autherrors.ErrAmbiguousTenant
		}
		if len(active) == 1 {
			candidates = active
		}
	}

	if len(candidates) != 1 {
		return user.User{}, autherrors.ErrInvalidCredentials
	}
	return candidates[0], nil
}

func (s *service) Me(ctx context.Context, caller contextutil.Principal) (MeResponse, error) {
	u, err := s.users.FindByID(ctx, caller.TenantID, caller.UserID)
	if err != nil {
		return MeResponse{}, user.MapRepositoryError(err)
	}
	t, err := s.tenants.FindByID(ctx, caller.TenantID)
	if err != nil {
		return MeResponse{}, tenant.MapRepositoryError(err)
	}
	return MeResponse{User: user.MapToResponse(*u), Tenant: tenant.MapToResponse(*t)}, nil
}

// RegisterUser adds an account to the caller's tenant, subject to the
// role hierarchy and the plan's user quota.
func (s *service) RegisterUser(ctx context.Context, caller contextutil.Principal, req RegisterUserRequest) (user.UserResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	roleName := req.Role
	if roleName == "" {
		roleName = string(domain.RoleDriver)
	}
	role, ok := domain.ParseRole(roleName)
	if !ok {
		return user.UserResponse{}, usererrors.ErrInvalidRole
	}
	if d := domain.CanAssignRole(domain.Role(caller.Role), role); !d.Allowed {
		return user.UserResponse{}, usererrors.ErrRoleAssignment.WithMessage(d.Reason)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return user.UserResponse{}, err
	}

	u := &user.User{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		Email:    normalizeEmail(req.Email),
		Password: hash,
		Role:     string(role),
		Phone:    req.Phone,
		IsActive: true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := s.tenants.WithTx(tx).LockByID(ctx, caller.TenantID)
		if err != nil {
			return tenant.MapRepositoryError(err)
		}

		users := s.users.WithTx(tx)
		active, err := users.CountActive(ctx, caller.TenantID)
		if err != nil {
			return err
		}
		if err := tenant.EnsureCapacity(t.Settings.Data(), tenant.ResourceUsers, active); err != nil {
			return err
		}

		return user.MapRepositoryError(users.Create(ctx, caller.TenantID, u))
	})
	if err != nil {
		s.logger.Warn("register user failed",
			zap.String("request_id", rid),
			zap.String("tenant_id", caller.TenantID),
			zap.String("role", string(role)),
			zap.Error(err),
		)
		return user.UserResponse{}, err
	}

	s.logger.Info("user registered",
		zap.String("request_id", rid),
		zap.String("tenant_id", caller.TenantID),
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role),
		zap.String("by", caller.UserID),
	)
	u.CreatedAt = s.now()
	return user.MapToResponse(*u), nil
}

func (s *service) result(u user.User, t tenant.Tenant) (AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(u.ID.String(), u.TenantID.String(), u.Role)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.MapToResponse(u),
		Tenant:    tenant.MapToResponse(t),
	}, nil
}
