package auth

import (
	"context"
	"crypto/subtle"
	"errors"

	autherrors "go-fleet/internal/auth/errors"
	"go-fleet/internal/domain"
	"go-fleet/internal/shared/config"
	"go-fleet/internal/shared/contextutil"
	"go-fleet/internal/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Provider turns a presented credential into a principal. It satisfies
// middleware.Authenticator.
type Provider interface {
	Authenticate(ctx context.Context, raw string) (contextutil.Principal, error)
}

// JWTProvider verifies the token and then re-reads the user, so a
// deactivation takes effect on the next request even though tokens are
// stateless.
type JWTProvider struct {
	tokens *TokenService
	users  user.Repository
}

func NewJWTProvider(tokens *TokenService, users user.Repository) *JWTProvider {
	return &JWTProvider{tokens: tokens, users: users}
}

func (p *JWTProvider) Authenticate(ctx context.Context, raw string) (contextutil.Principal, error) {
	claims, err := p.tokens.Parse(raw)
	if err != nil {
		return contextutil.Principal{}, err
	}

	u, err := p.users.FindByID(ctx, claims.TenantID, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return contextutil.Principal{}, autherrors.ErrInvalidToken
		}
		return contextutil.Principal{}, err
	}
	if !u.IsActive {
		return contextutil.Principal{}, autherrors.ErrAccountDeactivated
	}

	return principalOf(*u), nil
}

// DevBypassProvider accepts one configured literal as the demo admin and
// hands everything else to next. It is wired only in development.
type DevBypassProvider struct {
	next  Provider
	token []byte
	email string
	users user.Repository
}

func NewDevBypassProvider(next Provider, token, email string, users user.Repository) *DevBypassProvider {
	return &DevBypassProvider{next: next, token: []byte(token), email: email, users: users}
}

func (p *DevBypassProvider) Authenticate(ctx context.Context, raw string) (contextutil.Principal, error) {
	if len(p.token) == 0 || subtle.ConstantTimeCompare([]byte(raw), p.token) != 1 {
		return p.next.Authenticate(ctx, raw)
	}

	candidates, err := p.users.FindByEmail(ctx, p.email)
	if err != nil {
		return contextutil.Principal{}, err
	}
	for _, u := range candidates {
		role := domain.Role(u.Role)
		if !u.IsActive || (role != domain.RoleAdmin && role != domain.RoleSuperAdmin) {
			continue
		}
		if u.Tenant != nil && !u.Tenant.IsActive {
			continue
		}
		return principalOf(u), nil
	}
	return contextutil.Principal{}, autherrors.ErrInvalidToken
}

// NewProvider selects the authentication strategy for cfg.
func NewProvider(cfg *config.Config, tokens *TokenService, users user.Repository, logger *zap.Logger) Provider {
	var p Provider = NewJWTProvider(tokens, users)
	if cfg.DevBypassEnabled() {
		logger.Warn("development auth bypass enabled",
			zap.String("env", cfg.Server.Env),
			zap.String("email", cfg.DevBypass.Email),
		)
		p = NewDevBypassProvider(p, cfg.DevBypass.Token, cfg.DevBypass.Email, users)
	}
	return p
}

func principalOf(u user.User) contextutil.Principal {
	return contextutil.Principal{
		UserID:   u.ID.String(),
		TenantID: u.TenantID.String(),
		Role:     u.Role,
		Email:    u.Email,
		Name:     u.Name,
	}
}
