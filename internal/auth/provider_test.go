package auth_test

import (
	"context"
	"testing"
	"time"

	"go-fleet/internal/auth"
	autherrors "go-fleet/internal/auth/errors"
	"go-fleet/internal/shared/config"
	"go-fleet/internal/user"
	"go-fleet/internal/user/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestJWTProvider_Authenticate(t *testing.T) {
	ctx := context.Background()
	tokens := auth.NewTokenService("secret", time.Hour)
	tenantID, userID := uuid.New(), uuid.New()

	raw, _, err := tokens.Issue(userID.String(), tenantID.String(), "driver")
	require.NoError(t, err)

	t.Run("active user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := mock.NewMockRepository(ctrl)
		users.EXPECT().FindByID(gomock.Any(), tenantID.String(), userID.String()).
			Return(&user.User{ID: userID, TenantID: tenantID, Role: "manager", IsActive: true}, nil)

		p, err := auth.NewJWTProvider(tokens, users).Authenticate(ctx, raw)

		assert.NoError(t, err)
		assert.Equal(t, userID.String(), p.UserID)
		assert.Equal(t, tenantID.String(), p.TenantID)
		// role is refreshed from the stored record
		assert.Equal(t, "manager", p.Role)
	})

	t.Run("deactivated after issuance", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := mock.NewMockRepository(ctrl)
		users.EXPECT().FindByID(gomock.Any(), tenantID.String(), userID.String()).
			Return(&user.User{ID: userID, TenantID: tenantID, Role: "driver", IsActive: false}, nil)

		_, err := auth.NewJWTProvider(tokens, users).Authenticate(ctx, raw)

		assert.ErrorIs(t, err, autherrors.ErrAccountDeactivated)
	})

	t.Run("user gone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := mock.NewMockRepository(ctrl)
		users.EXPECT().FindByID(gomock.Any(), tenantID.String(), userID.String()).
			Return(nil, gorm.ErrRecordNotFound)

		_, err := auth.NewJWTProvider(tokens, users).Authenticate(ctx, raw)

		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("bad token never reaches the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := mock.NewMockRepository(ctrl)

		_, err := auth.NewJWTProvider(tokens, users).Authenticate(ctx, "bogus")

		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})
}

func TestNewProvider_DevBypass(t *testing.T) {
	ctx := context.Background()
	tokens := auth.NewTokenService("secret", time.Hour)
	demo := user.User{
		ID:       uuid.New(),
		TenantID: uuid.New(),
		Email:    "admin@demo.com",
		Role:     "admin",
		IsActive: true,
		Tenant:   &user.UserTenant{IsActive: true},
	}

	t.Run("development honours the literal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := mock.NewMockRepository(ctrl)
		users.EXPECT().FindByEmail(gomock.Any(), "admin@demo.com").Return([]user.User{demo}, nil)

		cfg := &config.Config{
			Server:    config.ServerConfig{Env: config.EnvDevelopment},
			DevBypass: config.DevBypassConfig{Token: "demo-token", Email: "admin@demo.com"},
		}
		p, err := auth.NewProvider(cfg, tokens, users, zap.NewNop()).Authenticate(ctx, "demo-token")

		assert.NoError(t, err)
		assert.Equal(t, demo.ID.String(), p.UserID)
		assert.Equal(t, "admin", p.Role)
	})

	t.Run("production treats the literal as an invalid token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := mock.NewMockRepository(ctrl)

		cfg := &config.Config{
			Server:    config.ServerConfig{Env: config.EnvProduction},
			DevBypass: config.DevBypassConfig{Token: "demo-token", Email: "admin@demo.com"},
		}
		_, err := auth.NewProvider(cfg, tokens, users, zap.NewNop()).Authenticate(ctx, "demo-token")

		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("real tokens still pass through the bypass", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := mock.NewMockRepository(ctrl)
		raw, _, err := tokens.Issue(demo.ID.String(), demo.TenantID.String(), "admin")
		require.NoError(t, err)
		users.EXPECT().FindByID(gomock.Any(), demo.TenantID.String(), demo.ID.String()).Return(&demo, nil)

		bypass := auth.NewDevBypassProvider(auth.NewJWTProvider(tokens, users), "demo-token", "admin@demo.com", users)
		p, err := bypass.Authenticate(ctx, raw)

		assert.NoError(t, err)
		assert.Equal(t, demo.ID.String(), p.UserID)
	})
}
