package config_test

import (
	"testing"
	"time"

	"go-fleet/internal/shared/config"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	t.Run("day suffix", func(t *testing.T) {
		d, err := config.ParseDuration("7d")
		assert.NoError(t, err)
		assert.Equal(t, 7*24*time.Hour, d)
	})

	t.Run("go duration", func(t *testing.T) {
		d, err := config.ParseDuration("90m")
		assert.NoError(t, err)
		assert.Equal(t, 90*time.Minute, d)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := config.ParseDuration("soon")
		assert.Error(t, err)
	})

	t.Run("negative days", func(t *testing.T) {
		_, err := config.ParseDuration("-1d")
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	t.Run("requires jwt secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("APP_ENV", "")
		t.Setenv("AUTH_DEV_BYPASS_TOKEN", "")

		cfg, err := config.Load()
		assert.NoError(t, err)
		assert.Equal(t, 7*24*time.Hour, cfg.JWT.ExpiresIn)
		assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
		assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
		assert.Equal(t, 200, cfg.RateLimit.Max)
		assert.Equal(t, 20, cfg.RateLimit.AuthMax)
		assert.False(t, cfg.DevBypassEnabled())
	})

	t.Run("dev bypass only in development", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("AUTH_DEV_BYPASS_TOKEN", "demo-token")

		t.Setenv("APP_ENV", "development")
		cfg, err := config.Load()
		assert.NoError(t, err)
		assert.True(t, cfg.DevBypassEnabled())

		t.Setenv("APP_ENV", "production")
		cfg, err = config.Load()
		assert.NoError(t, err)
		assert.False(t, cfg.DevBypassEnabled())
		assert.True(t, cfg.IsProduction())
	})
}
