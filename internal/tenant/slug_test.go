package tenant_test

import (
	"strconv"
	"testing"
	"time"

	"go-fleet/internal/shared/apperror"
	"go-fleet/internal/tenant"
	tenanterrors "go-fleet/internal/tenant/errors"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	suffix := strconv.FormatInt(now.UnixMilli(), 36)

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Acme Logistics", "acme-logistics-" + suffix},
		{"punctuation collapses", "  Fast & Furious, Ltd.  ", "fast-furious-ltd-" + suffix},
		{"digits kept", "Route 66 Haulers", "route-66-haulers-" + suffix},
		{"nothing usable", "!!!", suffix},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tenant.GenerateSlug(tc.in, now))
		})
	}
}

func TestEnsureCapacity(t *testing.T) {
	settings := tenant.DefaultSettings()

	assert.NoError(t, tenant.EnsureCapacity(settings, tenant.ResourceVehicles, 9))

	err := tenant.EnsureCapacity(settings, tenant.ResourceVehicles, 10)
	assert.ErrorIs(t, err, tenanterrors.ErrQuotaExceeded.WithMessage("Plan limit reached: at most 10 active vehicles allowed"))
	assert.Equal(t, apperror.CodeQuotaExceeded, apperror.ToHTTP(err).Code)

	settings.MaxUsers = 0
	assert.NoError(t, tenant.EnsureCapacity(settings, tenant.ResourceUsers, 1000))
}
