package rbac_test

import (
	"testing"

	"go-fleet/internal/domain"
	"go-fleet/internal/rbac"
	"go-fleet/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) rbac.Service {
	t.Helper()
	enforcer, err := infra.NewEnforcer()
	require.NoError(t, err)
	return rbac.NewService(enforcer)
}

func TestRBACService_Enforce(t *testing.T) {
	svc := newService(t)

	cases := []struct {
		role, resource, action string
		allowed                bool
	}{
		{"driver", "vehicle", "read", true},
		{"driver", "vehicle", "create", false},
		{"driver", "fuel_log", "create", true},
		{"driver", "vehicle_gps", "update", true},
		{"driver", "user", "read", false},
		{"manager", "vehicle", "create", true},
		{"manager", "vehicle", "delete", false},
		{"manager", "fuel_log", "create", true},
		{"manager", "user", "read", true},
		{"manager", "user", "create", false},
		{"admin", "vehicle", "delete", true},
		{"admin", "user", "create", true},
		{"admin", "tenant_settings", "update", true},
		{"superadmin", "trip", "delete", true},
		{"superadmin", "vehicle", "read", true},
		{"guest", "vehicle", "read", false},
	}

	for _, tc := range cases {
		t.Run(tc.role+":"+tc.resource+":"+tc.action, func(t *testing.T) {
			allowed, err := svc.Enforce(tc.role, tc.resource, tc.action)
			assert.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}

func TestRBACService_PermissionsFor(t *testing.T) {
	svc := newService(t)

	t.Run("manager inherits driver permissions", func(t *testing.T) {
		perms, err := svc.PermissionsFor("manager")
		assert.NoError(t, err)
		assert.Contains(t, perms, domain.Permission{Resource: "vehicle", Action: "read"})
		assert.Contains(t, perms, domain.Permission{Resource: "vehicle", Action: "create"})
		assert.NotContains(t, perms, domain.Permission{Resource: "vehicle", Action: "delete"})
	})

	t.Run("unknown role has none", func(t *testing.T) {
		perms, err := svc.PermissionsFor("guest")
		assert.NoError(t, err)
		assert.Empty(t, perms)
	})
}
