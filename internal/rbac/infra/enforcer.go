package infra

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// ModelText grants a role every permission of the roles it inherits.
// keyMatch lets a policy use * as the object.
const ModelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && r.act == p.act
`

// RoleHierarchy lists (child, parent): superadmin inherits admin, which
// inherits manager, which inherits driver.
var RoleHierarchy = [][]string{
	{"superadmin", "admin"},
	{"admin", "manager"},
	{"manager", "driver"},
}

var Policies = [][]string{
	{"driver", "vehicle", "read"},
	{"driver", "driver", "read"},
	{"driver", "trip", "read"},
	{"driver", "maintenance", "read"},
	{"driver", "fuel_log", "read"},
	{"driver", "dashboard", "read"},
	{"driver", "fuel_log", "create"},
	{"driver", "vehicle_gps", "update"},

	{"manager", "vehicle", "create"},
	{"manager", "vehicle", "update"},
	{"manager", "driver", "create"},
	{"manager", "driver", "update"},
	{"manager", "trip", "create"},
	{"manager", "trip", "update"},
	{"manager", "maintenance", "create"},
	{"manager", "maintenance", "update"},
	{"manager", "fuel_log", "update"},
	{"manager", "fuel_log", "export"},
	{"manager", "user", "read"},
	{"manager", "inactive_records", "read"},

	{"admin", "vehicle", "delete"},
	{"admin", "driver", "delete"},
	{"admin", "trip", "delete"},
	{"admin", "maintenance", "delete"},
	{"admin", "fuel_log", "delete"},
	{"admin", "user", "create"},
	{"admin", "user", "update"},
	{"admin", "tenant_settings", "update"},
}

func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(ModelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	if _, err := e.AddGroupingPolicies(RoleHierarchy); err != nil {
		return nil, err
	}
	if _, err := e.AddPolicies(Policies); err != nil {
		return nil, err
	}
	return e, nil
}
