package domain

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleDriver     Role = "driver"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleManager, RoleDriver:
		return true
	}
	return false
}

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(format string, args ...any) Decision {
	return Decision{Reason: fmt.Sprintf(format, args...)}
}

// Authorize allows caller when it is one of required. An empty required
// set admits any known role.
func Authorize(required []Role, caller Role) Decision {
	if !caller.Valid() {
		return deny("unknown role %q", caller)
	}
	if len(required) == 0 {
		return allow()
	}
	names := make([]string, 0, len(required))
	for _, r := range required {
		if r == caller {
			return allow()
		}
		names = append(names, string(r))
	}
	return deny("role %s is not permitted, requires one of: %s", caller, strings.Join(names, ", "))
}

// CanAssignRole applies the account hierarchy: only superadmin creates
// admins, admin and superadmin create managers and drivers, and nobody
// creates superadmins over the API.
func CanAssignRole(caller, target Role) Decision {
	switch target {
	case RoleSuperAdmin:
		return deny("superadmin accounts cannot be created")
	case RoleAdmin:
		return Authorize([]Role{RoleSuperAdmin}, caller)
	case RoleManager, RoleDriver:
		return Authorize([]Role{RoleAdmin, RoleSuperAdmin}, caller)
	}
	return deny("unknown role %q", target)
}

// CanManageAccount applies the same hierarchy to changes of an existing
// account's status. Superadmin accounts are not managed over the API.
func CanManageAccount(caller, current Role) Decision {
	if current == RoleSuperAdmin {
		return deny("superadmin accounts cannot be managed")
	}
	return CanAssignRole(caller, current)
}

type Permission struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}
