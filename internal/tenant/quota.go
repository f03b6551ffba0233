package tenant

import (
	"fmt"

	tenanterrors "go-fleet/internal/tenant/errors"
)

type Resource string

const (
	ResourceVehicles Resource = "vehicles"
	ResourceDrivers  Resource = "drivers"
	ResourceUsers    Resource = "users"
)

func (s Settings) Limit(r Resource) int {
	switch r {
	case ResourceVehicles:
		return s.MaxVehicles
	case ResourceDrivers:
		return s.MaxDrivers
	case ResourceUsers:
		return s.MaxUsers
	}
	return 0
}

// EnsureCapacity fails once current active records reach the plan limit.
// A limit of zero or less means unlimited.
func EnsureCapacity(s Settings, r Resource, current int64) error {
	limit := s.Limit(r)
	if limit <= 0 || current < int64(limit) {
		return nil
	}
	return tenanterrors.ErrQuotaExceeded.WithMessage(
		fmt.Sprintf("Plan limit reached: at most %d active %s allowed", limit, r),
	)
}
