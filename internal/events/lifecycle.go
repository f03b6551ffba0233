package events

import (
	"context"
	"time"
)

const LifecycleTopic = "fleet.lifecycle.v1"

const (
	TenantRegistered         = "tenant_registered"
	TripCreated              = "trip_created"
	TripStatusChanged        = "trip_status_changed"
	MaintenanceCreated       = "maintenance_created"
	MaintenanceStatusChanged = "maintenance_status_changed"
	FuelLogged               = "fuel_logged"
)

const (
	AggregateTenant      = "tenant"
	AggregateTrip        = "trip"
	AggregateMaintenance = "maintenance"
	AggregateFuelLog     = "fuel_log"
)

// LifecycleEvent is the single payload shape on LifecycleTopic. From and
// To are set for status transitions only.
type LifecycleEvent struct {
	EventType     string    `json:"event_type"`
	TenantID      string    `json:"tenant_id"`
	AggregateType string    `json:"aggregate_type"`
	AggregateID   string    `json:"aggregate_id"`
	From          string    `json:"from,omitempty"`
	To            string    `json:"to,omitempty"`
	ActorID       string    `json:"actor_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// AffectsDashboard reports whether consumers should drop the tenant's
// cached dashboard aggregates.
func (e LifecycleEvent) AffectsDashboard() bool {
	switch e.AggregateType {
	case AggregateTrip, AggregateMaintenance, AggregateFuelLog:
		return true
	}
	return false
}

// CacheInvalidator drops cached aggregates for a tenant.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, tenantID string) error
}
