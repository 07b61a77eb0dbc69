// Package event defines the plan lifecycle events published to the event
// topic for downstream consumers (dispatch dashboards, audit log).
package event

import (
	"context"
	"time"
)

// Type is the lifecycle event kind.
type Type string

const (
	TypePlanCreated  Type = "plan.created"
	TypePlanApproved Type = "plan.approved"
	TypePlanDeleted  Type = "plan.deleted"
	TypeFlightLogged Type = "flight.logged"
)

// PlanEvent records one lifecycle transition of a flight plan.
type PlanEvent struct {
	Type            Type      `json:"event_type"`
	PlanID          string    `json:"plan_id"`
	UserID          string    `json:"user_id"`
	AircraftCode    string    `json:"aircraft_code,omitempty"`
	OriginICAO      string    `json:"origin_icao,omitempty"`
	DestinationICAO string    `json:"destination_icao,omitempty"`
	DistanceNM      float64   `json:"distance_nm,omitempty"`
	Status          string    `json:"status,omitempty"`
	Approved        bool      `json:"approved,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// Publisher delivers plan events to the event stream.
type Publisher interface {
	Publish(ctx context.Context, e PlanEvent) error
}

// Discard is a Publisher that drops all events, used when no broker is
// configured.
type Discard struct{}

func (Discard) Publish(context.Context, PlanEvent) error { return nil }
