// Package store defines the persistence model for users, flight plans,
// logged flights, and preferences, along with the interfaces the rest of
// the service programs against.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a record does not exist or is not
	// visible to the requesting user.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicate is returned when a unique constraint is violated,
	// typically a username or email already in use.
	ErrDuplicate = errors.New("store: duplicate")
)

// User is a registered account. PasswordHash is a bcrypt hash, never the
// raw password.
type User struct {
	ID           string     `json:"user_id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name,omitempty"`
	PilotLicense string     `json:"pilot_license,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// Plan lifecycle states. Generated plans start as approved or
// review_required depending on the safety checks; draft covers plans
// saved without a full check run.
const (
	StatusDraft          = "draft"
	StatusApproved       = "approved"
	StatusReviewRequired = "review_required"
	StatusArchived       = "archived"
)

// FlightPlan is a saved planning result. The RouteData, WeatherData,
// AirspaceCheck, and ETOPSCheck blobs hold the full computed documents as
// JSON so a stored plan can be re-rendered without re-running the planner.
type FlightPlan struct {
	ID              string          `json:"plan_id"`
	UserID          string          `json:"user_id"`
	PlanName        string          `json:"plan_name"`
	AircraftCode    string          `json:"aircraft_code"`
	OriginICAO      string          `json:"origin_icao"`
	DestinationICAO string          `json:"destination_icao"`
	DistanceNM      float64         `json:"distance_nm"`
	AltitudeFt      int             `json:"altitude_ft"`
	HeadwindKt      float64         `json:"headwind_kt"`
	FuelRequiredKg  float64         `json:"fuel_required_kg"`
	FlightTimeHr    float64         `json:"flight_time_hr"`
	RouteData       json.RawMessage `json:"route_data,omitempty"`
	WeatherData     json.RawMessage `json:"weather_data,omitempty"`
	AirspaceCheck   json.RawMessage `json:"airspace_check,omitempty"`
	ETOPSCheck      json.RawMessage `json:"etops_check,omitempty"`
	Status          string          `json:"status"`
	Approved        bool            `json:"approved"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// PlanSummary is the list view of a flight plan, without the JSON blobs.
type PlanSummary struct {
	ID              string    `json:"plan_id"`
	PlanName        string    `json:"plan_name"`
	AircraftCode    string    `json:"aircraft_code"`
	OriginICAO      string    `json:"origin_icao"`
	DestinationICAO string    `json:"destination_icao"`
	DistanceNM      float64   `json:"distance_nm"`
	FuelRequiredKg  float64   `json:"fuel_required_kg"`
	FlightTimeHr    float64   `json:"flight_time_hr"`
	Status          string    `json:"status"`
	Approved        bool      `json:"approved"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// FlightRecord logs an actual flight flown against a saved plan.
type FlightRecord struct {
	ID                string    `json:"flight_id"`
	UserID            string    `json:"user_id"`
	PlanID            string    `json:"plan_id"`
	FlightDate        time.Time `json:"flight_date"`
	ActualFuelUsedKg  float64   `json:"actual_fuel_used_kg"`
	ActualFlightTimeH float64   `json:"actual_flight_time_hr"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Preferences holds per-user defaults. A row is created with defaults when
// the user registers.
type Preferences struct {
	UserID              string `json:"user_id"`
	PreferredUnits      string `json:"preferred_units"`
	DefaultAircraft     string `json:"default_aircraft,omitempty"`
	DefaultAltitudeFt   int    `json:"default_altitude_ft"`
	EnableNotifications bool   `json:"enable_notifications"`
	Theme               string `json:"theme"`
}

// DefaultPreferences returns the preferences row created for a new user.
func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:              userID,
		PreferredUnits:      "metric",
		DefaultAltitudeFt:   35000,
		EnableNotifications: true,
		Theme:               "dark",
	}
}

// Stats aggregates a user's planning activity.
type Stats struct {
	TotalPlans         int     `json:"total_plans"`
	ApprovedPlans      int     `json:"approved_plans"`
	TotalDistanceNM    float64 `json:"total_distance_nm"`
	TotalFlightsLogged int     `json:"total_flights_logged"`
	MostUsedAircraft   string  `json:"most_used_aircraft,omitempty"`
}

// UserStore persists accounts.
type UserStore interface {
	// CreateUser inserts a new user and their default preferences row.
	// Returns ErrDuplicate if the username or email is taken.
	CreateUser(ctx context.Context, u *User) error

	// UserByUsername looks up a user for login. Returns ErrNotFound if
	// no such account exists.
	UserByUsername(ctx context.Context, username string) (*User, error)

	// UserByID looks up a user by ID.
	UserByID(ctx context.Context, id string) (*User, error)

	// TouchLastLogin records a successful login time.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// PlanStore persists flight plans. All reads and writes are scoped to the
// owning user; a plan belonging to someone else behaves as ErrNotFound.
type PlanStore interface {
	SavePlan(ctx context.Context, p *FlightPlan) error
	PlansByUser(ctx context.Context, userID string, limit int) ([]PlanSummary, error)
	PlanByID(ctx context.Context, userID, planID string) (*FlightPlan, error)
	SetPlanStatus(ctx context.Context, userID, planID, status string, approved bool) error
	DeletePlan(ctx context.Context, userID, planID string) error
}

// HistoryStore persists logged flights and derived statistics.
type HistoryStore interface {
	LogFlight(ctx context.Context, r *FlightRecord) error
	FlightsByUser(ctx context.Context, userID string, limit int) ([]FlightRecord, error)
	UserStats(ctx context.Context, userID string) (Stats, error)
}

// PreferencesStore persists per-user defaults.
type PreferencesStore interface {
	PreferencesByUser(ctx context.Context, userID string) (Preferences, error)
	SavePreferences(ctx context.Context, p Preferences) error
}

// Store is the full persistence surface.
type Store interface {
	UserStore
	PlanStore
	HistoryStore
	PreferencesStore
}
