package memory

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/flight-planner-service/internal/store"
)

func newUser(username, email string) *store.User {
	return &store.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$notarealhash",
		FullName:     "Test Pilot",
	}
}

func TestCreateUserAndLookup(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	u := newUser("pilot123", "pilot@example.com")
	require.NoError(t, s.CreateUser(ctx, u))
	require.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byName, err := s.UserByUsername(ctx, "PILOT123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byID, err := s.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "pilot123", byID.Username)

	// registration seeds default preferences
	prefs, err := s.PreferencesByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "metric", prefs.PreferredUnits)
	assert.Equal(t, 35000, prefs.DefaultAltitudeFt)
	assert.True(t, prefs.EnableNotifications)
}

func TestCreateUserDuplicate(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newUser("pilot123", "pilot@example.com")))

	err := s.CreateUser(ctx, newUser("PILOT123", "other@example.com"))
	assert.ErrorIs(t, err, store.ErrDuplicate)

	err = s.CreateUser(ctx, newUser("other", "pilot@example.com"))
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestUserNotFound(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	_, err := s.UserByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.UserByID(ctx, "no-such-id")
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.TouchLastLogin(ctx, "no-such-id", time.Now())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTouchLastLogin(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(clock)
	ctx := context.Background()

	u := newUser("pilot123", "pilot@example.com")
	require.NoError(t, s.CreateUser(ctx, u))

	at := clock.Now().Add(time.Hour)
	require.NoError(t, s.TouchLastLogin(ctx, u.ID, at))

	got, err := s.UserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.Equal(t, at.UTC(), *got.LastLogin)
}

func TestPlanLifecycle(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(clock)
	ctx := context.Background()

	u := newUser("pilot123", "pilot@example.com")
	require.NoError(t, s.CreateUser(ctx, u))

	p := &store.FlightPlan{
		UserID:          u.ID,
		PlanName:        "LAX to JFK",
		AircraftCode:    "B777-300ER",
		OriginICAO:      "KLAX",
		DestinationICAO: "KJFK",
		DistanceNM:      2145.3,
		AltitudeFt:      37000,
		FuelRequiredKg:  48000,
		FlightTimeHr:    4.6,
	}
	require.NoError(t, s.SavePlan(ctx, p))
	require.NotEmpty(t, p.ID)
	assert.Equal(t, store.StatusDraft, p.Status)

	got, err := s.PlanByID(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "LAX to JFK", got.PlanName)
	assert.Equal(t, 2145.3, got.DistanceNM)

	clock.Advance(time.Minute)
	require.NoError(t, s.SetPlanStatus(ctx, u.ID, p.ID, store.StatusApproved, true))

	got, err = s.PlanByID(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusApproved, got.Status)
	assert.True(t, got.Approved)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	require.NoError(t, s.DeletePlan(ctx, u.ID, p.ID))
	_, err = s.PlanByID(ctx, u.ID, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPlanScopedToOwner(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	owner := newUser("owner", "owner@example.com")
	other := newUser("other", "other@example.com")
	require.NoError(t, s.CreateUser(ctx, owner))
	require.NoError(t, s.CreateUser(ctx, other))

	p := &store.FlightPlan{UserID: owner.ID, AircraftCode: "A320", OriginICAO: "EGLL", DestinationICAO: "LFPG"}
	require.NoError(t, s.SavePlan(ctx, p))

	_, err := s.PlanByID(ctx, other.ID, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.DeletePlan(ctx, other.ID, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	plans, err := s.PlansByUser(ctx, other.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, plans)

	// an update reusing the plan ID must not transfer ownership
	stolen := &store.FlightPlan{ID: p.ID, UserID: other.ID, PlanName: "rerouted", AircraftCode: "A320", OriginICAO: "EGLL", DestinationICAO: "LFPG"}
	err = s.SavePlan(ctx, stolen)
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.PlanByID(ctx, owner.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.UserID)
}

func TestPlansByUserOrderAndLimit(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(clock)
	ctx := context.Background()

	u := newUser("pilot123", "pilot@example.com")
	require.NoError(t, s.CreateUser(ctx, u))

	for _, name := range []string{"first", "second", "third"} {
		clock.Advance(time.Minute)
		p := &store.FlightPlan{UserID: u.ID, PlanName: name, AircraftCode: "A320", OriginICAO: "EGLL", DestinationICAO: "LFPG"}
		require.NoError(t, s.SavePlan(ctx, p))
	}

	plans, err := s.PlansByUser(ctx, u.ID, 2)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "third", plans[0].PlanName)
	assert.Equal(t, "second", plans[1].PlanName)
}

func TestLogFlightAndStats(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	u := newUser("pilot123", "pilot@example.com")
	require.NoError(t, s.CreateUser(ctx, u))

	p1 := &store.FlightPlan{UserID: u.ID, AircraftCode: "B777-300ER", OriginICAO: "KLAX", DestinationICAO: "KJFK", DistanceNM: 2145, Approved: true}
	p2 := &store.FlightPlan{UserID: u.ID, AircraftCode: "B777-300ER", OriginICAO: "KJFK", DestinationICAO: "EGLL", DistanceNM: 2994}
	p3 := &store.FlightPlan{UserID: u.ID, AircraftCode: "A320", OriginICAO: "EGLL", DestinationICAO: "LFPG", DistanceNM: 188}
	for _, p := range []*store.FlightPlan{p1, p2, p3} {
		require.NoError(t, s.SavePlan(ctx, p))
	}

	rec := &store.FlightRecord{
		UserID:            u.ID,
		PlanID:            p1.ID,
		FlightDate:        time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		ActualFuelUsedKg:  47200,
		ActualFlightTimeH: 4.8,
		Notes:             "smooth ride, early arrival",
	}
	require.NoError(t, s.LogFlight(ctx, rec))
	require.NotEmpty(t, rec.ID)

	flights, err := s.FlightsByUser(ctx, u.ID, 0)
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, p1.ID, flights[0].PlanID)

	stats, err := s.UserStats(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalPlans)
	assert.Equal(t, 1, stats.ApprovedPlans)
	assert.InDelta(t, 5327, stats.TotalDistanceNM, 0.01)
	assert.Equal(t, 1, stats.TotalFlightsLogged)
	assert.Equal(t, "B777-300ER", stats.MostUsedAircraft)
}

func TestLogFlightUnknownPlan(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	u := newUser("pilot123", "pilot@example.com")
	require.NoError(t, s.CreateUser(ctx, u))

	err := s.LogFlight(ctx, &store.FlightRecord{UserID: u.ID, PlanID: "no-such-plan"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSavePreferences(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	u := newUser("pilot123", "pilot@example.com")
	require.NoError(t, s.CreateUser(ctx, u))

	prefs, err := s.PreferencesByUser(ctx, u.ID)
	require.NoError(t, err)

	prefs.PreferredUnits = "imperial"
	prefs.DefaultAircraft = "B737-800"
	prefs.DefaultAltitudeFt = 39000
	prefs.Theme = "light"
	require.NoError(t, s.SavePreferences(ctx, prefs))

	got, err := s.PreferencesByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "imperial", got.PreferredUnits)
	assert.Equal(t, "B737-800", got.DefaultAircraft)
	assert.Equal(t, 39000, got.DefaultAltitudeFt)

	err = s.SavePreferences(ctx, store.Preferences{UserID: "no-such-user"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
