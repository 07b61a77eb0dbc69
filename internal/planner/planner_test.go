package planner

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/flight-planner-service/internal/observability"
	"github.com/couchcryptid/flight-planner-service/internal/weather"
)

type fakeWeather struct {
	metars map[string]weather.Metar
	tafs   map[string]weather.Taf
}

func (f *fakeWeather) Metar(_ context.Context, station string) (weather.Metar, error) {
	m, ok := f.metars[station]
	if !ok {
		return weather.Metar{}, weather.ErrUnavailable
	}
	return m, nil
}

func (f *fakeWeather) Taf(_ context.Context, station string) (weather.Taf, error) {
	t, ok := f.tafs[station]
	if !ok {
		return weather.Taf{}, weather.ErrUnavailable
	}
	return t, nil
}

func ptr(v float64) *float64 { return &v }

func newPlanner(wx weather.Source) *Planner {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var summarizer *weather.Summarizer
	if wx != nil {
		summarizer = weather.NewSummarizer(wx, nil, clockwork.NewFakeClock(), logger)
	}
	return New(summarizer, clockwork.NewFakeClock(), logger, observability.NewMetricsForTesting())
}

func TestPlanTranscon(t *testing.T) {
	p := newPlanner(nil)

	plan, err := p.Plan(context.Background(), Request{
		AircraftCode:    "B777-300ER",
		OriginICAO:      "KLAX",
		DestinationICAO: "KJFK",
		SkipWeather:     true,
	})
	require.NoError(t, err)

	assert.Equal(t, "KLAX to KJFK", plan.PlanName)
	assert.Equal(t, "B777-300ER", plan.Aircraft.Code)
	assert.Equal(t, DefaultAltitudeFt, plan.AltitudeFt)
	assert.InDelta(t, 2145, plan.Route.TotalDistanceNM, 25)
	assert.Len(t, plan.Route.Points, DefaultWaypointCount+2)
	assert.True(t, plan.WindOptimized)
	assert.Greater(t, plan.Fuel.TotalFuelKg, 0.0)
	assert.Nil(t, plan.Weather)

	assert.True(t, plan.Checks.AirspaceClear)
	assert.True(t, plan.Checks.ETOPSCompliant)
	assert.True(t, plan.Checks.FuelAdequate)
	assert.True(t, plan.Approved)
	assert.Equal(t, "approved", plan.Status)
}

func TestPlanUnknownAircraft(t *testing.T) {
	p := newPlanner(nil)

	_, err := p.Plan(context.Background(), Request{
		AircraftCode:    "X-WING",
		OriginICAO:      "KLAX",
		DestinationICAO: "KJFK",
	})
	assert.ErrorIs(t, err, ErrUnknownAircraft)
}

func TestPlanUnknownAirport(t *testing.T) {
	p := newPlanner(nil)

	_, err := p.Plan(context.Background(), Request{
		AircraftCode:    "A320",
		OriginICAO:      "XXXX",
		DestinationICAO: "KJFK",
	})
	assert.Error(t, err)
}

func TestPlanHeadwindFromOriginMetar(t *testing.T) {
	// KJFK to EGLL tracks roughly northeast; a wind straight down the
	// track produces a full headwind component.
	wx := &fakeWeather{metars: map[string]weather.Metar{
		"KJFK": {Station: "KJFK", WindDirDeg: ptr(51.0), WindSpeedKt: ptr(20.0), FlightCategory: "VFR"},
		"EGLL": {Station: "EGLL", FlightCategory: "VFR"},
	}}
	p := newPlanner(wx)

	plan, err := p.Plan(context.Background(), Request{
		AircraftCode:    "B777-300ER",
		OriginICAO:      "KJFK",
		DestinationICAO: "EGLL",
	})
	require.NoError(t, err)

	require.NotNil(t, plan.Weather)
	assert.InDelta(t, 20, plan.HeadwindKt, 1)
	assert.Empty(t, plan.WeatherWarnings)
}

func TestPlanHeadwindOverride(t *testing.T) {
	wx := &fakeWeather{metars: map[string]weather.Metar{
		"KJFK": {Station: "KJFK", WindDirDeg: ptr(51.0), WindSpeedKt: ptr(20.0), FlightCategory: "VFR"},
		"EGLL": {Station: "EGLL", FlightCategory: "VFR"},
	}}
	p := newPlanner(wx)

	plan, err := p.Plan(context.Background(), Request{
		AircraftCode:    "B777-300ER",
		OriginICAO:      "KJFK",
		DestinationICAO: "EGLL",
		HeadwindKt:      55,
	})
	require.NoError(t, err)

	// the requested headwind wins over the METAR-derived component
	require.NotNil(t, plan.Weather)
	assert.Equal(t, 55.0, plan.HeadwindKt)
	assert.Equal(t, 55.0, plan.Fuel.HeadwindKt)
}

func TestPlanSkipAlternate(t *testing.T) {
	p := newPlanner(nil)

	req := Request{
		AircraftCode:    "A320",
		OriginICAO:      "EGLL",
		DestinationICAO: "LFPG",
		SkipWeather:     true,
	}
	with, err := p.Plan(context.Background(), req)
	require.NoError(t, err)

	req.SkipAlternate = true
	without, err := p.Plan(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 0.0, without.Fuel.AlternateFuelKg)
	assert.Less(t, without.Fuel.TotalFuelKg, with.Fuel.TotalFuelKg)
}

func TestPlanWeatherUnavailableDegrades(t *testing.T) {
	p := newPlanner(&fakeWeather{})

	plan, err := p.Plan(context.Background(), Request{
		AircraftCode:    "A320",
		OriginICAO:      "EGLL",
		DestinationICAO: "LFPG",
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, plan.HeadwindKt)
	require.NotEmpty(t, plan.WeatherWarnings)
	assert.Contains(t, plan.WeatherWarnings[0], "zero wind")
}

func TestPlanETOPSViolationBlocksApproval(t *testing.T) {
	// The deep South Pacific between Christchurch and Punta Arenas has no
	// diversion airport within an ETOPS-180 radius.
	p := newPlanner(nil)

	plan, err := p.Plan(context.Background(), Request{
		AircraftCode:    "B787-9",
		OriginICAO:      "NZCH",
		DestinationICAO: "SCCI",
		SkipWeather:     true,
	})
	require.NoError(t, err)

	assert.True(t, plan.ETOPS.Required)
	assert.False(t, plan.Checks.ETOPSCompliant)
	assert.False(t, plan.Approved)
	assert.Equal(t, "review_required", plan.Status)
}

func TestPlanETOPSDiversionOptions(t *testing.T) {
	p := newPlanner(nil)

	plan, err := p.Plan(context.Background(), Request{
		AircraftCode:    "B777-300ER",
		OriginICAO:      "KJFK",
		DestinationICAO: "EGLL",
		SkipWeather:     true,
	})
	require.NoError(t, err)

	require.True(t, plan.ETOPS.Required)
	require.NotEmpty(t, plan.ETOPS.DiversionOptions)

	icaos := make([]string, 0, len(plan.ETOPS.DiversionOptions))
	for _, d := range plan.ETOPS.DiversionOptions {
		icaos = append(icaos, d.ICAO)
	}
	assert.Contains(t, icaos, "CYQX")
}

func TestPlanCustomRequest(t *testing.T) {
	p := newPlanner(nil)

	plan, err := p.Plan(context.Background(), Request{
		PlanName:        "morning shuttle",
		AircraftCode:    "A320",
		OriginICAO:      "EGLL",
		DestinationICAO: "LFPG",
		AltitudeFt:      28000,
		WaypointCount:   3,
		SkipWeather:     true,
	})
	require.NoError(t, err)

	assert.Equal(t, "morning shuttle", plan.PlanName)
	assert.Equal(t, 28000, plan.AltitudeFt)
	assert.Len(t, plan.Route.Points, 5)
}
