// Package planner composes routing, fuel, airspace, ETOPS, and weather
// into a single flight plan document with a go/no-go verdict.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/flight-planner-service/internal/aircraft"
	"github.com/couchcryptid/flight-planner-service/internal/airspace"
	"github.com/couchcryptid/flight-planner-service/internal/etops"
	"github.com/couchcryptid/flight-planner-service/internal/fuel"
	"github.com/couchcryptid/flight-planner-service/internal/geo"
	"github.com/couchcryptid/flight-planner-service/internal/observability"
	"github.com/couchcryptid/flight-planner-service/internal/route"
	"github.com/couchcryptid/flight-planner-service/internal/weather"
)

// ErrUnknownAircraft is returned when the requested type is not in the
// performance directory.
var ErrUnknownAircraft = errors.New("planner: unknown aircraft")

// Defaults applied when a request leaves fields zero.
const (
	DefaultAltitudeFt    = 35000
	DefaultWaypointCount = 5

	// Airspace proximity buffer around restricted zones.
	airspaceBufferNM = 50.0
)

// Request describes the flight to plan.
type Request struct {
	PlanName        string `json:"plan_name"`
	AircraftCode    string `json:"aircraft_code"`
	OriginICAO      string `json:"origin_icao"`
	DestinationICAO string `json:"destination_icao"`
	AltitudeFt      int    `json:"altitude_ft"`
	WaypointCount   int    `json:"waypoint_count"`

	// SkipWeather plans without live weather, using zero wind.
	SkipWeather bool `json:"skip_weather"`

	// HeadwindKt, when non-zero, overrides the headwind derived from the
	// origin METAR. Negative means tailwind.
	HeadwindKt float64 `json:"headwind_kt"`

	// SkipAlternate omits the alternate fuel allowance, for
	// isolated-destination planning.
	SkipAlternate bool `json:"skip_alternate"`
}

// SafetyChecks is the go/no-go summary across all planning dimensions.
type SafetyChecks struct {
	AirspaceClear  bool `json:"airspace_clear"`
	ETOPSCompliant bool `json:"etops_compliant"`
	FuelAdequate   bool `json:"fuel_adequate"`
}

// AllPassed reports whether the plan is safe to fly as computed.
func (c SafetyChecks) AllPassed() bool {
	return c.AirspaceClear && c.ETOPSCompliant && c.FuelAdequate
}

// Plan is the full planning document. It is stored as the plan's JSON
// blobs and fed to the briefing generator.
type Plan struct {
	PlanName        string                `json:"plan_name"`
	Aircraft        aircraft.Performance  `json:"aircraft"`
	AltitudeFt      int                   `json:"altitude_ft"`
	Route           route.Route           `json:"route"`
	HeadwindKt      float64               `json:"headwind_kt"`
	Fuel            fuel.Plan             `json:"fuel"`
	Airspace        airspace.RouteReport  `json:"airspace"`
	ETOPS           etops.Report          `json:"etops"`
	Weather         *weather.RouteSummary `json:"weather,omitempty"`
	Checks          SafetyChecks          `json:"checks"`
	Approved        bool                  `json:"approved"`
	Status          string                `json:"status"`
	WindOptimized   bool                  `json:"wind_optimized"`
	GeneratedAt     time.Time             `json:"generated_at"`
	WeatherWarnings []string              `json:"weather_warnings,omitempty"`
}

// Planner orchestrates the planning pipeline. The weather summarizer may
// be nil, in which case all plans are computed with zero wind.
type Planner struct {
	weather *weather.Summarizer
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New builds a Planner. A nil clock defaults to real time.
func New(wx *weather.Summarizer, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Planner {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Planner{weather: wx, clock: clock, logger: logger, metrics: metrics}
}

// Plan runs the full pipeline: route, weather, winds, fuel, airspace,
// ETOPS. Weather failures degrade to zero wind rather than failing the
// plan.
func (p *Planner) Plan(ctx context.Context, req Request) (*Plan, error) {
	started := p.clock.Now()

	perf, ok := aircraft.Lookup(req.AircraftCode)
	if !ok {
		p.countError()
		return nil, fmt.Errorf("%w: %q", ErrUnknownAircraft, req.AircraftCode)
	}

	altitude := req.AltitudeFt
	if altitude <= 0 {
		altitude = DefaultAltitudeFt
	}
	waypoints := req.WaypointCount
	if waypoints <= 0 {
		waypoints = DefaultWaypointCount
	}

	rt, err := route.Build(req.OriginICAO, req.DestinationICAO, waypoints)
	if err != nil {
		p.countError()
		return nil, err
	}

	plan := &Plan{
		PlanName:    req.PlanName,
		Aircraft:    perf,
		AltitudeFt:  altitude,
		GeneratedAt: started.UTC(),
	}
	if plan.PlanName == "" {
		plan.PlanName = fmt.Sprintf("%s to %s", rt.Origin.ICAO, rt.Destination.ICAO)
	}

	headwind := 0.0
	if !req.SkipWeather && p.weather != nil {
		summary := p.weather.Summarize(ctx, rt.Origin.ICAO, rt.Destination.ICAO)
		plan.Weather = &summary
		headwind = p.headwindFromWeather(&summary, rt.InitialBearingDeg, plan)
	}
	if req.HeadwindKt != 0 {
		headwind = req.HeadwindKt
	}

	if optimized, err := p.optimizeForWinds(rt, perf, altitude); err == nil {
		rt = optimized
		plan.WindOptimized = true
	} else {
		p.logger.Warn("wind optimization skipped", "error", err)
	}
	plan.Route = rt

	fuelPlan, err := fuel.CalculateFor(perf, rt.TotalDistanceNM, fuel.Options{
		HeadwindKt:    headwind,
		SkipAlternate: req.SkipAlternate,
	})
	if err != nil {
		p.countError()
		return nil, err
	}
	plan.HeadwindKt = headwind
	plan.Fuel = fuelPlan

	plan.Airspace = airspace.CheckRoute(airspacePoints(rt), float64(altitude), airspaceBufferNM)
	plan.ETOPS = etops.Check(perf, etopsPoints(rt))
	if plan.ETOPS.Required {
		// Search as far as the rating allows a diversion to be.
		if divs, err := etops.DiversionsAlongRoute(rt.Origin.ICAO, rt.Destination.ICAO, plan.ETOPS.MaxDiversionNM); err == nil {
			plan.ETOPS.DiversionOptions = divs
		}
	}

	plan.Checks = SafetyChecks{
		AirspaceClear:  plan.Airspace.RouteClear,
		ETOPSCompliant: plan.ETOPS.Compliant,
		FuelAdequate:   plan.Fuel.Checks.AllPassed(),
	}
	plan.Approved = plan.Checks.AllPassed()
	if plan.Approved {
		plan.Status = "approved"
	} else {
		plan.Status = "review_required"
	}

	p.logger.Info("flight plan generated",
		"origin", rt.Origin.ICAO,
		"destination", rt.Destination.ICAO,
		"aircraft", perf.Code,
		"distance_nm", math.Round(rt.TotalDistanceNM),
		"status", plan.Status,
	)
	if p.metrics != nil {
		p.metrics.PlansGenerated.WithLabelValues(plan.Status).Inc()
		p.metrics.PlanDuration.Observe(p.clock.Since(started).Seconds())
	}
	return plan, nil
}

func (p *Planner) countError() {
	if p.metrics != nil {
		p.metrics.PlanErrors.Inc()
	}
}

// headwindFromWeather derives the headwind component from the origin
// surface wind against the initial route bearing, matching what a
// dispatcher would read off the METAR. Missing wind data degrades to
// zero with a recorded warning.
func (p *Planner) headwindFromWeather(summary *weather.RouteSummary, bearingDeg float64, plan *Plan) float64 {
	if summary == nil || summary.Origin.Current == nil {
		plan.WeatherWarnings = append(plan.WeatherWarnings, "origin weather unavailable, planning with zero wind")
		return 0
	}
	m := summary.Origin.Current
	if m.WindDirDeg == nil || m.WindSpeedKt == nil {
		plan.WeatherWarnings = append(plan.WeatherWarnings, "origin wind not reported, planning with zero wind")
		return 0
	}
	headwind := *m.WindSpeedKt * math.Cos((*m.WindDirDeg-bearingDeg)*math.Pi/180)
	return math.Round(headwind*10) / 10
}

// optimizeForWinds applies estimated winds aloft at each route point.
func (p *Planner) optimizeForWinds(rt route.Route, perf aircraft.Performance, altitudeFt int) (route.Route, error) {
	winds := make([]route.Wind, 0, len(rt.Points))
	for _, pt := range rt.Points {
		aloft := weather.EstimateWindsAloft(pt.Lat, pt.Lon, float64(altitudeFt))
		winds = append(winds, route.Wind{DirectionDeg: aloft.DirectionDeg, SpeedKt: aloft.SpeedKt})
	}
	return route.OptimizeForWinds(rt, winds, perf.CruiseKTAS)
}

func airspacePoints(rt route.Route) []airspace.RoutePoint {
	out := make([]airspace.RoutePoint, 0, len(rt.Points))
	for _, pt := range rt.Points {
		out = append(out, airspace.RoutePoint{
			Number: pt.Number,
			Name:   pt.Name,
			Point:  geo.Point{Lat: pt.Lat, Lon: pt.Lon},
		})
	}
	return out
}

func etopsPoints(rt route.Route) []etops.RoutePoint {
	out := make([]etops.RoutePoint, 0, len(rt.Points))
	for _, pt := range rt.Points {
		out = append(out, etops.RoutePoint{
			Number: pt.Number,
			Name:   pt.Name,
			Point:  geo.Point{Lat: pt.Lat, Lon: pt.Lon},
		})
	}
	return out
}
