// Package fuel implements ICAO-style fuel planning: trip fuel plus
// contingency, alternate, final reserve, and taxi allowances, with the
// weight and range checks that decide whether a flight is plannable.
package fuel

import (
	"errors"
	"fmt"
	"math"

	"github.com/couchcryptid/flight-planner-service/internal/aircraft"
)

const (
	// ContingencyFraction is the ICAO minimum contingency, 5% of trip fuel.
	ContingencyFraction = 0.05
	// TaxiFuelKg is the allowance for startup and taxi.
	TaxiFuelKg = 200.0
	// ReserveMinutes is the final reserve, 30 minutes holding at destination.
	ReserveMinutes = 30.0
	// AlternateMinutes covers a diversion to a nearby alternate.
	AlternateMinutes = 45.0

	// oewFraction estimates operating empty weight as a share of MTOW for
	// the weight checks. No payload model, so the checks are conservative
	// on fuel and optimistic on payload.
	oewFraction = 0.50

	// etopsAdvisoryNM is the distance beyond which a non-ETOPS type gets
	// an overwater advisory.
	etopsAdvisoryNM = 1000.0
)

var (
	ErrAircraftUnknown = errors.New("fuel: unknown aircraft type")
	ErrWindTooStrong   = errors.New("fuel: headwind exceeds cruise speed")
	ErrBadDistance     = errors.New("fuel: distance must be positive")
)

// Checks holds the pass/fail safety gates for a plan.
type Checks struct {
	FuelFitsInTanks bool `json:"fuel_fits_in_tanks"`
	UnderMTOW       bool `json:"under_mtow"`
	UnderMLW        bool `json:"under_mlw"`
	WithinRange     bool `json:"within_range"`
}

// AllPassed reports whether every safety gate passed.
func (c Checks) AllPassed() bool {
	return c.FuelFitsInTanks && c.UnderMTOW && c.UnderMLW && c.WithinRange
}

// Plan is a complete fuel plan for one flight.
type Plan struct {
	AircraftCode string `json:"aircraft_code"`
	AircraftName string `json:"aircraft"`

	DistanceNM        float64 `json:"distance_nm"`
	HeadwindKt        float64 `json:"headwind_kt"`
	EffectiveSpeedKt  float64 `json:"effective_speed_ktas"`
	FlightTimeHours   float64 `json:"flight_time_hr"`
	FlightTimeDisplay string  `json:"flight_time_formatted"`

	TripFuelKg        float64 `json:"trip_fuel_kg"`
	ContingencyFuelKg float64 `json:"contingency_fuel_kg"`
	AlternateFuelKg   float64 `json:"alternate_fuel_kg"`
	ReserveFuelKg     float64 `json:"reserve_fuel_kg"`
	TaxiFuelKg        float64 `json:"taxi_fuel_kg"`
	TotalFuelKg       float64 `json:"total_fuel_kg"`
	MaxFuelKg         float64 `json:"max_fuel_capacity_kg"`

	MTOWKg          float64 `json:"mtow_kg"`
	MLWKg           float64 `json:"mlw_kg"`
	FuelAtLandingKg float64 `json:"fuel_at_landing_kg"`

	Checks       Checks `json:"checks"`
	ETOPSWarning string `json:"etops_warning,omitempty"`
	SafeToFly    bool   `json:"safe_to_fly"`
}

// Options tune a fuel calculation.
type Options struct {
	// HeadwindKt is the average route headwind; negative means tailwind.
	HeadwindKt float64
	// SkipAlternate omits the alternate allowance, only appropriate for
	// isolated-destination planning.
	SkipAlternate bool
}

// Calculate builds a fuel plan for the given type code and distance.
func Calculate(aircraftCode string, distanceNM float64, opts Options) (Plan, error) {
	if distanceNM <= 0 {
		return Plan{}, ErrBadDistance
	}
	perf, ok := aircraft.Lookup(aircraftCode)
	if !ok {
		return Plan{}, fmt.Errorf("%w: %q", ErrAircraftUnknown, aircraftCode)
	}
	return CalculateFor(perf, distanceNM, opts)
}

// CalculateFor is Calculate with a resolved performance record.
func CalculateFor(perf aircraft.Performance, distanceNM float64, opts Options) (Plan, error) {
	if distanceNM <= 0 {
		return Plan{}, ErrBadDistance
	}

	effectiveSpeed := perf.CruiseKTAS - opts.HeadwindKt
	if effectiveSpeed <= 0 {
		return Plan{}, ErrWindTooStrong
	}

	flightTime := distanceNM / effectiveSpeed
	trip := flightTime * perf.FuelBurnKgH
	contingency := trip * ContingencyFraction
	reserve := (ReserveMinutes / 60) * perf.FuelBurnKgH

	var alternate float64
	if !opts.SkipAlternate {
		alternate = (AlternateMinutes / 60) * perf.FuelBurnKgH
	}

	total := trip + contingency + alternate + reserve + TaxiFuelKg

	oew := perf.MTOWKg * oewFraction
	fuelAtLanding := total - trip - TaxiFuelKg

	checks := Checks{
		FuelFitsInTanks: total <= perf.MaxFuelKg,
		UnderMTOW:       oew+total <= perf.MTOWKg,
		UnderMLW:        oew+fuelAtLanding <= perf.MLWKg,
		WithinRange:     distanceNM <= perf.RangeNM,
	}

	p := Plan{
		AircraftCode:      perf.Code,
		AircraftName:      perf.FullName,
		DistanceNM:        round1(distanceNM),
		HeadwindKt:        opts.HeadwindKt,
		EffectiveSpeedKt:  round1(effectiveSpeed),
		FlightTimeHours:   round2(flightTime),
		FlightTimeDisplay: FormatDuration(flightTime),
		TripFuelKg:        math.Round(trip),
		ContingencyFuelKg: math.Round(contingency),
		AlternateFuelKg:   math.Round(alternate),
		ReserveFuelKg:     math.Round(reserve),
		TaxiFuelKg:        TaxiFuelKg,
		TotalFuelKg:       math.Round(total),
		MaxFuelKg:         perf.MaxFuelKg,
		MTOWKg:            perf.MTOWKg,
		MLWKg:             perf.MLWKg,
		FuelAtLandingKg:   math.Round(fuelAtLanding),
		Checks:            checks,
		SafeToFly:         checks.AllPassed(),
	}

	if !perf.ETOPSRated() && distanceNM > etopsAdvisoryNM {
		p.ETOPSWarning = fmt.Sprintf(
			"%s is not ETOPS rated; overwater flights beyond ~%.0f nm may not be permitted",
			perf.FullName, etopsAdvisoryNM)
	}

	return p, nil
}

// FormatDuration renders decimal hours as "Hh MMm".
func FormatDuration(hours float64) string {
	h := int(hours)
	m := int((hours - float64(h)) * 60)
	return fmt.Sprintf("%dh %02dm", h, m)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
