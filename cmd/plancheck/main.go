// Command plancheck generates a flight plan offline and prints a feasibility
// report: route, fuel plan, airspace restrictions, and ETOPS compliance. No
// network access is required; winds are taken as zero unless -headwind
// supplies one.
//
// Usage:
//
//	go run ./cmd/plancheck -aircraft B777-300ER -origin KLAX -destination KJFK
//	go run ./cmd/plancheck -aircraft A320 -origin EGLL -destination LFPG -headwind 25 -json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/flight-planner-service/internal/observability"
	"github.com/couchcryptid/flight-planner-service/internal/planner"
)

func main() {
	aircraftCode := flag.String("aircraft", "", "aircraft code (e.g. B777-300ER)")
	origin := flag.String("origin", "", "origin airport ICAO or IATA code")
	destination := flag.String("destination", "", "destination airport ICAO or IATA code")
	altitude := flag.Int("altitude", 0, "cruise altitude in feet (default 35000)")
	waypoints := flag.Int("waypoints", 0, "number of intermediate waypoints (default 5)")
	headwind := flag.Float64("headwind", 0, "average headwind in knots, negative for tailwind")
	skipAlternate := flag.Bool("skip-alternate", false, "omit the alternate fuel allowance")
	asJSON := flag.Bool("json", false, "emit the full plan as JSON instead of a report")
	flag.Parse()

	if *aircraftCode == "" || *origin == "" || *destination == "" {
		flag.Usage()
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := planner.New(nil, clockwork.NewRealClock(), logger, observability.NewMetricsForTesting())

	plan, err := p.Plan(context.Background(), planner.Request{
		AircraftCode:    *aircraftCode,
		OriginICAO:      *origin,
		DestinationICAO: *destination,
		AltitudeFt:      *altitude,
		WaypointCount:   *waypoints,
		SkipWeather:     true,
		HeadwindKt:      *headwind,
		SkipAlternate:   *skipAlternate,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(plan); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: encode plan: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printReport(plan)
	if !plan.Checks.AllPassed() {
		os.Exit(1)
	}
}

func printReport(plan *planner.Plan) {
	fmt.Println("=== Flight Plan Feasibility Report ===")
	fmt.Println()

	fmt.Printf("Aircraft:  %s (%s)\n", plan.Aircraft.Code, plan.Aircraft.FullName)
	fmt.Printf("Route:     %s -> %s at FL%03d\n",
		plan.Route.Origin.ICAO, plan.Route.Destination.ICAO, plan.AltitudeFt/100)
	fmt.Printf("Distance:  %.0f NM over %d points\n", plan.Route.TotalDistanceNM, len(plan.Route.Points))
	fmt.Println()

	fmt.Println("Waypoints:")
	for _, pt := range plan.Route.Points {
		fmt.Printf("  %-8s %9.4f %10.4f\n", pt.Name, pt.Lat, pt.Lon)
	}
	fmt.Println()

	fmt.Printf("Trip fuel:    %8.0f kg\n", plan.Fuel.TripFuelKg)
	fmt.Printf("Total fuel:   %8.0f kg (capacity %.0f kg)\n", plan.Fuel.TotalFuelKg, plan.Aircraft.MaxFuelKg)
	fmt.Printf("Flight time:  %s\n", plan.Fuel.FlightTimeDisplay)
	fmt.Println()

	printCheck("Airspace restrictions", plan.Checks.AirspaceClear)
	for _, v := range plan.Airspace.CriticalViolations {
		fmt.Printf("    CRITICAL: %s at %s (%.0f NM from center)\n", v.Zone.Name, v.WaypointName, v.FromCenterNM)
	}
	for _, v := range plan.Airspace.Warnings {
		fmt.Printf("    warning: %s at %s (%.0f NM from center)\n", v.Zone.Name, v.WaypointName, v.FromCenterNM)
	}
	for _, v := range plan.Airspace.NearRestricted {
		fmt.Printf("    near: %s at %s (%.0f NM to boundary)\n", v.Zone.Name, v.WaypointName, v.ToBoundaryNM)
	}

	printCheck("ETOPS compliance", plan.Checks.ETOPSCompliant)
	if plan.ETOPS.Required {
		fmt.Printf("    %s\n", plan.ETOPS.Message)
	}

	printCheck("Fuel capacity and range", plan.Checks.FuelAdequate)

	fmt.Println()
	if plan.Checks.AllPassed() {
		fmt.Println("Plan APPROVED.")
	} else {
		fmt.Println("Plan requires REVIEW.")
	}
}

func printCheck(name string, passed bool) {
	status := "\033[32mPASS\033[0m"
	if !passed {
		status = "\033[31mFAIL\033[0m"
	}
	fmt.Printf("  %-28s %s\n", name, status)
}
