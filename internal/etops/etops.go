// Package etops verifies extended-range twin-engine operations rules:
// every point on a route must be within the aircraft's ETOPS rating, in
// flying minutes, of a suitable diversion airport.
package etops

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/couchcryptid/flight-planner-service/internal/aircraft"
	"github.com/couchcryptid/flight-planner-service/internal/airport"
	"github.com/couchcryptid/flight-planner-service/internal/geo"
)

// suitableICAOs lists airports adequate for ETOPS diversions: long enough
// runways, rescue facilities, reliable weather reporting. A static snapshot;
// live NOTAM suitability is out of scope.
var suitableICAOs = []string{
	// North Atlantic
	"BIKF", "BGBW", "CYYR", "CYQX", "LPLA", "EGLL", "KJFK", "KBOS",
	// North Pacific
	"RJAA", "RJTT", "PANC", "PHNL", "KSEA", "CYVR", "RKSI",
	// South Pacific
	"YSSY", "YMML", "NZAA", "NZCH", "NFFN", "NTAA",
	// Indian Ocean
	"VOMM", "VCBI", "VRMM", "FIMP", "FACT",
	// South Atlantic
	"SBGL", "SBGR", "SAEZ", "SCCI",
	// Middle East
	"OMDB", "OTHH", "OJAI",
}

// Diversion describes the nearest suitable airport for a route point.
type Diversion struct {
	ICAO        string  `json:"icao"`
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	DistanceNM  float64 `json:"distance_nm"`
	TimeMinutes float64 `json:"time_minutes"`
}

// RoutePoint is a named point on the route under check.
type RoutePoint struct {
	Number int
	Name   string
	Point  geo.Point
}

// PointResult pairs a route point with its nearest diversion.
type PointResult struct {
	Number    int       `json:"waypoint_number"`
	Name      string    `json:"waypoint_name"`
	Diversion Diversion `json:"nearest_diversion"`
	Compliant bool      `json:"compliant"`
}

// Report is the full compliance outcome for a route.
type Report struct {
	Compliant      bool          `json:"compliant"`
	Required       bool          `json:"required"`
	Aircraft       string        `json:"aircraft"`
	Rating         string        `json:"etops_rating,omitempty"`
	MaxDiversionNM float64       `json:"max_diversion_distance_nm,omitempty"`
	CruiseSpeedKt  float64       `json:"cruise_speed_kt,omitempty"`
	PointsChecked  int           `json:"total_waypoints_checked"`
	Violations     []PointResult `json:"violations,omitempty"`
	Samples        []PointResult `json:"sample_diversions,omitempty"`

	// DiversionOptions lists suitable airports near the route midpoint,
	// filled in by the planner for ETOPS-required flights.
	DiversionOptions []RouteDiversion `json:"diversion_options,omitempty"`

	Message string `json:"message"`
}

// Check verifies the route against the aircraft's ETOPS rating. Unrated
// types pass trivially since the rules do not apply to them.
func Check(perf aircraft.Performance, points []RoutePoint) Report {
	if !perf.ETOPSRated() {
		return Report{
			Compliant:     true,
			Required:      false,
			Aircraft:      perf.FullName,
			PointsChecked: len(points),
			Message: fmt.Sprintf(
				"%s is not ETOPS rated (4-engine or not certified for extended overwater); ETOPS rules do not apply",
				perf.FullName),
		}
	}

	maxDiversion := float64(perf.ETOPSMinutes) / 60 * perf.CruiseKTAS

	report := Report{
		Required:       true,
		Aircraft:       perf.FullName,
		Rating:         fmt.Sprintf("ETOPS-%d", perf.ETOPSMinutes),
		MaxDiversionNM: round1(maxDiversion),
		CruiseSpeedKt:  perf.CruiseKTAS,
		PointsChecked:  len(points),
	}

	var compliant []PointResult
	for _, rp := range points {
		div, ok := nearestDiversion(rp.Point, perf.CruiseKTAS)
		res := PointResult{
			Number:    rp.Number,
			Name:      rp.Name,
			Diversion: div,
			Compliant: ok && div.DistanceNM <= maxDiversion,
		}
		if res.Compliant {
			compliant = append(compliant, res)
		} else {
			report.Violations = append(report.Violations, res)
		}
	}

	if len(compliant) > 3 {
		compliant = compliant[:3]
	}
	report.Samples = compliant
	report.Compliant = len(report.Violations) == 0

	if report.Compliant {
		report.Message = fmt.Sprintf(
			"route is %s compliant for %s; all waypoints are within %d minutes of a suitable diversion airport",
			report.Rating, perf.FullName, perf.ETOPSMinutes)
	} else {
		report.Message = fmt.Sprintf(
			"route violates %s requirements for %s; %d waypoint(s) exceed the maximum diversion time",
			report.Rating, perf.FullName, len(report.Violations))
	}
	return report
}

func nearestDiversion(p geo.Point, cruiseKt float64) (Diversion, bool) {
	best := Diversion{DistanceNM: math.Inf(1)}
	found := false
	for _, icao := range suitableICAOs {
		apt, ok := airport.Lookup(icao)
		if !ok {
			continue
		}
		d := geo.DistanceNM(p, apt.Location())
		if d < best.DistanceNM {
			best = Diversion{
				ICAO:        apt.ICAO,
				Name:        apt.Name,
				Country:     apt.Country,
				DistanceNM:  round1(d),
				TimeMinutes: round1(d / cruiseKt * 60),
			}
			found = true
		}
	}
	return best, found
}

// RouteDiversion is a suitable diversion airport near a route.
type RouteDiversion struct {
	ICAO         string  `json:"icao"`
	Name         string  `json:"name"`
	Country      string  `json:"country"`
	FromOriginNM float64 `json:"distance_from_origin_nm"`
	FromDestNM   float64 `json:"distance_from_dest_nm"`
	FromRouteNM  float64 `json:"distance_from_route_nm"`
}

// DiversionsAlongRoute lists suitable airports within maxDistanceNM of the
// route midpoint, ordered by distance from origin.
func DiversionsAlongRoute(originICAO, destICAO string, maxDistanceNM float64) ([]RouteDiversion, error) {
	origin, ok := airport.Lookup(originICAO)
	if !ok {
		return nil, fmt.Errorf("etops: unknown origin airport %q", originICAO)
	}
	dest, ok := airport.Lookup(destICAO)
	if !ok {
		return nil, fmt.Errorf("etops: unknown destination airport %q", destICAO)
	}

	mid := geo.Point{
		Lat: (origin.Location().Lat + dest.Location().Lat) / 2,
		Lon: (origin.Location().Lon + dest.Location().Lon) / 2,
	}

	var out []RouteDiversion
	for _, icao := range suitableICAOs {
		if strings.EqualFold(icao, origin.ICAO) || strings.EqualFold(icao, dest.ICAO) {
			continue
		}
		apt, ok := airport.Lookup(icao)
		if !ok {
			continue
		}
		fromMid := geo.DistanceNM(mid, apt.Location())
		if fromMid > maxDistanceNM {
			continue
		}
		out = append(out, RouteDiversion{
			ICAO:         apt.ICAO,
			Name:         apt.Name,
			Country:      apt.Country,
			FromOriginNM: round1(geo.DistanceNM(origin.Location(), apt.Location())),
			FromDestNM:   round1(geo.DistanceNM(dest.Location(), apt.Location())),
			FromRouteNM:  round1(fromMid),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FromOriginNM < out[j].FromOriginNM })
	return out, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
