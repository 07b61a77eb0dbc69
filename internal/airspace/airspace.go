// Package airspace checks points and routes against known restricted
// airspace zones. The zone list is a static snapshot; live NOTAM and TFR
// feeds are a separate concern.
package airspace

import (
	"math"
	"sort"

	"github.com/couchcryptid/flight-planner-service/internal/geo"
)

// Severity grades how serious entering a zone is.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// ZoneType classifies the regulatory nature of a zone.
type ZoneType string

const (
	TypeProhibited ZoneType = "Prohibited"
	TypeRestricted ZoneType = "Restricted"
	TypeDanger     ZoneType = "Danger"
	TypeWarning    ZoneType = "Warning"
)

// Zone is a cylindrical restricted area centered on a point.
// CeilingFt of 0 means the restriction applies at all altitudes.
type Zone struct {
	ID          string   `json:"zone_id"`
	Name        string   `json:"zone_name"`
	Type        ZoneType `json:"type"`
	Country     string   `json:"country"`
	Center      geo.Point `json:"center"`
	RadiusNM    float64  `json:"radius_nm"`
	CeilingFt   float64  `json:"altitude_limit_ft,omitempty"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// appliesAt reports whether the zone restricts flight at the given altitude.
func (z Zone) appliesAt(altitudeFt float64) bool {
	return z.CeilingFt == 0 || altitudeFt <= z.CeilingFt
}

var zones = []Zone{
	{
		ID: "P-56", Name: "White House Prohibited Area", Type: TypeProhibited, Country: "USA",
		Center: geo.Point{Lat: 38.8977, Lon: -77.0365}, RadiusNM: 1.5,
		Description: "Presidential and governmental facilities", Severity: SeverityCritical,
	},
	{
		ID: "P-40", Name: "Camp David Prohibited Area", Type: TypeProhibited, Country: "USA",
		Center: geo.Point{Lat: 39.6483, Lon: -77.4650}, RadiusNM: 1.5,
		Description: "Presidential retreat", Severity: SeverityCritical,
	},
	{
		ID: "TFR-DMZ", Name: "Korean DMZ", Type: TypeProhibited, Country: "Korea",
		Center: geo.Point{Lat: 38.0, Lon: 127.5}, RadiusNM: 50,
		Description: "Demilitarized Zone", Severity: SeverityCritical,
	},
	{
		ID: "R-2508", Name: "Edwards AFB Restricted Area", Type: TypeRestricted, Country: "USA",
		Center: geo.Point{Lat: 34.9054, Lon: -117.8840}, RadiusNM: 20, CeilingFt: 80000,
		Description: "Military test range", Severity: SeverityHigh,
	},
	{
		ID: "LIBYA-NFZ", Name: "Libya Conflict Zone", Type: TypeDanger, Country: "Libya",
		Center: geo.Point{Lat: 32.0, Lon: 20.0}, RadiusNM: 200,
		Description: "Conflict zone - avoid all operations", Severity: SeverityCritical,
	},
	{
		ID: "UKRAINE-NFZ", Name: "Ukraine Conflict Zone", Type: TypeDanger, Country: "Ukraine",
		Center: geo.Point{Lat: 48.0, Lon: 37.0}, RadiusNM: 150,
		Description: "Active conflict zone", Severity: SeverityCritical,
	},
	{
		ID: "SYRIA-NFZ", Name: "Syria Conflict Zone", Type: TypeDanger, Country: "Syria",
		Center: geo.Point{Lat: 35.0, Lon: 38.0}, RadiusNM: 100,
		Description: "Conflict zone", Severity: SeverityCritical,
	},
	{
		ID: "YEMEN-NFZ", Name: "Yemen Conflict Zone", Type: TypeDanger, Country: "Yemen",
		Center: geo.Point{Lat: 15.5, Lon: 48.0}, RadiusNM: 100,
		Description: "Active conflict zone", Severity: SeverityCritical,
	},
	{
		ID: "R-BERMUDA", Name: "Bermuda Triangle", Type: TypeWarning, Country: "International",
		Center: geo.Point{Lat: 25.0, Lon: -71.0}, RadiusNM: 200,
		Description: "High traffic area - enhanced vigilance required", Severity: SeverityLow,
	},
	{
		ID: "NORTH-KOREA", Name: "North Korea Airspace", Type: TypeProhibited, Country: "North Korea",
		Center: geo.Point{Lat: 40.0, Lon: 127.0}, RadiusNM: 150,
		Description: "No overflight permitted", Severity: SeverityCritical,
	},
	{
		ID: "IRAN-RESTRICTED", Name: "Iran Airspace (Limited Access)", Type: TypeRestricted, Country: "Iran",
		Center: geo.Point{Lat: 32.0, Lon: 53.0}, RadiusNM: 300,
		Description: "Special authorization required", Severity: SeverityHigh,
	},
}

// Zones returns the zone list sorted by ID.
func Zones() []Zone {
	out := make([]Zone, len(zones))
	copy(out, zones)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Violation records a waypoint inside (or near) a restricted zone.
type Violation struct {
	WaypointNumber int     `json:"waypoint_number"`
	WaypointName   string  `json:"waypoint_name"`
	Zone           Zone    `json:"zone"`
	FromCenterNM   float64 `json:"distance_from_center_nm"`
	ToBoundaryNM   float64 `json:"distance_to_boundary_nm,omitempty"`
}

// CheckPoint returns every zone the given point violates at altitudeFt.
func CheckPoint(p geo.Point, altitudeFt float64) []Violation {
	var out []Violation
	for _, z := range zones {
		d := geo.DistanceNM(p, z.Center)
		if d <= z.RadiusNM && z.appliesAt(altitudeFt) {
			out = append(out, Violation{Zone: z, FromCenterNM: round1(d)})
		}
	}
	return out
}

// RoutePoint is a named point on the route under check.
type RoutePoint struct {
	Number int
	Name   string
	Point  geo.Point
}

// RouteReport is the outcome of checking a full route.
type RouteReport struct {
	CriticalViolations []Violation `json:"critical_violations"`
	Warnings           []Violation `json:"warnings"`
	NearRestricted     []Violation `json:"near_restricted"`
	RouteClear         bool        `json:"route_clear"`
	CautionAdvised     bool        `json:"caution_advised"`
}

// CheckRoute checks each route point against every zone. Points within a
// zone are violations, split by severity; points within bufferNM of a zone
// boundary are flagged as near-restricted.
func CheckRoute(points []RoutePoint, altitudeFt, bufferNM float64) RouteReport {
	var report RouteReport
	for _, rp := range points {
		for _, z := range zones {
			d := geo.DistanceNM(rp.Point, z.Center)
			switch {
			case d <= z.RadiusNM:
				if !z.appliesAt(altitudeFt) {
					continue
				}
				v := Violation{
					WaypointNumber: rp.Number,
					WaypointName:   rp.Name,
					Zone:           z,
					FromCenterNM:   round1(d),
				}
				if z.Severity == SeverityCritical {
					report.CriticalViolations = append(report.CriticalViolations, v)
				} else {
					report.Warnings = append(report.Warnings, v)
				}
			case d <= z.RadiusNM+bufferNM:
				report.NearRestricted = append(report.NearRestricted, Violation{
					WaypointNumber: rp.Number,
					WaypointName:   rp.Name,
					Zone:           z,
					FromCenterNM:   round1(d),
					ToBoundaryNM:   round1(d - z.RadiusNM),
				})
			}
		}
	}
	report.RouteClear = len(report.CriticalViolations) == 0
	report.CautionAdvised = len(report.Warnings) > 0 || len(report.NearRestricted) > 0
	return report
}

// Nearby returns zones whose center is within radiusNM of p, closest first.
func Nearby(p geo.Point, radiusNM float64) []Violation {
	var out []Violation
	for _, z := range zones {
		d := geo.DistanceNM(p, z.Center)
		if d <= radiusNM {
			out = append(out, Violation{Zone: z, FromCenterNM: round1(d)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FromCenterNM < out[j].FromCenterNM })
	return out
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
