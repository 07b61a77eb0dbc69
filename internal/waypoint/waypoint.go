// Package waypoint holds the named en-route waypoint catalog and the
// corridor search used to pick real waypoints along a great-circle route.
package waypoint

import (
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"strings"

	"github.com/couchcryptid/flight-planner-service/internal/geo"
)

// Waypoint is a named en-route fix.
type Waypoint struct {
	Name   string  `json:"name"`
	Region string  `json:"region"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// Location returns the fix coordinates as a geo.Point.
func (w Waypoint) Location() geo.Point { return geo.Point{Lat: w.Lat, Lon: w.Lon} }

// RoutePoint is a waypoint placed on a specific route, with its position
// relative to the origin and the direct track.
type RoutePoint struct {
	Waypoint
	Number       int     `json:"number"`
	Generated    bool    `json:"generated"`
	FromOriginNM float64 `json:"distance_from_origin_nm"`
	OffTrackNM   float64 `json:"distance_from_route_nm"`
}

var catalog = []Waypoint{
	// North Pacific routes
	{Name: "SHEMYA", Region: "North Pacific", Lat: 52.7167, Lon: 174.1167},
	{Name: "NEEVA", Region: "North Pacific", Lat: 54.0, Lon: 180.0},
	{Name: "NIPPI", Region: "North Pacific", Lat: 53.0, Lon: -175.0},
	{Name: "ALDAN", Region: "North Pacific", Lat: 43.0, Lon: -165.0},
	{Name: "PONRO", Region: "North Pacific", Lat: 40.0, Lon: -155.0},

	// North Atlantic tracks
	{Name: "RESNO", Region: "North Atlantic", Lat: 52.5, Lon: -15.0},
	{Name: "MALOT", Region: "North Atlantic", Lat: 52.0, Lon: -20.0},
	{Name: "PIKIL", Region: "North Atlantic", Lat: 51.0, Lon: -30.0},
	{Name: "VESMI", Region: "North Atlantic", Lat: 50.0, Lon: -40.0},
	{Name: "JANJO", Region: "North Atlantic", Lat: 48.0, Lon: -50.0},
	{Name: "PORTI", Region: "North Atlantic", Lat: 45.0, Lon: -60.0},

	// Southeast Asia
	{Name: "IGARI", Region: "Southeast Asia", Lat: 6.5667, Lon: 103.5833},
	{Name: "BITOD", Region: "Southeast Asia", Lat: 8.0, Lon: 104.0},
	{Name: "GIVAL", Region: "Southeast Asia", Lat: 6.9333, Lon: 102.35},
	{Name: "VAMPI", Region: "Southeast Asia", Lat: 7.3833, Lon: 101.5833},
	{Name: "MEKAR", Region: "Southeast Asia", Lat: 5.25, Lon: 99.5667},
	{Name: "VCENT", Region: "South China Sea", Lat: 12.0, Lon: 109.0},
	{Name: "NANKO", Region: "South China Sea", Lat: 18.0, Lon: 115.0},
	{Name: "ELATO", Region: "Taiwan", Lat: 20.0, Lon: 120.0},

	// Europe
	{Name: "KONAN", Region: "English Channel", Lat: 51.0, Lon: 2.0},
	{Name: "BERGA", Region: "Belgium", Lat: 50.5, Lon: 4.5},
	{Name: "TULOX", Region: "English Channel", Lat: 51.5, Lon: 1.0},
	{Name: "BOGNA", Region: "France", Lat: 50.0, Lon: 0.0},
	{Name: "DIKAS", Region: "France", Lat: 49.0, Lon: 2.0},
	{Name: "BIBAX", Region: "Germany", Lat: 51.0, Lon: 8.0},

	// Middle East
	{Name: "DAVMO", Region: "Persian Gulf", Lat: 28.0, Lon: 51.0},
	{Name: "GIDRA", Region: "UAE", Lat: 26.0, Lon: 56.0},
	{Name: "PARAR", Region: "UAE", Lat: 25.0, Lon: 55.0},
	{Name: "KUTLI", Region: "UAE", Lat: 24.0, Lon: 54.0},
	{Name: "OMAKO", Region: "Oman", Lat: 23.0, Lon: 58.0},

	// US domestic
	{Name: "SYMON", Region: "New York", Lat: 40.0, Lon: -74.0},
	{Name: "GREKI", Region: "Boston", Lat: 42.0, Lon: -71.0},
	{Name: "WAVEY", Region: "New Mexico", Lat: 35.0, Lon: -106.0},
	{Name: "BASET", Region: "Los Angeles", Lat: 34.0, Lon: -118.0},
	{Name: "ORRCA", Region: "San Francisco", Lat: 37.0, Lon: -122.0},
	{Name: "ZIMMR", Region: "Chicago", Lat: 41.0, Lon: -87.0},
}

var byName = func() map[string]Waypoint {
	m := make(map[string]Waypoint, len(catalog))
	for _, w := range catalog {
		m[w.Name] = w
	}
	return m
}()

// standardRoutes maps origin/destination ICAO pairs to published waypoint
// sequences used on those city pairs.
var standardRoutes = map[[2]string][]string{
	{"WSSS", "VHHH"}: {"IGARI", "BITOD", "VCENT"},
	{"VTBS", "RJAA"}: {"VCENT", "NANKO", "ELATO"},
	{"WMKK", "WSSS"}: {"GIVAL", "VAMPI", "MEKAR"},
	{"RJTT", "KSFO"}: {"SHEMYA", "NEEVA", "NIPPI", "ALDAN", "PONRO"},
	{"KSEA", "RJAA"}: {"SHEMYA", "NEEVA"},
	{"KJFK", "EGLL"}: {"RESNO", "MALOT", "PIKIL", "VESMI", "JANJO", "PORTI"},
	{"KBOS", "LFPG"}: {"RESNO", "MALOT", "PIKIL"},
	{"OMDB", "EGLL"}: {"DAVMO", "GIDRA", "PARAR"},
}

// Lookup finds a catalog waypoint by name, case-insensitively.
func Lookup(name string) (Waypoint, bool) {
	w, ok := byName[strings.ToUpper(strings.TrimSpace(name))]
	return w, ok
}

// All returns the catalog sorted by name.
func All() []Waypoint {
	out := make([]Waypoint, len(catalog))
	copy(out, catalog)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Nearby returns catalog waypoints within maxDistanceNM of p, closest first.
func Nearby(p geo.Point, maxDistanceNM float64) []RoutePoint {
	var out []RoutePoint
	for _, w := range catalog {
		d := geo.DistanceNM(p, w.Location())
		if d <= maxDistanceNM {
			out = append(out, RoutePoint{Waypoint: w, OffTrackNM: d})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OffTrackNM < out[j].OffTrackNM })
	return out
}

// StandardRoute returns the published waypoint sequence for an airport pair,
// or nil when no sequence is published for it.
func StandardRoute(originICAO, destICAO string) []RoutePoint {
	names, ok := standardRoutes[[2]string{strings.ToUpper(originICAO), strings.ToUpper(destICAO)}]
	if !ok {
		return nil
	}
	out := make([]RoutePoint, 0, len(names))
	for i, name := range names {
		w := byName[name]
		out = append(out, RoutePoint{Waypoint: w, Number: i + 1})
	}
	return out
}

// Corridor returns catalog waypoints whose distance to the origin-destination
// segment is at most widthNM, ordered by along-track distance from origin.
func Corridor(origin, dest geo.Point, widthNM float64) []RoutePoint {
	var out []RoutePoint
	for _, w := range catalog {
		off := geo.SegmentDistanceNM(w.Location(), origin, dest)
		if off <= widthNM {
			out = append(out, RoutePoint{
				Waypoint:     w,
				OffTrackNM:   round1(off),
				FromOriginNM: round1(geo.DistanceNM(origin, w.Location())),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FromOriginNM < out[j].FromOriginNM })
	return out
}

// Select picks up to count waypoints for the route from origin to dest.
// Published sequences win; otherwise corridor waypoints are chosen at evenly
// spaced target distances, falling back to synthesized fixes on the
// great-circle track where the corridor is empty.
func Select(originICAO string, origin geo.Point, destICAO string, dest geo.Point, count int) []RoutePoint {
	if count <= 0 {
		return nil
	}
	if std := StandardRoute(originICAO, destICAO); std != nil {
		return std
	}

	total := geo.DistanceNM(origin, dest)
	candidates := Corridor(origin, dest, 150)

	used := make(map[string]bool, count)
	out := make([]RoutePoint, 0, count)
	for i := 1; i <= count; i++ {
		target := total * float64(i) / float64(count+1)

		best := -1
		for j, c := range candidates {
			if used[c.Name] {
				continue
			}
			if best < 0 || math.Abs(c.FromOriginNM-target) < math.Abs(candidates[best].FromOriginNM-target) {
				best = j
			}
		}
		if best >= 0 && math.Abs(candidates[best].FromOriginNM-target) <= 150 {
			wp := candidates[best]
			wp.Number = len(out) + 1
			used[wp.Name] = true
			out = append(out, wp)
			continue
		}

		p := geo.Intermediate(origin, dest, float64(i)/float64(count+1))
		out = append(out, RoutePoint{
			Waypoint: Waypoint{
				Name:   synthesizeName(p),
				Region: "En Route",
				Lat:    p.Lat,
				Lon:    p.Lon,
			},
			Number:       len(out) + 1,
			Generated:    true,
			FromOriginNM: round1(geo.DistanceNM(origin, p)),
		})
	}
	return out
}

const (
	consonants = "BCDFGHJKLMNPRSTVWXZ"
	vowels     = "AEIOU"
)

// synthesizeName derives a stable five-letter fix name from coordinates,
// following the consonant-vowel pattern of real fixes.
func synthesizeName(p geo.Point) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%.4f,%.4f", p.Lat, p.Lon)
	n := h.Sum32()
	b := []byte{
		consonants[n%uint32(len(consonants))],
		vowels[(n/31)%uint32(len(vowels))],
		consonants[(n/211)%uint32(len(consonants))],
		consonants[(n/1543)%uint32(len(consonants))],
		vowels[(n/9851)%uint32(len(vowels))],
	}
	return string(b)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
