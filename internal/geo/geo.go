// Package geo provides great-circle navigation math on the WGS-84 sphere.
// All distances are in nautical miles, bearings in degrees true (0-360),
// coordinates in decimal degrees.
package geo

import "math"

// EarthRadiusNM is the mean Earth radius in nautical miles.
const EarthRadiusNM = 3440.065

// Point is a WGS-84 latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DistanceNM returns the great-circle (haversine) distance between two points.
func DistanceNM(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dlat := radians(b.Lat - a.Lat)
	dlon := radians(b.Lon - a.Lon)

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return EarthRadiusNM * 2 * math.Asin(math.Sqrt(h))
}

// InitialBearing returns the initial great-circle bearing from a to b.
func InitialBearing(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dlon := radians(b.Lon - a.Lon)

	x := math.Sin(dlon) * math.Cos(lat2)
	y := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dlon)

	return normalizeBearing(degrees(math.Atan2(x, y)))
}

// FinalBearing returns the bearing of arrival at b when travelling the great
// circle from a, i.e. the reverse bearing from b to a rotated 180 degrees.
func FinalBearing(a, b Point) float64 {
	return normalizeBearing(InitialBearing(b, a) + 180)
}

// Intermediate returns the point at fraction f (0 = a, 1 = b) along the great
// circle between a and b. Coincident endpoints return a unchanged.
func Intermediate(a, b Point, f float64) Point {
	lat1 := radians(a.Lat)
	lon1 := radians(a.Lon)
	lat2 := radians(b.Lat)
	lon2 := radians(b.Lon)

	// Angular distance between the endpoints.
	d := math.Acos(clamp(math.Sin(lat1)*math.Sin(lat2)+
		math.Cos(lat1)*math.Cos(lat2)*math.Cos(lon2-lon1), -1, 1))
	if d == 0 {
		return a
	}

	p := math.Sin((1-f)*d) / math.Sin(d)
	q := math.Sin(f*d) / math.Sin(d)

	x := p*math.Cos(lat1)*math.Cos(lon1) + q*math.Cos(lat2)*math.Cos(lon2)
	y := p*math.Cos(lat1)*math.Sin(lon1) + q*math.Cos(lat2)*math.Sin(lon2)
	z := p*math.Sin(lat1) + q*math.Sin(lat2)

	return Point{
		Lat: degrees(math.Atan2(z, math.Sqrt(x*x+y*y))),
		Lon: degrees(math.Atan2(y, x)),
	}
}

// SegmentDistanceNM returns the distance from p to the nearest point of the
// segment a-b. The projection uses a flat lat/lon approximation, which is
// adequate for corridor searches at the widths used in route planning.
func SegmentDistanceNM(p, a, b Point) float64 {
	dx := b.Lat - a.Lat
	dy := b.Lon - a.Lon

	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return DistanceNM(p, a)
	}

	t := ((p.Lat-a.Lat)*dx + (p.Lon-a.Lon)*dy) / lenSq
	switch {
	case t < 0:
		return DistanceNM(p, a)
	case t > 1:
		return DistanceNM(p, b)
	default:
		return DistanceNM(p, Point{Lat: a.Lat + t*dx, Lon: a.Lon + t*dy})
	}
}

// WindCorrection describes the effect of a given wind on an aircraft flying a
// desired track at a given true airspeed.
type WindCorrection struct {
	CorrectionAngle   float64 `json:"wind_correction_angle"` // degrees, positive = crab right
	GroundSpeedKt     float64 `json:"ground_speed_kt"`
	HeadwindKt        float64 `json:"headwind_component_kt"` // negative = tailwind
	CrosswindKt       float64 `json:"crosswind_component_kt"`
	EffectiveTailwind float64 `json:"effective_tailwind_kt"`
}

// ComputeWindCorrection resolves a wind (direction FROM, speed) against a
// desired track flown at trueAirspeedKt.
func ComputeWindCorrection(trueAirspeedKt, trackDeg, windFromDeg, windSpeedKt float64) WindCorrection {
	rel := radians(windFromDeg - trackDeg)

	headwind := windSpeedKt * math.Cos(rel)
	crosswind := windSpeedKt * math.Sin(rel)

	var wca float64
	if trueAirspeedKt > 0 {
		wca = degrees(math.Asin(clamp(crosswind/trueAirspeedKt, -1, 1)))
	}

	// Headwind is positive against the direction of flight, so ground speed
	// along track is TAS minus the headwind component.
	gs := math.Sqrt((trueAirspeedKt-headwind)*(trueAirspeedKt-headwind) + crosswind*crosswind)

	return WindCorrection{
		CorrectionAngle:   wca,
		GroundSpeedKt:     gs,
		HeadwindKt:        headwind,
		CrosswindKt:       crosswind,
		EffectiveTailwind: -headwind,
	}
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }

func normalizeBearing(deg float64) float64 {
	return math.Mod(deg+360, 360)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
