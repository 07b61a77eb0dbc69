// Package route builds great-circle routes between airports, threading
// named waypoints along the track and applying winds-aloft corrections.
package route

import (
	"fmt"
	"math"

	"github.com/couchcryptid/flight-planner-service/internal/airport"
	"github.com/couchcryptid/flight-planner-service/internal/geo"
	"github.com/couchcryptid/flight-planner-service/internal/waypoint"
)

// PointType distinguishes endpoints from en-route fixes.
type PointType string

const (
	TypeAirport   PointType = "airport"
	TypeWaypoint  PointType = "waypoint"
	TypeGenerated PointType = "generated"
)

// Point is one entry on the route, endpoint or fix.
type Point struct {
	Number       int       `json:"number"`
	Name         string    `json:"name"`
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
	Type         PointType `json:"type"`
	Region       string    `json:"region,omitempty"`
	FromOriginNM float64   `json:"distance_from_origin_nm"`
	BearingDeg   float64   `json:"bearing"`

	// Wind-optimization fields, filled by OptimizeForWinds.
	BearingToNext     float64 `json:"bearing_to_next,omitempty"`
	WindDirectionDeg  float64 `json:"wind_direction,omitempty"`
	WindSpeedKt       float64 `json:"wind_speed_kt,omitempty"`
	CorrectionAngle   float64 `json:"wind_correction_angle,omitempty"`
	GroundSpeedKt     float64 `json:"ground_speed_kt,omitempty"`
	SegmentNM         float64 `json:"segment_distance_nm,omitempty"`
	SegmentTimeHours  float64 `json:"segment_time_hr,omitempty"`
	CumulativeTimeHrs float64 `json:"cumulative_time_hr"`
}

// Location returns the point's coordinates.
func (p Point) Location() geo.Point { return geo.Point{Lat: p.Lat, Lon: p.Lon} }

// Route is a complete planned track between two airports.
type Route struct {
	Origin      airport.Airport `json:"origin"`
	Destination airport.Airport `json:"destination"`

	TotalDistanceNM   float64 `json:"total_distance_nm"`
	InitialBearingDeg float64 `json:"initial_bearing"`
	FinalBearingDeg   float64 `json:"final_bearing"`

	Points            []Point `json:"waypoints"`
	RealWaypointsUsed int     `json:"real_waypoints_used"`

	OptimizedForWinds bool    `json:"optimized_for_winds"`
	TotalTimeHours    float64 `json:"total_time_hr,omitempty"`
	AvgGroundSpeedKt  float64 `json:"average_ground_speed_kt,omitempty"`
}

// Wind is the winds-aloft observation used for route optimization.
// DirectionDeg is the direction the wind blows FROM.
type Wind struct {
	DirectionDeg float64 `json:"wind_direction"`
	SpeedKt      float64 `json:"wind_speed_kt"`
}

// Build constructs a great-circle route with waypointCount intermediate
// fixes between the two airports.
func Build(originCode, destCode string, waypointCount int) (Route, error) {
	origin, ok := airport.Lookup(originCode)
	if !ok {
		return Route{}, fmt.Errorf("route: unknown origin airport %q", originCode)
	}
	dest, ok := airport.Lookup(destCode)
	if !ok {
		return Route{}, fmt.Errorf("route: unknown destination airport %q", destCode)
	}
	if origin.ICAO == dest.ICAO {
		return Route{}, fmt.Errorf("route: origin and destination are both %s", origin.ICAO)
	}
	if waypointCount < 0 {
		waypointCount = 0
	}

	op, dp := origin.Location(), dest.Location()
	total := geo.DistanceNM(op, dp)
	initial := geo.InitialBearing(op, dp)
	final := geo.FinalBearing(op, dp)

	fixes := waypoint.Select(origin.ICAO, op, dest.ICAO, dp, waypointCount)

	points := make([]Point, 0, len(fixes)+2)
	points = append(points, Point{
		Number:     0,
		Name:       origin.City,
		Lat:        op.Lat,
		Lon:        op.Lon,
		Type:       TypeAirport,
		BearingDeg: round1(initial),
	})

	real := 0
	for _, f := range fixes {
		typ := TypeWaypoint
		if f.Generated {
			typ = TypeGenerated
		} else {
			real++
		}
		fp := f.Location()
		points = append(points, Point{
			Number:       len(points),
			Name:         f.Name,
			Lat:          fp.Lat,
			Lon:          fp.Lon,
			Type:         typ,
			Region:       f.Region,
			FromOriginNM: round1(geo.DistanceNM(op, fp)),
			BearingDeg:   round1(geo.InitialBearing(fp, dp)),
		})
	}

	points = append(points, Point{
		Number:       len(points),
		Name:         dest.City,
		Lat:          dp.Lat,
		Lon:          dp.Lon,
		Type:         TypeAirport,
		FromOriginNM: round1(total),
		BearingDeg:   round1(final),
	})

	return Route{
		Origin:            origin,
		Destination:       dest,
		TotalDistanceNM:   round1(total),
		InitialBearingDeg: round1(initial),
		FinalBearingDeg:   round1(final),
		Points:            points,
		RealWaypointsUsed: real,
	}, nil
}

// OptimizeForWinds applies per-segment wind corrections and timings to a
// built route. Winds are matched to segments by index; the last wind
// carries through remaining segments, and no winds means still air.
func OptimizeForWinds(r Route, winds []Wind, trueAirspeedKt float64) (Route, error) {
	if trueAirspeedKt <= 0 {
		return Route{}, fmt.Errorf("route: true airspeed must be positive, got %.1f", trueAirspeedKt)
	}
	if len(r.Points) < 2 {
		return Route{}, fmt.Errorf("route: need at least two points to optimize")
	}

	points := make([]Point, len(r.Points))
	copy(points, r.Points)

	var totalTime, totalDistance float64
	for i := 0; i < len(points)-1; i++ {
		cur, next := points[i], points[i+1]

		wind := windForSegment(winds, i)
		bearing := geo.InitialBearing(cur.Location(), next.Location())
		corr := geo.ComputeWindCorrection(trueAirspeedKt, bearing, wind.DirectionDeg, wind.SpeedKt)
		if corr.GroundSpeedKt <= 0 {
			return Route{}, fmt.Errorf("route: wind %0.f kt from %03.0f overwhelms airspeed on segment %d",
				wind.SpeedKt, wind.DirectionDeg, i)
		}

		segment := geo.DistanceNM(cur.Location(), next.Location())
		segmentTime := segment / corr.GroundSpeedKt
		totalTime += segmentTime
		totalDistance += segment

		points[i].BearingToNext = round1(bearing)
		points[i].WindDirectionDeg = wind.DirectionDeg
		points[i].WindSpeedKt = wind.SpeedKt
		points[i].CorrectionAngle = round1(corr.CorrectionAngle)
		points[i].GroundSpeedKt = round1(corr.GroundSpeedKt)
		points[i].SegmentNM = round1(segment)
		points[i].SegmentTimeHours = round2(segmentTime)
		points[i].CumulativeTimeHrs = round2(totalTime)
	}
	points[len(points)-1].CumulativeTimeHrs = round2(totalTime)

	r.Points = points
	r.OptimizedForWinds = true
	r.TotalTimeHours = round2(totalTime)
	if totalTime > 0 {
		r.AvgGroundSpeedKt = round1(totalDistance / totalTime)
	}
	return r, nil
}

func windForSegment(winds []Wind, i int) Wind {
	if len(winds) == 0 {
		return Wind{}
	}
	if i >= len(winds) {
		return winds[len(winds)-1]
	}
	return winds[i]
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
