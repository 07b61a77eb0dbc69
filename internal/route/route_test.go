package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTransatlantic(t *testing.T) {
	r, err := Build("KJFK", "EGLL", 5)
	require.NoError(t, err)

	assert.Equal(t, "KJFK", r.Origin.ICAO)
	assert.Equal(t, "EGLL", r.Destination.ICAO)
	assert.InDelta(t, 2994, r.TotalDistanceNM, 20)

	// Published North Atlantic fixes take precedence over generated ones.
	require.Len(t, r.Points, 8)
	assert.Equal(t, 6, r.RealWaypointsUsed)
	assert.Equal(t, "RESNO", r.Points[1].Name)
	assert.Equal(t, TypeWaypoint, r.Points[1].Type)

	first, last := r.Points[0], r.Points[len(r.Points)-1]
	assert.Equal(t, TypeAirport, first.Type)
	assert.Equal(t, "New York", first.Name)
	assert.Zero(t, first.FromOriginNM)
	assert.Equal(t, TypeAirport, last.Type)
	assert.Equal(t, "London", last.Name)
	assert.InDelta(t, r.TotalDistanceNM, last.FromOriginNM, 0.5)

	for i, p := range r.Points {
		assert.Equal(t, i, p.Number)
	}
}

func TestBuildGeneratedWaypoints(t *testing.T) {
	// No published sequence and no catalog fixes over the southern
	// Indian Ocean, so fixes are synthesized on the great circle.
	r, err := Build("FACT", "YSSY", 4)
	require.NoError(t, err)

	require.Len(t, r.Points, 6)
	assert.Zero(t, r.RealWaypointsUsed)
	for _, p := range r.Points[1:5] {
		assert.Equal(t, TypeGenerated, p.Type)
	}
	for i := 1; i < len(r.Points); i++ {
		assert.Greater(t, r.Points[i].FromOriginNM, r.Points[i-1].FromOriginNM)
	}
}

func TestBuildErrors(t *testing.T) {
	_, err := Build("ZZZZ", "EGLL", 5)
	assert.Error(t, err)

	_, err = Build("KJFK", "ZZZZ", 5)
	assert.Error(t, err)

	_, err = Build("KJFK", "JFK", 5)
	assert.Error(t, err, "same airport via IATA alias")
}

func TestOptimizeForWindsHeadwind(t *testing.T) {
	r, err := Build("KJFK", "EGLL", 5)
	require.NoError(t, err)

	still, err := OptimizeForWinds(r, nil, 490)
	require.NoError(t, err)
	assert.True(t, still.OptimizedForWinds)
	assert.InDelta(t, 490, still.AvgGroundSpeedKt, 1)

	// Westerly jet stream is a tailwind eastbound.
	tail, err := OptimizeForWinds(r, []Wind{{DirectionDeg: 270, SpeedKt: 100}}, 490)
	require.NoError(t, err)
	assert.Less(t, tail.TotalTimeHours, still.TotalTimeHours)
	assert.Greater(t, tail.AvgGroundSpeedKt, still.AvgGroundSpeedKt)

	// Cumulative time is monotonic and the last point carries the total.
	for i := 1; i < len(tail.Points); i++ {
		assert.GreaterOrEqual(t, tail.Points[i].CumulativeTimeHrs, tail.Points[i-1].CumulativeTimeHrs)
	}
	assert.InDelta(t, tail.TotalTimeHours, tail.Points[len(tail.Points)-1].CumulativeTimeHrs, 0.01)
}

func TestOptimizeForWindsPerSegment(t *testing.T) {
	r, err := Build("WMKK", "WSSS", 3)
	require.NoError(t, err)

	winds := []Wind{
		{DirectionDeg: 90, SpeedKt: 30},
		{DirectionDeg: 180, SpeedKt: 10},
	}
	got, err := OptimizeForWinds(r, winds, 450)
	require.NoError(t, err)

	assert.Equal(t, 90.0, got.Points[0].WindDirectionDeg)
	assert.Equal(t, 180.0, got.Points[1].WindDirectionDeg)
	// The last wind persists for the remaining segments.
	assert.Equal(t, 180.0, got.Points[2].WindDirectionDeg)
}

func TestOptimizeForWindsErrors(t *testing.T) {
	r, err := Build("KJFK", "EGLL", 2)
	require.NoError(t, err)

	_, err = OptimizeForWinds(r, nil, 0)
	assert.Error(t, err)

	_, err = OptimizeForWinds(Route{}, nil, 450)
	assert.Error(t, err)
}
