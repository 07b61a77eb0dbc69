package waypoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/flight-planner-service/internal/geo"
)

func TestLookup(t *testing.T) {
	w, ok := Lookup("IGARI")
	require.True(t, ok)
	assert.Equal(t, "Southeast Asia", w.Region)
	assert.InDelta(t, 6.5667, w.Lat, 0.0001)

	w, ok = Lookup("  resno ")
	require.True(t, ok)
	assert.Equal(t, "North Atlantic", w.Region)

	_, ok = Lookup("XXXXX")
	assert.False(t, ok)
}

func TestAllSorted(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}
}

func TestNearby(t *testing.T) {
	// Singapore Changi sits close to the Malacca Strait fixes.
	singapore := geo.Point{Lat: 1.3644, Lon: 103.9915}
	got := Nearby(singapore, 400)
	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].OffTrackNM, got[i].OffTrackNM)
	}
	names := make([]string, 0, len(got))
	for _, w := range got {
		names = append(names, w.Name)
	}
	assert.Contains(t, names, "IGARI")

	assert.Empty(t, Nearby(geo.Point{Lat: -80, Lon: 0}, 200))
}

func TestStandardRoute(t *testing.T) {
	got := StandardRoute("KJFK", "EGLL")
	require.Len(t, got, 6)
	assert.Equal(t, "RESNO", got[0].Name)
	assert.Equal(t, "PORTI", got[5].Name)
	assert.Equal(t, 1, got[0].Number)
	assert.Equal(t, 6, got[5].Number)

	// Lowercase codes resolve too.
	assert.Len(t, StandardRoute("wsss", "vhhh"), 3)

	assert.Nil(t, StandardRoute("EGLL", "KJFK"))
	assert.Nil(t, StandardRoute("ZZZZ", "YYYY"))
}

func TestCorridorOrdered(t *testing.T) {
	// Singapore to Hong Kong passes the South China Sea fixes.
	origin := geo.Point{Lat: 1.3644, Lon: 103.9915}
	dest := geo.Point{Lat: 22.3080, Lon: 113.9185}

	got := Corridor(origin, dest, 150)
	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].FromOriginNM, got[i].FromOriginNM)
	}
	for _, w := range got {
		assert.LessOrEqual(t, w.OffTrackNM, 150.0)
	}
}

func TestSelectUsesStandardRoute(t *testing.T) {
	origin := geo.Point{Lat: 40.6398, Lon: -73.7789}
	dest := geo.Point{Lat: 51.47, Lon: -0.4543}
	got := Select("KJFK", origin, "EGLL", dest, 4)
	require.Len(t, got, 6)
	assert.Equal(t, "RESNO", got[0].Name)
	for _, w := range got {
		assert.False(t, w.Generated)
	}
}

func TestSelectSynthesizesWhereCorridorEmpty(t *testing.T) {
	// Cape Town to Sydney crosses the southern Indian Ocean, far from
	// every catalog fix.
	origin := geo.Point{Lat: -33.9715, Lon: 18.6021}
	dest := geo.Point{Lat: -33.9461, Lon: 151.1772}

	got := Select("FACT", origin, "YSSY", dest, 5)
	require.Len(t, got, 5)
	for i, w := range got {
		assert.True(t, w.Generated, "waypoint %d", i)
		assert.Len(t, w.Name, 5)
		assert.Equal(t, i+1, w.Number)
	}
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i].FromOriginNM, got[i-1].FromOriginNM)
	}

	// Synthesized names are stable across calls.
	again := Select("FACT", origin, "YSSY", dest, 5)
	for i := range got {
		assert.Equal(t, got[i].Name, again[i].Name)
	}
}

func TestSelectZeroCount(t *testing.T) {
	assert.Nil(t, Select("FACT", geo.Point{}, "YSSY", geo.Point{Lat: 1}, 0))
}
