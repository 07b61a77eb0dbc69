package airport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		wantICAO string
		wantCity string
	}{
		{name: "icao exact", code: "KLAX", wantICAO: "KLAX", wantCity: "Los Angeles"},
		{name: "icao lowercase", code: "egll", wantICAO: "EGLL", wantCity: "London"},
		{name: "iata", code: "JFK", wantICAO: "KJFK", wantCity: "New York"},
		{name: "iata lowercase", code: "sin", wantICAO: "WSSS", wantCity: "Singapore"},
		{name: "whitespace trimmed", code: "  OMDB ", wantICAO: "OMDB", wantCity: "Dubai"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, ok := Lookup(tt.code)
			require.True(t, ok)
			assert.Equal(t, tt.wantICAO, a.ICAO)
			assert.Equal(t, tt.wantCity, a.City)
		})
	}
}

func TestLookupNotFound(t *testing.T) {
	for _, code := range []string{"", "ZZZZ", "XX", "NOPE"} {
		_, ok := Lookup(code)
		assert.False(t, ok, "code %q", code)
	}
}

func TestLookupFillsIATA(t *testing.T) {
	a, ok := Lookup("EGLL")
	require.True(t, ok)
	assert.Equal(t, "LHR", a.IATA)

	// Diversion-only fields without common IATA mappings stay blank.
	b, ok := Lookup("BGBW")
	require.True(t, ok)
	assert.Empty(t, b.IATA)
}

func TestLocation(t *testing.T) {
	a, ok := Lookup("KSFO")
	require.True(t, ok)
	p := a.Location()
	assert.InDelta(t, 37.6213, p.Lat, 0.001)
	assert.InDelta(t, -122.3790, p.Lon, 0.001)
}

func TestAllSorted(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ICAO, all[i].ICAO)
	}
	for _, a := range all {
		assert.NotEmpty(t, a.Name, "airport %s", a.ICAO)
		assert.GreaterOrEqual(t, a.Lat, -90.0)
		assert.LessOrEqual(t, a.Lat, 90.0)
		assert.GreaterOrEqual(t, a.Lon, -180.0)
		assert.LessOrEqual(t, a.Lon, 180.0)
	}
}

func TestByPrefix(t *testing.T) {
	us := ByPrefix("K")
	require.NotEmpty(t, us)
	for _, a := range us {
		assert.Equal(t, byte('K'), a.ICAO[0])
	}

	uk := ByPrefix("EG")
	require.Len(t, uk, 2)

	multi := ByPrefix("Y", "NZ")
	var au, nz int
	for _, a := range multi {
		switch a.ICAO[0] {
		case 'Y':
			au++
		case 'N':
			nz++
		}
	}
	assert.Greater(t, au, 0)
	assert.Greater(t, nz, 0)
}
