package aircraft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		query    string
		wantCode string
	}{
		{"B777-300ER", "B777-300ER"},
		{"777", "B777-300ER"},
		{"b773", "B777-300ER"},
		{"a380", "A380-800"},
		{" A380 ", "A380-800"},
		{"dreamliner", "B787-9"},
		{"B788", "B787-8"},
		{"320neo", "A320NEO"},
		{"737 MAX", "B737-MAX8"},
		{"e190", "E190"},
		{"airbus a350", "A350-900"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			p, ok := Lookup(tt.query)
			require.True(t, ok, "expected a match for %q", tt.query)
			assert.Equal(t, tt.wantCode, p.Code)
			assert.NotEmpty(t, p.FullName)
			assert.Positive(t, p.MTOWKg)
			assert.Positive(t, p.CruiseKTAS)
		})
	}
}

func TestLookup_NotFound(t *testing.T) {
	for _, q := range []string{"XYZ999", "", "   "} {
		_, ok := Lookup(q)
		assert.False(t, ok, "query %q should not match", q)
	}
}

func TestLookup_ETOPSRating(t *testing.T) {
	p, ok := Lookup("B777-300ER")
	require.True(t, ok)
	assert.True(t, p.ETOPSRated())
	assert.Equal(t, 180, p.ETOPSMinutes)

	// The 737-800 is not ETOPS certified in the fleet table.
	p, ok = Lookup("B737-800")
	require.True(t, ok)
	assert.False(t, p.ETOPSRated())

	// Four-engine types carry no rating either.
	p, ok = Lookup("A380")
	require.True(t, ok)
	assert.False(t, p.ETOPSRated())
}

func TestAll(t *testing.T) {
	all := All()
	require.Len(t, all, 14)

	// Sorted by code, and every entry carries its code.
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Code, all[i].Code)
	}
	for _, p := range all {
		assert.NotEmpty(t, p.Code)
		assert.LessOrEqual(t, p.MLWKg, p.MTOWKg, "%s MLW must not exceed MTOW", p.Code)
	}
}
