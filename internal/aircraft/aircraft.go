// Package aircraft provides the static performance database used for fuel
// planning and ETOPS checks. Weights are in kilograms, ranges in nautical
// miles, fuel burn in kilograms per hour, speeds in knots true airspeed.
package aircraft

import (
	"sort"
	"strings"
)

// Performance describes one aircraft type's planning characteristics.
// ETOPSMinutes is 0 when the type is not ETOPS rated (either a four-engine
// type where the rules do not apply, or a twin without certification).
type Performance struct {
	Code         string  `json:"code"`
	FullName     string  `json:"full_name"`
	Manufacturer string  `json:"manufacturer"`
	MTOWKg       float64 `json:"mtow_kg"`
	MLWKg        float64 `json:"mlw_kg"`
	MaxFuelKg    float64 `json:"max_fuel_kg"`
	FuelBurnKgH  float64 `json:"fuel_burn_kgh"`
	CruiseKTAS   float64 `json:"typical_cruise_ktas"`
	RangeNM      float64 `json:"range_nm"`
	ETOPSMinutes int     `json:"etops_minutes,omitempty"`
	TypicalPax   int     `json:"pax_typical"`
}

// ETOPSRated reports whether ETOPS diversion rules apply to this type.
func (p Performance) ETOPSRated() bool { return p.ETOPSMinutes > 0 }

var fleet = map[string]Performance{
	"B737-800": {
		FullName: "Boeing 737-800", Manufacturer: "Boeing",
		MTOWKg: 79_016, MLWKg: 65_317, MaxFuelKg: 20_894,
		FuelBurnKgH: 2_600, CruiseKTAS: 454, RangeNM: 3_115, TypicalPax: 162,
	},
	"B737-MAX8": {
		FullName: "Boeing 737 MAX 8", Manufacturer: "Boeing",
		MTOWKg: 82_191, MLWKg: 66_360, MaxFuelKg: 20_894,
		FuelBurnKgH: 2_400, CruiseKTAS: 453, RangeNM: 3_550, ETOPSMinutes: 180, TypicalPax: 162,
	},
	"B747-400": {
		FullName: "Boeing 747-400", Manufacturer: "Boeing",
		MTOWKg: 412_775, MLWKg: 295_742, MaxFuelKg: 173_074,
		FuelBurnKgH: 11_000, CruiseKTAS: 490, RangeNM: 8_355, ETOPSMinutes: 180, TypicalPax: 416,
	},
	"B777-300ER": {
		FullName: "Boeing 777-300ER", Manufacturer: "Boeing",
		MTOWKg: 352_400, MLWKg: 251_290, MaxFuelKg: 181_283,
		FuelBurnKgH: 8_600, CruiseKTAS: 490, RangeNM: 7_370, ETOPSMinutes: 180, TypicalPax: 396,
	},
	"B777-200LR": {
		FullName: "Boeing 777-200LR", Manufacturer: "Boeing",
		MTOWKg: 347_452, MLWKg: 223_168, MaxFuelKg: 202_285,
		FuelBurnKgH: 7_800, CruiseKTAS: 490, RangeNM: 9_395, ETOPSMinutes: 180, TypicalPax: 301,
	},
	"B787-8": {
		FullName: "Boeing 787-8 Dreamliner", Manufacturer: "Boeing",
		MTOWKg: 227_930, MLWKg: 172_365, MaxFuelKg: 101_323,
		FuelBurnKgH: 5_500, CruiseKTAS: 488, RangeNM: 7_355, ETOPSMinutes: 180, TypicalPax: 242,
	},
	"B787-9": {
		FullName: "Boeing 787-9 Dreamliner", Manufacturer: "Boeing",
		MTOWKg: 254_011, MLWKg: 192_777, MaxFuelKg: 126_917,
		FuelBurnKgH: 6_000, CruiseKTAS: 488, RangeNM: 7_635, ETOPSMinutes: 180, TypicalPax: 296,
	},
	"A320": {
		FullName: "Airbus A320-200", Manufacturer: "Airbus",
		MTOWKg: 77_000, MLWKg: 64_500, MaxFuelKg: 18_728,
		FuelBurnKgH: 2_500, CruiseKTAS: 450, RangeNM: 3_300, TypicalPax: 150,
	},
	"A320NEO": {
		FullName: "Airbus A320neo", Manufacturer: "Airbus",
		MTOWKg: 79_000, MLWKg: 67_400, MaxFuelKg: 18_728,
		FuelBurnKgH: 2_200, CruiseKTAS: 450, RangeNM: 3_400, ETOPSMinutes: 180, TypicalPax: 150,
	},
	"A321NEO": {
		FullName: "Airbus A321neo", Manufacturer: "Airbus",
		MTOWKg: 97_000, MLWKg: 79_200, MaxFuelKg: 26_730,
		FuelBurnKgH: 2_800, CruiseKTAS: 450, RangeNM: 4_000, ETOPSMinutes: 180, TypicalPax: 180,
	},
	"A330-300": {
		FullName: "Airbus A330-300", Manufacturer: "Airbus",
		MTOWKg: 242_000, MLWKg: 185_000, MaxFuelKg: 97_530,
		FuelBurnKgH: 6_800, CruiseKTAS: 472, RangeNM: 6_350, ETOPSMinutes: 180, TypicalPax: 277,
	},
	"A350-900": {
		FullName: "Airbus A350-900", Manufacturer: "Airbus",
		MTOWKg: 280_000, MLWKg: 205_000, MaxFuelKg: 141_000,
		FuelBurnKgH: 6_300, CruiseKTAS: 488, RangeNM: 8_100, ETOPSMinutes: 180, TypicalPax: 325,
	},
	"A380-800": {
		// Four engines, ETOPS not required.
		FullName: "Airbus A380-800", Manufacturer: "Airbus",
		MTOWKg: 575_000, MLWKg: 394_000, MaxFuelKg: 254_000,
		FuelBurnKgH: 13_000, CruiseKTAS: 488, RangeNM: 8_200, TypicalPax: 555,
	},
	"E190": {
		FullName: "Embraer E190", Manufacturer: "Embraer",
		MTOWKg: 47_790, MLWKg: 43_000, MaxFuelKg: 13_986,
		FuelBurnKgH: 2_100, CruiseKTAS: 447, RangeNM: 2_450, TypicalPax: 98,
	},
}

// aliases maps common pilot shorthand and ICAO type designators to fleet keys.
var aliases = map[string]string{
	"737": "B737-800", "738": "B737-800", "B738": "B737-800", "737-800": "B737-800",
	"737MAX": "B737-MAX8", "737 MAX": "B737-MAX8", "7M8": "B737-MAX8",
	"744": "B747-400", "B744": "B747-400", "747": "B747-400", "747-400": "B747-400",
	"773": "B777-300ER", "B773": "B777-300ER", "777": "B777-300ER", "777-300ER": "B777-300ER",
	"77L": "B777-200LR", "777-200LR": "B777-200LR",
	"787": "B787-9", "788": "B787-8", "B788": "B787-8", "789": "B787-9", "B789": "B787-9",
	"787-8": "B787-8", "787-9": "B787-9", "DREAMLINER": "B787-9",
	"320": "A320", "320NEO": "A320NEO", "321NEO": "A321NEO",
	"333": "A330-300", "A333": "A330-300", "330": "A330-300", "A330": "A330-300",
	"359": "A350-900", "A359": "A350-900", "350": "A350-900", "A350": "A350-900",
	"388": "A380-800", "A388": "A380-800", "380": "A380-800", "A380": "A380-800",
	"190": "E190",
}

// Lookup finds an aircraft by type code, alias, or partial name. Matching is
// case-insensitive and ignores dashes and spaces, so "777", "b777-300er" and
// "dreamliner" all resolve. Returns false when nothing matches.
func Lookup(query string) (Performance, bool) {
	needle := normalize(query)
	if needle == "" {
		return Performance{}, false
	}

	for code, p := range fleet {
		if normalize(code) == needle {
			p.Code = code
			return p, true
		}
	}

	for alias, code := range aliases {
		if normalize(alias) == needle {
			p := fleet[code]
			p.Code = code
			return p, true
		}
	}

	// Partial name match, e.g. "dreamliner". Iterate in sorted order so the
	// result is deterministic when multiple names contain the needle.
	for _, code := range sortedCodes() {
		p := fleet[code]
		if strings.Contains(normalize(p.FullName), needle) {
			p.Code = code
			return p, true
		}
	}

	return Performance{}, false
}

// All returns every aircraft in the fleet, sorted by type code.
func All() []Performance {
	out := make([]Performance, 0, len(fleet))
	for _, code := range sortedCodes() {
		p := fleet[code]
		p.Code = code
		out = append(out, p)
	}
	return out
}

func sortedCodes() []string {
	codes := make([]string, 0, len(fleet))
	for code := range fleet {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func normalize(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "")
	return strings.ReplaceAll(s, " ", "")
}
