// Package airport provides the static airport directory: major international
// airports keyed by ICAO identifier, with an IATA cross-reference.
package airport

import (
	"sort"
	"strings"

	"github.com/couchcryptid/flight-planner-service/internal/geo"
)

// Airport is one directory entry.
type Airport struct {
	ICAO    string  `json:"icao"`
	IATA    string  `json:"iata,omitempty"`
	Name    string  `json:"name"`
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Location returns the airport's coordinates as a geo.Point.
func (a Airport) Location() geo.Point { return geo.Point{Lat: a.Lat, Lon: a.Lon} }

var directory = map[string]Airport{
	// North America
	"KLAX": {Name: "Los Angeles Intl", City: "Los Angeles", Country: "USA", Lat: 33.9425, Lon: -118.4081},
	"KJFK": {Name: "John F. Kennedy Intl", City: "New York", Country: "USA", Lat: 40.6398, Lon: -73.7789},
	"KORD": {Name: "O'Hare Intl", City: "Chicago", Country: "USA", Lat: 41.9742, Lon: -87.9073},
	"KDFW": {Name: "Dallas/Fort Worth Intl", City: "Dallas", Country: "USA", Lat: 32.8968, Lon: -97.0380},
	"KSFO": {Name: "San Francisco Intl", City: "San Francisco", Country: "USA", Lat: 37.6213, Lon: -122.3790},
	"KDEN": {Name: "Denver Intl", City: "Denver", Country: "USA", Lat: 39.8561, Lon: -104.6737},
	"KATL": {Name: "Hartsfield-Jackson Atlanta Intl", City: "Atlanta", Country: "USA", Lat: 33.6367, Lon: -84.4281},
	"KMIA": {Name: "Miami Intl", City: "Miami", Country: "USA", Lat: 25.7932, Lon: -80.2906},
	"KBOS": {Name: "Boston Logan Intl", City: "Boston", Country: "USA", Lat: 42.3656, Lon: -71.0096},
	"KSEA": {Name: "Seattle-Tacoma Intl", City: "Seattle", Country: "USA", Lat: 47.4502, Lon: -122.3088},
	"CYVR": {Name: "Vancouver Intl", City: "Vancouver", Country: "Canada", Lat: 49.1939, Lon: -123.1844},
	"CYYZ": {Name: "Toronto Pearson Intl", City: "Toronto", Country: "Canada", Lat: 43.6777, Lon: -79.6248},
	"MMMX": {Name: "Mexico City Intl", City: "Mexico City", Country: "Mexico", Lat: 19.4363, Lon: -99.0721},

	// Europe
	"EGLL": {Name: "London Heathrow", City: "London", Country: "UK", Lat: 51.4700, Lon: -0.4543},
	"EGKK": {Name: "London Gatwick", City: "London", Country: "UK", Lat: 51.1537, Lon: -0.1821},
	"LFPG": {Name: "Paris Charles de Gaulle", City: "Paris", Country: "France", Lat: 49.0097, Lon: 2.5479},
	"EDDF": {Name: "Frankfurt Airport", City: "Frankfurt", Country: "Germany", Lat: 50.0379, Lon: 8.5622},
	"EHAM": {Name: "Amsterdam Schiphol", City: "Amsterdam", Country: "Netherlands", Lat: 52.3105, Lon: 4.7683},
	"LEMD": {Name: "Madrid-Barajas", City: "Madrid", Country: "Spain", Lat: 40.4983, Lon: -3.5676},
	"LIRF": {Name: "Rome Fiumicino", City: "Rome", Country: "Italy", Lat: 41.8003, Lon: 12.2389},
	"LSZH": {Name: "Zurich Airport", City: "Zurich", Country: "Switzerland", Lat: 47.4647, Lon: 8.5492},
	"EKCH": {Name: "Copenhagen Airport", City: "Copenhagen", Country: "Denmark", Lat: 55.6180, Lon: 12.6560},
	"LOWW": {Name: "Vienna Intl", City: "Vienna", Country: "Austria", Lat: 48.1103, Lon: 16.5697},
	"UUEE": {Name: "Moscow Sheremetyevo", City: "Moscow", Country: "Russia", Lat: 55.9726, Lon: 37.4146},
	"LEBL": {Name: "Barcelona-El Prat", City: "Barcelona", Country: "Spain", Lat: 41.2971, Lon: 2.0785},

	// Middle East
	"OMDB": {Name: "Dubai Intl", City: "Dubai", Country: "UAE", Lat: 25.2532, Lon: 55.3657},
	"OTHH": {Name: "Hamad Intl", City: "Doha", Country: "Qatar", Lat: 25.2731, Lon: 51.6080},
	"OEJN": {Name: "King Abdulaziz Intl", City: "Jeddah", Country: "Saudi Arabia", Lat: 21.6796, Lon: 39.1565},
	"LTFM": {Name: "Istanbul Airport", City: "Istanbul", Country: "Turkey", Lat: 41.2753, Lon: 28.7519},
	"LLBG": {Name: "Ben Gurion Airport", City: "Tel Aviv", Country: "Israel", Lat: 32.0114, Lon: 34.8867},

	// Asia
	"RJTT": {Name: "Tokyo Haneda", City: "Tokyo", Country: "Japan", Lat: 35.5494, Lon: 139.7798},
	"RJBB": {Name: "Osaka Kansai", City: "Osaka", Country: "Japan", Lat: 34.4347, Lon: 135.2440},
	"RKSI": {Name: "Seoul Incheon", City: "Seoul", Country: "South Korea", Lat: 37.4602, Lon: 126.4407},
	"VHHH": {Name: "Hong Kong Intl", City: "Hong Kong", Country: "Hong Kong", Lat: 22.3080, Lon: 113.9185},
	"ZSSS": {Name: "Shanghai Pudong", City: "Shanghai", Country: "China", Lat: 31.1443, Lon: 121.8083},
	"ZBAA": {Name: "Beijing Capital Intl", City: "Beijing", Country: "China", Lat: 40.0799, Lon: 116.6031},
	"ZSPD": {Name: "Shanghai Hongqiao", City: "Shanghai", Country: "China", Lat: 31.1979, Lon: 121.3364},
	"VTBS": {Name: "Bangkok Suvarnabhumi", City: "Bangkok", Country: "Thailand", Lat: 13.6900, Lon: 100.7501},
	"WSSS": {Name: "Singapore Changi", City: "Singapore", Country: "Singapore", Lat: 1.3644, Lon: 103.9915},
	"WMKK": {Name: "Kuala Lumpur Intl", City: "Kuala Lumpur", Country: "Malaysia", Lat: 2.7456, Lon: 101.7099},
	"VABB": {Name: "Mumbai Chhatrapati Shivaji", City: "Mumbai", Country: "India", Lat: 19.0896, Lon: 72.8656},
	"VIDP": {Name: "Delhi Indira Gandhi Intl", City: "Delhi", Country: "India", Lat: 28.5665, Lon: 77.1031},
	"RPLL": {Name: "Manila Ninoy Aquino Intl", City: "Manila", Country: "Philippines", Lat: 14.5086, Lon: 121.0194},
	"WIIH": {Name: "Jakarta Soekarno-Hatta", City: "Jakarta", Country: "Indonesia", Lat: -6.1256, Lon: 106.6559},

	// Oceania
	"YSSY": {Name: "Sydney Kingsford Smith", City: "Sydney", Country: "Australia", Lat: -33.9461, Lon: 151.1772},
	"YMML": {Name: "Melbourne Airport", City: "Melbourne", Country: "Australia", Lat: -37.6690, Lon: 144.8410},
	"YBBN": {Name: "Brisbane Airport", City: "Brisbane", Country: "Australia", Lat: -27.3942, Lon: 153.1218},
	"NZAA": {Name: "Auckland Airport", City: "Auckland", Country: "New Zealand", Lat: -37.0081, Lon: 174.7850},

	// South America
	"SBGR": {Name: "Sao Paulo-Guarulhos Intl", City: "Sao Paulo", Country: "Brazil", Lat: -23.4356, Lon: -46.4731},
	"SAEZ": {Name: "Buenos Aires Ezeiza", City: "Buenos Aires", Country: "Argentina", Lat: -34.8222, Lon: -58.5358},
	"SCEL": {Name: "Santiago Arturo Merino Benitez", City: "Santiago", Country: "Chile", Lat: -33.3930, Lon: -70.7858},
	"SKBO": {Name: "Bogota El Dorado Intl", City: "Bogota", Country: "Colombia", Lat: 4.7016, Lon: -74.1469},
	"SBGL": {Name: "Rio de Janeiro-Galeao", City: "Rio de Janeiro", Country: "Brazil", Lat: -22.8099, Lon: -43.2505},

	// Africa
	"FACT": {Name: "Cape Town Intl", City: "Cape Town", Country: "South Africa", Lat: -33.9715, Lon: 18.6021},
	"FAOR": {Name: "Johannesburg O.R. Tambo", City: "Johannesburg", Country: "South Africa", Lat: -26.1367, Lon: 28.2411},
	"HECA": {Name: "Cairo Intl", City: "Cairo", Country: "Egypt", Lat: 30.1219, Lon: 31.4056},
	"HAAB": {Name: "Addis Ababa Bole Intl", City: "Addis Ababa", Country: "Ethiopia", Lat: 8.9779, Lon: 38.7993},

	// ETOPS diversion fields not in the main route network.
	"BIKF": {Name: "Keflavik Intl", City: "Reykjavik", Country: "Iceland", Lat: 63.9850, Lon: -22.6056},
	"BGBW": {Name: "Narsarsuaq", City: "Narsarsuaq", Country: "Greenland", Lat: 61.1605, Lon: -45.4260},
	"CYYR": {Name: "Goose Bay", City: "Goose Bay", Country: "Canada", Lat: 53.3192, Lon: -60.4258},
	"CYQX": {Name: "Gander Intl", City: "Gander", Country: "Canada", Lat: 48.9369, Lon: -54.5681},
	"LPLA": {Name: "Lajes Field", City: "Azores", Country: "Portugal", Lat: 38.7618, Lon: -27.0908},
	"RJAA": {Name: "Tokyo Narita", City: "Tokyo", Country: "Japan", Lat: 35.7647, Lon: 140.3864},
	"PANC": {Name: "Ted Stevens Anchorage Intl", City: "Anchorage", Country: "USA", Lat: 61.1744, Lon: -149.9964},
	"PHNL": {Name: "Daniel K. Inouye Intl", City: "Honolulu", Country: "USA", Lat: 21.3187, Lon: -157.9225},
	"NZCH": {Name: "Christchurch Intl", City: "Christchurch", Country: "New Zealand", Lat: -43.4894, Lon: 172.5322},
	"NFFN": {Name: "Nadi Intl", City: "Nadi", Country: "Fiji", Lat: -17.7554, Lon: 177.4434},
	"NTAA": {Name: "Faa'a Intl", City: "Papeete", Country: "French Polynesia", Lat: -17.5537, Lon: -149.6070},
	"VOMM": {Name: "Chennai Intl", City: "Chennai", Country: "India", Lat: 12.9900, Lon: 80.1693},
	"VCBI": {Name: "Bandaranaike Intl", City: "Colombo", Country: "Sri Lanka", Lat: 7.1808, Lon: 79.8841},
	"VRMM": {Name: "Velana Intl", City: "Male", Country: "Maldives", Lat: 4.1918, Lon: 73.5291},
	"FIMP": {Name: "Sir Seewoosagur Ramgoolam Intl", City: "Port Louis", Country: "Mauritius", Lat: -20.4302, Lon: 57.6836},
	"SCCI": {Name: "Punta Arenas Intl", City: "Punta Arenas", Country: "Chile", Lat: -53.0026, Lon: -70.8546},
	"OJAI": {Name: "Queen Alia Intl", City: "Amman", Country: "Jordan", Lat: 31.7226, Lon: 35.9932},
}

// iataToICAO cross-references common 3-letter IATA codes.
var iataToICAO = map[string]string{
	"LAX": "KLAX", "JFK": "KJFK", "ORD": "KORD", "DFW": "KDFW", "SFO": "KSFO",
	"DEN": "KDEN", "ATL": "KATL", "MIA": "KMIA", "BOS": "KBOS", "SEA": "KSEA",
	"YVR": "CYVR", "YYZ": "CYYZ", "MEX": "MMMX",
	"LHR": "EGLL", "LGW": "EGKK", "CDG": "LFPG", "FRA": "EDDF", "AMS": "EHAM",
	"MAD": "LEMD", "FCO": "LIRF", "ZRH": "LSZH", "CPH": "EKCH", "VIE": "LOWW",
	"SVO": "UUEE", "BCN": "LEBL",
	"DXB": "OMDB", "DOH": "OTHH", "JED": "OEJN", "IST": "LTFM", "TLV": "LLBG",
	"HND": "RJTT", "KIX": "RJBB", "ICN": "RKSI", "HKG": "VHHH", "PVG": "ZSSS",
	"PEK": "ZBAA", "SHA": "ZSPD", "BKK": "VTBS", "SIN": "WSSS", "KUL": "WMKK",
	"BOM": "VABB", "DEL": "VIDP", "MNL": "RPLL", "CGK": "WIIH",
	"SYD": "YSSY", "MEL": "YMML", "BNE": "YBBN", "AKL": "NZAA",
	"GRU": "SBGR", "EZE": "SAEZ", "SCL": "SCEL", "BOG": "SKBO", "GIG": "SBGL",
	"CPT": "FACT", "JNB": "FAOR", "CAI": "HECA", "ADD": "HAAB",
	"KEF": "BIKF", "NRT": "RJAA", "ANC": "PANC", "HNL": "PHNL",
}

var icaoToIATA = func() map[string]string {
	m := make(map[string]string, len(iataToICAO))
	for iata, icao := range iataToICAO {
		m[icao] = iata
	}
	return m
}()

// Lookup finds an airport by ICAO or IATA code, case-insensitively.
func Lookup(code string) (Airport, bool) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return Airport{}, false
	}
	if icao, ok := iataToICAO[c]; ok {
		c = icao
	}
	a, ok := directory[c]
	if !ok {
		return Airport{}, false
	}
	a.ICAO = c
	a.IATA = icaoToIATA[c]
	return a, true
}

// All returns the full directory sorted by ICAO code.
func All() []Airport {
	out := make([]Airport, 0, len(directory))
	for icao, a := range directory {
		a.ICAO = icao
		a.IATA = icaoToIATA[icao]
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ICAO < out[j].ICAO })
	return out
}

// ByPrefix returns airports whose ICAO code starts with any of the given
// prefixes, sorted by ICAO code. ICAO prefixes group airports regionally
// (K = contiguous USA, EG = UK, Y = Australia, and so on).
func ByPrefix(prefixes ...string) []Airport {
	var out []Airport
	for _, a := range All() {
		for _, p := range prefixes {
			if strings.HasPrefix(a.ICAO, strings.ToUpper(p)) {
				out = append(out, a)
				break
			}
		}
	}
	return out
}
