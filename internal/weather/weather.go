// Package weather defines aviation weather types and the Source interface
// implemented by the CheckWX and Aviation Weather Center adapters.
package weather

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable reports that a station has no current data.
var ErrUnavailable = errors.New("weather: no data available for station")

// CloudLayer is one reported cloud deck.
type CloudLayer struct {
	Code   string `json:"code"` // FEW, SCT, BKN, OVC
	Text   string `json:"text,omitempty"`
	BaseFt int    `json:"base_feet_agl,omitempty"`
}

// Metar is a decoded surface observation.
type Metar struct {
	Station    string    `json:"station"`
	RawText    string    `json:"raw_text"`
	ObservedAt time.Time `json:"observed_time"`

	TempC     *float64 `json:"temp_c,omitempty"`
	DewpointC *float64 `json:"dewpoint_c,omitempty"`

	WindDirDeg  *float64 `json:"wind_dir,omitempty"`
	WindSpeedKt *float64 `json:"wind_speed_kt,omitempty"`
	WindGustKt  *float64 `json:"wind_gust_kt,omitempty"`

	VisibilitySM  *float64 `json:"visibility_sm,omitempty"`
	AltimeterInHg *float64 `json:"altimeter_inhg,omitempty"`
	HumidityPct   *float64 `json:"humidity_percent,omitempty"`

	// FlightCategory is VFR, MVFR, IFR, or LIFR.
	FlightCategory string       `json:"flight_category,omitempty"`
	Clouds         []CloudLayer `json:"clouds,omitempty"`
	Conditions     []string     `json:"conditions,omitempty"`

	Source string `json:"source,omitempty"`
}

// ForecastPeriod is one TAF change group.
type ForecastPeriod struct {
	From         time.Time    `json:"from,omitempty"`
	To           time.Time    `json:"to,omitempty"`
	WindDirDeg   *float64     `json:"wind_dir,omitempty"`
	WindSpeedKt  *float64     `json:"wind_speed_kt,omitempty"`
	VisibilitySM *float64     `json:"visibility_sm,omitempty"`
	Clouds       []CloudLayer `json:"clouds,omitempty"`
}

// Taf is a decoded terminal forecast.
type Taf struct {
	Station   string           `json:"station"`
	RawText   string           `json:"raw_text"`
	IssuedAt  time.Time        `json:"issued_time,omitempty"`
	ValidFrom time.Time        `json:"valid_from,omitempty"`
	ValidTo   time.Time        `json:"valid_to,omitempty"`
	Forecast  []ForecastPeriod `json:"forecast,omitempty"`

	Source string `json:"source,omitempty"`
}

// Sigmet is an active hazardous-weather advisory.
type Sigmet struct {
	ID        string    `json:"id"`
	Hazard    string    `json:"hazard"`
	Severity  string    `json:"severity,omitempty"`
	ValidFrom time.Time `json:"valid_time_from,omitempty"`
	ValidTo   time.Time `json:"valid_time_to,omitempty"`
	RawText   string    `json:"raw_text,omitempty"`
}

// WindsAloft is a cruise-level wind estimate at a point.
type WindsAloft struct {
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	AltitudeFt   float64 `json:"altitude_ft"`
	DirectionDeg float64 `json:"wind_direction"`
	SpeedKt      float64 `json:"wind_speed_kt"`
	TempC        float64 `json:"temperature_c"`
}

// Source provides station weather. Implementations must be safe for
// concurrent use.
type Source interface {
	Metar(ctx context.Context, station string) (Metar, error)
	Taf(ctx context.Context, station string) (Taf, error)
}

// HazardSource provides active SIGMETs.
type HazardSource interface {
	Sigmets(ctx context.Context) ([]Sigmet, error)
}

// Fallback tries each source in order until one returns data. Only the
// last error surfaces; earlier failures are expected when a source is
// unconfigured or rate-limited.
type Fallback struct {
	sources []Source
}

// NewFallback builds a fallback chain. At least one source is required.
func NewFallback(sources ...Source) *Fallback {
	return &Fallback{sources: sources}
}

func (f *Fallback) Metar(ctx context.Context, station string) (Metar, error) {
	var lastErr error = ErrUnavailable
	for _, s := range f.sources {
		m, err := s.Metar(ctx, station)
		if err == nil {
			return m, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return Metar{}, lastErr
}

func (f *Fallback) Taf(ctx context.Context, station string) (Taf, error) {
	var lastErr error = ErrUnavailable
	for _, s := range f.sources {
		t, err := s.Taf(ctx, station)
		if err == nil {
			return t, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return Taf{}, lastErr
}

// EstimateWindsAloft returns a climatological cruise-wind estimate for a
// point. Mid-latitude westerlies dominate jet-stream altitudes; without a
// gridded forecast feed this stands in for real winds-aloft data.
func EstimateWindsAloft(lat, lon, altitudeFt float64) WindsAloft {
	w := WindsAloft{
		Lat:        lat,
		Lon:        lon,
		AltitudeFt: altitudeFt,
		TempC:      -50,
	}
	switch {
	case lat > 23 || lat < -23:
		w.DirectionDeg = 270
		w.SpeedKt = 65
	default:
		// Tropical easterlies are lighter.
		w.DirectionDeg = 90
		w.SpeedKt = 15
	}
	return w
}
