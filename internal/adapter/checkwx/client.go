// Package checkwx implements weather.Source against the CheckWX decoded
// weather API. The free tier allows 400 requests per day, so this client
// is normally wrapped in weather.CachedSource.
package checkwx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/flight-planner-service/internal/weather"
)

// Client fetches decoded METARs and TAFs from CheckWX.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a CheckWX client. The API key comes from the CheckWX
// account dashboard.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.checkwx.com",
		logger:  logger,
	}
}

// Metar fetches the decoded current observation for a station.
func (c *Client) Metar(ctx context.Context, station string) (weather.Metar, error) {
	station = normalizeStation(station)
	var env metarEnvelope
	if err := c.doRequest(ctx, fmt.Sprintf("%s/metar/%s/decoded", c.baseURL, url.PathEscape(station)), &env); err != nil {
		return weather.Metar{}, err
	}
	if env.Results == 0 || len(env.Data) == 0 {
		return weather.Metar{}, fmt.Errorf("%w: %s", weather.ErrUnavailable, station)
	}

	d := env.Data[0]
	m := weather.Metar{
		Station:        station,
		RawText:        d.RawText,
		TempC:          d.Temperature.Celsius,
		DewpointC:      d.Dewpoint.Celsius,
		WindDirDeg:     d.Wind.Degrees,
		WindSpeedKt:    d.Wind.SpeedKts,
		WindGustKt:     d.Wind.GustKts,
		VisibilitySM:   d.Visibility.Miles,
		AltimeterInHg:  d.Barometer.Hg,
		HumidityPct:    d.Humidity.Percent,
		FlightCategory: d.FlightCategory,
		Source:         "checkwx",
	}
	if t, err := time.Parse(time.RFC3339, d.Observed); err == nil {
		m.ObservedAt = t
	}
	for _, cl := range d.Clouds {
		m.Clouds = append(m.Clouds, weather.CloudLayer{Code: cl.Code, Text: cl.Text, BaseFt: cl.BaseFeetAGL})
	}
	for _, cond := range d.Conditions {
		m.Conditions = append(m.Conditions, cond.Text)
	}
	return m, nil
}

// Taf fetches the decoded terminal forecast for a station.
func (c *Client) Taf(ctx context.Context, station string) (weather.Taf, error) {
	station = normalizeStation(station)
	var env tafEnvelope
	if err := c.doRequest(ctx, fmt.Sprintf("%s/taf/%s/decoded", c.baseURL, url.PathEscape(station)), &env); err != nil {
		return weather.Taf{}, err
	}
	if env.Results == 0 || len(env.Data) == 0 {
		return weather.Taf{}, fmt.Errorf("%w: %s", weather.ErrUnavailable, station)
	}

	d := env.Data[0]
	t := weather.Taf{
		Station: station,
		RawText: d.RawText,
		Source:  "checkwx",
	}
	if ts, err := time.Parse(time.RFC3339, d.Timestamp.Issued); err == nil {
		t.IssuedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339, d.Timestamp.From); err == nil {
		t.ValidFrom = ts
	}
	if ts, err := time.Parse(time.RFC3339, d.Timestamp.To); err == nil {
		t.ValidTo = ts
	}
	for _, f := range d.Forecast {
		period := weather.ForecastPeriod{
			WindDirDeg:   f.Wind.Degrees,
			WindSpeedKt:  f.Wind.SpeedKts,
			VisibilitySM: f.Visibility.Miles,
		}
		if ts, err := time.Parse(time.RFC3339, f.Timestamp.From); err == nil {
			period.From = ts
		}
		if ts, err := time.Parse(time.RFC3339, f.Timestamp.To); err == nil {
			period.To = ts
		}
		for _, cl := range f.Clouds {
			period.Clouds = append(period.Clouds, weather.CloudLayer{Code: cl.Code, Text: cl.Text, BaseFt: cl.BaseFeetAGL})
		}
		t.Forecast = append(t.Forecast, period)
	}
	return t, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("checkwx request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("checkwx API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func normalizeStation(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// CheckWX API response types.

type metarEnvelope struct {
	Results int         `json:"results"`
	Data    []metarData `json:"data"`
}

type metarData struct {
	RawText        string      `json:"raw_text"`
	Observed       string      `json:"observed"`
	Temperature    degreesC    `json:"temperature"`
	Dewpoint       degreesC    `json:"dewpoint"`
	Wind           wind        `json:"wind"`
	Visibility     visibility  `json:"visibility"`
	Barometer      barometer   `json:"barometer"`
	Humidity       humidity    `json:"humidity"`
	FlightCategory string      `json:"flight_category"`
	Clouds         []cloud     `json:"clouds"`
	Conditions     []condition `json:"conditions"`
}

type tafEnvelope struct {
	Results int       `json:"results"`
	Data    []tafData `json:"data"`
}

type tafData struct {
	RawText   string       `json:"raw_text"`
	Timestamp tafTimestamp `json:"timestamp"`
	Forecast  []tafPeriod  `json:"forecast"`
}

type tafTimestamp struct {
	Issued string `json:"issued"`
	From   string `json:"from"`
	To     string `json:"to"`
}

type tafPeriod struct {
	Timestamp  tafTimestamp `json:"timestamp"`
	Wind       wind         `json:"wind"`
	Visibility visibility   `json:"visibility"`
	Clouds     []cloud      `json:"clouds"`
}

type degreesC struct {
	Celsius *float64 `json:"celsius"`
}

type wind struct {
	Degrees  *float64 `json:"degrees"`
	SpeedKts *float64 `json:"speed_kts"`
	GustKts  *float64 `json:"gust_kts"`
}

type visibility struct {
	Miles *float64 `json:"miles_float"`
}

type barometer struct {
	Hg *float64 `json:"hg"`
}

type humidity struct {
	Percent *float64 `json:"percent"`
}

type cloud struct {
	Code        string `json:"code"`
	Text        string `json:"text"`
	BaseFeetAGL int    `json:"base_feet_agl"`
}

type condition struct {
	Text string `json:"text"`
}
