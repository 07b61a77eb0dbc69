// Package avwx implements weather.Source against the FAA Aviation Weather
// Center data API. No API key is required, which makes it the fallback
// when CheckWX is unconfigured or rate-limited. It also serves SIGMETs,
// which CheckWX does not expose on the free tier.
package avwx

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

// Client fetches METARs, TAFs, and SIGMETs from aviationweather.gov.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an Aviation Weather Center client.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://aviationweather.gov/api/data",
		logger:  logger,
	}
}

// Metar fetches the most recent observation for a station.
func (c *Client) Metar(ctx context.Context, station string) (weather.Metar, error) {
	station = strings.ToUpper(strings.TrimSpace(station))
	params := url.Values{
		"ids":    {station},
		"format": {"json"},
		"taf":    {"false"},
		"hours":  {"2"},
	}

	var reports []metarReport
	if err := c.doRequest(ctx, c.baseURL+"/metar?"+params.Encode(), &reports); err != nil {
		return weather.Metar{}, err
	}
	if len(reports) == 0 {
		return weather.Metar{}, fmt.Errorf("%w: %s", weather.ErrUnavailable, station)
	}

	r := reports[0]
	m := weather.Metar{
		Station:        station,
		RawText:        r.RawOb,
		TempC:          r.Temp,
		DewpointC:      r.Dewp,
		WindDirDeg:     r.Wdir.value(),
		WindSpeedKt:    r.Wspd,
		WindGustKt:     r.Wgst,
		VisibilitySM:   r.Visib.value(),
		AltimeterInHg:  r.Altim,
		FlightCategory: r.Fltcat,
		Source:         "aviationweather.gov",
	}
	if t, err := time.Parse(time.RFC3339, r.ReportTime); err == nil {
		m.ObservedAt = t
	} else if t, err := time.Parse("2006-01-02 15:04:05", r.ReportTime); err == nil {
		m.ObservedAt = t.UTC()
	}
	for _, cl := range r.Clouds {
		m.Clouds = append(m.Clouds, weather.CloudLayer{Code: cl.Cover, BaseFt: cl.Base})
	}
	if r.WxString != "" {
		m.Conditions = append(m.Conditions, r.WxString)
	}
	return m, nil
}

// Taf fetches the current terminal forecast for a station.
func (c *Client) Taf(ctx context.Context, station string) (weather.Taf, error) {
	station = strings.ToUpper(strings.TrimSpace(station))
	params := url.Values{
		"ids":    {station},
		"format": {"json"},
		"hours":  {"24"},
	}

	var reports []tafReport
	if err := c.doRequest(ctx, c.baseURL+"/taf?"+params.Encode(), &reports); err != nil {
		return weather.Taf{}, err
	}
	if len(reports) == 0 {
		return weather.Taf{}, fmt.Errorf("%w: %s", weather.ErrUnavailable, station)
	}

	r := reports[0]
	t := weather.Taf{
		Station: station,
		RawText: r.RawTAF,
		Source:  "aviationweather.gov",
	}
	t.IssuedAt = parseEpochOrRFC3339(r.IssueTime)
	t.ValidFrom = parseEpochOrRFC3339(r.ValidTimeFrom)
	t.ValidTo = parseEpochOrRFC3339(r.ValidTimeTo)
	for _, f := range r.Fcsts {
		t.Forecast = append(t.Forecast, weather.ForecastPeriod{
			From:        parseEpochOrRFC3339(f.TimeFrom),
			To:          parseEpochOrRFC3339(f.TimeTo),
			WindDirDeg:  f.Wdir.value(),
			WindSpeedKt: f.Wspd,
		})
	}
	return t, nil
}

// Sigmets fetches all active SIGMETs.
func (c *Client) Sigmets(ctx context.Context) ([]weather.Sigmet, error) {
	params := url.Values{
		"format": {"json"},
		"level":  {"sigmet"},
		"hazard": {"all"},
	}

	var items []sigmetItem
	if err := c.doRequest(ctx, c.baseURL+"/airsigmet?"+params.Encode(), &items); err != nil {
		return nil, err
	}

	sigs := make([]weather.Sigmet, 0, len(items))
	for _, item := range items {
		sigs = append(sigs, weather.Sigmet{
			ID:        fmt.Sprint(item.AirSigmetID),
			Hazard:    item.Hazard,
			Severity:  item.Severity,
			ValidFrom: parseEpochOrRFC3339(item.ValidTimeFrom),
			ValidTo:   parseEpochOrRFC3339(item.ValidTimeTo),
			RawText:   item.RawAirSigmet,
		})
	}
	return sigs, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("aviation weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("aviation weather API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseEpochOrRFC3339 handles the API's mix of epoch-second numbers and
// RFC 3339 strings in time fields.
func parseEpochOrRFC3339(v json.RawMessage) time.Time {
	if len(v) == 0 {
		return time.Time{}
	}
	var epoch int64
	if err := json.Unmarshal(v, &epoch); err == nil && epoch > 0 {
		return time.Unix(epoch, 0).UTC()
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Aviation Weather Center response types.

type metarReport struct {
	RawOb      string       `json:"rawOb"`
	ReportTime string       `json:"reportTime"`
	Temp       *float64     `json:"temp"`
	Dewp       *float64     `json:"dewp"`
	Wdir       flexNumber   `json:"wdir"`
	Wspd       *float64     `json:"wspd"`
	Wgst       *float64     `json:"wgst"`
	Visib      flexNumber   `json:"visib"`
	Altim      *float64     `json:"altim"`
	Fltcat     string       `json:"fltcat"`
	Clouds     []metarCloud `json:"clouds"`
	WxString   string       `json:"wxString"`
}

type metarCloud struct {
	Cover string `json:"cover"`
	Base  int    `json:"base"`
}

type tafReport struct {
	RawTAF        string          `json:"rawTAF"`
	IssueTime     json.RawMessage `json:"issueTime"`
	ValidTimeFrom json.RawMessage `json:"validTimeFrom"`
	ValidTimeTo   json.RawMessage `json:"validTimeTo"`
	Fcsts         []tafForecast   `json:"fcsts"`
}

type tafForecast struct {
	TimeFrom json.RawMessage `json:"timeFrom"`
	TimeTo   json.RawMessage `json:"timeTo"`
	Wdir     flexNumber      `json:"wdir"`
	Wspd     *float64        `json:"wspd"`
}

type sigmetItem struct {
	AirSigmetID   int             `json:"airSigmetId"`
	Hazard        string          `json:"hazard"`
	Severity      string          `json:"severity"`
	ValidTimeFrom json.RawMessage `json:"validTimeFrom"`
	ValidTimeTo   json.RawMessage `json:"validTimeTo"`
	RawAirSigmet  string          `json:"rawAIRSIGMET"`
}

// flexNumber tolerates fields the API reports as either a number or a
// string such as "VRB" or "10+".
type flexNumber struct {
	n  float64
	ok bool
}

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		f.n, f.ok = n, true
	}
	// Non-numeric values ("VRB" winds, "10+" visibility) are dropped.
	return nil
}

func (f flexNumber) value() *float64 {
	if !f.ok {
		return nil
	}
	v := f.n
	return &v
}
