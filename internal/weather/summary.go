package weather

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// StationReport bundles the current observation and forecast for one
// airport. Either field may be missing when a source failed.
type StationReport struct {
	Airport  string `json:"airport"`
	Current  *Metar `json:"current_weather,omitempty"`
	Forecast *Taf   `json:"forecast,omitempty"`
	Error    string `json:"error,omitempty"`
}

// RouteSummary is the origin and destination weather for a planned route.
type RouteSummary struct {
	Origin      StationReport `json:"origin"`
	Destination StationReport `json:"destination"`
	Hazards     []Sigmet      `json:"route_hazards,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
}

// Summarizer fetches route weather. Fetch failures degrade the summary
// rather than failing it; a plan must still be producible with weather
// sources down.
type Summarizer struct {
	source  Source
	hazards HazardSource
	clock   clockwork.Clock
	logger  *slog.Logger
}

// NewSummarizer builds a route weather summarizer. hazards may be nil.
func NewSummarizer(source Source, hazards HazardSource, clock clockwork.Clock, logger *slog.Logger) *Summarizer {
	return &Summarizer{source: source, hazards: hazards, clock: clock, logger: logger}
}

// Summarize collects weather for both ends of a route.
func (s *Summarizer) Summarize(ctx context.Context, originICAO, destICAO string) RouteSummary {
	return RouteSummary{
		Origin:      s.station(ctx, originICAO),
		Destination: s.station(ctx, destICAO),
		Hazards:     s.sigmets(ctx),
		Timestamp:   s.clock.Now().UTC(),
	}
}

func (s *Summarizer) station(ctx context.Context, icao string) StationReport {
	report := StationReport{Airport: icao}

	m, err := s.source.Metar(ctx, icao)
	if err != nil {
		s.logger.Warn("metar fetch failed", "station", icao, "error", err)
		report.Error = err.Error()
	} else {
		report.Current = &m
	}

	t, err := s.source.Taf(ctx, icao)
	if err != nil {
		s.logger.Warn("taf fetch failed", "station", icao, "error", err)
		if report.Error == "" {
			report.Error = err.Error()
		}
	} else {
		report.Forecast = &t
	}

	return report
}

func (s *Summarizer) sigmets(ctx context.Context) []Sigmet {
	if s.hazards == nil {
		return nil
	}
	sigs, err := s.hazards.Sigmets(ctx)
	if err != nil {
		s.logger.Warn("sigmet fetch failed", "error", err)
		return nil
	}
	return sigs
}
