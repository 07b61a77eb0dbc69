package weather

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// InstrumentedSource counts upstream requests by provider and outcome.
type InstrumentedSource struct {
	inner    Source
	provider string
	requests *prometheus.CounterVec
}

// Instrument wraps a source with a request counter labeled (source, outcome).
func Instrument(inner Source, provider string, requests *prometheus.CounterVec) *InstrumentedSource {
	return &InstrumentedSource{inner: inner, provider: provider, requests: requests}
}

func (s *InstrumentedSource) Metar(ctx context.Context, station string) (Metar, error) {
	m, err := s.inner.Metar(ctx, station)
	s.requests.WithLabelValues(s.provider, outcome(err)).Inc()
	return m, err
}

func (s *InstrumentedSource) Taf(ctx context.Context, station string) (Taf, error) {
	t, err := s.inner.Taf(ctx, station)
	s.requests.WithLabelValues(s.provider, outcome(err)).Inc()
	return t, err
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
