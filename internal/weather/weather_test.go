package weather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	metar     Metar
	taf       Taf
	err       error
	metarHits int
	tafHits   int
}

func (f *fakeSource) Metar(ctx context.Context, station string) (Metar, error) {
	f.metarHits++
	if f.err != nil {
		return Metar{}, f.err
	}
	m := f.metar
	m.Station = station
	return m, nil
}

func (f *fakeSource) Taf(ctx context.Context, station string) (Taf, error) {
	f.tafHits++
	if f.err != nil {
		return Taf{}, f.err
	}
	t := f.taf
	t.Station = station
	return t, nil
}

func TestFallbackPrimaryWins(t *testing.T) {
	primary := &fakeSource{metar: Metar{Source: "primary"}}
	secondary := &fakeSource{metar: Metar{Source: "secondary"}}
	fb := NewFallback(primary, secondary)

	m, err := fb.Metar(context.Background(), "KLAX")
	require.NoError(t, err)
	assert.Equal(t, "primary", m.Source)
	assert.Zero(t, secondary.metarHits)
}

func TestFallbackUsesSecondaryOnError(t *testing.T) {
	primary := &fakeSource{err: errors.New("rate limited")}
	secondary := &fakeSource{metar: Metar{Source: "secondary"}, taf: Taf{Source: "secondary"}}
	fb := NewFallback(primary, secondary)

	m, err := fb.Metar(context.Background(), "KLAX")
	require.NoError(t, err)
	assert.Equal(t, "secondary", m.Source)

	taf, err := fb.Taf(context.Background(), "KLAX")
	require.NoError(t, err)
	assert.Equal(t, "secondary", taf.Source)
}

func TestFallbackAllFail(t *testing.T) {
	lastErr := errors.New("down")
	fb := NewFallback(&fakeSource{err: errors.New("first")}, &fakeSource{err: lastErr})

	_, err := fb.Metar(context.Background(), "KLAX")
	assert.ErrorIs(t, err, lastErr)
}

func TestFallbackNoSources(t *testing.T) {
	fb := NewFallback()
	_, err := fb.Metar(context.Background(), "KLAX")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCachedSourceHitsOnce(t *testing.T) {
	inner := &fakeSource{metar: Metar{Source: "live"}}
	cached := NewCachedSource(inner, 16, time.Minute)

	for i := 0; i < 3; i++ {
		m, err := cached.Metar(context.Background(), "KLAX")
		require.NoError(t, err)
		assert.Equal(t, "KLAX", m.Station)
	}
	assert.Equal(t, 1, inner.metarHits)

	// Station codes normalize, so case variants share an entry.
	_, err := cached.Metar(context.Background(), " klax ")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.metarHits)

	// A different station is a separate fetch.
	_, err = cached.Metar(context.Background(), "EGLL")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.metarHits)
}

func TestCachedSourceDoesNotCacheErrors(t *testing.T) {
	inner := &fakeSource{err: errors.New("boom")}
	cached := NewCachedSource(inner, 16, time.Minute)

	_, err := cached.Metar(context.Background(), "KLAX")
	require.Error(t, err)
	_, err = cached.Metar(context.Background(), "KLAX")
	require.Error(t, err)
	assert.Equal(t, 2, inner.metarHits)
}

func TestCachedSourceTafIndependent(t *testing.T) {
	inner := &fakeSource{taf: Taf{Source: "live"}}
	cached := NewCachedSource(inner, 16, time.Minute)

	_, err := cached.Taf(context.Background(), "KJFK")
	require.NoError(t, err)
	_, err = cached.Taf(context.Background(), "KJFK")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.tafHits)
}

type fakeHazards struct {
	sigs []Sigmet
	err  error
}

func (f *fakeHazards) Sigmets(ctx context.Context) ([]Sigmet, error) {
	return f.sigs, f.err
}

func TestSummarize(t *testing.T) {
	src := &fakeSource{
		metar: Metar{FlightCategory: "VFR"},
		taf:   Taf{RawText: "TAF KLAX"},
	}
	hazards := &fakeHazards{sigs: []Sigmet{{ID: "S1", Hazard: "TURB"}}}
	clock := clockwork.NewFakeClock()

	s := NewSummarizer(src, hazards, clock, slog.New(slog.NewTextHandler(io.Discard, nil)))
	got := s.Summarize(context.Background(), "KLAX", "KJFK")

	require.NotNil(t, got.Origin.Current)
	assert.Equal(t, "KLAX", got.Origin.Current.Station)
	assert.Equal(t, "VFR", got.Origin.Current.FlightCategory)
	require.NotNil(t, got.Destination.Forecast)
	assert.Equal(t, "KJFK", got.Destination.Forecast.Station)
	require.Len(t, got.Hazards, 1)
	assert.Equal(t, "TURB", got.Hazards[0].Hazard)
	assert.Equal(t, clock.Now().UTC(), got.Timestamp)
}

func TestSummarizeDegradesOnSourceFailure(t *testing.T) {
	src := &fakeSource{err: errors.New("weather api down")}
	s := NewSummarizer(src, nil, clockwork.NewFakeClock(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	got := s.Summarize(context.Background(), "KLAX", "KJFK")
	assert.Nil(t, got.Origin.Current)
	assert.Nil(t, got.Origin.Forecast)
	assert.NotEmpty(t, got.Origin.Error)
	assert.Nil(t, got.Hazards)
}

func TestEstimateWindsAloft(t *testing.T) {
	midlat := EstimateWindsAloft(45, -60, 35000)
	assert.Equal(t, 270.0, midlat.DirectionDeg)
	assert.Equal(t, 65.0, midlat.SpeedKt)

	tropics := EstimateWindsAloft(5, 100, 35000)
	assert.Equal(t, 90.0, tropics.DirectionDeg)
	assert.Equal(t, 15.0, tropics.SpeedKt)

	southern := EstimateWindsAloft(-40, 150, 35000)
	assert.Equal(t, 270.0, southern.DirectionDeg)
}

func TestInstrumentCountsOutcomes(t *testing.T) {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "test_weather_requests_total"},
		[]string{"source", "outcome"},
	)

	ok := Instrument(&fakeSource{metar: Metar{Source: "primary"}}, "primary", requests)
	_, err := ok.Metar(context.Background(), "KLAX")
	require.NoError(t, err)
	_, err = ok.Taf(context.Background(), "KLAX")
	require.NoError(t, err)

	bad := Instrument(&fakeSource{err: errors.New("boom")}, "backup", requests)
	_, err = bad.Metar(context.Background(), "KLAX")
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(requests.WithLabelValues("primary", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(requests.WithLabelValues("backup", "error")))
}
