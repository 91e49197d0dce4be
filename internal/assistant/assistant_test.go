package assistant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-guardian/internal/domain"
	"github.com/couchcryptid/weather-guardian/internal/guardrail"
	"github.com/couchcryptid/weather-guardian/internal/observability"
	"github.com/couchcryptid/weather-guardian/internal/session"
)

type stubResolver struct {
	result domain.ResolvedLocation
	err    error
}

func (s *stubResolver) Resolve(_ context.Context, _ string) (domain.ResolvedLocation, error) {
	return s.result, s.err
}

type stubFetcher struct {
	record domain.ForecastRecord
	err    error
}

func (s *stubFetcher) Fetch(_ context.Context, _ domain.ForecastRequest) (domain.ForecastRecord, error) {
	return s.record, s.err
}

type stubGenerator struct {
	text  string
	err   error
	calls int
}

func (s *stubGenerator) Generate(_ context.Context, _ session.State) (string, error) {
	s.calls++
	return s.text, s.err
}

func newTestAssistant(resolver domain.LocationResolver, fetcher domain.ForecastFetcher, gen Generator) (*Assistant, *session.Store) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	store := session.NewStore(nil)
	engine := guardrail.New(nil, metrics, nil)
	return New(resolver, fetcher, store, engine, gen, logger, metrics), store
}

func TestAssistant_ResolveLocation_StoresConfirmedAddress(t *testing.T) {
	resolver := &stubResolver{result: domain.ResolvedLocation{
		Latitude: 38.81, Longitude: -94.93, FullAddress: "Gardner, Johnson County, Kansas, USA",
	}}
	a, store := newTestAssistant(resolver, &stubFetcher{}, nil)

	loc, err := a.ResolveLocation(context.Background(), "s1", "Gardner, KS")
	require.NoError(t, err)
	assert.Equal(t, "Gardner, Johnson County, Kansas, USA", loc.FullAddress)

	state := store.GetOrCreate("s1")
	require.NotNil(t, state.ConfirmedLocation)
	assert.Equal(t, loc.FullAddress, *state.ConfirmedLocation)
}

func TestAssistant_ResolveLocation_UpstreamErrorLeavesSessionAlone(t *testing.T) {
	resolver := &stubResolver{err: &domain.UpstreamError{Service: "geocoding", Message: "not found"}}
	a, store := newTestAssistant(resolver, &stubFetcher{}, nil)

	_, err := a.ResolveLocation(context.Background(), "s1", "Nowhereville")

	ue, ok := domain.AsUpstream(err)
	require.True(t, ok, "upstream errors must stay recognizable through wrapping")
	assert.Equal(t, "not found", ue.Message)
	assert.Nil(t, store.GetOrCreate("s1").ConfirmedLocation)
}

func TestAssistant_FetchForecast_StoresRecord(t *testing.T) {
	fetcher := &stubFetcher{record: domain.ForecastRecord{WindGustMaxKmh: []float64{90}}}
	a, store := newTestAssistant(&stubResolver{}, fetcher, nil)

	record, err := a.FetchForecast(context.Background(), "s1", domain.ForecastRequest{
		Latitude: 38.81, Longitude: -94.93, Timezone: "auto",
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{90}, record.WindGustMaxKmh)

	state := store.GetOrCreate("s1")
	require.NotNil(t, state.LastForecast)
	assert.Equal(t, record, *state.LastForecast)
}

func TestAssistant_FetchForecast_ErrorKeepsPreviousForecast(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("connection refused")}
	a, store := newTestAssistant(&stubResolver{}, fetcher, nil)

	previous := domain.ForecastRecord{UVIndexMax: []float64{7}}
	store.Update("s1", session.Patch{LastForecast: &previous})

	_, err := a.FetchForecast(context.Background(), "s1", domain.ForecastRequest{Timezone: "auto"})
	require.Error(t, err)

	state := store.GetOrCreate("s1")
	require.NotNil(t, state.LastForecast)
	assert.Equal(t, previous, *state.LastForecast)
}

func TestAssistant_Respond_EnforcesGuardrail(t *testing.T) {
	a, store := newTestAssistant(&stubResolver{}, &stubFetcher{}, nil)
	tornado := domain.ForecastRecord{WeatherCodes: []int{96}, WindGustMaxKmh: []float64{95}}
	store.Update("s1", session.Patch{LastForecast: &tornado})

	final, err := a.Respond(context.Background(), "s1", "Sunny skies, enjoy your day!")
	require.NoError(t, err)
	assert.Equal(t, domain.FallbackAlert, final, "missing tier-3 marker must rewrite the response")
}

func TestAssistant_Respond_NoForecastPassesThrough(t *testing.T) {
	a, _ := newTestAssistant(&stubResolver{}, &stubFetcher{}, nil)

	final, err := a.Respond(context.Background(), "fresh", "Hello! Where are you located?")
	require.NoError(t, err)
	assert.Equal(t, "Hello! Where are you located?", final)
}

func TestAssistant_Respond_EmptyCandidateUsesGenerator(t *testing.T) {
	gen := &stubGenerator{text: "Calm weather ahead."}
	a, _ := newTestAssistant(&stubResolver{}, &stubFetcher{}, gen)

	final, err := a.Respond(context.Background(), "s1", "")
	require.NoError(t, err)
	assert.Equal(t, "Calm weather ahead.", final)
	assert.Equal(t, 1, gen.calls)
}

func TestAssistant_Respond_NoGeneratorNoCandidate(t *testing.T) {
	a, _ := newTestAssistant(&stubResolver{}, &stubFetcher{}, nil)

	_, err := a.Respond(context.Background(), "s1", "")
	assert.Error(t, err)
}

func TestAssistant_Respond_GeneratorError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("model unavailable")}
	a, _ := newTestAssistant(&stubResolver{}, &stubFetcher{}, gen)

	_, err := a.Respond(context.Background(), "s1", "")
	assert.ErrorContains(t, err, "generate response")
}

func TestAssistant_Readiness(t *testing.T) {
	a, _ := newTestAssistant(&stubResolver{}, &stubFetcher{}, nil)

	require.Error(t, a.CheckReadiness(context.Background()))
	a.MarkReady()
	assert.NoError(t, a.CheckReadiness(context.Background()))
}
