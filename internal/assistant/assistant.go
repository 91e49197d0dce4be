// Package assistant orchestrates one conversation turn at a time: resolve a
// location, fetch its forecast, and validate a generated safety report before
// it is released. The generator itself is an injected collaborator the
// assistant never trusts; every candidate response passes through the
// guardrail engine.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/weather-guardian/internal/domain"
	"github.com/couchcryptid/weather-guardian/internal/guardrail"
	"github.com/couchcryptid/weather-guardian/internal/observability"
	"github.com/couchcryptid/weather-guardian/internal/session"
)

// Generator produces a candidate natural-language report for a session's
// current state. Implementations are opaque: the assistant only sees the text.
type Generator interface {
	Generate(ctx context.Context, state session.State) (string, error)
}

// Assistant ties the tool adapters, session store, and guardrail engine into
// the turn workflow.
type Assistant struct {
	resolver  domain.LocationResolver
	fetcher   domain.ForecastFetcher
	store     *session.Store
	engine    *guardrail.Engine
	generator Generator
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates an Assistant. The generator may be nil, in which case Respond
// requires the caller to supply the candidate text.
func New(resolver domain.LocationResolver, fetcher domain.ForecastFetcher, store *session.Store,
	engine *guardrail.Engine, generator Generator, logger *slog.Logger, metrics *observability.Metrics) *Assistant {
	return &Assistant{
		resolver:  resolver,
		fetcher:   fetcher,
		store:     store,
		engine:    engine,
		generator: generator,
		logger:    logger,
		metrics:   metrics,
	}
}

// MarkReady flags the assistant as ready to serve traffic.
func (a *Assistant) MarkReady() {
	a.ready.Store(true)
	if a.metrics != nil {
		a.metrics.ServiceReady.Set(1)
	}
}

// CheckReadiness returns nil once the assistant has been marked ready.
func (a *Assistant) CheckReadiness(_ context.Context) error {
	if !a.ready.Load() {
		return errors.New("assistant collaborators are not wired yet")
	}
	return nil
}

// ResolveLocation geocodes the query and stores the confirmed address on the
// session. Upstream errors are relayed to the caller unchanged; the session
// keeps its previous location.
func (a *Assistant) ResolveLocation(ctx context.Context, sessionID, query string) (domain.ResolvedLocation, error) {
	loc, err := a.resolver.Resolve(ctx, query)
	if err != nil {
		a.countTurn("location", err)
		return domain.ResolvedLocation{}, fmt.Errorf("resolve location: %w", err)
	}

	a.store.Update(sessionID, session.Patch{ConfirmedLocation: &loc.FullAddress})
	a.countTurn("location", nil)
	a.logger.Debug("location confirmed", "session_id", sessionID, "address", loc.FullAddress)
	return loc, nil
}

// FetchForecast retrieves the forecast for the given coordinates and stores
// it as the session's last forecast. On error the session's previous forecast
// is left in place.
func (a *Assistant) FetchForecast(ctx context.Context, sessionID string, req domain.ForecastRequest) (domain.ForecastRecord, error) {
	record, err := a.fetcher.Fetch(ctx, req)
	if err != nil {
		a.countTurn("forecast", err)
		return domain.ForecastRecord{}, fmt.Errorf("fetch forecast: %w", err)
	}

	a.store.Update(sessionID, session.Patch{LastForecast: &record})
	a.countTurn("forecast", nil)
	return record, nil
}

// Respond validates a candidate report against the session's last forecast
// and returns the text that may be shown to the user. An empty candidate is
// produced by the injected generator when one is configured. Marker
// mismatches never surface as errors; the engine substitutes the fallback
// alert instead.
func (a *Assistant) Respond(ctx context.Context, sessionID, candidate string) (string, error) {
	state := a.store.GetOrCreate(sessionID)

	if candidate == "" {
		if a.generator == nil {
			a.countTurn("respond", errInternal)
			return "", errors.New("no candidate text and no generator configured")
		}
		generated, err := a.generator.Generate(ctx, state)
		if err != nil {
			a.countTurn("respond", err)
			return "", fmt.Errorf("generate response: %w", err)
		}
		candidate = generated
	}

	final := a.engine.Validate(ctx, sessionID, candidate, state.LastForecast)
	a.countTurn("respond", nil)
	return final, nil
}

// Session returns a copy of the session's current state.
func (a *Assistant) Session(sessionID string) session.State {
	return a.store.GetOrCreate(sessionID)
}

var errInternal = errors.New("internal error")

// countTurn records the turn outcome: upstream errors are expected operational
// answers, anything else is a fault.
func (a *Assistant) countTurn(stage string, err error) {
	if a.metrics == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case isUpstream(err):
		outcome = "upstream_error"
	default:
		outcome = "fault"
	}
	a.metrics.TurnsTotal.WithLabelValues(stage, outcome).Inc()
}

func isUpstream(err error) bool {
	_, ok := domain.AsUpstream(err)
	return ok
}
