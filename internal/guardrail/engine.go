// Package guardrail validates generated weather reports against hazard
// classifications re-derived from the raw forecast. The generator is treated
// as an untrusted text producer: the engine either releases its output
// verbatim or replaces it wholesale, never edits it.
package guardrail

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-guardian/internal/domain"
	"github.com/couchcryptid/weather-guardian/internal/observability"
)

// Engine enforces the disclosure policy on candidate responses.
type Engine struct {
	sink    AuditSink
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// New creates an Engine. A nil sink discards audit events; a nil clock uses
// real time.
func New(sink AuditSink, metrics *observability.Metrics, clock clockwork.Clock) *Engine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Engine{sink: sink, metrics: metrics, clock: clock}
}

// Validate checks a candidate response against the forecast last stored for
// the session and returns the text that may be released.
//
// With no forecast there is nothing to validate against and the candidate
// passes through untouched. Otherwise tier-3 hazards are checked first, in
// fixed order: the first triggered hazard whose mandated marker is absent
// replaces the entire response with the fallback alert and ends evaluation.
// Tier-2 and tier-1 hazards are then checked independently; a missing marker
// at those tiers only emits an audit event.
//
// Validate is idempotent: the same candidate and forecast always produce the
// same output and the same trail of hazard checks.
func (e *Engine) Validate(ctx context.Context, sessionID, candidate string, forecast *domain.ForecastRecord) string {
	if forecast == nil {
		e.countValidation("skipped")
		return candidate
	}

	for _, h := range domain.SevereHazards {
		event := e.check(h, candidate, *forecast, sessionID)
		if event.Violation {
			event.Enforced = true
			e.emit(ctx, event)
			e.countValidation("rewritten")
			if e.metrics != nil {
				e.metrics.Tier3Rewrites.Inc()
			}
			return domain.FallbackAlert
		}
		e.emit(ctx, event)
	}

	for _, group := range [][]domain.Hazard{domain.ElevatedHazards, domain.AdvisoryHazards} {
		for _, h := range group {
			event := e.check(h, candidate, *forecast, sessionID)
			if event.Violation && e.metrics != nil {
				e.metrics.AdvisoryMissing.WithLabelValues(string(h)).Inc()
			}
			e.emit(ctx, event)
		}
	}

	e.countValidation("passed")
	return candidate
}

// check classifies one hazard and tests the candidate for its marker.
func (e *Engine) check(h domain.Hazard, candidate string, forecast domain.ForecastRecord, sessionID string) AuditEvent {
	triggered := domain.Evaluate(h, forecast)
	markerFound := strings.Contains(candidate, domain.Marker(h))

	if triggered && e.metrics != nil {
		e.metrics.HazardTriggered.WithLabelValues(string(h)).Inc()
	}

	return AuditEvent{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		Hazard:      h,
		Tier:        domain.TierOf(h),
		Triggered:   triggered,
		MarkerFound: markerFound,
		Violation:   triggered && !markerFound,
		Timestamp:   e.clock.Now(),
	}
}

func (e *Engine) emit(ctx context.Context, event AuditEvent) {
	if e.sink != nil {
		e.sink.Record(ctx, event)
	}
}

func (e *Engine) countValidation(outcome string) {
	if e.metrics != nil {
		e.metrics.ValidationsTotal.WithLabelValues(outcome).Inc()
	}
}
