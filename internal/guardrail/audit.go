package guardrail

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-guardian/internal/domain"
)

// Action is the engine's disposition of a candidate response.
type Action string

const (
	// ActionPass releases the candidate verbatim.
	ActionPass Action = "pass"
	// ActionRewrite replaces the candidate with the fallback alert.
	ActionRewrite Action = "rewrite"
)

// AuditEvent records one hazard check within a validation call. A full
// validation emits one event per evaluated hazard; a terminal tier-3
// violation cuts the trail short at the violating hazard.
type AuditEvent struct {
	ID          string        `json:"id"`
	SessionID   string        `json:"session_id"`
	Hazard      domain.Hazard `json:"hazard"`
	Tier        domain.Tier   `json:"tier"`
	Triggered   bool          `json:"triggered"`
	MarkerFound bool          `json:"marker_found"`
	// Violation is true when the hazard triggered and its marker was absent.
	Violation bool `json:"violation"`
	// Enforced is true only for the tier-3 violation that rewrote the response.
	Enforced  bool      `json:"enforced"`
	Timestamp time.Time `json:"timestamp"`
}

// Action reports the disposition this event implies for the response.
func (e AuditEvent) Action() Action {
	if e.Enforced {
		return ActionRewrite
	}
	return ActionPass
}

// AuditSink receives audit events as they are emitted. Sinks must not block
// the validation path on failure; delivery is best-effort by contract.
type AuditSink interface {
	Record(ctx context.Context, event AuditEvent)
}

// LogSink writes audit events to a structured logger. Violations log at warn,
// enforced rewrites at error, everything else at debug.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates an AuditSink backed by the given logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Record(ctx context.Context, event AuditEvent) {
	attrs := []any{
		"audit_id", event.ID,
		"session_id", event.SessionID,
		"hazard", event.Hazard,
		"tier", int(event.Tier),
		"triggered", event.Triggered,
		"marker_found", event.MarkerFound,
	}
	switch {
	case event.Enforced:
		s.logger.ErrorContext(ctx, "guardrail violation: mandatory alert missing, response replaced", attrs...)
	case event.Violation:
		s.logger.WarnContext(ctx, "advisory possibly omitted", attrs...)
	default:
		s.logger.DebugContext(ctx, "hazard checked", attrs...)
	}
}

// MultiSink fans events out to several sinks in order.
type MultiSink []AuditSink

func (m MultiSink) Record(ctx context.Context, event AuditEvent) {
	for _, s := range m {
		s.Record(ctx, event)
	}
}
