// Package kafka publishes guardrail audit events to a Kafka topic for
// downstream monitoring of generator reliability.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/weather-guardian/internal/guardrail"
)

const publishTimeout = 5 * time.Second

// AuditPublisher produces audit events to the configured audit topic.
// It implements guardrail.AuditSink.
type AuditPublisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewAuditPublisher creates a Kafka producer for the audit topic.
func NewAuditPublisher(brokers []string, topic string, logger *slog.Logger) *AuditPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &AuditPublisher{writer: w, logger: logger}
}

// Record serializes and publishes one audit event. Publishing is best-effort:
// the guardrail's decision stands whether or not the audit trail lands, so
// failures are logged and swallowed.
func (p *AuditPublisher) Record(ctx context.Context, event guardrail.AuditEvent) {
	msg, err := serializeToMessage(event)
	if err != nil {
		p.logger.Error("serialize audit event failed", "error", err, "audit_id", event.ID)
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		p.logger.Error("publish audit event failed",
			"error", err, "audit_id", event.ID, "session_id", event.SessionID)
	}
}

func (p *AuditPublisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an AuditEvent into a Kafka message keyed by
// session id, so one conversation's trail stays in partition order.
func serializeToMessage(event guardrail.AuditEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize audit event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.SessionID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "hazard", Value: []byte(event.Hazard)},
			{Key: "action", Value: []byte(event.Action())},
			{Key: "violation", Value: []byte(strconv.FormatBool(event.Violation))},
		},
	}, nil
}
