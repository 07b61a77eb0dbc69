package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/flight-planner-service/internal/event"
	"github.com/couchcryptid/flight-planner-service/internal/observability"
)

// Publisher produces plan lifecycle events to a Kafka topic.
// It implements event.Publisher.
type Publisher struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates a Kafka producer for the configured event topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger, metrics: metrics}
}

// Publish serializes and writes one plan event. Failures are surfaced to
// the caller, which treats event delivery as best-effort.
func (p *Publisher) Publish(ctx context.Context, e event.PlanEvent) error {
	msg, err := serializeToMessage(e)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		if p.metrics != nil {
			p.metrics.EventPublishErrors.Inc()
		}
		return fmt.Errorf("writing plan event: %w", err)
	}
	if p.metrics != nil {
		p.metrics.EventsPublished.Inc()
	}
	p.logger.Debug("plan event published", "type", e.Type, "plan_id", e.PlanID)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a PlanEvent into a Kafka message keyed by
// plan ID so a plan's events stay ordered within a partition.
func serializeToMessage(e event.PlanEvent) (kafkago.Message, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize plan event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(e.PlanID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(e.Type)},
			{Key: "occurred_at", Value: []byte(e.OccurredAt.Format(time.RFC3339))},
		},
	}, nil
}
