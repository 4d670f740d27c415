// Package kafka publishes engine events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
)

// Ensure Publisher implements the interface.
var _ driven.EventPublisher = (*Publisher)(nil)

// Event types carried in the event-type header.
const (
	EventDispatch    = "dispatch.outcome"
	EventUnmetDemand = "demand.unmet"
)

// writeTimeout bounds each publish.
const writeTimeout = 5 * time.Second

// messageWriter is the subset of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes JSON events keyed by seller or item.
type Publisher struct {
	writer messageWriter
}

// NewPublisher creates a publisher for topic on brokers.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("%w: no kafka brokers configured", domain.ErrInvalidInput)
	}
	if topic == "" {
		return nil, fmt.Errorf("%w: no kafka topic configured", domain.ErrInvalidInput)
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Compression:  kafka.Snappy,
	}
	return newPublisherWithWriter(writer), nil
}

func newPublisherWithWriter(w messageWriter) *Publisher {
	return &Publisher{writer: w}
}

// PublishDispatch emits a dispatch outcome keyed by seller ID.
func (p *Publisher) PublishDispatch(ctx context.Context, event domain.DispatchEvent) error {
	return p.publish(ctx, EventDispatch, event.SellerID, event.OccurredAt, event)
}

// PublishUnmetDemand emits the unserved items keyed by the first item name.
func (p *Publisher) PublishUnmetDemand(ctx context.Context, event domain.UnmetDemandEvent) error {
	key := ""
	if len(event.Items) > 0 {
		key = event.Items[0]
	}
	return p.publish(ctx, EventUnmetDemand, key, event.OccurredAt, event)
}

func (p *Publisher) publish(ctx context.Context, eventType, key string, at time.Time, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: body,
		Time:  at,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write %s event to kafka: %w", eventType, err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
