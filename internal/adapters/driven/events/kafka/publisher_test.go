package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendee/vendee/internal/core/domain"
)

// fakeWriter records messages written.
type fakeWriter struct {
	msgs     []kafka.Message
	err      error
	closed   bool
	deadline bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

var eventTime = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func TestPublisher_PublishDispatch(t *testing.T) {
	fw := &fakeWriter{}
	p := newPublisherWithWriter(fw)

	event := domain.DispatchEvent{
		RequestID:  "REQ-1",
		SellerID:   "M1",
		Status:     domain.OfferAccepted,
		ETAMinutes: 3,
		DistanceKm: 0.8,
		ItemCount:  1,
		OccurredAt: eventTime,
	}
	require.NoError(t, p.PublishDispatch(context.Background(), event))

	require.Len(t, fw.msgs, 1)
	msg := fw.msgs[0]
	assert.Equal(t, "M1", string(msg.Key))
	assert.Equal(t, eventTime, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event-type", msg.Headers[0].Key)
	assert.Equal(t, EventDispatch, string(msg.Headers[0].Value))
	assert.True(t, fw.deadline)

	var decoded domain.DispatchEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event, decoded)
}

func TestPublisher_PublishUnmetDemand(t *testing.T) {
	fw := &fakeWriter{}
	p := newPublisherWithWriter(fw)

	event := domain.UnmetDemandEvent{
		Items:      []string{"lily", "tulip"},
		Location:   domain.Coordinate{Latitude: 12.9, Longitude: 77.58},
		OccurredAt: eventTime,
	}
	require.NoError(t, p.PublishUnmetDemand(context.Background(), event))

	require.Len(t, fw.msgs, 1)
	assert.Equal(t, "lily", string(fw.msgs[0].Key))
	assert.Equal(t, EventUnmetDemand, string(fw.msgs[0].Headers[0].Value))
}

func TestPublisher_WriteError(t *testing.T) {
	p := newPublisherWithWriter(&fakeWriter{err: errors.New("leader not available")})

	err := p.PublishDispatch(context.Background(), domain.DispatchEvent{SellerID: "M1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")
}

func TestPublisher_Close(t *testing.T) {
	fw := &fakeWriter{}
	require.NoError(t, newPublisherWithWriter(fw).Close())
	assert.True(t, fw.closed)
}

func TestNewPublisher_Validation(t *testing.T) {
	_, err := NewPublisher(nil, "topic")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewPublisher([]string{"localhost:9092"}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err := NewPublisher([]string{"localhost:9092"}, "vendee.events")
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}
