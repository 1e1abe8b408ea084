package mq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/exercise-tracker/apiserver/config"
	"github.com/exercise-tracker/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	channel string
	data    []byte
	attrs   map[string]string
}

type fakeBackend struct {
	sent   []published
	err    error
	closed bool
}

func (f *fakeBackend) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, published{channel: channel, data: data, attrs: attrs})
	return "msg-1", nil
}

func (f *fakeBackend) Subscribe(ctx context.Context, _ string, handler Handler) error {
	for i, p := range f.sent {
		if err := handler(ctx, Message{ID: string(rune('a' + i)), Data: p.data, Attributes: p.attrs}); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeBackend) Close() error {
	f.closed = true
	return nil
}

func TestPublishEventRoundTrip(t *testing.T) {
	backend := &fakeBackend{}
	queue := New(backend, "exercise-events")
	event := types.Event{
		ID:         "evt-1",
		Type:       types.EventExerciseAdded,
		UserID:     "3",
		Username:   "alice",
		Exercise:   &types.Exercise{Description: "run", Duration: 30, Date: "Sun Jan 15 2023"},
		OccurredAt: time.Date(2023, 1, 15, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, queue.PublishEvent(context.Background(), event))
	require.Len(t, backend.sent, 1)
	assert.Equal(t, "exercise-events", backend.sent[0].channel)
	assert.Equal(t, types.EventExerciseAdded, backend.sent[0].attrs[AttrEventType])
	assert.Equal(t, "3", backend.sent[0].attrs[AttrOrderingKey])

	var got []types.Event
	err := queue.Subscribe(context.Background(), func(_ context.Context, msg Message) error {
		decoded, err := DecodeEvent(msg)
		got = append(got, decoded)
		return err
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, event, got[0])

	require.NoError(t, queue.Close())
	assert.True(t, backend.closed)
}

func TestPublishEventWrapsBackendError(t *testing.T) {
	boom := errors.New("connection reset")
	queue := New(&fakeBackend{err: boom}, "events")

	err := queue.PublishEvent(context.Background(), types.Event{Type: types.EventUserCreated})
	assert.ErrorIs(t, err, boom)
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	_, err := DecodeEvent(Message{ID: "x", Data: []byte("{")})
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	_, err := Open(context.Background(), config.MQConfig{})
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = Open(context.Background(), config.MQConfig{Backend: "kafka"})
	assert.EqualError(t, err, `unknown MQ_BACKEND "kafka"`)

	_, err = Open(context.Background(), config.MQConfig{Backend: BackendRabbitMQ})
	assert.ErrorContains(t, err, "rabbitmq url is required")

	_, err = Open(context.Background(), config.MQConfig{Backend: BackendPubSub})
	assert.ErrorContains(t, err, "pubsub project id is required")
}
