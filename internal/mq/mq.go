package mq

import (
	"context"
	"errors"
	"fmt"

	"github.com/exercise-tracker/apiserver/config"
)

// Broker backends accepted in MQ_BACKEND.
const (
	BackendRabbitMQ = "rabbitmq"
	BackendPubSub   = "pubsub"
)

// ErrDisabled is returned by Open when no broker is configured.
var ErrDisabled = errors.New("message broker disabled")

// Attribute keys set on every published event.
const (
	AttrEventType   = "event_type"
	AttrContentType = "content_type"
	AttrOrderingKey = "ordering_key"
)

// Message represents a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. Return an error to signal a retry/nack.
type Handler func(ctx context.Context, msg Message) error

// Backend defines the broker-agnostic operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// MQ binds a backend to the channel carrying exercise tracker events.
type MQ struct {
	backend Backend
	channel string
}

// New constructs an MQ for the provided backend and channel.
func New(backend Backend, channel string) *MQ {
	return &MQ{backend: backend, channel: channel}
}

// Open builds the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg config.MQConfig) (*MQ, error) {
	var (
		backend Backend
		err     error
	)
	switch cfg.Backend {
	case "":
		return nil, ErrDisabled
	case BackendRabbitMQ:
		backend, err = NewRabbitMQClient(cfg.RabbitMQ)
	case BackendPubSub:
		backend, err = NewPubSubClient(ctx, cfg.PubSub)
	default:
		return nil, fmt.Errorf("unknown MQ_BACKEND %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Backend, err)
	}
	return New(backend, cfg.Channel), nil
}

// Channel returns the channel events are published to.
func (m *MQ) Channel() string {
	return m.channel
}

// Subscribe consumes messages from the events channel until ctx ends.
func (m *MQ) Subscribe(ctx context.Context, handler Handler) error {
	return m.backend.Subscribe(ctx, m.channel, handler)
}

// Close closes the underlying backend.
func (m *MQ) Close() error {
	return m.backend.Close()
}
