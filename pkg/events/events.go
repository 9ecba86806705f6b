package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/sandnico/rsvp-service/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// NoopEventBus is used when no broker is configured. Change notifications
// are best-effort, so running without one is a supported mode.
type NoopEventBus struct{}

func NewNoopEventBus() *NoopEventBus { return &NoopEventBus{} }

func (n *NoopEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	return nil
}

func (n *NoopEventBus) Subscribe(subject string, handler func(msg *Message)) error { return nil }

func (n *NoopEventBus) Close() error { return nil }

// Subjects for guest-list change notifications.
const (
	GuestConfirmed = "guests.confirmed"
	GuestUpdated   = "guests.updated"
	GuestDeleted   = "guests.deleted"
)

type GuestConfirmedEvent struct {
	GuestID   int64     `json:"guest_id"`
	Name      string    `json:"name"`
	Attending bool      `json:"attending"`
	CreatedAt time.Time `json:"created_at"`
}

type GuestUpdatedEvent struct {
	GuestID   int64     `json:"guest_id"`
	Name      string    `json:"name"`
	Attending bool      `json:"attending"`
	UpdatedAt time.Time `json:"updated_at"`
}

type GuestDeletedEvent struct {
	GuestID   int64     `json:"guest_id"`
	DeletedAt time.Time `json:"deleted_at"`
}
