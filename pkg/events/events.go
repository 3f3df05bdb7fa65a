package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/diagnosis/taipei-trip/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
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

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// NoopBus drops every event. Used when NATS_URL is unset.
type NoopBus struct{}

func (NoopBus) Publish(context.Context, string, interface{}) error { return nil }
func (NoopBus) Close() error                                       { return nil }

// Event subjects
const (
	BookingStaged  = "booking.staged"
	BookingCleared = "booking.cleared"
	OrderCreated   = "order.created"
	OrderDeclined  = "order.declined"
)

// Event payloads
type BookingStagedEvent struct {
	UserID       int64  `json:"user_id"`
	AttractionID int64  `json:"attraction_id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Price        int    `json:"price"`
}

type BookingClearedEvent struct {
	UserID    int64     `json:"user_id"`
	ClearedAt time.Time `json:"cleared_at"`
}

type OrderEvent struct {
	OrderNumber  string    `json:"order_number"`
	UserID       int64     `json:"user_id"`
	AttractionID int64     `json:"attraction_id"`
	Price        int       `json:"price"`
	Status       int       `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
