package events

import (
	"context"
	"time"
)

// Event types
const (
	TransactionCreated = "transaction.created"
	TransactionUpdated = "transaction.updated"
	TransactionDeleted = "transaction.deleted"
)

// Stream names
const (
	TransactionEventsStream = "transaction.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Publisher delivers an event to a named stream or topic.
type Publisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// NopPublisher discards every event. Used when no event backend is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, any) error {
	return nil
}

// Transaction events
type TransactionCreatedEvent struct {
	TransactionID string  `json:"transactionId"`
	UserID        string  `json:"userId"`
	Amount        float64 `json:"amount"`
	Type          string  `json:"type"`
}

type TransactionUpdatedEvent struct {
	TransactionID string         `json:"transactionId"`
	UserID        string         `json:"userId"`
	Changes       map[string]any `json:"changes"`
}

type TransactionDeletedEvent struct {
	TransactionID string `json:"transactionId"`
	UserID        string `json:"userId"`
}

func newEvent(eventType string, data any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}
