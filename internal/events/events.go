package events

import (
	"context"
	"time"
)

// Type names a domain event.
type Type string

const (
	TypeDailySaved    Type = "daily.saved"
	TypeDailyUnlocked Type = "daily.unlocked"
	TypeInvoicePaid   Type = "invoice.paid"
	TypeInvoiceUnpaid Type = "invoice.unpaid"
)

// Event is a notification emitted after a mutation has been committed.
type Event struct {
	Type       Type      `json:"type"`
	Key        string    `json:"key"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New builds an event stamped with the current time.
func New(t Type, key string, payload any) Event {
	return Event{
		Type:       t,
		Key:        key,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers events to downstream consumers.
//
//go:generate mockgen -source=events.go -destination=publisher_mock.go -package=events
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
