// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	platformevents "tejwal_backend/platform/events"
	"tejwal_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = platformevents.Event
	Bus         = platformevents.Bus
	Handler     = platformevents.Handler
	HandlerFunc = platformevents.HandlerFunc
	BaseEvent   = platformevents.BaseEvent
	InMemoryBus = platformevents.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = platformevents.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}

// =============================================================================
// Quote Domain Events
// =============================================================================

// QuoteCreated is published when a new quote is persisted.
type QuoteCreated struct {
	BaseEvent
	QuoteID     uuid.UUID `json:"quoteId"`
	QuoteNumber string    `json:"quoteNumber"`
	CustomerID  uuid.UUID `json:"customerId"`
	ActorID     uuid.UUID `json:"actorId"`
}

func (e QuoteCreated) EventName() string { return "quotes.quote.created" }

// QuoteUpdated is published when a draft quote's contents are replaced.
type QuoteUpdated struct {
	BaseEvent
	QuoteID     uuid.UUID `json:"quoteId"`
	QuoteNumber string    `json:"quoteNumber"`
	ActorID     uuid.UUID `json:"actorId"`
}

func (e QuoteUpdated) EventName() string { return "quotes.quote.updated" }

// QuoteStatusChanged is published on every lifecycle transition.
type QuoteStatusChanged struct {
	BaseEvent
	QuoteID      uuid.UUID `json:"quoteId"`
	QuoteNumber  string    `json:"quoteNumber"`
	OldStatus    string    `json:"oldStatus"`
	NewStatus    string    `json:"newStatus"`
	ActorID      uuid.UUID `json:"actorId"`
	OwnerID      uuid.UUID `json:"ownerId"`
	CustomerName string    `json:"customerName"`
	GrandTotal   int64     `json:"grandTotalCents"`
}

func (e QuoteStatusChanged) EventName() string { return "quotes.quote.status_changed" }

// QuoteDeliveryAttempted is published after the delivery worker records an
// outbound send attempt, success or failure.
type QuoteDeliveryAttempted struct {
	BaseEvent
	QuoteID     uuid.UUID `json:"quoteId"`
	QuoteNumber string    `json:"quoteNumber"`
	SentTo      string    `json:"sentTo"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
}

func (e QuoteDeliveryAttempted) EventName() string { return "quotes.quote.delivery_attempted" }
