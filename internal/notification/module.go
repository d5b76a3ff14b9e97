// Package notification subscribes to domain events and notifies the people
// who care about them. Domain modules publish events and stay ignorant of
// email providers.
package notification

import (
	"context"
	"fmt"

	"tejwal_backend/internal/email"
	"tejwal_backend/internal/events"
	usersrepo "tejwal_backend/internal/users/repository"
	"tejwal_backend/platform/logger"
)

// Module wires event subscriptions for outbound notifications.
type Module struct {
	sender email.Sender
	users  *usersrepo.Repository
	log    *logger.Logger
}

// NewModule subscribes the notification handlers on the bus. A nil sender
// disables email delivery but keeps the subscriptions alive for logging.
func NewModule(bus events.Bus, sender email.Sender, users *usersrepo.Repository, log *logger.Logger) *Module {
	m := &Module{sender: sender, users: users, log: log}

	bus.Subscribe(events.QuoteStatusChanged{}.EventName(), events.HandlerFunc(m.handleStatusChanged))

	return m
}

func (m *Module) handleStatusChanged(ctx context.Context, event events.Event) error {
	e, ok := event.(events.QuoteStatusChanged)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if e.NewStatus != "Approved" {
		return nil
	}

	owner, err := m.users.GetByID(ctx, e.OwnerID)
	if err != nil {
		return fmt.Errorf("load quote owner %s: %w", e.OwnerID, err)
	}

	if m.sender == nil {
		m.log.Info("email disabled, skipping approval notification",
			"quote_number", e.QuoteNumber, "owner", owner.Email)
		return nil
	}

	if err := m.sender.SendQuoteApprovedEmail(ctx, owner.Email, owner.Name, e.QuoteNumber, e.CustomerName, e.GrandTotal); err != nil {
		return fmt.Errorf("send approval email: %w", err)
	}

	m.log.Info("approval notification sent", "quote_number", e.QuoteNumber, "owner", owner.Email)
	return nil
}
