package service

import (
	"fmt"
	"time"

	"tejwal_backend/internal/audit"
	"tejwal_backend/internal/quotes/repository"
	"tejwal_backend/internal/quotes/transport"
	"tejwal_backend/platform/apperr"

	"github.com/google/uuid"
)

// authorizeActor enforces the ownership rule shared by every mutation:
// the actor must be active and either an admin or the quote's creator.
func authorizeActor(actor transport.Actor, ownerID uuid.UUID) error {
	if actor.ID == uuid.Nil {
		return apperr.Unauthorized("authentication required")
	}
	if !actor.Active {
		return apperr.Unauthorized("account is inactive")
	}
	if !actor.IsAdmin() && actor.ID != ownerID {
		return apperr.Forbidden("quote belongs to another user")
	}
	return nil
}

// transitionSources lists the statuses each target status may be entered from.
// RevertToDraft deliberately excludes Draft itself; the other rows follow the
// same table.
var transitionSources = map[transport.QuoteStatus][]transport.QuoteStatus{
	transport.QuoteStatusSent:      {transport.QuoteStatusDraft},
	transport.QuoteStatusApproved:  {transport.QuoteStatusDraft, transport.QuoteStatusSent},
	transport.QuoteStatusCancelled: {transport.QuoteStatusDraft, transport.QuoteStatusSent, transport.QuoteStatusApproved},
	transport.QuoteStatusDraft:     {transport.QuoteStatusSent, transport.QuoteStatusApproved, transport.QuoteStatusCancelled},
}

func canTransition(from, to transport.QuoteStatus) bool {
	for _, s := range transitionSources[to] {
		if s == from {
			return true
		}
	}
	return false
}

// applyTransition mutates the quote struct for a lifecycle change. Reverting
// to Draft keeps the forward timestamps as history; only new forward moves
// stamp fresh times.
func applyTransition(q *repository.Quote, target transport.QuoteStatus, now time.Time) error {
	from := transport.QuoteStatus(q.Status)
	if !canTransition(from, target) {
		return apperr.InvalidState(fmt.Sprintf("quote in status %s cannot move to %s", q.Status, target))
	}
	switch target {
	case transport.QuoteStatusSent:
		q.SentAt = &now
	case transport.QuoteStatusApproved:
		q.ApprovedAt = &now
	case transport.QuoteStatusCancelled:
		q.CancelledAt = &now
	}
	q.Status = string(target)
	q.UpdatedAt = now
	return nil
}

// auditActionForTransition maps a lifecycle move onto the audit vocabulary.
func auditActionForTransition(target transport.QuoteStatus) string {
	switch target {
	case transport.QuoteStatusSent:
		return audit.ActionSendQuote
	case transport.QuoteStatusApproved:
		return audit.ActionApproveQuote
	case transport.QuoteStatusCancelled:
		return audit.ActionCancelQuote
	case transport.QuoteStatusDraft:
		return audit.ActionRevertToDraft
	}
	return ""
}
