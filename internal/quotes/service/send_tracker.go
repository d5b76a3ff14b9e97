package service

import (
	"context"
	"time"

	"tejwal_backend/internal/audit"
	"tejwal_backend/internal/events"
	"tejwal_backend/internal/quotes/repository"
	"tejwal_backend/internal/quotes/transport"
	"tejwal_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	sendStatusSuccess = "success"
	sendStatusFail    = "fail"
)

// SendAttempt is the delivery worker's report of one outbound attempt.
type SendAttempt struct {
	SentTo  string
	Success bool
	Error   string
}

// applySendOutcome folds an attempt into the quote record. Success stamps the
// send fields and advances Draft to Sent; any other status stays where it is.
// Failure records the error and never touches the lifecycle.
func applySendOutcome(q *repository.Quote, a SendAttempt, now time.Time) {
	sentTo := a.SentTo
	q.SentTo = &sentTo
	q.UpdatedAt = now

	if a.Success {
		status := sendStatusSuccess
		q.LastSendStatus = &status
		q.LastSendError = nil
		q.SentAt = &now
		if q.Status == string(transport.QuoteStatusDraft) {
			q.Status = string(transport.QuoteStatusSent)
		}
		return
	}

	status := sendStatusFail
	errMsg := a.Error
	q.LastSendStatus = &status
	q.LastSendError = &errMsg
}

// RecordSendAttempt is the single mutation path for delivery outcomes. It is
// called once per attempt by the delivery worker.
func (s *Service) RecordSendAttempt(ctx context.Context, quoteID uuid.UUID, attempt SendAttempt) error {
	q, err := s.getQuote(ctx, quoteID)
	if err != nil {
		return err
	}

	applySendOutcome(q, attempt, s.now())

	if err := s.repo.UpdateSendOutcome(ctx, q); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to record send attempt", err)
	}

	s.auditor.AppendBestEffort(ctx, audit.ActionSendWhatsApp, q.CreatedBy, &q.ID, map[string]interface{}{
		"quoteNumber": q.QuoteNumber,
		"sentTo":      attempt.SentTo,
		"success":     attempt.Success,
		"error":       attempt.Error,
	})
	s.bus.Publish(ctx, events.QuoteDeliveryAttempted{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     q.ID,
		QuoteNumber: q.QuoteNumber,
		SentTo:      attempt.SentTo,
		Success:     attempt.Success,
		Error:       attempt.Error,
	})
	return nil
}
