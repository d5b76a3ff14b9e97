package service

import (
	"testing"
	"time"

	"tejwal_backend/internal/quotes/repository"
	"tejwal_backend/internal/quotes/transport"

	"github.com/google/uuid"
)

func TestApplySendOutcomeSuccessAdvancesDraft(t *testing.T) {
	now := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	q := &repository.Quote{ID: uuid.New(), Status: string(transport.QuoteStatusDraft)}

	applySendOutcome(q, SendAttempt{SentTo: "+966501234567", Success: true}, now)

	if q.Status != string(transport.QuoteStatusSent) {
		t.Fatalf("expected status Sent, got %s", q.Status)
	}
	if q.SentAt == nil || !q.SentAt.Equal(now) {
		t.Fatalf("expected sent_at %v, got %v", now, q.SentAt)
	}
	if q.SentTo == nil || *q.SentTo != "+966501234567" {
		t.Fatalf("expected sent_to recorded, got %v", q.SentTo)
	}
	if q.LastSendStatus == nil || *q.LastSendStatus != "success" {
		t.Fatalf("expected last_send_status success, got %v", q.LastSendStatus)
	}
	if q.LastSendError != nil {
		t.Fatalf("expected last_send_error cleared, got %v", *q.LastSendError)
	}
}

func TestApplySendOutcomeSuccessDoesNotRegressApproved(t *testing.T) {
	q := &repository.Quote{ID: uuid.New(), Status: string(transport.QuoteStatusApproved)}

	applySendOutcome(q, SendAttempt{SentTo: "+966501234567", Success: true}, time.Now())

	if q.Status != string(transport.QuoteStatusApproved) {
		t.Fatalf("resend regressed status to %s", q.Status)
	}
}

func TestApplySendOutcomeFailureLeavesStatus(t *testing.T) {
	prior := "success"
	q := &repository.Quote{ID: uuid.New(), Status: string(transport.QuoteStatusDraft), LastSendStatus: &prior}

	applySendOutcome(q, SendAttempt{SentTo: "+966501234567", Success: false, Error: "Timeout (15s)"}, time.Now())

	if q.Status != string(transport.QuoteStatusDraft) {
		t.Fatalf("failed attempt changed status to %s", q.Status)
	}
	if q.SentAt != nil {
		t.Fatal("failed attempt must not stamp sent_at")
	}
	if q.LastSendStatus == nil || *q.LastSendStatus != "fail" {
		t.Fatalf("expected last_send_status fail, got %v", q.LastSendStatus)
	}
	if q.LastSendError == nil || *q.LastSendError != "Timeout (15s)" {
		t.Fatalf("expected last_send_error recorded, got %v", q.LastSendError)
	}
}
