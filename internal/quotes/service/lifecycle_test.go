package service

import (
	"testing"
	"time"

	"tejwal_backend/internal/quotes/repository"
	"tejwal_backend/internal/quotes/transport"
	"tejwal_backend/platform/apperr"

	"github.com/google/uuid"
)

func draftQuote(owner uuid.UUID) *repository.Quote {
	return &repository.Quote{
		ID:        uuid.New(),
		Status:    string(transport.QuoteStatusDraft),
		CreatedBy: owner,
	}
}

func TestTransitionTableClosure(t *testing.T) {
	all := []transport.QuoteStatus{
		transport.QuoteStatusDraft,
		transport.QuoteStatusSent,
		transport.QuoteStatusApproved,
		transport.QuoteStatusCancelled,
	}
	allowed := map[[2]transport.QuoteStatus]bool{
		{transport.QuoteStatusDraft, transport.QuoteStatusSent}:         true,
		{transport.QuoteStatusDraft, transport.QuoteStatusApproved}:     true,
		{transport.QuoteStatusDraft, transport.QuoteStatusCancelled}:    true,
		{transport.QuoteStatusSent, transport.QuoteStatusApproved}:      true,
		{transport.QuoteStatusSent, transport.QuoteStatusCancelled}:     true,
		{transport.QuoteStatusSent, transport.QuoteStatusDraft}:         true,
		{transport.QuoteStatusApproved, transport.QuoteStatusCancelled}: true,
		{transport.QuoteStatusApproved, transport.QuoteStatusDraft}:     true,
		{transport.QuoteStatusCancelled, transport.QuoteStatusDraft}:    true,
	}

	for _, from := range all {
		for _, to := range all {
			got := canTransition(from, to)
			want := allowed[[2]transport.QuoteStatus{from, to}]
			if got != want {
				t.Fatalf("transition %s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestApplyTransitionStampsTimestamps(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	q := draftQuote(uuid.New())

	if err := applyTransition(q, transport.QuoteStatusSent, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Status != string(transport.QuoteStatusSent) {
		t.Fatalf("expected status Sent, got %s", q.Status)
	}
	if q.SentAt == nil || !q.SentAt.Equal(now) {
		t.Fatalf("expected sent_at stamped with %v, got %v", now, q.SentAt)
	}

	later := now.Add(time.Hour)
	if err := applyTransition(q, transport.QuoteStatusApproved, later); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.ApprovedAt == nil || !q.ApprovedAt.Equal(later) {
		t.Fatalf("expected approved_at stamped with %v, got %v", later, q.ApprovedAt)
	}
}

func TestRevertToDraftKeepsForwardTimestamps(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	q := draftQuote(uuid.New())

	if err := applyTransition(q, transport.QuoteStatusSent, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := applyTransition(q, transport.QuoteStatusApproved, now.Add(time.Hour)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := applyTransition(q, transport.QuoteStatusDraft, now.Add(2*time.Hour)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.Status != string(transport.QuoteStatusDraft) {
		t.Fatalf("expected status Draft after revert, got %s", q.Status)
	}
	if q.SentAt == nil || q.ApprovedAt == nil {
		t.Fatal("expected forward timestamps to survive a revert")
	}
}

func TestApplyTransitionRejectsIllegalMove(t *testing.T) {
	q := draftQuote(uuid.New())
	q.Status = string(transport.QuoteStatusCancelled)

	err := applyTransition(q, transport.QuoteStatusApproved, time.Now())
	if err == nil {
		t.Fatal("expected error approving a cancelled quote")
	}
	if !apperr.Is(err, apperr.KindInvalidState) {
		t.Fatalf("expected invalid state error, got %v", err)
	}
	if q.Status != string(transport.QuoteStatusCancelled) {
		t.Fatalf("quote status mutated on rejected transition: %s", q.Status)
	}
}

func TestApplyTransitionRejectsSameStatus(t *testing.T) {
	q := draftQuote(uuid.New())
	if err := applyTransition(q, transport.QuoteStatusDraft, time.Now()); err == nil {
		t.Fatal("expected error transitioning Draft to Draft")
	}
}

func TestAuthorizeActorOwnership(t *testing.T) {
	owner := uuid.New()

	if err := authorizeActor(transport.Actor{ID: owner, Role: "Sales", Active: true}, owner); err != nil {
		t.Fatalf("owner should be authorized, got %v", err)
	}
	if err := authorizeActor(transport.Actor{ID: uuid.New(), Role: "Admin", Active: true}, owner); err != nil {
		t.Fatalf("admin should be authorized on any quote, got %v", err)
	}

	err := authorizeActor(transport.Actor{ID: uuid.New(), Role: "Sales", Active: true}, owner)
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for non-owner sales actor, got %v", err)
	}

	err = authorizeActor(transport.Actor{ID: owner, Role: "Admin", Active: false}, owner)
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized for inactive actor, got %v", err)
	}

	err = authorizeActor(transport.Actor{}, owner)
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized for anonymous actor, got %v", err)
	}
}

func TestAuditActionForTransition(t *testing.T) {
	cases := map[transport.QuoteStatus]string{
		transport.QuoteStatusSent:      "SEND_QUOTE",
		transport.QuoteStatusApproved:  "APPROVE_QUOTE",
		transport.QuoteStatusCancelled: "CANCEL_QUOTE",
		transport.QuoteStatusDraft:     "REVERT_TO_DRAFT",
	}
	for target, want := range cases {
		if got := auditActionForTransition(target); got != want {
			t.Fatalf("transition to %s: expected action %s, got %s", target, want, got)
		}
	}
}
