package service

import (
	"fmt"
	"testing"

	"tejwal_backend/internal/quotes/repository"
	"tejwal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func TestMapReplaceErrorStatusConflict(t *testing.T) {
	wrapped := fmt.Errorf("%w: quote %s is now Sent", repository.ErrStatusChanged, uuid.New())

	err := mapReplaceError(wrapped)
	if !apperr.Is(err, apperr.KindInvalidState) {
		t.Fatalf("expected invalid state for a concurrent status change, got %v", err)
	}
}

func TestMapReplaceErrorNotFound(t *testing.T) {
	err := mapReplaceError(pgx.ErrNoRows)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for a vanished quote, got %v", err)
	}
}

func TestMapReplaceErrorDefaultsToInternal(t *testing.T) {
	err := mapReplaceError(fmt.Errorf("connection reset"))
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal for an unclassified failure, got %v", err)
	}
}

func TestBuildQuoteResponseCarriesDocumentKey(t *testing.T) {
	key := "quotes/Q-2026-000042.pdf"
	q := &repository.Quote{
		ID:          uuid.New(),
		QuoteNumber: "Q-2026-000042",
		DocumentKey: &key,
	}

	resp := buildQuoteResponse(q, nil, nil, nil)
	if resp.DocumentKey == nil || *resp.DocumentKey != key {
		t.Fatalf("expected document key %q on the response, got %v", key, resp.DocumentKey)
	}

	q.DocumentKey = nil
	resp = buildQuoteResponse(q, nil, nil, nil)
	if resp.DocumentKey != nil {
		t.Fatalf("expected no document key before one is registered, got %q", *resp.DocumentKey)
	}
}
