package service

import (
	"testing"

	"tejwal_backend/platform/apperr"
)

func TestNextQuoteNumberFirstOfYear(t *testing.T) {
	got, err := nextQuoteNumber("", 2026)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Q-2026-000001" {
		t.Fatalf("expected Q-2026-000001, got %s", got)
	}
}

func TestNextQuoteNumberIncrements(t *testing.T) {
	got, err := nextQuoteNumber("Q-2026-000041", 2026)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Q-2026-000042" {
		t.Fatalf("expected Q-2026-000042, got %s", got)
	}
}

func TestNextQuoteNumberWidensPastSixDigits(t *testing.T) {
	got, err := nextQuoteNumber("Q-2026-999999", 2026)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Q-2026-1000000" {
		t.Fatalf("expected Q-2026-1000000, got %s", got)
	}
}

func TestNextQuoteNumberMalformedIsHardError(t *testing.T) {
	for _, last := range []string{"Q-2026", "X-2026-000001", "Q-2026-abc", "garbage"} {
		_, err := nextQuoteNumber(last, 2026)
		if err == nil {
			t.Fatalf("expected error for malformed number %q", last)
		}
		if !apperr.Is(err, apperr.KindInternal) {
			t.Fatalf("expected internal error for %q, got %v", last, err)
		}
	}
}

func TestQuoteNumberPrefix(t *testing.T) {
	if got := quoteNumberPrefix(2026); got != "Q-2026-" {
		t.Fatalf("expected Q-2026-, got %s", got)
	}
}
