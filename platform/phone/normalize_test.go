package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	got, err := NormalizeE164("+31 6 1234 5678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "+31612345678" {
		t.Fatalf("expected +31612345678, got %s", got)
	}
}

func TestNormalizeE164_DefaultRegion(t *testing.T) {
	got, err := NormalizeE164("0501234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "+966501234567" {
		t.Fatalf("expected +966501234567, got %s", got)
	}
}

func TestNormalizeE164_Empty(t *testing.T) {
	if _, err := NormalizeE164("   "); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestNormalizeE164_Garbage(t *testing.T) {
	if _, err := NormalizeE164("not-a-phone"); err == nil {
		t.Fatal("expected error for unparseable input")
	}
}

func TestNormalizeE164_Idempotent(t *testing.T) {
	first, err := NormalizeE164("+966 50 123 4567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := NormalizeE164(first)
	if err != nil {
		t.Fatalf("unexpected error on renormalize: %v", err)
	}
	if first != second {
		t.Fatalf("normalization not idempotent: %s vs %s", first, second)
	}
}
