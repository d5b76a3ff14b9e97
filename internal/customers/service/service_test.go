package service

import (
	"testing"

	"tejwal_backend/internal/customers/repository"
)

func strPtr(s string) *string { return &s }

func TestReconcileProfile_NoChanges(t *testing.T) {
	customer := &repository.Customer{
		Name:    "Sara Al-Harbi",
		Email:   strPtr("sara@example.com"),
		Company: strPtr("Acme Travel"),
	}

	in := LinkInput{
		Name:    "Sara Al-Harbi",
		Email:   strPtr("sara@example.com"),
		Company: strPtr("Acme Travel"),
	}

	if reconcileProfile(customer, in) {
		t.Fatal("identical input should not report a change")
	}
}

func TestReconcileProfile_UpdatesChangedFields(t *testing.T) {
	customer := &repository.Customer{
		Name:  "Sara",
		Email: strPtr("old@example.com"),
	}

	in := LinkInput{
		Name:  "Sara Al-Harbi",
		Email: strPtr("new@example.com"),
	}

	if !reconcileProfile(customer, in) {
		t.Fatal("expected change to be reported")
	}
	if customer.Name != "Sara Al-Harbi" {
		t.Fatalf("name not updated: %s", customer.Name)
	}
	if customer.Email == nil || *customer.Email != "new@example.com" {
		t.Fatalf("email not updated: %v", customer.Email)
	}
}

func TestReconcileProfile_EmptyFieldsNeverBlankStoredValues(t *testing.T) {
	customer := &repository.Customer{
		Name:    "Sara Al-Harbi",
		Email:   strPtr("sara@example.com"),
		Company: strPtr("Acme Travel"),
	}

	in := LinkInput{Name: "  ", Email: strPtr(""), Company: nil}

	if reconcileProfile(customer, in) {
		t.Fatal("empty input should not report a change")
	}
	if customer.Email == nil || *customer.Email != "sara@example.com" {
		t.Fatal("stored email was blanked by empty submission")
	}
	if customer.Company == nil || *customer.Company != "Acme Travel" {
		t.Fatal("stored company was blanked by omitted field")
	}
}

func TestReconcileProfile_SetsPreviouslyMissingField(t *testing.T) {
	customer := &repository.Customer{Name: "Sara"}

	in := LinkInput{Name: "Sara", Company: strPtr("Acme Travel")}

	if !reconcileProfile(customer, in) {
		t.Fatal("expected change when a missing field is supplied")
	}
	if customer.Company == nil || *customer.Company != "Acme Travel" {
		t.Fatalf("company not set: %v", customer.Company)
	}
}

func TestClampPageSize(t *testing.T) {
	if got := clampPageSize(0); got != 20 {
		t.Fatalf("expected default 20, got %d", got)
	}
	if got := clampPageSize(500); got != 100 {
		t.Fatalf("expected cap 100, got %d", got)
	}
	if got := clampPageSize(35); got != 35 {
		t.Fatalf("expected passthrough 35, got %d", got)
	}
}
