// Package service implements customer linking and lookup.
//
// Customers are deduplicated on the normalized E.164 phone number. FindOrCreate
// is idempotent per phone: the unique index on customers.phone is the actual
// safety net under concurrent first-time submissions; losing the insert race
// converges on the winning row instead of failing.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tejwal_backend/internal/customers/repository"
	"tejwal_backend/internal/customers/transport"
	"tejwal_backend/platform/apperr"
	"tejwal_backend/platform/db"
	"tejwal_backend/platform/logger"
	"tejwal_backend/platform/phone"

	"github.com/google/uuid"
)

const phoneUniqueConstraint = "customers_phone_key"

// LinkInput carries the customer snapshot submitted with a quote.
type LinkInput struct {
	Name    string
	Phone   string
	Email   *string
	Company *string
}

// Service implements the customer linker and read model.
type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

// New creates a new customers service.
func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// FindOrCreate resolves the customer for a normalized phone number, creating
// the record on first contact and reconciling display fields on repeat contact
// (last write wins).
func (s *Service) FindOrCreate(ctx context.Context, in LinkInput) (*repository.Customer, error) {
	normalized, err := phone.NormalizeE164(in.Phone)
	if err != nil {
		return nil, apperr.Validation("invalid phone number")
	}

	existing, err := s.repo.GetByPhone(ctx, normalized)
	if err == nil {
		if reconcileProfile(existing, in) {
			existing.UpdatedAt = time.Now()
			if err := s.repo.UpdateProfile(ctx, existing); err != nil {
				return nil, err
			}
		}
		return existing, nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	now := time.Now()
	customer := &repository.Customer{
		ID:        uuid.New(),
		Phone:     normalized,
		Name:      strings.TrimSpace(in.Name),
		Email:     trimmedOrNil(in.Email),
		Company:   trimmedOrNil(in.Company),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		if db.IsUniqueViolation(err, phoneUniqueConstraint) {
			// Concurrent first submission won the insert; converge on its row.
			return s.repo.GetByPhone(ctx, normalized)
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

// TouchLastQuoteDate stamps the customer's last quote date. Invoked by the
// quote lifecycle after a quote is actually persisted, not by FindOrCreate.
func (s *Service) TouchLastQuoteDate(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.repo.TouchLastQuoteDate(ctx, id, at)
}

// GetByID returns a single customer.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.CustomerResponse, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(customer)
	return &resp, nil
}

// List returns customers matching the request filters.
func (s *Service) List(ctx context.Context, req transport.ListCustomersRequest) (*transport.CustomerListResponse, error) {
	params := repository.ListParams{
		Search:   strings.TrimSpace(req.Search),
		Page:     max(req.Page, 1),
		PageSize: clampPageSize(req.PageSize),
	}

	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]transport.CustomerResponse, len(result.Items))
	for i, c := range result.Items {
		items[i] = toResponse(&c)
	}

	return &transport.CustomerListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// Delete removes a customer. A customer with quotes cannot be deleted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := s.repo.CountQuotes(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict("customer has quotes and cannot be deleted")
	}
	return s.repo.Delete(ctx, id)
}

// reconcileProfile applies non-empty submitted fields onto the stored record.
// Returns true if anything changed. An omitted or empty field never blanks a
// stored value.
func reconcileProfile(customer *repository.Customer, in LinkInput) bool {
	changed := false

	if name := strings.TrimSpace(in.Name); name != "" && name != customer.Name {
		customer.Name = name
		changed = true
	}
	if email := trimmedOrNil(in.Email); email != nil && !equalPtr(customer.Email, email) {
		customer.Email = email
		changed = true
	}
	if company := trimmedOrNil(in.Company); company != nil && !equalPtr(customer.Company, company) {
		customer.Company = company
		changed = true
	}

	return changed
}

func toResponse(c *repository.Customer) transport.CustomerResponse {
	return transport.CustomerResponse{
		ID:            c.ID,
		Phone:         c.Phone,
		Name:          c.Name,
		Email:         c.Email,
		Company:       c.Company,
		Notes:         c.Notes,
		LastQuoteDate: c.LastQuoteDate,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func clampPageSize(size int) int {
	if size < 1 {
		return 20
	}
	if size > 100 {
		return 100
	}
	return size
}
