// Package linker adapts the customers service to the interface the quote
// lifecycle consumes, keeping customer types out of the quotes service layer.
package linker

import (
	"context"
	"time"

	customersvc "tejwal_backend/internal/customers/service"
	quotesvc "tejwal_backend/internal/quotes/service"

	"github.com/google/uuid"
)

type CustomerLinker struct {
	svc *customersvc.Service
}

func New(svc *customersvc.Service) *CustomerLinker {
	return &CustomerLinker{svc: svc}
}

// Link resolves the customer for a quote submission.
func (l *CustomerLinker) Link(ctx context.Context, name, phoneNumber string, email, company *string) (quotesvc.LinkedCustomer, error) {
	c, err := l.svc.FindOrCreate(ctx, customersvc.LinkInput{
		Name:    name,
		Phone:   phoneNumber,
		Email:   email,
		Company: company,
	})
	if err != nil {
		return quotesvc.LinkedCustomer{}, err
	}
	return quotesvc.LinkedCustomer{ID: c.ID, Phone: c.Phone}, nil
}

// TouchLastQuoteDate records quote activity on the customer.
func (l *CustomerLinker) TouchLastQuoteDate(ctx context.Context, id uuid.UUID, at time.Time) error {
	return l.svc.TouchLastQuoteDate(ctx, id, at)
}

// Compile-time check against the consuming interface.
var _ quotesvc.CustomerLinker = (*CustomerLinker)(nil)
