package service

import (
	"context"

	"github.com/google/uuid"
)

// DeliveryInfo is the slice of a quote the delivery worker needs to compose
// and address an outbound message.
type DeliveryInfo struct {
	QuoteNumber     string
	CustomerName    string
	Destination     string
	GrandTotalCents int64
	Phone           string
	DocumentKey     *string
	Status          string
}

// DeliveryInfo loads the delivery view of a quote.
func (s *Service) DeliveryInfo(ctx context.Context, id uuid.UUID) (*DeliveryInfo, error) {
	q, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DeliveryInfo{
		QuoteNumber:     q.QuoteNumber,
		CustomerName:    q.CustomerName,
		Destination:     q.Destination,
		GrandTotalCents: q.GrandTotalCents,
		Phone:           q.CustomerPhone,
		DocumentKey:     q.DocumentKey,
		Status:          q.Status,
	}, nil
}
