package transport

import (
	"time"

	"github.com/google/uuid"
)

// CustomerResponse is the API representation of a customer.
type CustomerResponse struct {
	ID            uuid.UUID  `json:"id"`
	Phone         string     `json:"phone"`
	Name          string     `json:"name"`
	Email         *string    `json:"email,omitempty"`
	Company       *string    `json:"company,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	LastQuoteDate *time.Time `json:"lastQuoteDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ListCustomersRequest carries list filters from query parameters.
type ListCustomersRequest struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// CustomerListResponse is a paginated customer listing.
type CustomerListResponse struct {
	Items      []CustomerResponse `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
}
