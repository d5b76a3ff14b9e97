package transport

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntryResponse is the API representation of one audit log entry.
type AuditEntryResponse struct {
	ID        uuid.UUID              `json:"id"`
	Action    string                 `json:"action"`
	UserID    uuid.UUID              `json:"userId"`
	QuoteID   *uuid.UUID             `json:"quoteId,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// ListAuditRequest carries list filters from query parameters.
type ListAuditRequest struct {
	Action   string `form:"action"`
	UserID   string `form:"userId"`
	QuoteID  string `form:"quoteId"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// AuditListResponse is a paginated audit listing.
type AuditListResponse struct {
	Items      []AuditEntryResponse `json:"items"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"pageSize"`
	TotalPages int                  `json:"totalPages"`
}
