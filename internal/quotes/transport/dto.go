package transport

import (
	"time"

	"github.com/google/uuid"
)

// QuoteStatus defines the lifecycle status of a quote.
type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "Draft"
	QuoteStatusSent      QuoteStatus = "Sent"
	QuoteStatusApproved  QuoteStatus = "Approved"
	QuoteStatusCancelled QuoteStatus = "Cancelled"
)

// Actor identifies who is performing a lifecycle operation. It is resolved
// from the request identity and passed explicitly into every service call so
// authorization stays pure and testable.
type Actor struct {
	ID     uuid.UUID
	Role   string
	Active bool
}

// IsAdmin reports whether the actor carries the Admin role.
func (a Actor) IsAdmin() bool { return a.Role == "Admin" }

// ── Requests ──────────────────────────────────────────────────────────────────

// FlightSegmentRequest is the input for a single flight line. A segment with
// neither airport populated is structurally empty and silently dropped.
type FlightSegmentRequest struct {
	Airline     string     `json:"airline"`
	FromAirport string     `json:"fromAirport"`
	ToAirport   string     `json:"toAirport"`
	DepartsAt   *time.Time `json:"departsAt"`
	CostCents   int64      `json:"costCents" validate:"min=0"`
}

// HotelStayRequest is the input for a single hotel line. A stay with neither
// city nor hotel name populated is structurally empty and silently dropped.
type HotelStayRequest struct {
	City      string     `json:"city"`
	HotelName string     `json:"hotelName"`
	RoomType  string     `json:"roomType"`
	CheckIn   *time.Time `json:"checkIn"`
	CheckOut  *time.Time `json:"checkOut"`
	CostCents int64      `json:"costCents" validate:"min=0"`
}

// ServiceLineRequest is the input for a single ancillary service line.
// A line without a name is silently dropped.
type ServiceLineRequest struct {
	Name          string `json:"name"`
	Quantity      int    `json:"quantity" validate:"min=0"`
	UnitCostCents int64  `json:"unitCostCents" validate:"min=0"`
}

// CreateQuoteRequest is the request body for creating a new quote.
type CreateQuoteRequest struct {
	CustomerName    string                 `json:"customerName" validate:"required,min=1,max=200"`
	CustomerPhone   string                 `json:"customerPhone" validate:"required,min=5,max=30"`
	CustomerEmail   *string                `json:"customerEmail" validate:"omitempty,email"`
	CustomerCompany *string                `json:"customerCompany" validate:"omitempty,max=200"`
	Destination     string                 `json:"destination" validate:"required,min=1,max=500"`
	Adults          int                    `json:"adults" validate:"required,min=1"`
	Children        int                    `json:"children" validate:"min=0"`
	Infants         int                    `json:"infants" validate:"min=0"`
	Notes           string                 `json:"notes"`
	MarkupCents     int64                  `json:"markupCents"`
	Flights         []FlightSegmentRequest `json:"flights" validate:"omitempty,dive"`
	Hotels          []HotelStayRequest     `json:"hotels" validate:"omitempty,dive"`
	Services        []ServiceLineRequest   `json:"services" validate:"omitempty,dive"`
	SendImmediately bool                   `json:"sendImmediately"`
}

// UpdateQuoteRequest is the request body for a full draft edit. The submitted
// line sets fully replace the stored ones.
type UpdateQuoteRequest struct {
	CustomerName    string                 `json:"customerName" validate:"required,min=1,max=200"`
	CustomerPhone   string                 `json:"customerPhone" validate:"required,min=5,max=30"`
	CustomerEmail   *string                `json:"customerEmail" validate:"omitempty,email"`
	CustomerCompany *string                `json:"customerCompany" validate:"omitempty,max=200"`
	Destination     string                 `json:"destination" validate:"required,min=1,max=500"`
	Adults          int                    `json:"adults" validate:"required,min=1"`
	Children        int                    `json:"children" validate:"min=0"`
	Infants         int                    `json:"infants" validate:"min=0"`
	Notes           string                 `json:"notes"`
	MarkupCents     int64                  `json:"markupCents"`
	Flights         []FlightSegmentRequest `json:"flights" validate:"omitempty,dive"`
	Hotels          []HotelStayRequest     `json:"hotels" validate:"omitempty,dive"`
	Services        []ServiceLineRequest   `json:"services" validate:"omitempty,dive"`
}

// ChangeStatusRequest is the request body for a lifecycle transition.
type ChangeStatusRequest struct {
	Status QuoteStatus `json:"status" validate:"required,oneof=Draft Sent Approved Cancelled"`
}

// SetDocumentRequest registers the object key of an externally rendered
// quote document so delivery can attach it.
type SetDocumentRequest struct {
	DocumentKey string `json:"documentKey" validate:"required,min=1,max=512"`
}

// ListQuotesRequest carries list filters from query parameters.
type ListQuotesRequest struct {
	Status   string `form:"status"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// CalculationRequest is the input for a server-side pricing preview.
type CalculationRequest struct {
	MarkupCents int64                  `json:"markupCents"`
	Flights     []FlightSegmentRequest `json:"flights" validate:"omitempty,dive"`
	Hotels      []HotelStayRequest     `json:"hotels" validate:"omitempty,dive"`
	Services    []ServiceLineRequest   `json:"services" validate:"omitempty,dive"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// CalculationResponse carries the derived totals. Grand total is always the
// arithmetic sum of the three subtotals plus markup.
type CalculationResponse struct {
	TotalFlightsCents  int64 `json:"totalFlightsCents"`
	TotalHotelsCents   int64 `json:"totalHotelsCents"`
	TotalServicesCents int64 `json:"totalServicesCents"`
	MarkupCents        int64 `json:"markupCents"`
	GrandTotalCents    int64 `json:"grandTotalCents"`
}

// FlightSegmentResponse is the API representation of a flight line.
type FlightSegmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	Airline     string     `json:"airline"`
	FromAirport string     `json:"fromAirport"`
	ToAirport   string     `json:"toAirport"`
	DepartsAt   *time.Time `json:"departsAt,omitempty"`
	CostCents   int64      `json:"costCents"`
}

// HotelStayResponse is the API representation of a hotel line.
type HotelStayResponse struct {
	ID        uuid.UUID  `json:"id"`
	City      string     `json:"city"`
	HotelName string     `json:"hotelName"`
	RoomType  string     `json:"roomType"`
	CheckIn   *time.Time `json:"checkIn,omitempty"`
	CheckOut  *time.Time `json:"checkOut,omitempty"`
	CostCents int64      `json:"costCents"`
}

// ServiceLineResponse is the API representation of a service line.
type ServiceLineResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Quantity      int       `json:"quantity"`
	UnitCostCents int64     `json:"unitCostCents"`
	TotalCents    int64     `json:"totalCents"`
}

// QuoteResponse is the full API representation of a quote.
type QuoteResponse struct {
	ID                 uuid.UUID               `json:"id"`
	QuoteNumber        string                  `json:"quoteNumber"`
	CustomerID         *uuid.UUID              `json:"customerId,omitempty"`
	CustomerName       string                  `json:"customerName"`
	CustomerPhone      string                  `json:"customerPhone"`
	Destination        string                  `json:"destination"`
	Adults             int                     `json:"adults"`
	Children           int                     `json:"children"`
	Infants            int                     `json:"infants"`
	Notes              string                  `json:"notes,omitempty"`
	TotalFlightsCents  int64                   `json:"totalFlightsCents"`
	TotalHotelsCents   int64                   `json:"totalHotelsCents"`
	TotalServicesCents int64                   `json:"totalServicesCents"`
	MarkupCents        int64                   `json:"markupCents"`
	GrandTotalCents    int64                   `json:"grandTotalCents"`
	Status             QuoteStatus             `json:"status"`
	DocumentKey        *string                 `json:"documentKey,omitempty"`
	SentTo             *string                 `json:"sentTo,omitempty"`
	LastSendStatus     *string                 `json:"lastSendStatus,omitempty"`
	LastSendError      *string                 `json:"lastSendError,omitempty"`
	CreatedBy          uuid.UUID               `json:"createdBy"`
	CreatedAt          time.Time               `json:"createdAt"`
	UpdatedAt          time.Time               `json:"updatedAt"`
	SentAt             *time.Time              `json:"sentAt,omitempty"`
	ApprovedAt         *time.Time              `json:"approvedAt,omitempty"`
	CancelledAt        *time.Time              `json:"cancelledAt,omitempty"`
	Flights            []FlightSegmentResponse `json:"flights"`
	Hotels             []HotelStayResponse     `json:"hotels"`
	Services           []ServiceLineResponse   `json:"services"`
}

// QuoteSummary is the list representation of a quote (no child lines).
type QuoteSummary struct {
	ID              uuid.UUID   `json:"id"`
	QuoteNumber     string      `json:"quoteNumber"`
	CustomerName    string      `json:"customerName"`
	CustomerPhone   string      `json:"customerPhone"`
	Destination     string      `json:"destination"`
	GrandTotalCents int64       `json:"grandTotalCents"`
	Status          QuoteStatus `json:"status"`
	CreatedBy       uuid.UUID   `json:"createdBy"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// QuoteListResponse is a paginated quote listing.
type QuoteListResponse struct {
	Items      []QuoteSummary `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

// SendRequestedResponse acknowledges an enqueued delivery attempt.
type SendRequestedResponse struct {
	QuoteID  uuid.UUID `json:"quoteId"`
	SentTo   string    `json:"sentTo"`
	Enqueued bool      `json:"enqueued"`
}
