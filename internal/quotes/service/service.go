// Package service implements the quote lifecycle manager: creation with
// atomic number assignment, draft editing, the status state machine,
// delivery enqueueing, and send-attempt recording.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tejwal_backend/internal/audit"
	"tejwal_backend/internal/events"
	"tejwal_backend/internal/quotes/repository"
	"tejwal_backend/internal/quotes/transport"
	"tejwal_backend/platform/apperr"
	"tejwal_backend/platform/db"
	"tejwal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	quoteNumberConstraint = "quotes_quote_number_key"
	numberAssignAttempts  = 3
	defaultPageSize       = 20
	maxPageSize           = 100
)

// LinkedCustomer is the linker's answer: the stable customer id plus the
// normalized phone number the quote snapshots.
type LinkedCustomer struct {
	ID    uuid.UUID
	Phone string
}

// CustomerLinker resolves the customer record a quote attaches to.
type CustomerLinker interface {
	Link(ctx context.Context, name, phoneNumber string, email, company *string) (LinkedCustomer, error)
	TouchLastQuoteDate(ctx context.Context, id uuid.UUID, at time.Time) error
}

// AuditLogger appends audit entries without ever failing the business write.
type AuditLogger interface {
	AppendBestEffort(ctx context.Context, action string, userID uuid.UUID, quoteID *uuid.UUID, metadata map[string]interface{})
}

// DeliveryEnqueuer hands a quote to the background delivery pipeline.
type DeliveryEnqueuer interface {
	EnqueueQuoteDelivery(ctx context.Context, quoteID uuid.UUID, sentTo string) error
}

type Service struct {
	repo         *repository.Repository
	customers    CustomerLinker
	auditor      AuditLogger
	delivery     DeliveryEnqueuer
	bus          events.Bus
	log          *logger.Logger
	shareBaseURL string
	now          func() time.Time
}

func New(repo *repository.Repository, customers CustomerLinker, auditor AuditLogger, delivery DeliveryEnqueuer, bus events.Bus, log *logger.Logger, shareBaseURL string) *Service {
	return &Service{
		repo:         repo,
		customers:    customers,
		auditor:      auditor,
		delivery:     delivery,
		bus:          bus,
		log:          log,
		shareBaseURL: shareBaseURL,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Create persists a new Draft quote with an atomically assigned number,
// links the customer, and optionally enqueues an immediate delivery.
func (s *Service) Create(ctx context.Context, actor transport.Actor, req transport.CreateQuoteRequest) (*transport.QuoteResponse, error) {
	if err := authorizeActor(actor, actor.ID); err != nil {
		return nil, err
	}

	flightReqs := filterFlights(req.Flights)
	hotelReqs := filterHotels(req.Hotels)
	serviceReqs := filterServices(req.Services)
	totals := CalculateTotals(flightReqs, hotelReqs, serviceReqs, req.MarkupCents)

	linked, err := s.customers.Link(ctx, req.CustomerName, req.CustomerPhone, req.CustomerEmail, req.CustomerCompany)
	if err != nil {
		return nil, err
	}

	now := s.now()
	year := now.Year()
	q := &repository.Quote{
		ID:                 uuid.New(),
		CustomerID:         &linked.ID,
		CustomerName:       req.CustomerName,
		CustomerPhone:      linked.Phone,
		Destination:        req.Destination,
		Adults:             req.Adults,
		Children:           req.Children,
		Infants:            req.Infants,
		Notes:              req.Notes,
		TotalFlightsCents:  totals.TotalFlightsCents,
		TotalHotelsCents:   totals.TotalHotelsCents,
		TotalServicesCents: totals.TotalServicesCents,
		MarkupCents:        totals.MarkupCents,
		GrandTotalCents:    totals.GrandTotalCents,
		Status:             string(transport.QuoteStatusDraft),
		CreatedBy:          actor.ID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	flights := buildFlightModels(q.ID, flightReqs)
	hotels := buildHotelModels(q.ID, hotelReqs)
	serviceLines := buildServiceModels(q.ID, serviceReqs)

	// The unique index on quote_number is the safety net under the
	// read-max-then-insert assignment. Retries re-read the sequence.
	assigned := false
	for attempt := 0; attempt < numberAssignAttempts; attempt++ {
		last, err := s.repo.LastQuoteNumber(ctx, quoteNumberPrefix(year))
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to read quote sequence", err)
		}
		number, err := nextQuoteNumber(last, year)
		if err != nil {
			return nil, err
		}
		q.QuoteNumber = number

		err = s.repo.CreateWithLines(ctx, q, flights, hotels, serviceLines)
		if err == nil {
			assigned = true
			break
		}
		if db.IsUniqueViolation(err, quoteNumberConstraint) {
			continue
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to create quote", err)
	}
	if !assigned {
		return nil, apperr.SequenceConflict("could not assign a unique quote number, please retry")
	}

	if err := s.customers.TouchLastQuoteDate(ctx, linked.ID, now); err != nil {
		s.log.Warn("failed to touch customer last quote date", "customer_id", linked.ID, "error", err)
	}

	s.auditor.AppendBestEffort(ctx, audit.ActionCreateQuote, actor.ID, &q.ID, map[string]interface{}{
		"quoteNumber":     q.QuoteNumber,
		"customerName":    q.CustomerName,
		"grandTotalCents": q.GrandTotalCents,
	})
	s.bus.Publish(ctx, events.QuoteCreated{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     q.ID,
		QuoteNumber: q.QuoteNumber,
		CustomerID:  linked.ID,
		ActorID:     actor.ID,
	})

	if req.SendImmediately {
		if err := s.delivery.EnqueueQuoteDelivery(ctx, q.ID, q.CustomerPhone); err != nil {
			s.log.Warn("failed to enqueue immediate delivery", "quote_id", q.ID, "error", err)
		}
	}

	return buildQuoteResponse(q, flights, hotels, serviceLines), nil
}

// Update replaces a Draft quote's contents and child lines in one
// transaction, recomputing totals and re-linking the customer.
func (s *Service) Update(ctx context.Context, actor transport.Actor, id uuid.UUID, req transport.UpdateQuoteRequest) (*transport.QuoteResponse, error) {
	q, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeActor(actor, q.CreatedBy); err != nil {
		return nil, err
	}
	if q.Status != string(transport.QuoteStatusDraft) {
		return nil, apperr.InvalidState(fmt.Sprintf("quote in status %s cannot be edited", q.Status))
	}

	flightReqs := filterFlights(req.Flights)
	hotelReqs := filterHotels(req.Hotels)
	serviceReqs := filterServices(req.Services)
	totals := CalculateTotals(flightReqs, hotelReqs, serviceReqs, req.MarkupCents)

	linked, err := s.customers.Link(ctx, req.CustomerName, req.CustomerPhone, req.CustomerEmail, req.CustomerCompany)
	if err != nil {
		return nil, err
	}

	q.CustomerID = &linked.ID
	q.CustomerName = req.CustomerName
	q.CustomerPhone = linked.Phone
	q.Destination = req.Destination
	q.Adults = req.Adults
	q.Children = req.Children
	q.Infants = req.Infants
	q.Notes = req.Notes
	q.TotalFlightsCents = totals.TotalFlightsCents
	q.TotalHotelsCents = totals.TotalHotelsCents
	q.TotalServicesCents = totals.TotalServicesCents
	q.MarkupCents = totals.MarkupCents
	q.GrandTotalCents = totals.GrandTotalCents
	q.UpdatedAt = s.now()

	flights := buildFlightModels(q.ID, flightReqs)
	hotels := buildHotelModels(q.ID, hotelReqs)
	serviceLines := buildServiceModels(q.ID, serviceReqs)

	if err := s.repo.ReplaceWithLines(ctx, q, flights, hotels, serviceLines); err != nil {
		return nil, mapReplaceError(err)
	}

	s.auditor.AppendBestEffort(ctx, audit.ActionUpdateQuote, actor.ID, &q.ID, map[string]interface{}{
		"quoteNumber":     q.QuoteNumber,
		"grandTotalCents": q.GrandTotalCents,
	})
	s.bus.Publish(ctx, events.QuoteUpdated{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     q.ID,
		QuoteNumber: q.QuoteNumber,
		ActorID:     actor.ID,
	})

	return buildQuoteResponse(q, flights, hotels, serviceLines), nil
}

// mapReplaceError translates a draft edit failure. A status that moved under
// the edit is a lifecycle conflict, not a server fault.
func mapReplaceError(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return apperr.NotFound("quote not found")
	case errors.Is(err, repository.ErrStatusChanged):
		return apperr.InvalidState("quote status changed during edit, reload and retry")
	default:
		return apperr.Wrap(apperr.KindInternal, "failed to update quote", err)
	}
}

// SetDocument registers the object key of an externally rendered quote
// document. Delivery attaches the document when one is registered.
func (s *Service) SetDocument(ctx context.Context, actor transport.Actor, id uuid.UUID, key string) (*transport.QuoteResponse, error) {
	q, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeActor(actor, q.CreatedBy); err != nil {
		return nil, err
	}

	if err := s.repo.SetDocumentKey(ctx, id, key); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("quote not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to set quote document", err)
	}
	q.DocumentKey = &key

	s.auditor.AppendBestEffort(ctx, audit.ActionUpdateQuote, actor.ID, &q.ID, map[string]interface{}{
		"quoteNumber": q.QuoteNumber,
		"documentKey": key,
	})
	return s.loadFullResponse(ctx, q)
}

// ChangeStatus runs one lifecycle transition and records it.
func (s *Service) ChangeStatus(ctx context.Context, actor transport.Actor, id uuid.UUID, target transport.QuoteStatus) (*transport.QuoteResponse, error) {
	q, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeActor(actor, q.CreatedBy); err != nil {
		return nil, err
	}

	oldStatus := q.Status
	if err := applyTransition(q, target, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateLifecycle(ctx, q); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("quote not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to update quote status", err)
	}

	s.auditor.AppendBestEffort(ctx, auditActionForTransition(target), actor.ID, &q.ID, map[string]interface{}{
		"quoteNumber": q.QuoteNumber,
		"from":        oldStatus,
		"to":          string(target),
	})
	s.bus.Publish(ctx, events.QuoteStatusChanged{
		BaseEvent:    events.NewBaseEvent(),
		QuoteID:      q.ID,
		QuoteNumber:  q.QuoteNumber,
		OldStatus:    oldStatus,
		NewStatus:    string(target),
		ActorID:      actor.ID,
		OwnerID:      q.CreatedBy,
		CustomerName: q.CustomerName,
		GrandTotal:   q.GrandTotalCents,
	})

	return s.loadFullResponse(ctx, q)
}

// Delete removes a quote that has not reached a terminal decision. Audit rows
// reference the quote by id only and survive the delete.
func (s *Service) Delete(ctx context.Context, actor transport.Actor, id uuid.UUID) error {
	q, err := s.getQuote(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeActor(actor, q.CreatedBy); err != nil {
		return err
	}
	if q.Status != string(transport.QuoteStatusDraft) && q.Status != string(transport.QuoteStatusSent) {
		return apperr.InvalidState(fmt.Sprintf("quote in status %s cannot be deleted", q.Status))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("quote not found")
		}
		return apperr.Wrap(apperr.KindInternal, "failed to delete quote", err)
	}

	s.auditor.AppendBestEffort(ctx, audit.ActionDeleteQuote, actor.ID, &q.ID, map[string]interface{}{
		"quoteNumber": q.QuoteNumber,
		"status":      q.Status,
	})
	return nil
}

// RequestSend validates the quote and hands it to the background delivery
// pipeline. The outcome lands on the quote record via RecordSendAttempt.
func (s *Service) RequestSend(ctx context.Context, actor transport.Actor, id uuid.UUID) (*transport.SendRequestedResponse, error) {
	q, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeActor(actor, q.CreatedBy); err != nil {
		return nil, err
	}
	if q.CustomerPhone == "" {
		return nil, apperr.Validation("quote has no destination phone number")
	}
	if q.Status == string(transport.QuoteStatusCancelled) {
		return nil, apperr.InvalidState("quote in status Cancelled cannot be sent")
	}

	if err := s.delivery.EnqueueQuoteDelivery(ctx, q.ID, q.CustomerPhone); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to enqueue delivery", err)
	}
	return &transport.SendRequestedResponse{QuoteID: q.ID, SentTo: q.CustomerPhone, Enqueued: true}, nil
}

// GetByID returns the full quote with child lines.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.QuoteResponse, error) {
	q, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.loadFullResponse(ctx, q)
}

// List returns a filtered, paginated quote listing.
func (s *Service) List(ctx context.Context, req transport.ListQuotesRequest) (*transport.QuoteListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	quotes, total, err := s.repo.List(ctx, repository.ListFilters{
		Status: req.Status,
		Search: req.Search,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list quotes", err)
	}

	items := make([]transport.QuoteSummary, 0, len(quotes))
	for _, q := range quotes {
		items = append(items, transport.QuoteSummary{
			ID:              q.ID,
			QuoteNumber:     q.QuoteNumber,
			CustomerName:    q.CustomerName,
			CustomerPhone:   q.CustomerPhone,
			Destination:     q.Destination,
			GrandTotalCents: q.GrandTotalCents,
			Status:          transport.QuoteStatus(q.Status),
			CreatedBy:       q.CreatedBy,
			CreatedAt:       q.CreatedAt,
			UpdatedAt:       q.UpdatedAt,
		})
	}

	totalPages := (total + pageSize - 1) / pageSize
	return &transport.QuoteListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// ShareQR renders a PNG QR code pointing at the public viewer URL.
func (s *Service) ShareQR(ctx context.Context, id uuid.UUID) ([]byte, error) {
	q, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/quotes/%s", s.shareBaseURL, q.ID)
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to render QR code", err)
	}
	return png, nil
}

func (s *Service) getQuote(ctx context.Context, id uuid.UUID) (*repository.Quote, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("quote not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load quote", err)
	}
	return q, nil
}

func (s *Service) loadFullResponse(ctx context.Context, q *repository.Quote) (*transport.QuoteResponse, error) {
	flights, err := s.repo.GetFlights(ctx, q.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load flight segments", err)
	}
	hotels, err := s.repo.GetHotels(ctx, q.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load hotel stays", err)
	}
	serviceLines, err := s.repo.GetServices(ctx, q.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load service lines", err)
	}
	return buildQuoteResponse(q, flights, hotels, serviceLines), nil
}

func buildFlightModels(quoteID uuid.UUID, reqs []transport.FlightSegmentRequest) []repository.FlightSegment {
	out := make([]repository.FlightSegment, 0, len(reqs))
	for _, f := range reqs {
		out = append(out, repository.FlightSegment{
			ID:          uuid.New(),
			QuoteID:     quoteID,
			Airline:     f.Airline,
			FromAirport: f.FromAirport,
			ToAirport:   f.ToAirport,
			DepartsAt:   f.DepartsAt,
			CostCents:   f.CostCents,
		})
	}
	return out
}

func buildHotelModels(quoteID uuid.UUID, reqs []transport.HotelStayRequest) []repository.HotelStay {
	out := make([]repository.HotelStay, 0, len(reqs))
	for _, h := range reqs {
		out = append(out, repository.HotelStay{
			ID:        uuid.New(),
			QuoteID:   quoteID,
			City:      h.City,
			HotelName: h.HotelName,
			RoomType:  h.RoomType,
			CheckIn:   h.CheckIn,
			CheckOut:  h.CheckOut,
			CostCents: h.CostCents,
		})
	}
	return out
}

func buildServiceModels(quoteID uuid.UUID, reqs []transport.ServiceLineRequest) []repository.ServiceLine {
	out := make([]repository.ServiceLine, 0, len(reqs))
	for _, sl := range reqs {
		qty := sl.Quantity
		if qty < 1 {
			qty = 1
		}
		out = append(out, repository.ServiceLine{
			ID:            uuid.New(),
			QuoteID:       quoteID,
			Name:          sl.Name,
			Quantity:      qty,
			UnitCostCents: sl.UnitCostCents,
			TotalCents:    serviceLineTotal(sl),
		})
	}
	return out
}

func buildQuoteResponse(q *repository.Quote, flights []repository.FlightSegment, hotels []repository.HotelStay, serviceLines []repository.ServiceLine) *transport.QuoteResponse {
	resp := &transport.QuoteResponse{
		ID:                 q.ID,
		QuoteNumber:        q.QuoteNumber,
		CustomerID:         q.CustomerID,
		CustomerName:       q.CustomerName,
		CustomerPhone:      q.CustomerPhone,
		Destination:        q.Destination,
		Adults:             q.Adults,
		Children:           q.Children,
		Infants:            q.Infants,
		Notes:              q.Notes,
		TotalFlightsCents:  q.TotalFlightsCents,
		TotalHotelsCents:   q.TotalHotelsCents,
		TotalServicesCents: q.TotalServicesCents,
		MarkupCents:        q.MarkupCents,
		GrandTotalCents:    q.GrandTotalCents,
		Status:             transport.QuoteStatus(q.Status),
		DocumentKey:        q.DocumentKey,
		SentTo:             q.SentTo,
		LastSendStatus:     q.LastSendStatus,
		LastSendError:      q.LastSendError,
		CreatedBy:          q.CreatedBy,
		CreatedAt:          q.CreatedAt,
		UpdatedAt:          q.UpdatedAt,
		SentAt:             q.SentAt,
		ApprovedAt:         q.ApprovedAt,
		CancelledAt:        q.CancelledAt,
		Flights:            make([]transport.FlightSegmentResponse, 0, len(flights)),
		Hotels:             make([]transport.HotelStayResponse, 0, len(hotels)),
		Services:           make([]transport.ServiceLineResponse, 0, len(serviceLines)),
	}
	for _, f := range flights {
		resp.Flights = append(resp.Flights, transport.FlightSegmentResponse{
			ID:          f.ID,
			Airline:     f.Airline,
			FromAirport: f.FromAirport,
			ToAirport:   f.ToAirport,
			DepartsAt:   f.DepartsAt,
			CostCents:   f.CostCents,
		})
	}
	for _, h := range hotels {
		resp.Hotels = append(resp.Hotels, transport.HotelStayResponse{
			ID:        h.ID,
			City:      h.City,
			HotelName: h.HotelName,
			RoomType:  h.RoomType,
			CheckIn:   h.CheckIn,
			CheckOut:  h.CheckOut,
			CostCents: h.CostCents,
		})
	}
	for _, sl := range serviceLines {
		resp.Services = append(resp.Services, transport.ServiceLineResponse{
			ID:            sl.ID,
			Name:          sl.Name,
			Quantity:      sl.Quantity,
			UnitCostCents: sl.UnitCostCents,
			TotalCents:    sl.TotalCents,
		})
	}
	return resp
}
