package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStatusChanged reports that a quote's status moved between the caller's
// read and the locked write. Callers match it with errors.Is.
var ErrStatusChanged = errors.New("quote status changed concurrently")

// Quote is the database model for a quote. Monetary values are integer cents.
type Quote struct {
	ID                 uuid.UUID
	QuoteNumber        string
	CustomerID         *uuid.UUID
	CustomerName       string
	CustomerPhone      string
	Destination        string
	Adults             int
	Children           int
	Infants            int
	Notes              string
	TotalFlightsCents  int64
	TotalHotelsCents   int64
	TotalServicesCents int64
	MarkupCents        int64
	GrandTotalCents    int64
	Status             string
	DocumentKey        *string
	SentTo             *string
	LastSendStatus     *string
	LastSendError      *string
	CreatedBy          uuid.UUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
	SentAt             *time.Time
	ApprovedAt         *time.Time
	CancelledAt        *time.Time
}

// FlightSegment is the database model for a flight line.
type FlightSegment struct {
	ID          uuid.UUID
	QuoteID     uuid.UUID
	Airline     string
	FromAirport string
	ToAirport   string
	DepartsAt   *time.Time
	CostCents   int64
	SortOrder   int
}

// HotelStay is the database model for a hotel line.
type HotelStay struct {
	ID        uuid.UUID
	QuoteID   uuid.UUID
	City      string
	HotelName string
	RoomType  string
	CheckIn   *time.Time
	CheckOut  *time.Time
	CostCents int64
	SortOrder int
}

// ServiceLine is the database model for an ancillary service line.
type ServiceLine struct {
	ID            uuid.UUID
	QuoteID       uuid.UUID
	Name          string
	Quantity      int
	UnitCostCents int64
	TotalCents    int64
	SortOrder     int
}

// ListFilters narrows the quote listing.
type ListFilters struct {
	Status    string
	Search    string
	CreatedBy *uuid.UUID
	Limit     int
	Offset    int
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const quoteColumns = `id, quote_number, customer_id, customer_name, customer_phone,
	destination, adults, children, infants, notes,
	total_flights_cents, total_hotels_cents, total_services_cents, markup_cents, grand_total_cents,
	status, document_key, sent_to, last_send_status, last_send_error,
	created_by, created_at, updated_at, sent_at, approved_at, cancelled_at`

func scanQuote(row pgx.Row) (*Quote, error) {
	var q Quote
	err := row.Scan(
		&q.ID, &q.QuoteNumber, &q.CustomerID, &q.CustomerName, &q.CustomerPhone,
		&q.Destination, &q.Adults, &q.Children, &q.Infants, &q.Notes,
		&q.TotalFlightsCents, &q.TotalHotelsCents, &q.TotalServicesCents, &q.MarkupCents, &q.GrandTotalCents,
		&q.Status, &q.DocumentKey, &q.SentTo, &q.LastSendStatus, &q.LastSendError,
		&q.CreatedBy, &q.CreatedAt, &q.UpdatedAt, &q.SentAt, &q.ApprovedAt, &q.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// LastQuoteNumber returns the highest stored quote number for the given
// prefix, or the empty string when no quote exists for it yet. Ordering by
// length before value keeps the comparison numeric once sequences widen past
// six digits; all numbers under one prefix share the same fixed head.
func (r *Repository) LastQuoteNumber(ctx context.Context, prefix string) (string, error) {
	var number string
	err := r.pool.QueryRow(ctx,
		`SELECT quote_number FROM quotes WHERE quote_number LIKE $1 ORDER BY length(quote_number) DESC, quote_number DESC LIMIT 1`,
		prefix+"%",
	).Scan(&number)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query last quote number: %w", err)
	}
	return number, nil
}

// GetByID returns a single quote. pgx.ErrNoRows passes through for the
// service layer to translate.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Quote, error) {
	return scanQuote(r.pool.QueryRow(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id))
}

// CreateWithLines inserts the quote and all child lines in one transaction.
// The unique index on quote_number surfaces concurrent number collisions.
func (r *Repository) CreateWithLines(ctx context.Context, q *Quote, flights []FlightSegment, hotels []HotelStay, services []ServiceLine) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO quotes (
			id, quote_number, customer_id, customer_name, customer_phone,
			destination, adults, children, infants, notes,
			total_flights_cents, total_hotels_cents, total_services_cents, markup_cents, grand_total_cents,
			status, created_by, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
		q.ID, q.QuoteNumber, q.CustomerID, q.CustomerName, q.CustomerPhone,
		q.Destination, q.Adults, q.Children, q.Infants, q.Notes,
		q.TotalFlightsCents, q.TotalHotelsCents, q.TotalServicesCents, q.MarkupCents, q.GrandTotalCents,
		q.Status, q.CreatedBy, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertLines(ctx, tx, q.ID, flights, hotels, services); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ReplaceWithLines rewrites the quote's editable fields and replaces the full
// child line set. The parent row is locked FOR UPDATE so concurrent edits
// serialize instead of interleaving deletes and inserts.
func (r *Repository) ReplaceWithLines(ctx context.Context, q *Quote, flights []FlightSegment, hotels []HotelStay, services []ServiceLine) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var current string
	if err := tx.QueryRow(ctx, `SELECT status FROM quotes WHERE id = $1 FOR UPDATE`, q.ID).Scan(&current); err != nil {
		return err
	}
	if current != q.Status {
		return fmt.Errorf("%w: quote %s is now %s", ErrStatusChanged, q.ID, current)
	}

	_, err = tx.Exec(ctx, `
		UPDATE quotes SET
			customer_id = $2, customer_name = $3, customer_phone = $4,
			destination = $5, adults = $6, children = $7, infants = $8, notes = $9,
			total_flights_cents = $10, total_hotels_cents = $11, total_services_cents = $12,
			markup_cents = $13, grand_total_cents = $14, updated_at = $15
		WHERE id = $1`,
		q.ID, q.CustomerID, q.CustomerName, q.CustomerPhone,
		q.Destination, q.Adults, q.Children, q.Infants, q.Notes,
		q.TotalFlightsCents, q.TotalHotelsCents, q.TotalServicesCents,
		q.MarkupCents, q.GrandTotalCents, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update quote: %w", err)
	}

	for _, table := range []string{"flight_segments", "hotel_stays", "service_lines"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE quote_id = $1`, q.ID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if err := insertLines(ctx, tx, q.ID, flights, hotels, services); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertLines(ctx context.Context, tx pgx.Tx, quoteID uuid.UUID, flights []FlightSegment, hotels []HotelStay, services []ServiceLine) error {
	for i, f := range flights {
		_, err := tx.Exec(ctx, `
			INSERT INTO flight_segments (id, quote_id, airline, from_airport, to_airport, departs_at, cost_cents, sort_order)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			f.ID, quoteID, f.Airline, f.FromAirport, f.ToAirport, f.DepartsAt, f.CostCents, i,
		)
		if err != nil {
			return fmt.Errorf("insert flight segment: %w", err)
		}
	}
	for i, h := range hotels {
		_, err := tx.Exec(ctx, `
			INSERT INTO hotel_stays (id, quote_id, city, hotel_name, room_type, check_in, check_out, cost_cents, sort_order)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			h.ID, quoteID, h.City, h.HotelName, h.RoomType, h.CheckIn, h.CheckOut, h.CostCents, i,
		)
		if err != nil {
			return fmt.Errorf("insert hotel stay: %w", err)
		}
	}
	for i, s := range services {
		_, err := tx.Exec(ctx, `
			INSERT INTO service_lines (id, quote_id, name, quantity, unit_cost_cents, total_cents, sort_order)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			s.ID, quoteID, s.Name, s.Quantity, s.UnitCostCents, s.TotalCents, i,
		)
		if err != nil {
			return fmt.Errorf("insert service line: %w", err)
		}
	}
	return nil
}

// GetFlights returns the flight lines of a quote in stored order.
func (r *Repository) GetFlights(ctx context.Context, quoteID uuid.UUID) ([]FlightSegment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, quote_id, airline, from_airport, to_airport, departs_at, cost_cents, sort_order
		FROM flight_segments WHERE quote_id = $1 ORDER BY sort_order`, quoteID)
	if err != nil {
		return nil, fmt.Errorf("query flight segments: %w", err)
	}
	defer rows.Close()

	var out []FlightSegment
	for rows.Next() {
		var f FlightSegment
		if err := rows.Scan(&f.ID, &f.QuoteID, &f.Airline, &f.FromAirport, &f.ToAirport, &f.DepartsAt, &f.CostCents, &f.SortOrder); err != nil {
			return nil, fmt.Errorf("scan flight segment: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetHotels returns the hotel lines of a quote in stored order.
func (r *Repository) GetHotels(ctx context.Context, quoteID uuid.UUID) ([]HotelStay, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, quote_id, city, hotel_name, room_type, check_in, check_out, cost_cents, sort_order
		FROM hotel_stays WHERE quote_id = $1 ORDER BY sort_order`, quoteID)
	if err != nil {
		return nil, fmt.Errorf("query hotel stays: %w", err)
	}
	defer rows.Close()

	var out []HotelStay
	for rows.Next() {
		var h HotelStay
		if err := rows.Scan(&h.ID, &h.QuoteID, &h.City, &h.HotelName, &h.RoomType, &h.CheckIn, &h.CheckOut, &h.CostCents, &h.SortOrder); err != nil {
			return nil, fmt.Errorf("scan hotel stay: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// GetServices returns the service lines of a quote in stored order.
func (r *Repository) GetServices(ctx context.Context, quoteID uuid.UUID) ([]ServiceLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, quote_id, name, quantity, unit_cost_cents, total_cents, sort_order
		FROM service_lines WHERE quote_id = $1 ORDER BY sort_order`, quoteID)
	if err != nil {
		return nil, fmt.Errorf("query service lines: %w", err)
	}
	defer rows.Close()

	var out []ServiceLine
	for rows.Next() {
		var s ServiceLine
		if err := rows.Scan(&s.ID, &s.QuoteID, &s.Name, &s.Quantity, &s.UnitCostCents, &s.TotalCents, &s.SortOrder); err != nil {
			return nil, fmt.Errorf("scan service line: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// List returns a page of quotes matching the filters plus the total count.
func (r *Repository) List(ctx context.Context, f ListFilters) ([]Quote, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	idx := 1

	if f.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", idx))
		args = append(args, f.Status)
		idx++
	}
	if f.Search != "" {
		where = append(where, fmt.Sprintf("(quote_number ILIKE $%d OR customer_name ILIKE $%d OR destination ILIKE $%d)", idx, idx, idx))
		args = append(args, "%"+f.Search+"%")
		idx++
	}
	if f.CreatedBy != nil {
		where = append(where, fmt.Sprintf("created_by = $%d", idx))
		args = append(args, *f.CreatedBy)
		idx++
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quotes WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count quotes: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	rows, err := r.pool.Query(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE `+cond+
			fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	var out []Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan quote: %w", err)
		}
		out = append(out, *q)
	}
	return out, total, rows.Err()
}

// UpdateLifecycle persists a status transition with its timestamps.
func (r *Repository) UpdateLifecycle(ctx context.Context, q *Quote) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE quotes SET status = $2, sent_at = $3, approved_at = $4, cancelled_at = $5, updated_at = $6
		WHERE id = $1`,
		q.ID, q.Status, q.SentAt, q.ApprovedAt, q.CancelledAt, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update quote lifecycle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateSendOutcome persists the result of a delivery attempt.
func (r *Repository) UpdateSendOutcome(ctx context.Context, q *Quote) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE quotes SET status = $2, sent_at = $3, sent_to = $4, last_send_status = $5, last_send_error = $6, updated_at = $7
		WHERE id = $1`,
		q.ID, q.Status, q.SentAt, q.SentTo, q.LastSendStatus, q.LastSendError, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update quote send outcome: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetDocumentKey records the object key of an externally rendered document.
func (r *Repository) SetDocumentKey(ctx context.Context, id uuid.UUID, key string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE quotes SET document_key = $2, updated_at = now() WHERE id = $1`, id, key)
	if err != nil {
		return fmt.Errorf("set document key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a quote. Child lines go with it via ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
