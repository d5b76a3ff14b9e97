package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is the database model for one audit log row. Rows are append-only;
// no update or delete path exists.
type Entry struct {
	ID        uuid.UUID              `db:"id"`
	Action    string                 `db:"action"`
	UserID    uuid.UUID              `db:"user_id"`
	QuoteID   *uuid.UUID             `db:"quote_id"`
	Metadata  map[string]interface{} `db:"metadata"`
	CreatedAt time.Time              `db:"created_at"`
}

// ListParams contains parameters for listing audit entries.
type ListParams struct {
	Action   string
	UserID   *uuid.UUID
	QuoteID  *uuid.UUID
	Page     int
	PageSize int
}

// ListResult contains the paginated result of listing audit entries.
type ListResult struct {
	Items      []Entry
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Repository provides database operations for the audit trail.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new audit repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Append inserts a new audit entry.
func (r *Repository) Append(ctx context.Context, entry *Entry) error {
	query := `
		INSERT INTO audit_logs (id, action, user_id, quote_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := r.pool.Exec(ctx, query,
		entry.ID, entry.Action, entry.UserID, entry.QuoteID, entry.Metadata, entry.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// List retrieves audit entries with filtering and pagination, newest first.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	var actionParam interface{}
	if params.Action != "" {
		actionParam = params.Action
	}
	var userParam interface{}
	if params.UserID != nil {
		userParam = *params.UserID
	}
	var quoteParam interface{}
	if params.QuoteID != nil {
		quoteParam = *params.QuoteID
	}

	baseQuery := `
		FROM audit_logs
		WHERE ($1::text IS NULL OR action = $1)
			AND ($2::uuid IS NULL OR user_id = $2)
			AND ($3::uuid IS NULL OR quote_id = $3)
	`
	args := []interface{}{actionParam, userParam, quoteParam}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count audit entries: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	selectQuery := `
		SELECT id, action, user_id, quote_id, metadata, created_at
		` + baseQuery + `
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var items []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Action, &e.UserID, &e.QuoteID, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit entries: %w", err)
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// ListByQuote retrieves the full activity trail for one quote, oldest first.
func (r *Repository) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]Entry, error) {
	query := `
		SELECT id, action, user_id, quote_id, metadata, created_at
		FROM audit_logs WHERE quote_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quote audit trail: %w", err)
	}
	defer rows.Close()

	var items []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Action, &e.UserID, &e.QuoteID, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quote audit trail: %w", err)
	}
	return items, nil
}
