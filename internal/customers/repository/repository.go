package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tejwal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const customerNotFoundMsg = "customer not found"

// Customer is the database model for a customer record, keyed by the
// normalized E.164 phone number.
type Customer struct {
	ID            uuid.UUID  `db:"id"`
	Phone         string     `db:"phone"`
	Name          string     `db:"name"`
	Email         *string    `db:"email"`
	Company       *string    `db:"company"`
	Notes         *string    `db:"notes"`
	LastQuoteDate *time.Time `db:"last_quote_date"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

// ListParams contains parameters for listing customers.
type ListParams struct {
	Search   string
	Page     int
	PageSize int
}

// ListResult contains the paginated result of listing customers.
type ListResult struct {
	Items      []Customer
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Repository provides database operations for customers.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new customers repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const customerColumns = `id, phone, name, email, company, notes, last_quote_date, created_at, updated_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Phone, &c.Name, &c.Email, &c.Company, &c.Notes, &c.LastQuoteDate, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(customerNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to scan customer: %w", err)
	}
	return &c, nil
}

// GetByID retrieves a customer by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	return scanCustomer(row)
}

// GetByPhone retrieves a customer by normalized phone number.
func (r *Repository) GetByPhone(ctx context.Context, phone string) (*Customer, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE phone = $1`, phone)
	return scanCustomer(row)
}

// Create inserts a new customer. A unique violation on the phone index is
// returned as-is so the service can re-fetch the winning row.
func (r *Repository) Create(ctx context.Context, c *Customer) error {
	query := `
		INSERT INTO customers (id, phone, name, email, company, notes, last_quote_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if _, err := r.pool.Exec(ctx, query,
		c.ID, c.Phone, c.Name, c.Email, c.Company, c.Notes, c.LastQuoteDate, c.CreatedAt, c.UpdatedAt,
	); err != nil {
		return err
	}
	return nil
}

// UpdateProfile updates the display fields of a customer (last write wins).
func (r *Repository) UpdateProfile(ctx context.Context, c *Customer) error {
	query := `
		UPDATE customers SET name = $2, email = $3, company = $4, notes = $5, updated_at = $6
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.Email, c.Company, c.Notes, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(customerNotFoundMsg)
	}
	return nil
}

// TouchLastQuoteDate stamps last_quote_date, called after a quote is persisted.
func (r *Repository) TouchLastQuoteDate(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE customers SET last_quote_date = $2, updated_at = $2 WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to touch last quote date: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(customerNotFoundMsg)
	}
	return nil
}

// CountQuotes returns how many quotes reference the customer.
func (r *Repository) CountQuotes(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quotes WHERE customer_id = $1`, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count customer quotes: %w", err)
	}
	return count, nil
}

// Delete removes a customer. The service enforces the no-quotes guard first.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(customerNotFoundMsg)
	}
	return nil
}

// List retrieves customers with search and pagination.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	var searchParam interface{}
	if params.Search != "" {
		searchParam = "%" + params.Search + "%"
	}

	baseQuery := `
		FROM customers
		WHERE ($1::text IS NULL OR name ILIKE $1 OR phone ILIKE $1 OR company ILIKE $1)
	`
	args := []interface{}{searchParam}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	selectQuery := `SELECT ` + customerColumns + baseQuery + `
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3`
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var items []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Phone, &c.Name, &c.Email, &c.Company, &c.Notes, &c.LastQuoteDate, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customers: %w", err)
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}
