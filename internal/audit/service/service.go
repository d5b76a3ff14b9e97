package service

import (
	"context"
	"strings"
	"time"

	"tejwal_backend/internal/audit/actions"
	"tejwal_backend/internal/audit/repository"
	"tejwal_backend/internal/audit/transport"
	"tejwal_backend/platform/apperr"
	"tejwal_backend/platform/logger"

	"github.com/google/uuid"
)

// Service implements the audit logger. Writes are best-effort from the
// caller's perspective: the lifecycle logs a failure and proceeds rather than
// rolling back the business transaction the entry describes.
type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

// New creates a new audit service.
func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Append writes one audit entry. Unknown actions are stored verbatim and
// logged as a monitoring signal, never dropped.
func (s *Service) Append(ctx context.Context, action string, userID uuid.UUID, quoteID *uuid.UUID, metadata map[string]interface{}) error {
	if !actions.IsKnownAction(action) {
		s.log.Warn("unknown audit action", "action", action)
	}

	entry := &repository.Entry{
		ID:        uuid.New(),
		Action:    action,
		UserID:    userID,
		QuoteID:   quoteID,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
	return s.repo.Append(ctx, entry)
}

// AppendBestEffort writes an entry and logs instead of returning a failure.
func (s *Service) AppendBestEffort(ctx context.Context, action string, userID uuid.UUID, quoteID *uuid.UUID, metadata map[string]interface{}) {
	if err := s.Append(ctx, action, userID, quoteID, metadata); err != nil {
		s.log.AuditWriteFailed(action, err)
	}
}

// List returns audit entries matching the request filters.
func (s *Service) List(ctx context.Context, req transport.ListAuditRequest) (*transport.AuditListResponse, error) {
	params := repository.ListParams{
		Action:   strings.TrimSpace(req.Action),
		Page:     max(req.Page, 1),
		PageSize: clampPageSize(req.PageSize),
	}

	if req.UserID != "" {
		id, err := uuid.Parse(req.UserID)
		if err != nil {
			return nil, apperr.BadRequest("invalid userId filter")
		}
		params.UserID = &id
	}
	if req.QuoteID != "" {
		id, err := uuid.Parse(req.QuoteID)
		if err != nil {
			return nil, apperr.BadRequest("invalid quoteId filter")
		}
		params.QuoteID = &id
	}

	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]transport.AuditEntryResponse, len(result.Items))
	for i, e := range result.Items {
		items[i] = toResponse(e)
	}

	return &transport.AuditListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// ListByQuote returns the full activity trail for one quote.
func (s *Service) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]transport.AuditEntryResponse, error) {
	entries, err := s.repo.ListByQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	items := make([]transport.AuditEntryResponse, len(entries))
	for i, e := range entries {
		items[i] = toResponse(e)
	}
	return items, nil
}

func toResponse(e repository.Entry) transport.AuditEntryResponse {
	return transport.AuditEntryResponse{
		ID:        e.ID,
		Action:    e.Action,
		UserID:    e.UserID,
		QuoteID:   e.QuoteID,
		Metadata:  e.Metadata,
		CreatedAt: e.CreatedAt,
	}
}

func clampPageSize(size int) int {
	if size < 1 {
		return 50
	}
	if size > 200 {
		return 200
	}
	return size
}
