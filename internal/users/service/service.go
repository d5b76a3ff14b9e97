// Package service implements admin-side user provisioning. Session and token
// issuance live outside this backend; this service only manages accounts.
package service

import (
	"context"
	"errors"
	"time"

	"tejwal_backend/internal/audit"
	"tejwal_backend/internal/users/repository"
	"tejwal_backend/internal/users/transport"
	"tejwal_backend/platform/apperr"
	"tejwal_backend/platform/db"
	"tejwal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const emailUniqueConstraint = "users_email_key"

// AuditLogger appends audit entries without failing the business write.
type AuditLogger interface {
	AppendBestEffort(ctx context.Context, action string, userID uuid.UUID, quoteID *uuid.UUID, metadata map[string]interface{})
}

type Service struct {
	repo    *repository.Repository
	auditor AuditLogger
	log     *logger.Logger
}

func New(repo *repository.Repository, auditor AuditLogger, log *logger.Logger) *Service {
	return &Service{repo: repo, auditor: auditor, log: log}
}

// Create provisions a new account with a bcrypt-hashed password.
func (s *Service) Create(ctx context.Context, actorID uuid.UUID, req transport.CreateUserRequest) (*transport.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	u := &repository.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         req.Role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if db.IsUniqueViolation(err, emailUniqueConstraint) {
			return nil, apperr.Conflict("a user with this email already exists")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to create user", err)
	}

	s.auditor.AppendBestEffort(ctx, audit.ActionCreateUser, actorID, nil, map[string]interface{}{
		"email": u.Email,
		"role":  u.Role,
	})

	resp := toResponse(*u)
	return &resp, nil
}

// List returns every account.
func (s *Service) List(ctx context.Context) ([]transport.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list users", err)
	}
	out := make([]transport.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toResponse(u))
	}
	return out, nil
}

// SetActive enables or disables an account.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("user not found")
		}
		return apperr.Wrap(apperr.KindInternal, "failed to update user status", err)
	}
	return nil
}

func toResponse(u repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
