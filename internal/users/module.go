// Package users provides admin-side account management.
package users

import (
	apphttp "tejwal_backend/internal/http"
	"tejwal_backend/internal/users/handler"
	"tejwal_backend/internal/users/repository"
	"tejwal_backend/internal/users/service"
	"tejwal_backend/platform/logger"
	"tejwal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the users domain module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates a new users module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, auditor service.AuditLogger, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, auditor, log)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "users"
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/users"))
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
