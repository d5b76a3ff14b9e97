// Package customers provides the customer linking and lookup domain module.
package customers

import (
	"tejwal_backend/internal/customers/handler"
	"tejwal_backend/internal/customers/repository"
	"tejwal_backend/internal/customers/service"
	apphttp "tejwal_backend/internal/http"
	"tejwal_backend/platform/logger"
	"tejwal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the customers domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new customers module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "customers"
}

// Service returns the service layer for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	customers := ctx.Protected.Group("/customers")
	m.handler.RegisterRoutes(customers)
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/customers"))
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
