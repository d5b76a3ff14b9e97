package audit

import (
	"tejwal_backend/internal/audit/handler"
	"tejwal_backend/internal/audit/repository"
	"tejwal_backend/internal/audit/service"
	apphttp "tejwal_backend/internal/http"
	"tejwal_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the audit domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new audit module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc)

	return &Module{handler: h, service: svc}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "audit"
}

// Service returns the service layer for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/audit"))
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
