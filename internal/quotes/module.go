// Package quotes provides the quote lifecycle and pricing domain module.
package quotes

import (
	"context"

	"tejwal_backend/internal/events"
	apphttp "tejwal_backend/internal/http"
	"tejwal_backend/internal/quotes/handler"
	"tejwal_backend/internal/quotes/repository"
	"tejwal_backend/internal/quotes/service"
	"tejwal_backend/platform/logger"
	"tejwal_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the quotes domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// Dependencies carries the cross-module collaborators the quotes service
// needs. The adapters keep other modules' types out of the service layer.
type Dependencies struct {
	Customers  service.CustomerLinker
	Audit      service.AuditLogger
	Delivery   service.DeliveryEnqueuer
	Activities handler.ActivityReader
	Bus        events.Bus
}

// NewModule creates a new quotes module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, deps Dependencies, val *validator.Validator, log *logger.Logger, shareBaseURL string) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, deps.Customers, deps.Audit, deps.Delivery, deps.Bus, log, shareBaseURL)
	h := handler.New(svc, deps.Activities, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "quotes"
}

// Service returns the service layer for use by the delivery worker.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/quotes"))
}

// NoopEnqueuer satisfies the delivery dependency when the background queue is
// disabled. Enqueue requests are acknowledged and dropped with a warning.
type NoopEnqueuer struct {
	Log *logger.Logger
}

func (n NoopEnqueuer) EnqueueQuoteDelivery(_ context.Context, quoteID uuid.UUID, sentTo string) error {
	n.Log.Warn("delivery queue disabled, dropping send request",
		"quote_id", quoteID, "sent_to", sentTo)
	return nil
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
