package handler

import (
	"net/http"

	"tejwal_backend/internal/audit/service"
	"tejwal_backend/internal/audit/transport"
	"tejwal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the audit trail read model.
type Handler struct {
	svc *service.Service
}

// New creates a new audit handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterAdminRoutes registers the admin-only audit listing.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListAuditRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
