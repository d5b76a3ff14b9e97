package handler

import (
	"context"
	"net/http"

	audittransport "tejwal_backend/internal/audit/transport"
	"tejwal_backend/internal/quotes/service"
	"tejwal_backend/internal/quotes/transport"
	"tejwal_backend/platform/httpkit"
	"tejwal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidRequest = "invalid request"

// ActivityReader exposes the per-quote audit trail.
type ActivityReader interface {
	ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]audittransport.AuditEntryResponse, error)
}

// Handler handles HTTP requests for quotes.
type Handler struct {
	svc        *service.Service
	activities ActivityReader
	val        *validator.Validator
}

// New creates a new quotes handler.
func New(svc *service.Service, activities ActivityReader, val *validator.Validator) *Handler {
	return &Handler{svc: svc, activities: activities, val: val}
}

// RegisterRoutes registers the quote routes on an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.POST("/calculate", h.Calculate)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.PATCH("/:id/status", h.ChangeStatus)
	rg.PUT("/:id/document", h.SetDocument)
	rg.POST("/:id/send", h.Send)
	rg.GET("/:id/qr", h.ShareQR)
	rg.GET("/:id/activities", h.Activities)
}

func actorFrom(c *gin.Context) transport.Actor {
	ident := httpkit.GetIdentity(c)
	return transport.Actor{
		ID:     ident.UserID(),
		Role:   ident.Role(),
		Active: ident.IsActive(),
	}
}

func quoteID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid quote id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListQuotesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	result, err := h.svc.Create(c.Request.Context(), actorFrom(c), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, result)
}

func (h *Handler) Calculate(c *gin.Context) {
	var req transport.CalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	httpkit.OK(c, service.Calculate(req))
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	var req transport.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	result, err := h.svc.Update(c.Request.Context(), actorFrom(c), id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), actorFrom(c), id)) {
		return
	}

	httpkit.NoContent(c)
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	var req transport.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	result, err := h.svc.ChangeStatus(c.Request.Context(), actorFrom(c), id, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) SetDocument(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	var req transport.SetDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	result, err := h.svc.SetDocument(c.Request.Context(), actorFrom(c), id, req.DocumentKey)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Send(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	result, err := h.svc.RequestSend(c.Request.Context(), actorFrom(c), id)
	if httpkit.HandleError(c, err) {
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"success": true, "data": result})
}

func (h *Handler) ShareQR(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	png, err := h.svc.ShareQR(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) Activities(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	entries, err := h.activities.ListByQuote(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, entries)
}
