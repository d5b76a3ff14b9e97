package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tejwal_backend/internal/quotes/repository"
	"tejwal_backend/internal/quotes/service"
	"tejwal_backend/platform/logger"
	"tejwal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// newTestEngine wires the handler onto a bare engine. The service never
// reaches the database in these tests because request validation rejects
// the input first.
func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.New(repository.New(nil), nil, nil, nil, nil, logger.New("test"), "")
	h := New(svc, nil, validator.New())

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/quotes"))
	return engine
}

func doJSON(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestSetDocumentRejectsInvalidQuoteID(t *testing.T) {
	engine := newTestEngine()

	rec := doJSON(engine, http.MethodPut, "/quotes/not-a-uuid/document", `{"documentKey":"quotes/q.pdf"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for a malformed quote id, got %d", rec.Code)
	}
}

func TestSetDocumentRequiresDocumentKey(t *testing.T) {
	engine := newTestEngine()

	rec := doJSON(engine, http.MethodPut, "/quotes/7b0f4ff1-9c80-4a6e-a2a5-1de1f8e3f8aa/document", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for a missing document key, got %d", rec.Code)
	}
}
