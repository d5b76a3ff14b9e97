// Package delivery implements outbound quote delivery over WhatsApp with a
// document-first, text-fallback policy under a single overall deadline.
package delivery

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tejwal_backend/platform/config"
	"tejwal_backend/platform/logger"
	"tejwal_backend/platform/phone"
)

// WhatsAppClient talks to a gowa-compatible WhatsApp gateway.
type WhatsAppClient struct {
	baseURL  string
	apiKey   string
	deviceID string
	http     *http.Client
	log      *logger.Logger
}

type gowaMessageRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type gowaDocumentRequest struct {
	Phone    string `json:"phone"`
	Caption  string `json:"caption"`
	Document string `json:"document"`
	FileName string `json:"fileName"`
}

// NewWhatsAppClient returns nil when no gateway URL is configured; the nil
// client rejects sends instead of panicking.
func NewWhatsAppClient(cfg config.WhatsAppConfig, log *logger.Logger) *WhatsAppClient {
	if cfg.GetWhatsAppURL() == "" {
		return nil
	}

	return &WhatsAppClient{
		baseURL:  strings.TrimRight(cfg.GetWhatsAppURL(), "/"),
		apiKey:   cfg.GetWhatsAppKey(),
		deviceID: cfg.GetWhatsAppDeviceID(),
		http:     &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

// SendMessage delivers a plain-text message.
func (c *WhatsAppClient) SendMessage(ctx context.Context, phoneNumber, message string) error {
	if c == nil {
		return fmt.Errorf("whatsapp gateway not configured")
	}

	normalized, err := gatewayPhone(phoneNumber)
	if err != nil {
		return err
	}

	return c.post(ctx, "/send/message", gowaMessageRequest{
		Phone:   normalized,
		Message: message,
	})
}

// SendDocument delivers a document by URL with a caption.
func (c *WhatsAppClient) SendDocument(ctx context.Context, phoneNumber, documentURL, fileName, caption string) error {
	if c == nil {
		return fmt.Errorf("whatsapp gateway not configured")
	}

	normalized, err := gatewayPhone(phoneNumber)
	if err != nil {
		return err
	}

	return c.post(ctx, "/send/document", gowaDocumentRequest{
		Phone:    normalized,
		Caption:  caption,
		Document: documentURL,
		FileName: fileName,
	})
}

// gatewayPhone converts an E.164 number into the bare-digit form the gateway
// expects.
func gatewayPhone(phoneNumber string) (string, error) {
	normalized, err := phone.NormalizeE164(phoneNumber)
	if err != nil {
		return "", fmt.Errorf("invalid destination phone: %w", err)
	}
	return strings.TrimPrefix(normalized, "+"), nil
}

func (c *WhatsAppClient) post(ctx context.Context, endpoint string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal whatsapp payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewBuffer(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", formatAuthHeader(c.apiKey))
	}
	if c.deviceID != "" {
		req.Header.Set("X-Device-Id", c.deviceID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("whatsapp gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return nil
}

func formatAuthHeader(apiKey string) string {
	if strings.HasPrefix(strings.ToLower(apiKey), "basic ") {
		return apiKey
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(apiKey))
	return "Basic " + encoded
}
