package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tejwal_backend/platform/logger"
)

// DefaultTimeout caps one whole delivery attempt, document try and text
// fallback together.
const DefaultTimeout = 15 * time.Second

// MessageSender is the transport a delivery runs over.
type MessageSender interface {
	SendMessage(ctx context.Context, phoneNumber, message string) error
	SendDocument(ctx context.Context, phoneNumber, documentURL, fileName, caption string) error
}

// Outcome is the result of one delivery attempt.
type Outcome struct {
	Success bool
	Channel string // "document" or "text"
	Error   string
}

// Payload describes what to deliver.
type Payload struct {
	Phone       string
	Message     string
	DocumentURL string
	FileName    string
}

// Sender runs the document-first, text-fallback delivery policy.
type Sender struct {
	transport MessageSender
	timeout   time.Duration
	log       *logger.Logger
}

func NewSender(transport MessageSender, timeout time.Duration, log *logger.Logger) *Sender {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Sender{transport: transport, timeout: timeout, log: log}
}

// Deliver attempts the document first when one is available, falls back to
// plain text, and always returns a terminal outcome. The deadline spans the
// whole attempt; exceeding it reports the timeout as the failure reason.
func (s *Sender) Deliver(ctx context.Context, p Payload) Outcome {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if p.DocumentURL != "" {
		err := s.transport.SendDocument(ctx, p.Phone, p.DocumentURL, p.FileName, p.Message)
		if err == nil {
			return Outcome{Success: true, Channel: "document"}
		}
		if timedOut(ctx, err) {
			return Outcome{Channel: "document", Error: s.timeoutMessage()}
		}
		s.log.Warn("document delivery failed, falling back to text", "phone", p.Phone, "error", err)
	}

	err := s.transport.SendMessage(ctx, p.Phone, p.Message)
	if err == nil {
		return Outcome{Success: true, Channel: "text"}
	}
	if timedOut(ctx, err) {
		return Outcome{Channel: "text", Error: s.timeoutMessage()}
	}
	return Outcome{Channel: "text", Error: err.Error()}
}

func (s *Sender) timeoutMessage() string {
	return fmt.Sprintf("Timeout (%ds)", int(s.timeout.Seconds()))
}

func timedOut(ctx context.Context, err error) bool {
	return errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded)
}
