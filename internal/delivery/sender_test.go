package delivery

import (
	"context"
	"errors"
	"testing"
	"time"

	"tejwal_backend/platform/logger"
)

type fakeTransport struct {
	docErr   error
	msgErr   error
	docCalls int
	msgCalls int
	docDelay time.Duration
	msgDelay time.Duration
}

func (f *fakeTransport) SendDocument(ctx context.Context, phone, url, name, caption string) error {
	f.docCalls++
	if f.docDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.docDelay):
		}
	}
	return f.docErr
}

func (f *fakeTransport) SendMessage(ctx context.Context, phone, message string) error {
	f.msgCalls++
	if f.msgDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.msgDelay):
		}
	}
	return f.msgErr
}

func testLogger() *logger.Logger {
	return logger.New("development")
}

func TestDeliverDocumentFirst(t *testing.T) {
	tr := &fakeTransport{}
	s := NewSender(tr, time.Second, testLogger())

	out := s.Deliver(context.Background(), Payload{
		Phone:       "+966501234567",
		Message:     "Your quote",
		DocumentURL: "https://storage.example/quote.pdf",
		FileName:    "quote.pdf",
	})

	if !out.Success || out.Channel != "document" {
		t.Fatalf("expected document success, got %+v", out)
	}
	if tr.msgCalls != 0 {
		t.Fatalf("text fallback should not run after document success, got %d calls", tr.msgCalls)
	}
}

func TestDeliverFallsBackToText(t *testing.T) {
	tr := &fakeTransport{docErr: errors.New("gateway rejected document")}
	s := NewSender(tr, time.Second, testLogger())

	out := s.Deliver(context.Background(), Payload{
		Phone:       "+966501234567",
		Message:     "Your quote",
		DocumentURL: "https://storage.example/quote.pdf",
	})

	if !out.Success || out.Channel != "text" {
		t.Fatalf("expected text fallback success, got %+v", out)
	}
	if tr.docCalls != 1 || tr.msgCalls != 1 {
		t.Fatalf("expected one document and one text attempt, got %d/%d", tr.docCalls, tr.msgCalls)
	}
}

func TestDeliverTextOnlyWithoutDocument(t *testing.T) {
	tr := &fakeTransport{}
	s := NewSender(tr, time.Second, testLogger())

	out := s.Deliver(context.Background(), Payload{Phone: "+966501234567", Message: "Your quote"})

	if !out.Success || out.Channel != "text" {
		t.Fatalf("expected text success, got %+v", out)
	}
	if tr.docCalls != 0 {
		t.Fatal("document channel used without a document")
	}
}

func TestDeliverReportsFailure(t *testing.T) {
	tr := &fakeTransport{msgErr: errors.New("number not on whatsapp")}
	s := NewSender(tr, time.Second, testLogger())

	out := s.Deliver(context.Background(), Payload{Phone: "+966501234567", Message: "Your quote"})

	if out.Success {
		t.Fatal("expected failure outcome")
	}
	if out.Error != "number not on whatsapp" {
		t.Fatalf("expected transport error recorded, got %q", out.Error)
	}
}

func TestDeliverTimeoutMessage(t *testing.T) {
	tr := &fakeTransport{msgDelay: 500 * time.Millisecond}
	s := NewSender(tr, 50*time.Millisecond, testLogger())

	out := s.Deliver(context.Background(), Payload{Phone: "+966501234567", Message: "Your quote"})

	if out.Success {
		t.Fatal("expected timeout failure")
	}
	if out.Error != s.timeoutMessage() {
		t.Fatalf("expected timeout message %q, got %q", s.timeoutMessage(), out.Error)
	}
}

func TestDefaultTimeoutMessageFormat(t *testing.T) {
	s := NewSender(&fakeTransport{}, 0, testLogger())
	if got := s.timeoutMessage(); got != "Timeout (15s)" {
		t.Fatalf("expected Timeout (15s), got %q", got)
	}
}
