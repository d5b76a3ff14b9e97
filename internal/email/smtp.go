// Package email delivers operational email over the configured SMTP server.
package email

import (
	"context"
	"fmt"
	"net"
	"time"

	"tejwal_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// Sender delivers notification email. A nil implementation means email is
// disabled.
type Sender interface {
	SendQuoteApprovedEmail(ctx context.Context, toEmail, ownerName, quoteNumber, customerName string, grandTotalCents int64) error
}

// SMTPSender sends email through a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender builds a sender from the email configuration. Returns nil
// when email delivery is disabled.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	if !cfg.GetEmailEnabled() || cfg.GetSMTPHost() == "" {
		return nil
	}
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

// SendQuoteApprovedEmail notifies the quote owner that a customer approved.
func (s *SMTPSender) SendQuoteApprovedEmail(ctx context.Context, toEmail, ownerName, quoteNumber, customerName string, grandTotalCents int64) error {
	if s == nil {
		return nil
	}

	subject := fmt.Sprintf("Quote %s approved", quoteNumber)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Quote <strong>%s</strong> for %s was approved.</p><p>Total: SAR %.2f</p>",
		ownerName, quoteNumber, customerName, float64(grandTotalCents)/100,
	)
	return s.send(ctx, toEmail, subject, body)
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
