package email

import (
	"context"
	"fmt"

	"estatehub_backend/internal/logger"

	"gopkg.in/gomail.v2"
)

// GomailSender delivers mail over SMTP with gomail.
type GomailSender struct {
	cfg    Config
	dialer *gomail.Dialer
}

// NewSender returns an SMTP sender, or a logging no-op when SMTP is not configured.
func NewSender(cfg Config) Sender {
	if !cfg.Enabled() {
		return NoopSender{}
	}
	return &GomailSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
	}
}

func (s *GomailSender) Send(ctx context.Context, email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.FromEmail, s.cfg.FromName)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)
	if email.Body != "" {
		m.SetBody("text/plain", email.Body)
		if email.HTMLBody != "" {
			m.AddAlternative("text/html", email.HTMLBody)
		}
	} else {
		m.SetBody("text/html", email.HTMLBody)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	logger.CtxInfo(ctx, "email sent", "to", email.To, "subject", email.Subject)
	return nil
}

func (s *GomailSender) SendReceipt(ctx context.Context, to string, data ReceiptData) error {
	if data.SiteURL == "" {
		data.SiteURL = s.cfg.SiteURL
	}
	html, err := render("receipt", data)
	if err != nil {
		return err
	}
	return s.Send(ctx, &Email{
		To:       []string{to},
		Subject:  fmt.Sprintf("Payment receipt %s", data.MerchantTransactionID),
		HTMLBody: html,
	})
}

func (s *GomailSender) SendWelcome(ctx context.Context, to string, data WelcomeData) error {
	if data.SiteURL == "" {
		data.SiteURL = s.cfg.SiteURL
	}
	html, err := render("welcome", data)
	if err != nil {
		return err
	}
	return s.Send(ctx, &Email{To: []string{to}, Subject: "Welcome to EstateHub", HTMLBody: html})
}

type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, email *Email) error {
	logger.CtxDebug(ctx, "email skipped, smtp not configured", "subject", email.Subject)
	return nil
}

func (NoopSender) SendReceipt(ctx context.Context, to string, data ReceiptData) error {
	logger.CtxDebug(ctx, "receipt skipped, smtp not configured", "mtid", data.MerchantTransactionID)
	return nil
}

func (NoopSender) SendWelcome(ctx context.Context, to string, data WelcomeData) error {
	return nil
}
