package email

import (
	"context"
	"time"
)

type Config struct {
	SMTPHost  string
	SMTPPort  int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	SiteURL   string
}

func (c Config) Enabled() bool {
	return c.SMTPHost != "" && c.FromEmail != ""
}

type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// ReceiptData fills the payment receipt template.
type ReceiptData struct {
	UserName              string
	PackageName           string
	PropertyTitle         string
	Amount                int64 // paise
	Currency              string
	Gateway               string
	MerchantTransactionID string
	PaidAt                time.Time
	PromotedUntil         time.Time
	SiteURL               string
}

// AmountDisplay renders paise as rupees with two decimals.
func (d ReceiptData) AmountDisplay() string {
	return formatPaise(d.Amount)
}

type WelcomeData struct {
	UserName string
	UserType string
	SiteURL  string
}

type Sender interface {
	Send(ctx context.Context, email *Email) error
	SendReceipt(ctx context.Context, to string, data ReceiptData) error
	SendWelcome(ctx context.Context, to string, data WelcomeData) error
}
