// Package email delivers rendered outbox messages through an external provider.
package email

import (
	"context"
	"time"

	"memberhub-backend/internal/config"
)

// SendRequest contains the data needed to send an email via an external provider.
type SendRequest struct {
	To      []string
	From    string // overrides the sender default when set
	Subject string
	Text    string
	HTML    string
	ReplyTo string
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}

// NewSender picks the provider configured in cfg.
func NewSender(cfg config.EmailConfig) Sender {
	switch cfg.Provider {
	case config.EmailProviderSendGrid:
		return NewSendGridSender(cfg.SendGridAPIKey, cfg.From, cfg.FromName)
	case config.EmailProviderResend:
		return NewResendSender(cfg.ResendAPIKey, formatFrom(cfg.FromName, cfg.From))
	default:
		return NewNoopSender()
	}
}

func formatFrom(name, addr string) string {
	if name == "" {
		return addr
	}
	return name + " <" + addr + ">"
}
