package email

import (
	"context"
	"fmt"
	"time"

	"github.com/resend/resend-go/v2"

	"memberhub-backend/internal/logger"
	"memberhub-backend/internal/metrics"
)

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	from := req.From
	if from == "" {
		from = s.from
	}

	params := &resend.SendEmailRequest{
		From:    from,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
		Text:    req.Text,
	}
	if req.ReplyTo != "" {
		params.ReplyTo = req.ReplyTo
	}

	start := time.Now()
	sent, err := s.client.Emails.SendWithContext(ctx, params)
	metrics.RecordExternalCall("resend", "send", time.Since(start), err)
	if err != nil {
		logger.Error("Resend send failed", "error", err, "to", req.To, "subject", req.Subject)
		return SendResult{}, fmt.Errorf("resend send failed: %w", err)
	}

	logger.Info("Resend accepted email", "messageID", sent.Id, "to", req.To)
	return SendResult{MessageID: sent.Id, SentAt: time.Now().UTC()}, nil
}
