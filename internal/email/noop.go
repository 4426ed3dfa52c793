package email

import (
	"context"
	"time"

	"github.com/google/uuid"

	"memberhub-backend/internal/logger"
)

// NoopSender logs instead of sending. Used in development and when no provider is configured.
type NoopSender struct{}

func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

func (s *NoopSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	logger.Info("Email delivery skipped (noop sender)", "to", req.To, "subject", req.Subject)
	return SendResult{MessageID: "noop-" + uuid.NewString(), SentAt: time.Now().UTC()}, nil
}
