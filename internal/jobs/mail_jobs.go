package jobs

import (
	"context"
	"fmt"
	"time"

	"memberhub-backend/internal/email"
	"memberhub-backend/internal/logger"
)

// DeliverMail drains due outbox entries through the configured sender
func (jr *JobRunner) DeliverMail() {
	jr.runWithRecovery(JobDeliverMail, jr.deliverMail)
}

func (jr *JobRunner) deliverMail(ctx context.Context) error {
	cfg := jr.config.Email
	base := time.Duration(cfg.RetryBaseSecs) * time.Second
	maxDelay := time.Duration(cfg.RetryMaxSecs) * time.Second

	now := jr.now()
	due, err := jr.mail.ListDue(ctx, now, cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to list due mail: %w", err)
	}

	sent, failed := 0, 0
	for i := range due {
		msg := &due[i]
		msg.MarkAttempt(now)

		res, sendErr := jr.sender.Send(ctx, email.SendRequest{
			To:      msg.To,
			Subject: msg.Subject,
			Text:    msg.TextBody,
			HTML:    msg.HTMLBody,
		})
		if sendErr != nil {
			msg.MarkFailed(now, sendErr, base, maxDelay)
			failed++
			logger.Warn("Mail delivery failed",
				"mailID", msg.ID,
				"kind", msg.Kind,
				"attempts", msg.Attempts,
				"status", msg.Status,
				"error", sendErr)
		} else {
			sentAt := res.SentAt
			if sentAt.IsZero() {
				sentAt = now
			}
			msg.MarkSent(sentAt, res.MessageID)
			sent++
		}

		// A lost update means the entry is retried on the next run
		if err := jr.mail.Update(ctx, msg); err != nil {
			logger.Error("Failed to update mail entry", "mailID", msg.ID, "error", err)
		}
	}

	logger.Info("Mail delivery pass finished", "due", len(due), "sent", sent, "failed", failed)
	return nil
}
