package jobs

import (
	"context"
	"fmt"

	"memberhub-backend/internal/logger"
)

// ExpireMemberships moves active members past their expiry date to expired
func (jr *JobRunner) ExpireMemberships() {
	jr.runWithRecovery(JobExpireMemberships, func(ctx context.Context) error {
		count, err := jr.memberships.CheckAndExpireMemberships(ctx)
		logger.Info("Expired memberships", "count", count)
		if err != nil {
			return fmt.Errorf("expiry sweep finished with errors: %w", err)
		}
		return nil
	})
}

// SendExpiryReminders queues reminder mail for members whose expiry is a configured number of days away
func (jr *JobRunner) SendExpiryReminders() {
	jr.runWithRecovery(JobSendExpiryReminders, func(ctx context.Context) error {
		thresholds := jr.config.Membership.ExpiryReminderDays
		count, err := jr.memberships.NotifyExpiringMemberships(ctx, thresholds)
		if err != nil {
			return err
		}
		logger.Info("Queued expiry reminders", "count", count, "thresholds", thresholds)
		return nil
	})
}
