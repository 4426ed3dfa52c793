package jobs

import (
	"context"
	"fmt"
	"time"

	"memberhub-backend/internal/config"
	"memberhub-backend/internal/email"
	"memberhub-backend/internal/logger"
	"memberhub-backend/internal/metrics"
	"memberhub-backend/internal/repository"
	"memberhub-backend/internal/service"
)

// Job names, also accepted by the cron runner's -run-once flag
const (
	JobExpireMemberships   = "expire-memberships"
	JobDeliverMail         = "deliver-mail"
	JobSendExpiryReminders = "send-expiry-reminders"
)

// Locker serializes a job across runner replicas. TryLock returns ok=false when another
// replica holds the lock.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	memberships service.MembershipService
	mail        repository.MailRepository
	sender      email.Sender
	locker      Locker
	config      *config.Config
	now         func() time.Time
}

// NewJobRunner creates a new job runner. locker may be nil for a single replica.
func NewJobRunner(memberships service.MembershipService, mail repository.MailRepository, sender email.Sender, locker Locker, cfg *config.Config) *JobRunner {
	return &JobRunner{
		memberships: memberships,
		mail:        mail,
		sender:      sender,
		locker:      locker,
		config:      cfg,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with locking, panic recovery and metrics
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) {
	ctx := context.Background()
	start := time.Now()
	log := logger.WithJob(jobName)

	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			log.Error("Job panicked", "panic", r)
		}
		metrics.RecordJob(jobName, time.Since(start), err)
	}()

	if jr.locker != nil {
		ttl := time.Duration(jr.config.Scheduler.LockTTLSeconds) * time.Second
		release, ok, lockErr := jr.locker.TryLock(ctx, "memberhub:job:"+jobName, ttl)
		if lockErr != nil {
			// Run anyway; every job tolerates a concurrent run
			log.Warn("Job lock unavailable, running without it", "error", lockErr)
		} else if !ok {
			log.Info("Job already running elsewhere, skipping")
			return
		} else {
			defer release()
		}
	}

	log.Info("Starting job")
	if err = jobFunc(ctx); err != nil {
		log.Error("Job failed", "error", err, "elapsed", time.Since(start))
		return
	}
	log.Info("Job completed", "elapsed", time.Since(start))
}

// Run executes a job by name. "all" runs every job once.
func (jr *JobRunner) Run(name string) error {
	switch name {
	case JobExpireMemberships:
		jr.ExpireMemberships()
	case JobDeliverMail:
		jr.DeliverMail()
	case JobSendExpiryReminders:
		jr.SendExpiryReminders()
	case "all":
		jr.RunAll()
	default:
		return fmt.Errorf("unknown job: %s", name)
	}
	return nil
}

// RunAll runs every job once, expiry first so the notices it queues are delivered in the same pass
func (jr *JobRunner) RunAll() {
	jr.ExpireMemberships()
	jr.SendExpiryReminders()
	jr.DeliverMail()
}
