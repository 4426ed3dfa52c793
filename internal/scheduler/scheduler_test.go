package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"memberhub-backend/internal/config"
	"memberhub-backend/internal/jobs"
)

var _ jobs.Locker = (*RedisLocker)(nil)

func newTestScheduler(sc config.SchedulerConfig) *Scheduler {
	cfg := &config.Config{Scheduler: sc}
	return NewScheduler(jobs.NewJobRunner(nil, nil, nil, nil, cfg))
}

func TestRegisterJobs(t *testing.T) {
	t.Run("All schedules registered", func(t *testing.T) {
		s := newTestScheduler(config.SchedulerConfig{
			ExpireMemberships:   "0 0 1 * * *",
			DeliverMail:         "0 */2 * * * *",
			SendExpiryReminders: "0 0 9 * * *",
		})
		assert.Len(t, s.cron.Entries(), 3)
		assert.True(t, s.IsRunning())
	})

	t.Run("Empty schedule disables a job", func(t *testing.T) {
		s := newTestScheduler(config.SchedulerConfig{DeliverMail: "0 */2 * * * *"})
		assert.Len(t, s.cron.Entries(), 1)
	})

	t.Run("Invalid schedule is skipped", func(t *testing.T) {
		s := newTestScheduler(config.SchedulerConfig{
			ExpireMemberships: "not a schedule",
			DeliverMail:       "0 */2 * * * *",
		})
		assert.Len(t, s.cron.Entries(), 1)
	})

	t.Run("Nothing scheduled", func(t *testing.T) {
		s := newTestScheduler(config.SchedulerConfig{})
		assert.False(t, s.IsRunning())
	})
}

func TestStartStop(t *testing.T) {
	s := newTestScheduler(config.SchedulerConfig{DeliverMail: "0 0 0 1 1 *"})
	s.Start()
	s.Stop()
	assert.True(t, s.IsRunning())
}
