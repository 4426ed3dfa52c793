package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMailMessage_Validate(t *testing.T) {
	m := &MailMessage{Subject: "Hi"}
	assert.ErrorIs(t, m.Validate(), ErrNoRecipients)

	m = &MailMessage{To: []string{"a@b.c"}}
	assert.ErrorIs(t, m.Validate(), ErrEmptySubject)

	m = &MailMessage{To: []string{"a@b.c"}, Subject: "Hi"}
	assert.NoError(t, m.Validate())
	assert.Equal(t, DefaultMailMaxAttempts, m.MaxAttempts)
}

func TestMailMessage_MarkFailed(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	m := &MailMessage{Status: MailStatusPending, MaxAttempts: 3}

	m.MarkAttempt(now)
	m.MarkFailed(now, errors.New("smtp down"), time.Minute, time.Hour)
	assert.Equal(t, MailStatusPending, m.Status)
	assert.Equal(t, now.Add(2*time.Minute), m.NextAttemptAt)
	assert.Equal(t, "smtp down", m.LastError)

	m.MarkAttempt(now)
	m.MarkFailed(now, errors.New("smtp down"), time.Minute, 3*time.Minute)
	assert.Equal(t, now.Add(3*time.Minute), m.NextAttemptAt)

	m.MarkAttempt(now)
	m.MarkFailed(now, errors.New("smtp down"), time.Minute, time.Hour)
	assert.Equal(t, MailStatusFailed, m.Status)
}

func TestMailMessage_MarkSent(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	m := &MailMessage{Status: MailStatusPending, LastError: "earlier failure"}

	m.MarkSent(now, "msg-1")

	assert.Equal(t, MailStatusSent, m.Status)
	assert.Equal(t, "msg-1", m.ProviderMessageID)
	assert.Empty(t, m.LastError)
	assert.Equal(t, now, *m.SentAt)
}
