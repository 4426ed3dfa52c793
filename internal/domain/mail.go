package domain

import (
	"errors"
	"time"
)

type MailKind string

const (
	MailKindApplicationSubmitted MailKind = "application_submitted"
	MailKindApplicationApproved  MailKind = "application_approved"
	MailKindApplicationRejected  MailKind = "application_rejected"
	MailKindAdminNewApplication  MailKind = "admin_new_application"
	MailKindMembershipExpired    MailKind = "membership_expired"
	MailKindMembershipExpiring   MailKind = "membership_expiring"
)

type MailStatus string

const (
	MailStatusPending MailStatus = "pending"
	MailStatusSent    MailStatus = "sent"
	MailStatusFailed  MailStatus = "failed"
)

const DefaultMailMaxAttempts = 5

var (
	ErrNoRecipients = errors.New("mail has no recipients")
	ErrEmptySubject = errors.New("mail subject is required")
)

// MailMessage is an entry in the outbound mail outbox. The cron runner drains pending entries.
type MailMessage struct {
	ID                string     `json:"id"`
	To                []string   `json:"to"`
	Subject           string     `json:"subject"`
	TextBody          string     `json:"text_body"`
	HTMLBody          string     `json:"html_body"`
	Kind              MailKind   `json:"kind"`
	Status            MailStatus `json:"status"`
	Attempts          int        `json:"attempts"`
	MaxAttempts       int        `json:"max_attempts"`
	LastError         string     `json:"last_error,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	NextAttemptAt     time.Time  `json:"next_attempt_at"`
	SentAt            *time.Time `json:"sent_at,omitempty"`
	ProviderMessageID string     `json:"provider_message_id,omitempty"`
}

func (m *MailMessage) Validate() error {
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	if m.Subject == "" {
		return ErrEmptySubject
	}
	if m.MaxAttempts <= 0 {
		m.MaxAttempts = DefaultMailMaxAttempts
	}
	return nil
}

func (m *MailMessage) MarkAttempt(now time.Time) {
	m.Attempts++
	m.NextAttemptAt = now
}

func (m *MailMessage) MarkSent(now time.Time, providerID string) {
	m.Status = MailStatusSent
	m.SentAt = &now
	m.ProviderMessageID = providerID
	m.LastError = ""
}

// MarkFailed records err. The entry stays pending with a backoff of 2^attempts * base
// (capped at max) until MaxAttempts is reached, then becomes failed.
func (m *MailMessage) MarkFailed(now time.Time, err error, base, max time.Duration) {
	m.LastError = err.Error()
	if m.Attempts >= m.MaxAttempts {
		m.Status = MailStatusFailed
		return
	}
	delay := base * (1 << m.Attempts)
	if delay > max || delay <= 0 {
		delay = max
	}
	m.NextAttemptAt = now.Add(delay)
}
