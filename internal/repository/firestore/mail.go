package firestore

import (
	"context"
	"time"

	fs "cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/repository"
)

type mailDoc struct {
	To                []string   `firestore:"to"`
	Subject           string     `firestore:"subject"`
	TextBody          string     `firestore:"text"`
	HTMLBody          string     `firestore:"html"`
	Kind              string     `firestore:"kind"`
	Status            string     `firestore:"status"`
	Attempts          int        `firestore:"attempts"`
	MaxAttempts       int        `firestore:"maxAttempts"`
	LastError         string     `firestore:"lastError"`
	CreatedAt         time.Time  `firestore:"createdAt"`
	NextAttemptAt     time.Time  `firestore:"nextAttemptAt"`
	SentAt            *time.Time `firestore:"sentAt"`
	ProviderMessageID string     `firestore:"providerMessageId"`
}

func toMailDoc(m *domain.MailMessage) mailDoc {
	return mailDoc{
		To:                m.To,
		Subject:           m.Subject,
		TextBody:          m.TextBody,
		HTMLBody:          m.HTMLBody,
		Kind:              string(m.Kind),
		Status:            string(m.Status),
		Attempts:          m.Attempts,
		MaxAttempts:       m.MaxAttempts,
		LastError:         m.LastError,
		CreatedAt:         m.CreatedAt,
		NextAttemptAt:     m.NextAttemptAt,
		SentAt:            m.SentAt,
		ProviderMessageID: m.ProviderMessageID,
	}
}

func (d mailDoc) toDomain(id string) domain.MailMessage {
	return domain.MailMessage{
		ID:                id,
		To:                d.To,
		Subject:           d.Subject,
		TextBody:          d.TextBody,
		HTMLBody:          d.HTMLBody,
		Kind:              domain.MailKind(d.Kind),
		Status:            domain.MailStatus(d.Status),
		Attempts:          d.Attempts,
		MaxAttempts:       d.MaxAttempts,
		LastError:         d.LastError,
		CreatedAt:         d.CreatedAt,
		NextAttemptAt:     d.NextAttemptAt,
		SentAt:            d.SentAt,
		ProviderMessageID: d.ProviderMessageID,
	}
}

type mailRepository struct {
	col *fs.CollectionRef
}

func NewMailRepository(client *fs.Client) repository.MailRepository {
	return &mailRepository{col: client.Collection(mailCollection)}
}

func (r *mailRepository) Enqueue(ctx context.Context, msg *domain.MailMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Status == "" {
		msg.Status = domain.MailStatusPending
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	if msg.NextAttemptAt.IsZero() {
		msg.NextAttemptAt = msg.CreatedAt
	}
	_, err := r.col.Doc(msg.ID).Create(ctx, toMailDoc(msg))
	return err
}

func (r *mailRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.MailMessage, error) {
	snaps, err := r.col.
		Where("status", "==", string(domain.MailStatusPending)).
		Where("nextAttemptAt", "<=", now).
		OrderBy("nextAttemptAt", fs.Asc).
		Limit(limit).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	msgs := make([]domain.MailMessage, 0, len(snaps))
	for _, snap := range snaps {
		var d mailDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, err
		}
		msgs = append(msgs, d.toDomain(snap.Ref.ID))
	}
	return msgs, nil
}

func (r *mailRepository) Update(ctx context.Context, msg *domain.MailMessage) error {
	_, err := r.col.Doc(msg.ID).Update(ctx, []fs.Update{
		{Path: "status", Value: string(msg.Status)},
		{Path: "attempts", Value: msg.Attempts},
		{Path: "lastError", Value: msg.LastError},
		{Path: "nextAttemptAt", Value: msg.NextAttemptAt},
		{Path: "sentAt", Value: msg.SentAt},
		{Path: "providerMessageId", Value: msg.ProviderMessageID},
	})
	return mapError(err)
}
