package postgres

import (
	"context"
	"database/sql"
	"time"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/logger"
	"memberhub-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type mailRepository struct {
	db *sql.DB
}

func NewMailRepository(db *sql.DB) repository.MailRepository {
	return &mailRepository{db: db}
}

const mailColumns = `id, to_addresses, subject, text_body, html_body, kind, status, attempts, max_attempts,
	last_error, created_at, next_attempt_at, sent_at, provider_message_id`

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

	query := `INSERT INTO mail_outbox (` + mailColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	logger.DatabaseCall("INSERT", "mail_outbox", "mailID", msg.ID, "kind", msg.Kind)
	_, err := r.db.ExecContext(ctx, query, msg.ID, pq.Array(msg.To), msg.Subject, msg.TextBody, msg.HTMLBody,
		msg.Kind, msg.Status, msg.Attempts, msg.MaxAttempts, msg.LastError, msg.CreatedAt, msg.NextAttemptAt,
		msg.SentAt, msg.ProviderMessageID)
	logger.DatabaseResult("INSERT", 1, err, "mailID", msg.ID)
	return err
}

func (r *mailRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.MailMessage, error) {
	query := `SELECT ` + mailColumns + ` FROM mail_outbox
	          WHERE status = $1 AND next_attempt_at <= $2 ORDER BY next_attempt_at ASC LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, domain.MailStatusPending, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.MailMessage
	for rows.Next() {
		var m domain.MailMessage
		var to pq.StringArray
		var sentAt sql.NullTime
		err := rows.Scan(&m.ID, &to, &m.Subject, &m.TextBody, &m.HTMLBody, &m.Kind, &m.Status, &m.Attempts,
			&m.MaxAttempts, &m.LastError, &m.CreatedAt, &m.NextAttemptAt, &sentAt, &m.ProviderMessageID)
		if err != nil {
			return nil, err
		}
		m.To = []string(to)
		m.SentAt = nullTime(&sentAt)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *mailRepository) Update(ctx context.Context, msg *domain.MailMessage) error {
	query := `UPDATE mail_outbox SET status=$1, attempts=$2, last_error=$3, next_attempt_at=$4, sent_at=$5,
	          provider_message_id=$6 WHERE id=$7`
	result, err := r.db.ExecContext(ctx, query, msg.Status, msg.Attempts, msg.LastError, msg.NextAttemptAt,
		msg.SentAt, msg.ProviderMessageID, msg.ID)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}
