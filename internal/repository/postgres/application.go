package postgres

import (
	"context"
	"database/sql"
	"time"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/logger"
	"memberhub-backend/internal/repository"

	"github.com/google/uuid"
)

type applicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) repository.ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationColumns = `id, ` + profileColumns + `, plan_id, status, payment_status, payment_session_id,
	submitted_at, reviewed_at, reviewed_by, notes`

func (r *applicationRepository) Create(ctx context.Context, a *domain.MembershipApplication) error {
	logger.EnterMethod("applicationRepository.Create", "email", a.Email, "planID", a.PlanID)
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.SubmittedAt.IsZero() {
		a.SubmittedAt = time.Now().UTC()
	}

	query := `INSERT INTO membership_applications (` + applicationColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	args := append([]any{a.ID}, profileArgs(&a.ApplicantProfile)...)
	args = append(args, a.PlanID, a.Status, a.PaymentStatus, a.PaymentSessionID, a.SubmittedAt, a.ReviewedAt, a.ReviewedBy, a.Notes)

	logger.DatabaseCall("INSERT", "membership_applications", "applicationID", a.ID)
	_, err := r.db.ExecContext(ctx, query, args...)
	logger.DatabaseResult("INSERT", 1, err, "applicationID", a.ID)
	if err != nil {
		logger.ExitMethodWithError("applicationRepository.Create", err, "email", a.Email)
		return err
	}
	logger.ExitMethod("applicationRepository.Create", "applicationID", a.ID)
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.MembershipApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM membership_applications WHERE id = $1`
	a, err := scanApplication(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (r *applicationRepository) List(ctx context.Context, filter domain.ApplicationFilter) ([]domain.MembershipApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM membership_applications`
	var args []any
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY submitted_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.MembershipApplication
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

func (r *applicationRepository) UpdateReview(ctx context.Context, id string, expected domain.ApplicationStatus, review domain.Review) error {
	query := `UPDATE membership_applications SET status=$1, reviewed_at=$2, reviewed_by=$3, notes=$4
	          WHERE id=$5 AND status=$6`
	logger.DatabaseCall("UPDATE", "membership_applications", "applicationID", id, "expected", expected, "next", review.Status)
	result, err := r.db.ExecContext(ctx, query, review.Status, review.ReviewedAt, review.ReviewedBy, review.Notes, id, expected)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	logger.DatabaseResult("UPDATE", rows, nil, "applicationID", id)
	if rows == 1 {
		return nil
	}
	return r.missingOrConflict(ctx, id)
}

// missingOrConflict explains a conditional update that touched no rows.
func (r *applicationRepository) missingOrConflict(ctx context.Context, id string) error {
	var status string
	err := r.db.QueryRowContext(ctx, `SELECT status FROM membership_applications WHERE id = $1`, id).Scan(&status)
	if err != nil {
		return notFound(err)
	}
	return domain.ErrConflict
}

func (r *applicationRepository) UpdatePayment(ctx context.Context, id string, status domain.PaymentStatus, sessionID string) error {
	query := `UPDATE membership_applications SET payment_status=$1, payment_session_id=$2 WHERE id=$3`
	result, err := r.db.ExecContext(ctx, query, status, sessionID, id)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

func (r *applicationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM membership_applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

func scanApplication(row rowScanner) (*domain.MembershipApplication, error) {
	a := &domain.MembershipApplication{}
	var reviewedAt sql.NullTime
	dest := append([]any{&a.ID}, profileDest(&a.ApplicantProfile)...)
	dest = append(dest, &a.PlanID, &a.Status, &a.PaymentStatus, &a.PaymentSessionID, &a.SubmittedAt, &reviewedAt, &a.ReviewedBy, &a.Notes)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	a.ReviewedAt = nullTime(&reviewedAt)
	return a, nil
}
