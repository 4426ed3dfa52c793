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

type planRepository struct {
	db *sql.DB
}

func NewPlanRepository(db *sql.DB) repository.PlanRepository {
	return &planRepository{db: db}
}

const planColumns = `id, name, price_cents, currency, billing_interval, description, features, is_popular, created_at, updated_at`

func (r *planRepository) Create(ctx context.Context, p *domain.MembershipPlan) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `INSERT INTO membership_plans (` + planColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	logger.DatabaseCall("INSERT", "membership_plans", "planID", p.ID)
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.PriceCents, p.Currency, p.Interval, p.Description,
		pq.Array(p.Features), p.IsPopular, p.CreatedAt, p.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "planID", p.ID)
	return err
}

func (r *planRepository) GetByID(ctx context.Context, id string) (*domain.MembershipPlan, error) {
	query := `SELECT ` + planColumns + ` FROM membership_plans WHERE id = $1`
	p, err := scanPlan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *planRepository) List(ctx context.Context) ([]domain.MembershipPlan, error) {
	query := `SELECT ` + planColumns + ` FROM membership_plans ORDER BY price_cents ASC, name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []domain.MembershipPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

func (r *planRepository) Update(ctx context.Context, p *domain.MembershipPlan) error {
	p.UpdatedAt = time.Now().UTC()
	query := `UPDATE membership_plans SET name=$1, price_cents=$2, currency=$3, billing_interval=$4, description=$5,
	          features=$6, is_popular=$7, updated_at=$8 WHERE id=$9`
	logger.DatabaseCall("UPDATE", "membership_plans", "planID", p.ID)
	result, err := r.db.ExecContext(ctx, query, p.Name, p.PriceCents, p.Currency, p.Interval, p.Description,
		pq.Array(p.Features), p.IsPopular, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

func (r *planRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM membership_plans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*domain.MembershipPlan, error) {
	p := &domain.MembershipPlan{}
	var features pq.StringArray
	err := row.Scan(&p.ID, &p.Name, &p.PriceCents, &p.Currency, &p.Interval, &p.Description,
		&features, &p.IsPopular, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Features = []string(features)
	return p, nil
}
