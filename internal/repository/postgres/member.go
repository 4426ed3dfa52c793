package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/logger"
	"memberhub-backend/internal/repository"

	"github.com/google/uuid"
)

type memberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) repository.MemberRepository {
	return &memberRepository{db: db}
}

const memberColumns = `id, source_application_id, ` + profileColumns + `, bio, social, membership_plan_id,
	membership_status, joined_date, expiry_date, updated_at`

func (r *memberRepository) Create(ctx context.Context, m *domain.Member) error {
	logger.EnterMethod("memberRepository.Create", "email", m.Email, "applicationID", m.SourceApplicationID)
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = time.Now().UTC()
	}
	social, err := json.Marshal(m.Social)
	if err != nil {
		logger.ExitMethodWithError("memberRepository.Create", err, "reason", "failed to marshal social links")
		return err
	}

	query := `INSERT INTO members (` + memberColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	args := append([]any{m.ID, m.SourceApplicationID}, profileArgs(&m.ApplicantProfile)...)
	args = append(args, m.Bio, social, m.MembershipPlanID, m.MembershipStatus, m.JoinedDate, m.ExpiryDate, m.UpdatedAt)

	logger.DatabaseCall("INSERT", "members", "memberID", m.ID)
	_, err = r.db.ExecContext(ctx, query, args...)
	logger.DatabaseResult("INSERT", 1, err, "memberID", m.ID)
	if err != nil {
		logger.ExitMethodWithError("memberRepository.Create", err, "email", m.Email)
		return err
	}
	logger.ExitMethod("memberRepository.Create", "memberID", m.ID)
	return nil
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	m, err := scanMember(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

func (r *memberRepository) List(ctx context.Context, filter domain.MemberFilter) ([]domain.Member, error) {
	var where []string
	var args []any
	if filter.Email != "" {
		args = append(args, filter.Email)
		where = append(where, fmt.Sprintf("LOWER(email) = LOWER($%d)", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("membership_status = $%d", len(args)))
	}
	if filter.SourceApplicationID != "" {
		args = append(args, filter.SourceApplicationID)
		where = append(where, fmt.Sprintf("source_application_id = $%d", len(args)))
	}

	query := `SELECT ` + memberColumns + ` FROM members`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY joined_date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (r *memberRepository) Update(ctx context.Context, m *domain.Member) error {
	social, err := json.Marshal(m.Social)
	if err != nil {
		return err
	}
	m.UpdatedAt = time.Now().UTC()

	query := `UPDATE members SET email=$1, full_name=$2, first_name=$3, last_name=$4, gender=$5, phone=$6,
	          country=$7, organization=$8, academic_status=$9, professional_status=$10, research_interest=$11,
	          motivation=$12, experience=$13, comments=$14, bio=$15, social=$16, membership_plan_id=$17,
	          membership_status=$18, joined_date=$19, expiry_date=$20, updated_at=$21 WHERE id=$22`
	args := profileArgs(&m.ApplicantProfile)
	args = append(args, m.Bio, social, m.MembershipPlanID, m.MembershipStatus, m.JoinedDate, m.ExpiryDate, m.UpdatedAt, m.ID)

	logger.DatabaseCall("UPDATE", "members", "memberID", m.ID)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

func (r *memberRepository) UpdateStatus(ctx context.Context, id string, expected, next domain.MembershipStatus) error {
	query := `UPDATE members SET membership_status=$1, updated_at=$2 WHERE id=$3 AND membership_status=$4`
	logger.DatabaseCall("UPDATE", "members", "memberID", id, "expected", expected, "next", next)
	result, err := r.db.ExecContext(ctx, query, next, time.Now().UTC(), id, expected)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 1 {
		return nil
	}

	var status string
	err = r.db.QueryRowContext(ctx, `SELECT membership_status FROM members WHERE id = $1`, id).Scan(&status)
	if err != nil {
		return notFound(err)
	}
	return domain.ErrConflict
}

func (r *memberRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

func scanMember(row rowScanner) (*domain.Member, error) {
	m := &domain.Member{}
	var social []byte
	var expiry sql.NullTime
	dest := append([]any{&m.ID, &m.SourceApplicationID}, profileDest(&m.ApplicantProfile)...)
	dest = append(dest, &m.Bio, &social, &m.MembershipPlanID, &m.MembershipStatus, &m.JoinedDate, &expiry, &m.UpdatedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	m.ExpiryDate = nullTime(&expiry)
	if len(social) > 0 {
		if err := json.Unmarshal(social, &m.Social); err != nil {
			return nil, err
		}
	}
	if m.Social == nil {
		m.Social = map[string]string{}
	}
	return m, nil
}
