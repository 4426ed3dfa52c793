package postgres

import (
	"database/sql"
	"errors"
	"time"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db           *sql.DB
	plans        repository.PlanRepository
	applications repository.ApplicationRepository
	members      repository.MemberRepository
	mail         repository.MailRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		plans:        NewPlanRepository(db),
		applications: NewApplicationRepository(db),
		members:      NewMemberRepository(db),
		mail:         NewMailRepository(db),
	}
}

func (s *Store) Plans() repository.PlanRepository               { return s.plans }
func (s *Store) Applications() repository.ApplicationRepository { return s.applications }
func (s *Store) Members() repository.MemberRepository           { return s.members }
func (s *Store) Mail() repository.MailRepository                { return s.mail }
func (s *Store) Close() error                                   { return s.db.Close() }

// notFound maps sql.ErrNoRows to domain.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// expectOneRow turns a zero-row write into domain.ErrNotFound.
func expectOneRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullTime(t *sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
