package repository

import (
	"context"
	"time"

	"memberhub-backend/internal/domain"
)

// Implementations return domain.ErrNotFound for missing records.

type PlanRepository interface {
	Create(ctx context.Context, plan *domain.MembershipPlan) error
	GetByID(ctx context.Context, id string) (*domain.MembershipPlan, error)
	List(ctx context.Context) ([]domain.MembershipPlan, error)
	Update(ctx context.Context, plan *domain.MembershipPlan) error
	Delete(ctx context.Context, id string) error
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.MembershipApplication) error
	GetByID(ctx context.Context, id string) (*domain.MembershipApplication, error)
	// List returns applications newest first.
	List(ctx context.Context, filter domain.ApplicationFilter) ([]domain.MembershipApplication, error)
	// UpdateReview writes the review only if the stored status still equals expected.
	// A mismatch returns domain.ErrConflict.
	UpdateReview(ctx context.Context, id string, expected domain.ApplicationStatus, review domain.Review) error
	UpdatePayment(ctx context.Context, id string, status domain.PaymentStatus, sessionID string) error
	Delete(ctx context.Context, id string) error
}

type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	// List returns members newest joined first.
	List(ctx context.Context, filter domain.MemberFilter) ([]domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
	// UpdateStatus is a conditional write like ApplicationRepository.UpdateReview.
	UpdateStatus(ctx context.Context, id string, expected, next domain.MembershipStatus) error
	Delete(ctx context.Context, id string) error
}

type MailRepository interface {
	Enqueue(ctx context.Context, msg *domain.MailMessage) error
	// ListDue returns pending messages whose next attempt is at or before now, earliest due first.
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.MailMessage, error)
	Update(ctx context.Context, msg *domain.MailMessage) error
}

// Store bundles the repositories a backend provides.
type Store interface {
	Plans() PlanRepository
	Applications() ApplicationRepository
	Members() MemberRepository
	Mail() MailRepository
	Close() error
}
