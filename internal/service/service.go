package service

import (
	"context"

	"memberhub-backend/internal/domain"
)

// ApplicationInput is what the public application form submits.
type ApplicationInput struct {
	domain.ApplicantProfile
	PlanID string `json:"plan_id"`
}

type MembershipService interface {
	SubmitApplication(ctx context.Context, input ApplicationInput) (*domain.MembershipApplication, error)
	GetApplication(ctx context.Context, id string) (*domain.MembershipApplication, error)
	ListApplications(ctx context.Context, filter domain.ApplicationFilter) ([]domain.MembershipApplication, error)
	DeleteApplication(ctx context.Context, id string) error

	// Review transitions. expected is the status the caller last saw; empty means pending.
	ApproveApplication(ctx context.Context, id, reviewedBy string, expected domain.ApplicationStatus) (*domain.Member, error)
	RejectApplication(ctx context.Context, id, reviewedBy, notes string, expected domain.ApplicationStatus) (*domain.MembershipApplication, error)

	RenewMembership(ctx context.Context, memberID string) (*domain.Member, error)
	CheckAndExpireMemberships(ctx context.Context) (int, error)
	NotifyExpiringMemberships(ctx context.Context, thresholds []int) (int, error)
}

type PlanService interface {
	ListPlans(ctx context.Context) ([]domain.MembershipPlan, error)
	GetPlan(ctx context.Context, id string) (*domain.MembershipPlan, error)
	CreatePlan(ctx context.Context, plan *domain.MembershipPlan) error
	UpdatePlan(ctx context.Context, plan *domain.MembershipPlan) error
	DeletePlan(ctx context.Context, id string) error
	SeedDefaultPlans(ctx context.Context, currency string) (int, error)
}

type MemberService interface {
	GetMember(ctx context.Context, id string) (*domain.Member, error)
	ListMembers(ctx context.Context, filter domain.MemberFilter) ([]domain.Member, error)
	FindByEmail(ctx context.Context, email string) (*domain.Member, error)
	UpdateMember(ctx context.Context, id string, update domain.MemberUpdate) (*domain.Member, error)
	UpdateOwnProfile(ctx context.Context, email string, update domain.ProfileUpdate) (*domain.Member, error)
	CancelMembership(ctx context.Context, id string) (*domain.Member, error)
	DeleteMember(ctx context.Context, id string) error
}

// NotificationService renders lifecycle mail and places it in the outbox.
type NotificationService interface {
	ApplicationSubmitted(ctx context.Context, app *domain.MembershipApplication, planName string) error
	AdminNewApplication(ctx context.Context, app *domain.MembershipApplication, planName string) error
	ApplicationApproved(ctx context.Context, member *domain.Member, planName string) error
	ApplicationRejected(ctx context.Context, app *domain.MembershipApplication, notes string) error
	MembershipExpired(ctx context.Context, member *domain.Member) error
	MembershipExpiring(ctx context.Context, member *domain.Member, daysLeft int) error
}

type PaymentService interface {
	StartCheckout(ctx context.Context, applicationID, successURL, cancelURL string) (*domain.CheckoutResult, error)
	VerifyCheckout(ctx context.Context, applicationID, sessionID string) (*domain.CheckoutResult, error)
}
