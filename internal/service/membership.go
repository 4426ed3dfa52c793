package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/logger"
	"memberhub-backend/internal/metrics"
	"memberhub-backend/internal/repository"
)

// fallbackPlanName is used in mail when an application's plan no longer exists.
const fallbackPlanName = "Membership"

type Option func(*membershipService)

// WithClock replaces time.Now. The function should return UTC times.
func WithClock(now func() time.Time) Option {
	return func(s *membershipService) {
		s.now = now
	}
}

// WithPaymentRequired makes approval of a paid plan fail until the application is marked paid.
func WithPaymentRequired(required bool) Option {
	return func(s *membershipService) {
		s.requirePayment = required
	}
}

type membershipService struct {
	appRepo        repository.ApplicationRepository
	memberRepo     repository.MemberRepository
	planRepo       repository.PlanRepository
	notifier       NotificationService
	now            func() time.Time
	requirePayment bool
}

func NewMembershipService(
	appRepo repository.ApplicationRepository,
	memberRepo repository.MemberRepository,
	planRepo repository.PlanRepository,
	notifier NotificationService,
	opts ...Option,
) MembershipService {
	s := &membershipService{
		appRepo:    appRepo,
		memberRepo: memberRepo,
		planRepo:   planRepo,
		notifier:   notifier,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *membershipService) SubmitApplication(ctx context.Context, input ApplicationInput) (*domain.MembershipApplication, error) {
	logger.EnterMethod("membershipService.SubmitApplication", "email", input.Email, "planID", input.PlanID)

	input.Email = strings.TrimSpace(input.Email)
	input.PlanID = strings.TrimSpace(input.PlanID)
	if input.Email == "" || input.PlanID == "" {
		err := fmt.Errorf("%w: email and plan are required", domain.ErrValidation)
		logger.ExitMethodWithError("membershipService.SubmitApplication", err)
		return nil, err
	}

	// Duplicate applications for one email are allowed.
	app := &domain.MembershipApplication{
		ApplicantProfile: input.ApplicantProfile,
		PlanID:           input.PlanID,
		Status:           domain.ApplicationStatusPending,
		PaymentStatus:    domain.PaymentStatusUnset,
		SubmittedAt:      s.now(),
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		metrics.RecordBusinessEvent("application_submitted", false)
		logger.ExitMethodWithError("membershipService.SubmitApplication", err, "email", input.Email)
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	metrics.RecordBusinessEvent("application_submitted", true)

	planName := s.planNameBestEffort(ctx, app.PlanID)
	s.notify("application_submitted", func() error {
		return s.notifier.ApplicationSubmitted(ctx, app, planName)
	})
	s.notify("admin_new_application", func() error {
		return s.notifier.AdminNewApplication(ctx, app, planName)
	})

	logger.ExitMethod("membershipService.SubmitApplication", "applicationID", app.ID)
	return app, nil
}

func (s *membershipService) GetApplication(ctx context.Context, id string) (*domain.MembershipApplication, error) {
	return s.appRepo.GetByID(ctx, id)
}

func (s *membershipService) ListApplications(ctx context.Context, filter domain.ApplicationFilter) ([]domain.MembershipApplication, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown application status %q", domain.ErrValidation, filter.Status)
	}
	return s.appRepo.List(ctx, filter)
}

func (s *membershipService) DeleteApplication(ctx context.Context, id string) error {
	return s.appRepo.Delete(ctx, id)
}

func (s *membershipService) ApproveApplication(ctx context.Context, id, reviewedBy string, expected domain.ApplicationStatus) (*domain.Member, error) {
	logger.EnterMethod("membershipService.ApproveApplication", "applicationID", id, "reviewedBy", reviewedBy)

	app, expected, err := s.loadForReview(ctx, id, reviewedBy, expected, domain.ApplicationStatusApproved)
	if errors.Is(err, domain.ErrConflict) && app != nil && app.Status == domain.ApplicationStatusApproved {
		member, resumeErr := s.resumeApproval(ctx, app)
		if resumeErr != nil || member != nil {
			logger.ExitMethod("membershipService.ApproveApplication", "applicationID", id, "resumed", member != nil)
			return member, resumeErr
		}
	}
	if err != nil {
		logger.ExitMethodWithError("membershipService.ApproveApplication", err, "applicationID", id)
		return nil, err
	}

	plan, err := s.loadPlan(ctx, app.PlanID)
	if err != nil {
		logger.ExitMethodWithError("membershipService.ApproveApplication", err, "planID", app.PlanID)
		return nil, err
	}
	interval, planName := domain.PlanIntervalYearly, fallbackPlanName
	if plan != nil {
		interval, planName = plan.Interval, plan.Name
	}

	if s.requirePayment && plan != nil && !plan.IsFree() && app.PaymentStatus != domain.PaymentStatusPaid {
		err := fmt.Errorf("%w: plan %s costs %d %s", domain.ErrPaymentRequired, plan.ID, plan.PriceCents, plan.Currency)
		logger.ExitMethodWithError("membershipService.ApproveApplication", err, "paymentStatus", app.PaymentStatus)
		return nil, err
	}

	now := s.now()
	expiry := domain.CalculateExpiryDate(interval, now)

	review := domain.Review{
		Status:     domain.ApplicationStatusApproved,
		ReviewedAt: now,
		ReviewedBy: reviewedBy,
	}
	if err := s.appRepo.UpdateReview(ctx, app.ID, expected, review); err != nil {
		metrics.RecordBusinessEvent("application_approved", false)
		logger.ExitMethodWithError("membershipService.ApproveApplication", err, "applicationID", id)
		return nil, fmt.Errorf("failed to approve application: %w", err)
	}
	app.Status = review.Status
	app.ReviewedAt = &now
	app.ReviewedBy = reviewedBy

	// The application stays approved if this fails; approving again resumes from here.
	member := domain.NewMemberFromApplication(app, now, expiry)
	if err := s.memberRepo.Create(ctx, member); err != nil {
		metrics.RecordBusinessEvent("application_approved", false)
		logger.ExitMethodWithError("membershipService.ApproveApplication", err, "applicationID", id)
		return nil, fmt.Errorf("application approved but member creation failed: %w", err)
	}
	metrics.RecordBusinessEvent("application_approved", true)

	s.notify("application_approved", func() error {
		return s.notifier.ApplicationApproved(ctx, member, planName)
	})

	logger.ExitMethod("membershipService.ApproveApplication", "applicationID", id, "memberID", member.ID)
	return member, nil
}

// resumeApproval creates the member for an approved application whose member record is
// missing, which happens when member creation failed after the status write. It returns
// nil, nil when a member already exists.
func (s *membershipService) resumeApproval(ctx context.Context, app *domain.MembershipApplication) (*domain.Member, error) {
	existing, err := s.memberRepo.List(ctx, domain.MemberFilter{SourceApplicationID: app.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to look up member for application: %w", err)
	}
	if len(existing) > 0 {
		return nil, nil
	}

	plan, err := s.loadPlan(ctx, app.PlanID)
	if err != nil {
		return nil, err
	}
	interval, planName := domain.PlanIntervalYearly, fallbackPlanName
	if plan != nil {
		interval, planName = plan.Interval, plan.Name
	}

	now := s.now()
	member := domain.NewMemberFromApplication(app, now, domain.CalculateExpiryDate(interval, now))
	if err := s.memberRepo.Create(ctx, member); err != nil {
		metrics.RecordBusinessEvent("application_approved", false)
		return nil, fmt.Errorf("application approved but member creation failed: %w", err)
	}
	metrics.RecordBusinessEvent("application_approved", true)
	logger.Info("Resumed approval, member created", "applicationID", app.ID, "memberID", member.ID)

	s.notify("application_approved", func() error {
		return s.notifier.ApplicationApproved(ctx, member, planName)
	})
	return member, nil
}

func (s *membershipService) RejectApplication(ctx context.Context, id, reviewedBy, notes string, expected domain.ApplicationStatus) (*domain.MembershipApplication, error) {
	logger.EnterMethod("membershipService.RejectApplication", "applicationID", id, "reviewedBy", reviewedBy)

	app, expected, err := s.loadForReview(ctx, id, reviewedBy, expected, domain.ApplicationStatusRejected)
	if err != nil {
		logger.ExitMethodWithError("membershipService.RejectApplication", err, "applicationID", id)
		return nil, err
	}

	now := s.now()
	review := domain.Review{
		Status:     domain.ApplicationStatusRejected,
		ReviewedAt: now,
		ReviewedBy: reviewedBy,
		Notes:      strings.TrimSpace(notes),
	}
	if err := s.appRepo.UpdateReview(ctx, app.ID, expected, review); err != nil {
		metrics.RecordBusinessEvent("application_rejected", false)
		logger.ExitMethodWithError("membershipService.RejectApplication", err, "applicationID", id)
		return nil, fmt.Errorf("failed to reject application: %w", err)
	}
	app.Status = review.Status
	app.ReviewedAt = &now
	app.ReviewedBy = reviewedBy
	app.Notes = review.Notes
	metrics.RecordBusinessEvent("application_rejected", true)

	s.notify("application_rejected", func() error {
		return s.notifier.ApplicationRejected(ctx, app, app.Notes)
	})

	logger.ExitMethod("membershipService.RejectApplication", "applicationID", id)
	return app, nil
}

// loadForReview validates a review request and loads the application.
// It returns the effective expected status. On a status mismatch the loaded
// application is returned with ErrConflict.
func (s *membershipService) loadForReview(ctx context.Context, id, reviewedBy string, expected, next domain.ApplicationStatus) (*domain.MembershipApplication, domain.ApplicationStatus, error) {
	if strings.TrimSpace(reviewedBy) == "" {
		return nil, "", fmt.Errorf("%w: reviewer is required", domain.ErrValidation)
	}
	if expected == "" {
		expected = domain.ApplicationStatusPending
	}
	if !domain.CanTransition(expected, next) {
		return nil, "", fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, expected, next)
	}

	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get application: %w", err)
	}
	if app.Status != expected {
		return app, expected, fmt.Errorf("%w: application is %s, expected %s", domain.ErrConflict, app.Status, expected)
	}
	return app, expected, nil
}

func (s *membershipService) RenewMembership(ctx context.Context, memberID string) (*domain.Member, error) {
	logger.EnterMethod("membershipService.RenewMembership", "memberID", memberID)

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		logger.ExitMethodWithError("membershipService.RenewMembership", err, "memberID", memberID)
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	plan, err := s.loadPlan(ctx, member.MembershipPlanID)
	if err != nil {
		return nil, err
	}
	interval := domain.PlanIntervalYearly
	if plan != nil {
		interval = plan.Interval
	}

	// Renewal starts from now; unused time on the old expiry is not carried over.
	member.ExpiryDate = domain.CalculateExpiryDate(interval, s.now())
	member.MembershipStatus = domain.MembershipStatusActive
	if err := s.memberRepo.Update(ctx, member); err != nil {
		logger.ExitMethodWithError("membershipService.RenewMembership", err, "memberID", memberID)
		return nil, fmt.Errorf("failed to renew member: %w", err)
	}
	metrics.RecordBusinessEvent("membership_renewed", true)

	logger.ExitMethod("membershipService.RenewMembership", "memberID", memberID, "expiry", member.ExpiryDate)
	return member, nil
}

func (s *membershipService) CheckAndExpireMemberships(ctx context.Context) (int, error) {
	members, err := s.memberRepo.List(ctx, domain.MemberFilter{Status: domain.MembershipStatusActive})
	if err != nil {
		return 0, fmt.Errorf("failed to list active members: %w", err)
	}

	now := s.now()
	count := 0
	var errs []error
	for i := range members {
		m := &members[i]
		if !domain.IsMembershipExpired(m.ExpiryDate, now) {
			continue
		}

		err := s.memberRepo.UpdateStatus(ctx, m.ID, domain.MembershipStatusActive, domain.MembershipStatusExpired)
		switch {
		case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrNotFound):
			// Renewed, cancelled or deleted since the list was read
			logger.Debug("Skipping member changed during sweep", "memberID", m.ID, "reason", err)
			continue
		case err != nil:
			logger.Error("Failed to expire member", "memberID", m.ID, "error", err)
			errs = append(errs, fmt.Errorf("member %s: %w", m.ID, err))
			continue
		}

		m.MembershipStatus = domain.MembershipStatusExpired
		count++
		s.notify("membership_expired", func() error {
			return s.notifier.MembershipExpired(ctx, m)
		})
	}

	metrics.RecordBusinessEvents("membership_expired", count)
	logger.Info("Expiry sweep finished", "checked", len(members), "expired", count, "failures", len(errs))
	return count, errors.Join(errs...)
}

func (s *membershipService) NotifyExpiringMemberships(ctx context.Context, thresholds []int) (int, error) {
	if len(thresholds) == 0 {
		return 0, nil
	}
	wanted := make(map[int]bool, len(thresholds))
	for _, d := range thresholds {
		wanted[d] = true
	}

	members, err := s.memberRepo.List(ctx, domain.MemberFilter{Status: domain.MembershipStatusActive})
	if err != nil {
		return 0, fmt.Errorf("failed to list active members: %w", err)
	}

	now := s.now()
	count := 0
	for i := range members {
		m := &members[i]
		days := domain.DaysUntilExpiry(m.ExpiryDate, now)
		if days == nil || !wanted[*days] {
			continue
		}
		if err := s.notifier.MembershipExpiring(ctx, m, *days); err != nil {
			metrics.SideEffectFailed("membership_expiring")
			logger.SideEffectFailed("membership_expiring", err, "memberID", m.ID)
			continue
		}
		count++
	}
	return count, nil
}

// loadPlan returns nil without error when the plan has been deleted.
func (s *membershipService) loadPlan(ctx context.Context, planID string) (*domain.MembershipPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Warn("Plan not found, using defaults", "planID", planID)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return plan, nil
}

func (s *membershipService) planNameBestEffort(ctx context.Context, planID string) string {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil || plan == nil {
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			logger.SideEffectFailed("plan_lookup", err, "planID", planID)
		}
		return fallbackPlanName
	}
	return plan.Name
}

// notify runs a best-effort side effect. Errors and panics are logged and counted, never returned.
func (s *membershipService) notify(operation string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			metrics.SideEffectFailed(operation)
			logger.SideEffectFailed(operation, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := fn(); err != nil {
		metrics.SideEffectFailed(operation)
		logger.SideEffectFailed(operation, err)
	}
}
