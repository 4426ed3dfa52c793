package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/payment"
)

// MockPlanRepo
type MockPlanRepo struct {
	mock.Mock
}

func (m *MockPlanRepo) Create(ctx context.Context, plan *domain.MembershipPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}
func (m *MockPlanRepo) GetByID(ctx context.Context, id string) (*domain.MembershipPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MembershipPlan), args.Error(1)
}
func (m *MockPlanRepo) List(ctx context.Context) ([]domain.MembershipPlan, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.MembershipPlan), args.Error(1)
}
func (m *MockPlanRepo) Update(ctx context.Context, plan *domain.MembershipPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}
func (m *MockPlanRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockApplicationRepo
type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.MembershipApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}
func (m *MockApplicationRepo) GetByID(ctx context.Context, id string) (*domain.MembershipApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MembershipApplication), args.Error(1)
}
func (m *MockApplicationRepo) List(ctx context.Context, filter domain.ApplicationFilter) ([]domain.MembershipApplication, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.MembershipApplication), args.Error(1)
}
func (m *MockApplicationRepo) UpdateReview(ctx context.Context, id string, expected domain.ApplicationStatus, review domain.Review) error {
	args := m.Called(ctx, id, expected, review)
	return args.Error(0)
}
func (m *MockApplicationRepo) UpdatePayment(ctx context.Context, id string, status domain.PaymentStatus, sessionID string) error {
	args := m.Called(ctx, id, status, sessionID)
	return args.Error(0)
}
func (m *MockApplicationRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMemberRepo
type MockMemberRepo struct {
	mock.Mock
}

func (m *MockMemberRepo) Create(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
func (m *MockMemberRepo) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberRepo) List(ctx context.Context, filter domain.MemberFilter) ([]domain.Member, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Member), args.Error(1)
}
func (m *MockMemberRepo) Update(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
func (m *MockMemberRepo) UpdateStatus(ctx context.Context, id string, expected, next domain.MembershipStatus) error {
	args := m.Called(ctx, id, expected, next)
	return args.Error(0)
}
func (m *MockMemberRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMailRepo
type MockMailRepo struct {
	mock.Mock
}

func (m *MockMailRepo) Enqueue(ctx context.Context, msg *domain.MailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
func (m *MockMailRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.MailMessage, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]domain.MailMessage), args.Error(1)
}
func (m *MockMailRepo) Update(ctx context.Context, msg *domain.MailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) ApplicationSubmitted(ctx context.Context, app *domain.MembershipApplication, planName string) error {
	args := m.Called(ctx, app, planName)
	return args.Error(0)
}
func (m *MockNotifier) AdminNewApplication(ctx context.Context, app *domain.MembershipApplication, planName string) error {
	args := m.Called(ctx, app, planName)
	return args.Error(0)
}
func (m *MockNotifier) ApplicationApproved(ctx context.Context, member *domain.Member, planName string) error {
	args := m.Called(ctx, member, planName)
	return args.Error(0)
}
func (m *MockNotifier) ApplicationRejected(ctx context.Context, app *domain.MembershipApplication, notes string) error {
	args := m.Called(ctx, app, notes)
	return args.Error(0)
}
func (m *MockNotifier) MembershipExpired(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
func (m *MockNotifier) MembershipExpiring(ctx context.Context, member *domain.Member, daysLeft int) error {
	args := m.Called(ctx, member, daysLeft)
	return args.Error(0)
}

// MockPaymentProvider
type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CheckoutSession), args.Error(1)
}
func (m *MockPaymentProvider) VerifyPayment(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}
