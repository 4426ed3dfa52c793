package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/security"
	"memberhub-backend/internal/service"
)

// MockMembershipService
type MockMembershipService struct {
	mock.Mock
}

func (m *MockMembershipService) SubmitApplication(ctx context.Context, input service.ApplicationInput) (*domain.MembershipApplication, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MembershipApplication), args.Error(1)
}
func (m *MockMembershipService) GetApplication(ctx context.Context, id string) (*domain.MembershipApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MembershipApplication), args.Error(1)
}
func (m *MockMembershipService) ListApplications(ctx context.Context, filter domain.ApplicationFilter) ([]domain.MembershipApplication, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.MembershipApplication), args.Error(1)
}
func (m *MockMembershipService) DeleteApplication(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockMembershipService) ApproveApplication(ctx context.Context, id, reviewedBy string, expected domain.ApplicationStatus) (*domain.Member, error) {
	args := m.Called(ctx, id, reviewedBy, expected)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMembershipService) RejectApplication(ctx context.Context, id, reviewedBy, notes string, expected domain.ApplicationStatus) (*domain.MembershipApplication, error) {
	args := m.Called(ctx, id, reviewedBy, notes, expected)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MembershipApplication), args.Error(1)
}
func (m *MockMembershipService) RenewMembership(ctx context.Context, memberID string) (*domain.Member, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMembershipService) CheckAndExpireMemberships(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *MockMembershipService) NotifyExpiringMemberships(ctx context.Context, thresholds []int) (int, error) {
	args := m.Called(ctx, thresholds)
	return args.Int(0), args.Error(1)
}

// MockPlanService
type MockPlanService struct {
	mock.Mock
}

func (m *MockPlanService) ListPlans(ctx context.Context) ([]domain.MembershipPlan, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.MembershipPlan), args.Error(1)
}
func (m *MockPlanService) GetPlan(ctx context.Context, id string) (*domain.MembershipPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MembershipPlan), args.Error(1)
}
func (m *MockPlanService) CreatePlan(ctx context.Context, plan *domain.MembershipPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}
func (m *MockPlanService) UpdatePlan(ctx context.Context, plan *domain.MembershipPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}
func (m *MockPlanService) DeletePlan(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockPlanService) SeedDefaultPlans(ctx context.Context, currency string) (int, error) {
	args := m.Called(ctx, currency)
	return args.Int(0), args.Error(1)
}

// MockMemberService
type MockMemberService struct {
	mock.Mock
}

func (m *MockMemberService) GetMember(ctx context.Context, id string) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberService) ListMembers(ctx context.Context, filter domain.MemberFilter) ([]domain.Member, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Member), args.Error(1)
}
func (m *MockMemberService) FindByEmail(ctx context.Context, email string) (*domain.Member, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberService) UpdateMember(ctx context.Context, id string, update domain.MemberUpdate) (*domain.Member, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberService) UpdateOwnProfile(ctx context.Context, email string, update domain.ProfileUpdate) (*domain.Member, error) {
	args := m.Called(ctx, email, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberService) CancelMembership(ctx context.Context, id string) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberService) DeleteMember(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPaymentService
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) StartCheckout(ctx context.Context, applicationID, successURL, cancelURL string) (*domain.CheckoutResult, error) {
	args := m.Called(ctx, applicationID, successURL, cancelURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutResult), args.Error(1)
}
func (m *MockPaymentService) VerifyCheckout(ctx context.Context, applicationID, sessionID string) (*domain.CheckoutResult, error) {
	args := m.Called(ctx, applicationID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutResult), args.Error(1)
}

// staticAuth maps fixed bearer tokens to identities.
type staticAuth map[string]*security.Identity

func (a staticAuth) Authenticate(ctx context.Context, token string) (*security.Identity, error) {
	if id, ok := a[token]; ok {
		return id, nil
	}
	return nil, security.ErrInvalidToken
}

type stubLogin struct {
	staticAuth
}

func (s stubLogin) Login(ctx context.Context, email, password string) (*security.LoginResult, error) {
	if email == "admin@example.org" && password == "pw" {
		return &security.LoginResult{AccessToken: "admin-token", ExpiresIn: 3600, Identity: s.staticAuth["admin-token"]}, nil
	}
	return nil, security.ErrInvalidCredentials
}
