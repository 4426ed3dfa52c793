package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/security"
	"memberhub-backend/internal/service"
)

var testNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

type testServer struct {
	memberships *MockMembershipService
	plans       *MockPlanService
	members     *MockMemberService
	payments    *MockPaymentService
	handler     http.Handler
}

var testIdentities = staticAuth{
	"member-token": {Subject: "u-1", Email: "ada@example.org", Role: domain.RoleMember},
	"admin-token":  {Subject: "u-2", Email: "admin@example.org", Role: domain.RoleAdmin},
	"root-token":   {Subject: "u-3", Email: "root@example.org", Role: domain.RoleSuperAdmin},
}

func newTestServer(withLogin bool) *testServer {
	ts := &testServer{
		memberships: new(MockMembershipService),
		plans:       new(MockPlanService),
		members:     new(MockMemberService),
		payments:    new(MockPaymentService),
	}
	deps := Deps{
		Memberships: ts.memberships,
		Plans:       ts.plans,
		Members:     ts.members,
		Payments:    ts.payments,
		Auth:        testIdentities,
		MetricsPath: "/metrics",
		Now:         func() time.Time { return testNow },
	}
	if withLogin {
		deps.Login = stubLogin{testIdentities}
	}
	ts.handler = NewRouter(deps)
	return ts
}

func (ts *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(false)
	rec := ts.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["ok"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	ts := newTestServer(false)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "trace-42")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, "trace-42", rec.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(false)
	ts.do(http.MethodGet, "/healthz", "", "")

	rec := ts.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "memberhub_http_requests_total")
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(false)
	rec := ts.do(http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "no route")
}

func TestAuthorization(t *testing.T) {
	ts := newTestServer(false)
	ts.memberships.On("ListApplications", mock.Anything, domain.ApplicationFilter{}).Return([]domain.MembershipApplication{}, nil)
	ts.memberships.On("DeleteApplication", mock.Anything, "app-1").Return(nil)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"guest on admin route", http.MethodGet, "/api/v1/admin/applications", "", http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/api/v1/admin/applications", "forged", http.StatusUnauthorized},
		{"member on admin route", http.MethodGet, "/api/v1/admin/applications", "member-token", http.StatusForbidden},
		{"admin on admin route", http.MethodGet, "/api/v1/admin/applications", "admin-token", http.StatusOK},
		{"admin cannot delete", http.MethodDelete, "/api/v1/admin/applications/app-1", "admin-token", http.StatusForbidden},
		{"super admin deletes", http.MethodDelete, "/api/v1/admin/applications/app-1", "root-token", http.StatusNoContent},
		{"guest on profile", http.MethodGet, "/api/v1/me", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(tt.method, tt.path, tt.token, "")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestSubmitApplication(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		ts := newTestServer(false)
		ts.memberships.On("SubmitApplication", mock.Anything, mock.MatchedBy(func(in service.ApplicationInput) bool {
			return in.Email == "ada@example.org" && in.PlanID == "full" && in.FullName == "Ada Lovelace"
		})).Return(&domain.MembershipApplication{ID: "app-1", Status: domain.ApplicationStatusPending}, nil).Once()

		rec := ts.do(http.MethodPost, "/api/v1/applications", "",
			`{"email":"ada@example.org","full_name":"Ada Lovelace","plan_id":"full"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "app-1", body["id"])
		assert.Equal(t, "pending", body["status"])
		ts.memberships.AssertExpectations(t)
	})

	t.Run("Malformed body", func(t *testing.T) {
		ts := newTestServer(false)
		rec := ts.do(http.MethodPost, "/api/v1/applications", "", `{"email":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Validation error", func(t *testing.T) {
		ts := newTestServer(false)
		ts.memberships.On("SubmitApplication", mock.Anything, mock.Anything).Return(nil, domain.ErrValidation).Once()
		rec := ts.do(http.MethodPost, "/api/v1/applications", "", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestApproveApplication(t *testing.T) {
	t.Run("Reviewer comes from the token", func(t *testing.T) {
		ts := newTestServer(false)
		expiry := testNow.AddDate(1, 0, 0)
		ts.memberships.On("ApproveApplication", mock.Anything, "app-1", "admin@example.org", domain.ApplicationStatus("")).
			Return(&domain.Member{ID: "mem-1", MembershipStatus: domain.MembershipStatusActive, ExpiryDate: &expiry}, nil).Once()

		rec := ts.do(http.MethodPost, "/api/v1/admin/applications/app-1/approve", "admin-token", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "mem-1", body["id"])
		assert.Equal(t, "active", body["expiry_state"])
		ts.memberships.AssertExpectations(t)
	})

	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrConflict, http.StatusConflict},
		{domain.ErrInvalidTransition, http.StatusConflict},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrPaymentRequired, http.StatusPaymentRequired},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			ts := newTestServer(false)
			ts.memberships.On("ApproveApplication", mock.Anything, "app-1", "admin@example.org", domain.ApplicationStatusPending).
				Return(nil, tt.err).Once()

			rec := ts.do(http.MethodPost, "/api/v1/admin/applications/app-1/approve", "admin-token", `{"expected_status":"pending"}`)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRejectApplication(t *testing.T) {
	ts := newTestServer(false)
	ts.memberships.On("RejectApplication", mock.Anything, "app-1", "admin@example.org", "Incomplete", domain.ApplicationStatus("")).
		Return(&domain.MembershipApplication{ID: "app-1", Status: domain.ApplicationStatusRejected, Notes: "Incomplete"}, nil).Once()

	rec := ts.do(http.MethodPost, "/api/v1/admin/applications/app-1/reject", "admin-token", `{"notes":"Incomplete"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rejected", decodeBody(t, rec)["status"])
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(false)
	expiry := testNow.Add(10 * 24 * time.Hour)
	ts.members.On("FindByEmail", mock.Anything, "ada@example.org").Return(&domain.Member{
		ID:               "mem-1",
		ApplicantProfile: domain.ApplicantProfile{Email: "ada@example.org"},
		MembershipStatus: domain.MembershipStatusActive,
		ExpiryDate:       &expiry,
	}, nil).Once()

	rec := ts.do(http.MethodGet, "/api/v1/me", "member-token", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ada@example.org", body["email"])
	assert.Equal(t, "expiring_soon", body["expiry_state"])
	assert.Equal(t, float64(10), body["days_until_expiry"])
}

func TestPermissions(t *testing.T) {
	ts := newTestServer(false)

	rec := ts.do(http.MethodGet, "/api/v1/me/permissions", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "guest", body["role"])
	assert.ElementsMatch(t, []any{"submit_application", "view_public"}, body["capabilities"])

	rec = ts.do(http.MethodGet, "/api/v1/me/permissions", "admin-token", "")
	body = decodeBody(t, rec)
	assert.Equal(t, "admin", body["role"])
	assert.Contains(t, body["capabilities"], "manage_applications")
	assert.NotContains(t, body["capabilities"], "delete_records")
}

func TestLogin(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		ts := newTestServer(false)
		rec := ts.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"admin@example.org","password":"pw"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Success", func(t *testing.T) {
		ts := newTestServer(true)
		rec := ts.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"admin@example.org","password":"pw"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "admin-token", decodeBody(t, rec)["access_token"])
	})

	t.Run("Bad credentials", func(t *testing.T) {
		ts := newTestServer(true)
		rec := ts.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"admin@example.org","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestCheckout(t *testing.T) {
	ts := newTestServer(false)
	ts.payments.On("StartCheckout", mock.Anything, "app-1", "https://site/ok", "").
		Return(&domain.CheckoutResult{ApplicationID: "app-1", Required: true, Available: false}, nil).Once()

	rec := ts.do(http.MethodPost, "/api/v1/applications/app-1/checkout", "", `{"success_url":"https://site/ok"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["required"])
	assert.Equal(t, false, body["available"])

	rec = ts.do(http.MethodPost, "/api/v1/applications/app-1/checkout", "", `{"success_url":"javascript:alert(1)"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminPlanAndJobs(t *testing.T) {
	ts := newTestServer(false)
	ts.plans.On("UpdatePlan", mock.Anything, mock.MatchedBy(func(p *domain.MembershipPlan) bool {
		return p.ID == "gold" && p.Name == "Gold"
	})).Return(nil).Once()
	ts.memberships.On("CheckAndExpireMemberships", mock.Anything).Return(3, nil).Once()

	rec := ts.do(http.MethodPut, "/api/v1/admin/plans/gold", "admin-token", `{"id":"ignored","name":"Gold","interval":"yearly"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/admin/jobs/expire-memberships", "admin-token", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), decodeBody(t, rec)["expired"])

	rec = ts.do(http.MethodPost, "/api/v1/admin/jobs/expire-memberships", "member-token", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestExpireMembershipsPartialFailure(t *testing.T) {
	ts := newTestServer(false)
	sweepErr := errors.Join(errors.New("member m-1: connection reset"), errors.New("member m-2: connection reset"))
	ts.memberships.On("CheckAndExpireMemberships", mock.Anything).Return(5, sweepErr).Once()

	rec := ts.do(http.MethodPost, "/api/v1/admin/jobs/expire-memberships", "admin-token", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(5), body["expired"])
	assert.Equal(t, float64(2), body["failed"])
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestUpdateMember(t *testing.T) {
	ts := newTestServer(false)
	ts.members.On("UpdateMember", mock.Anything, "mem-1", mock.MatchedBy(func(u domain.MemberUpdate) bool {
		return u.Bio != nil && *u.Bio == "Analyst" && u.Email == nil && u.ExpiryDate == nil && !u.NoExpiry
	})).Return(&domain.Member{ID: "mem-1", Bio: "Analyst", MembershipStatus: domain.MembershipStatusActive}, nil).Once()

	rec := ts.do(http.MethodPut, "/api/v1/admin/members/mem-1", "admin-token", `{"bio":"Analyst"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Analyst", decodeBody(t, rec)["bio"])
	ts.members.AssertExpectations(t)
}

func TestInternalErrorsAreHidden(t *testing.T) {
	ts := newTestServer(false)
	ts.plans.On("ListPlans", mock.Anything).Return([]domain.MembershipPlan(nil), assert.AnError).Once()

	rec := ts.do(http.MethodGet, "/api/v1/plans", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeBody(t, rec)["error"])
}

var _ security.PasswordAuthenticator = stubLogin{}
