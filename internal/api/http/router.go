package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"memberhub-backend/internal/metrics"
	"memberhub-backend/internal/service"
	"memberhub-backend/internal/security"
)

// Deps are the services the API exposes. Login is nil when password login is disabled.
type Deps struct {
	Memberships service.MembershipService
	Plans       service.PlanService
	Members     service.MemberService
	Payments    service.PaymentService
	Auth        security.Authenticator
	Login       security.PasswordAuthenticator
	MetricsPath string
	Now         func() time.Time
}

type Server struct {
	memberships service.MembershipService
	plans       service.PlanService
	members     service.MemberService
	payments    service.PaymentService
	auth        security.Authenticator
	login       security.PasswordAuthenticator
	now         func() time.Time
}

// NewRouter builds the API router. Every API route passes through the access log,
// panic recovery and capability check middleware.
func NewRouter(d Deps) *mux.Router {
	s := &Server{
		memberships: d.Memberships,
		plans:       d.Plans,
		members:     d.Members,
		payments:    d.Payments,
		auth:        d.Auth,
		login:       d.Login,
		now:         d.Now,
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}

	root := mux.NewRouter()
	root.Use(accessLog, recoverPanics)
	if d.MetricsPath != "" {
		root.Handle(d.MetricsPath, metrics.Handler()).Methods(http.MethodGet)
	}

	api := root.PathPrefix("/").Subrouter()
	api.Use(s.authorize)
	s.registerRoutes(api)

	root.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithMessage(w, http.StatusNotFound, fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path))
	})
	return root
}

func (s *Server) registerRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)

	// Public
	r.HandleFunc("/api/v1/plans", s.listPlans).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/plans/{id}", s.getPlan).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/auth/login", s.loginHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/applications", s.submitApplication).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/applications/{id}/checkout", s.startCheckout).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/applications/{id}/checkout/verify", s.verifyCheckout).Methods(http.MethodPost)

	// Member self-service
	r.HandleFunc("/api/v1/me", s.getMe).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/me", s.updateMe).Methods(http.MethodPut)
	r.HandleFunc("/api/v1/me/permissions", s.getPermissions).Methods(http.MethodGet)

	// Admin
	r.HandleFunc("/api/v1/admin/applications", s.listApplications).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/admin/applications/{id}", s.getApplication).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/admin/applications/{id}", s.deleteApplication).Methods(http.MethodDelete)
	r.HandleFunc("/api/v1/admin/applications/{id}/approve", s.approveApplication).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/admin/applications/{id}/reject", s.rejectApplication).Methods(http.MethodPost)

	r.HandleFunc("/api/v1/admin/members", s.listMembers).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/admin/members/{id}", s.getMember).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/admin/members/{id}", s.updateMember).Methods(http.MethodPut)
	r.HandleFunc("/api/v1/admin/members/{id}", s.deleteMember).Methods(http.MethodDelete)
	r.HandleFunc("/api/v1/admin/members/{id}/renew", s.renewMember).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/admin/members/{id}/cancel", s.cancelMember).Methods(http.MethodPost)

	r.HandleFunc("/api/v1/admin/plans", s.createPlan).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/admin/plans/{id}", s.updatePlan).Methods(http.MethodPut)
	r.HandleFunc("/api/v1/admin/plans/{id}", s.deletePlan).Methods(http.MethodDelete)

	r.HandleFunc("/api/v1/admin/jobs/expire-memberships", s.runExpireMemberships).Methods(http.MethodPost)
}
