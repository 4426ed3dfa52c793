package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/logger"
	"memberhub-backend/internal/security"
)

func (s *Server) listApplications(w http.ResponseWriter, r *http.Request) {
	filter := domain.ApplicationFilter{Status: domain.ApplicationStatus(r.URL.Query().Get("status"))}
	apps, err := s.memberships.ListApplications(r.Context(), filter)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if apps == nil {
		apps = []domain.MembershipApplication{}
	}
	respondWithJSON(w, http.StatusOK, apps)
}

func (s *Server) getApplication(w http.ResponseWriter, r *http.Request) {
	app, err := s.memberships.GetApplication(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, app)
}

func (s *Server) deleteApplication(w http.ResponseWriter, r *http.Request) {
	if err := s.memberships.DeleteApplication(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondWithError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// reviewRequest is the body of approve and reject. ExpectedStatus is the status the
// reviewer saw; an empty value means pending.
type reviewRequest struct {
	ExpectedStatus domain.ApplicationStatus `json:"expected_status"`
	Notes          string                   `json:"notes"`
}

func (s *Server) approveApplication(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		respondWithError(w, err)
		return
	}
	reviewer := security.IdentityFromContext(r.Context()).Email
	member, err := s.memberships.ApproveApplication(r.Context(), mux.Vars(r)["id"], reviewer, req.ExpectedStatus)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, s.viewOf(member))
}

func (s *Server) rejectApplication(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		respondWithError(w, err)
		return
	}
	reviewer := security.IdentityFromContext(r.Context()).Email
	app, err := s.memberships.RejectApplication(r.Context(), mux.Vars(r)["id"], reviewer, req.Notes, req.ExpectedStatus)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, app)
}

func (s *Server) listMembers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.MemberFilter{
		Email:  q.Get("email"),
		Status: domain.MembershipStatus(q.Get("status")),
	}
	members, err := s.members.ListMembers(r.Context(), filter)
	if err != nil {
		respondWithError(w, err)
		return
	}
	views := make([]memberView, 0, len(members))
	for i := range members {
		views = append(views, s.viewOf(&members[i]))
	}
	respondWithJSON(w, http.StatusOK, views)
}

func (s *Server) getMember(w http.ResponseWriter, r *http.Request) {
	member, err := s.members.GetMember(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, s.viewOf(member))
}

func (s *Server) updateMember(w http.ResponseWriter, r *http.Request) {
	var update domain.MemberUpdate
	if err := decodeJSON(w, r, &update, false); err != nil {
		respondWithError(w, err)
		return
	}
	updated, err := s.members.UpdateMember(r.Context(), mux.Vars(r)["id"], update)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, s.viewOf(updated))
}

func (s *Server) deleteMember(w http.ResponseWriter, r *http.Request) {
	if err := s.members.DeleteMember(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondWithError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) renewMember(w http.ResponseWriter, r *http.Request) {
	member, err := s.memberships.RenewMembership(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, s.viewOf(member))
}

func (s *Server) cancelMember(w http.ResponseWriter, r *http.Request) {
	member, err := s.members.CancelMembership(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, s.viewOf(member))
}

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	var plan domain.MembershipPlan
	if err := decodeJSON(w, r, &plan, false); err != nil {
		respondWithError(w, err)
		return
	}
	if err := s.plans.CreatePlan(r.Context(), &plan); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, plan)
}

func (s *Server) updatePlan(w http.ResponseWriter, r *http.Request) {
	var plan domain.MembershipPlan
	if err := decodeJSON(w, r, &plan, false); err != nil {
		respondWithError(w, err)
		return
	}
	plan.ID = mux.Vars(r)["id"]
	if err := s.plans.UpdatePlan(r.Context(), &plan); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, plan)
}

func (s *Server) deletePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.plans.DeletePlan(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondWithError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sweepResult struct {
	Expired int    `json:"expired"`
	Failed  int    `json:"failed"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) runExpireMemberships(w http.ResponseWriter, r *http.Request) {
	count, err := s.memberships.CheckAndExpireMemberships(r.Context())
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		// Partial sweep: report what was expired alongside the failures
		logger.Error("Expiry sweep finished with errors", "expired", count, "error", err)
		respondWithJSON(w, http.StatusInternalServerError, sweepResult{
			Expired: count,
			Failed:  len(joined.Unwrap()),
			Error:   "expiry sweep finished with errors",
		})
		return
	}
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sweepResult{Expired: count})
}
