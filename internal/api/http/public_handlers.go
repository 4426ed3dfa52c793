package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/service"
)

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"ts": s.now().Format(time.RFC3339),
	})
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.plans.ListPlans(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	if plans == nil {
		plans = []domain.MembershipPlan{}
	}
	respondWithJSON(w, http.StatusOK, plans)
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.plans.GetPlan(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, plan)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	if s.login == nil {
		respondWithMessage(w, http.StatusNotFound, "password login is not enabled")
		return
	}
	var req loginRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respondWithError(w, err)
		return
	}
	res, err := s.login.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (s *Server) submitApplication(w http.ResponseWriter, r *http.Request) {
	var input service.ApplicationInput
	if err := decodeJSON(w, r, &input, false); err != nil {
		respondWithError(w, err)
		return
	}
	app, err := s.memberships.SubmitApplication(r.Context(), input)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, app)
}

type checkoutRequest struct {
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

func (s *Server) startCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		respondWithError(w, err)
		return
	}
	for _, u := range []string{req.SuccessURL, req.CancelURL} {
		if u != "" && !strings.HasPrefix(u, "https://") && !strings.HasPrefix(u, "http://") {
			respondWithError(w, fmt.Errorf("%w: redirect urls must be absolute", domain.ErrValidation))
			return
		}
	}
	res, err := s.payments.StartCheckout(r.Context(), mux.Vars(r)["id"], req.SuccessURL, req.CancelURL)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

type verifyRequest struct {
	SessionID string `json:"session_id"`
}

func (s *Server) verifyCheckout(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		respondWithError(w, err)
		return
	}
	res, err := s.payments.VerifyCheckout(r.Context(), mux.Vars(r)["id"], req.SessionID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}
