package http

import (
	"fmt"
	"net/http"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/security"
)

// memberView adds the derived expiry state to a member record.
type memberView struct {
	*domain.Member
	ExpiryState     domain.ExpiryState `json:"expiry_state"`
	DaysUntilExpiry *int               `json:"days_until_expiry,omitempty"`
}

func (s *Server) viewOf(m *domain.Member) memberView {
	now := s.now()
	return memberView{
		Member:          m,
		ExpiryState:     domain.ExpiryStateOf(m.ExpiryDate, now),
		DaysUntilExpiry: domain.DaysUntilExpiry(m.ExpiryDate, now),
	}
}

func callerEmail(r *http.Request) (string, error) {
	id := security.IdentityFromContext(r.Context())
	if id.Email == "" {
		return "", fmt.Errorf("%w: account has no email address", domain.ErrNotFound)
	}
	return id.Email, nil
}

func (s *Server) getMe(w http.ResponseWriter, r *http.Request) {
	email, err := callerEmail(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	member, err := s.members.FindByEmail(r.Context(), email)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, s.viewOf(member))
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) {
	email, err := callerEmail(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var update domain.ProfileUpdate
	if err := decodeJSON(w, r, &update, false); err != nil {
		respondWithError(w, err)
		return
	}
	member, err := s.members.UpdateOwnProfile(r.Context(), email, update)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, s.viewOf(member))
}

type permissionsResponse struct {
	Role         domain.Role         `json:"role"`
	Email        string              `json:"email,omitempty"`
	Capabilities []domain.Capability `json:"capabilities"`
}

func (s *Server) getPermissions(w http.ResponseWriter, r *http.Request) {
	id := security.IdentityFromContext(r.Context())
	respondWithJSON(w, http.StatusOK, permissionsResponse{
		Role:         id.Role,
		Email:        id.Email,
		Capabilities: domain.PermissionsFor(id.Role).List(),
	})
}
