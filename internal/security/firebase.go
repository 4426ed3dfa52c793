package security

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/logger"
)

// IDTokenVerifier is the part of *auth.Client the authenticator needs.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuthenticator verifies Firebase ID tokens. The role comes from a custom claim;
// a signed-in user without one is a member.
type FirebaseAuthenticator struct {
	verifier  IDTokenVerifier
	roleClaim string
}

func NewFirebaseAuthenticator(verifier IDTokenVerifier, roleClaim string) *FirebaseAuthenticator {
	if roleClaim == "" {
		roleClaim = "role"
	}
	return &FirebaseAuthenticator{verifier: verifier, roleClaim: roleClaim}
}

func (a *FirebaseAuthenticator) Authenticate(ctx context.Context, token string) (*Identity, error) {
	logger.ExternalServiceCall("firebase", "VerifyIDToken")
	tok, err := a.verifier.VerifyIDToken(ctx, token)
	logger.ExternalServiceResult("firebase", "VerifyIDToken", err)
	if err != nil {
		if auth.IsIDTokenExpired(err) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id := &Identity{Subject: tok.UID, Role: domain.RoleMember}
	if email, ok := tok.Claims["email"].(string); ok {
		id.Email = email
	}
	if role, ok := tok.Claims[a.roleClaim].(string); ok && role != "" {
		id.Role = domain.ParseRole(role)
	}
	return id, nil
}
