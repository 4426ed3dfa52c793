package security

import (
	"context"
	"errors"
	"strings"

	"memberhub-backend/internal/domain"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Identity is the authenticated caller. Anonymous requests carry a guest identity.
type Identity struct {
	Subject string      `json:"subject,omitempty"`
	Email   string      `json:"email,omitempty"`
	Role    domain.Role `json:"role"`
}

// Guest is the identity of a request without credentials.
func Guest() *Identity {
	return &Identity{Role: domain.RoleGuest}
}

func (i *Identity) Can(c domain.Capability) bool {
	return domain.PermissionsFor(i.Role).Has(c)
}

// Authenticator turns a bearer token into an Identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

// LoginResult is returned by password logins.
type LoginResult struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	Identity    *Identity `json:"identity"`
}

// PasswordAuthenticator is implemented by providers that accept email and password directly.
type PasswordAuthenticator interface {
	Authenticator
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller, or a guest if none was attached.
func IdentityFromContext(ctx context.Context) *Identity {
	if id, ok := ctx.Value(identityKey{}).(*Identity); ok && id != nil {
		return id
	}
	return Guest()
}

// BearerToken strips an optional "Bearer " prefix from an Authorization header.
func BearerToken(header string) string {
	token := strings.TrimSpace(header)
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}
