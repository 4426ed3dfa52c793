package security

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"memberhub-backend/internal/config"
	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/logger"
)

// dummyHash keeps unknown-email logins as slow as wrong-password ones.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("memberhub-unknown-account"), bcrypt.DefaultCost)

type localAccount struct {
	email string
	hash  []byte
	role  domain.Role
}

// LocalAuthenticator checks configured accounts with bcrypt and issues HS256 access tokens.
type LocalAuthenticator struct {
	tokens   TokenManager
	ttl      time.Duration
	accounts map[string]localAccount
}

func NewLocalAuthenticator(cfg config.AuthConfig) *LocalAuthenticator {
	ttl := time.Duration(cfg.JWT.AccessTokenExpiry) * time.Minute
	a := &LocalAuthenticator{
		tokens:   NewTokenManager(cfg.JWT.Secret, ttl),
		ttl:      ttl,
		accounts: make(map[string]localAccount, len(cfg.Accounts)),
	}
	for _, acc := range cfg.Accounts {
		role := domain.RoleAdmin
		if acc.Role != "" {
			role = domain.ParseRole(acc.Role)
		}
		email := strings.ToLower(strings.TrimSpace(acc.Email))
		a.accounts[email] = localAccount{email: email, hash: []byte(acc.PasswordHash), role: role}
	}
	return a
}

func (a *LocalAuthenticator) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	acc, ok := a.accounts[email]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		logger.Warn("Login for unknown account", "email", email)
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		logger.Warn("Login with wrong password", "email", email)
		return nil, ErrInvalidCredentials
	}

	token, expires, err := a.tokens.GenerateAccessToken(email, email, acc.role)
	if err != nil {
		return nil, err
	}
	logger.Info("Local login succeeded", "email", email, "role", acc.role)
	return &LoginResult{
		AccessToken: token,
		ExpiresIn:   int64(time.Until(expires).Seconds()),
		Identity:    &Identity{Subject: email, Email: email, Role: acc.role},
	}, nil
}

func (a *LocalAuthenticator) Authenticate(ctx context.Context, token string) (*Identity, error) {
	claims, err := a.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &Identity{Subject: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
}
