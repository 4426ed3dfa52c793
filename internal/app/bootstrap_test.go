package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memberhub-backend/internal/config"
)

func TestOpenStore_UnsupportedDriver(t *testing.T) {
	b := New(&config.Config{Database: config.DatabaseConfig{Driver: "mysql"}})

	store, err := b.OpenStore(context.Background())
	assert.Nil(t, store)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestAuthenticator(t *testing.T) {
	t.Run("Local provider also handles login", func(t *testing.T) {
		cfg := &config.Config{Auth: config.AuthConfig{
			Provider: config.AuthProviderLocal,
			JWT:      config.JWTConfig{Secret: "test-secret", AccessTokenExpiry: 15},
		}}

		authn, login, err := New(cfg).Authenticator(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, authn)
		assert.NotNil(t, login)
	})

	t.Run("Unknown provider", func(t *testing.T) {
		cfg := &config.Config{Auth: config.AuthConfig{Provider: "saml"}}

		_, _, err := New(cfg).Authenticator(context.Background())
		assert.ErrorContains(t, err, "unsupported auth provider")
	})
}
