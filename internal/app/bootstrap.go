// Package app wires configuration into the store and authenticator shared by the server and the cron runner.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"memberhub-backend/internal/config"
	"memberhub-backend/internal/logger"
	"memberhub-backend/internal/repository"
	"memberhub-backend/internal/repository/firestore"
	"memberhub-backend/internal/repository/postgres"
	"memberhub-backend/internal/security"
)

// Bootstrap holds the lazily created Firebase app so the store and the authenticator share one
type Bootstrap struct {
	cfg *config.Config
	fb  *firebase.App
}

func New(cfg *config.Config) *Bootstrap {
	return &Bootstrap{cfg: cfg}
}

// Firebase returns the Firebase app, creating it on first use
func (b *Bootstrap) Firebase(ctx context.Context) (*firebase.App, error) {
	if b.fb != nil {
		return b.fb, nil
	}

	var opts []option.ClientOption
	if b.cfg.Firebase.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(b.cfg.Firebase.CredentialsFile))
	}

	fb, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: b.cfg.Firebase.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase: %w", err)
	}
	b.fb = fb
	return fb, nil
}

// OpenStore connects the configured database driver
func (b *Bootstrap) OpenStore(ctx context.Context) (repository.Store, error) {
	switch b.cfg.Database.Driver {
	case config.DatabaseDriverFirestore:
		fb, err := b.Firebase(ctx)
		if err != nil {
			return nil, err
		}
		client, err := fb.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to open firestore: %w", err)
		}
		logger.Info("Firestore store ready", "project", b.cfg.Firebase.ProjectID)
		return firestore.NewStore(client), nil

	case config.DatabaseDriverPostgres:
		db, err := sql.Open("postgres", b.cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		logger.Info("Database connection established", "host", b.cfg.Database.Host, "database", b.cfg.Database.Database)
		return postgres.NewStore(db), nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", b.cfg.Database.Driver)
	}
}

// Authenticator returns the bearer token verifier and, for the local provider, the password login
func (b *Bootstrap) Authenticator(ctx context.Context) (security.Authenticator, security.PasswordAuthenticator, error) {
	switch b.cfg.Auth.Provider {
	case config.AuthProviderFirebase:
		fb, err := b.Firebase(ctx)
		if err != nil {
			return nil, nil, err
		}
		client, err := fb.Auth(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize firebase auth: %w", err)
		}
		return security.NewFirebaseAuthenticator(client, b.cfg.Auth.RoleClaim), nil, nil

	case config.AuthProviderLocal:
		local := security.NewLocalAuthenticator(b.cfg.Auth)
		return local, local, nil

	default:
		return nil, nil, fmt.Errorf("unsupported auth provider %q", b.cfg.Auth.Provider)
	}
}
