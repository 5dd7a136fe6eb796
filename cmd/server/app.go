package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/blokmap/blokmap-api/internal/api/shared"
	"github.com/blokmap/blokmap-api/internal/config"
	"github.com/blokmap/blokmap-api/internal/platform/postgres"
	"github.com/blokmap/blokmap-api/internal/service"
	"github.com/blokmap/blokmap-api/internal/service/auth"
	"github.com/blokmap/blokmap-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore        store.UserStore
	translationStore store.TranslationStore
	transactor       store.Transactor

	// Services
	jwtService         auth.JWTService
	passwordHasher     auth.PasswordHasher
	authService        auth.Service
	translationService service.TranslationService

	sessionCookie shared.SessionCookie
}

// newApplication wires stores and services on top of an open database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:        cfg,
		logger:        logger,
		db:            db,
		sessionCookie: shared.NewSessionCookie(cfg.Auth),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT session service initialized",
		slog.String("algorithm", cfg.Auth.JWTAlgorithm),
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.passwordHasher, err = auth.NewPasswordHasher(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.translationStore = postgres.NewPostgresTranslationStore(db, logger)
	app.transactor = postgres.NewTransactor(db)

	app.authService, err = auth.NewService(app.userStore, app.transactor, app.passwordHasher, app.jwtService, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	app.translationService, err = service.NewTranslationService(app.translationStore, app.transactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create translation service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		closeDB(app.db, app.logger)
	}
}
