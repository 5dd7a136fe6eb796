package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/blokmap/blokmap-api/internal/domain"
	"github.com/blokmap/blokmap-api/internal/platform/logger"
	"github.com/blokmap/blokmap-api/internal/platform/metrics"
	"github.com/blokmap/blokmap-api/internal/store"
)

// Service handles account creation, credential checks and session resolution.
type Service interface {
	// Signup validates and stores a new user with a hashed password.
	// Returns store.ErrUsernameExists or store.ErrEmailExists on duplicates.
	Signup(ctx context.Context, username, email, password string) (*domain.User, error)

	// Authenticate checks a username/password pair. Unknown usernames and
	// wrong passwords both yield ErrInvalidCredentials.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	// ResolveSession maps a session token to the user it was issued for.
	ResolveSession(ctx context.Context, token string) (*domain.User, error)
}

type serviceImpl struct {
	userStore  store.UserStore
	transactor store.Transactor
	hasher     PasswordHasher
	jwtService JWTService
	logger     *slog.Logger

	// dummyHash is compared against for unknown usernames so that both
	// failure paths cost one hash verification.
	dummyHash string
}

// NewService creates a new auth Service.
func NewService(
	userStore store.UserStore,
	transactor store.Transactor,
	hasher PasswordHasher,
	jwtService JWTService,
	logger *slog.Logger,
) (Service, error) {
	if userStore == nil || transactor == nil || hasher == nil || jwtService == nil {
		return nil, errors.New("auth service: userStore, transactor, hasher and jwtService are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dummyHash, err := hasher.Hash("blokmap-timing-equalizer")
	if err != nil {
		return nil, fmt.Errorf("auth service: failed to prepare dummy hash: %w", err)
	}

	return &serviceImpl{
		userStore:  userStore,
		transactor: transactor,
		hasher:     hasher,
		jwtService: jwtService,
		logger:     logger.With(slog.String("component", "auth_service")),
		dummyHash:  dummyHash,
	}, nil
}

// Signup implements Service.Signup
func (s *serviceImpl) Signup(ctx context.Context, username, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(username, email, password)
	if err != nil {
		metrics.RecordAuthAttempt("signup", metrics.ResultInvalid)
		return nil, signupValidationError(err)
	}

	user.HashedPassword, err = s.hasher.Hash(user.Password)
	if err != nil {
		metrics.RecordAuthAttempt("signup", metrics.ResultError)
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	user.Password = ""
	if err != nil {
		if store.IsDuplicateError(err) {
			metrics.RecordAuthAttempt("signup", metrics.ResultConflict)
			log.Debug("attempted to create user with existing username or email",
				slog.String("username", user.Username))
			return nil, err
		}
		metrics.RecordAuthAttempt("signup", metrics.ResultError)
		log.Error("failed to save user to database",
			slog.String("error", err.Error()),
			slog.String("username", user.Username))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	metrics.RecordAuthAttempt("signup", metrics.ResultSuccess)
	log.Info("user signed up",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username))
	return user, nil
}

// Authenticate implements Service.Authenticate
func (s *serviceImpl) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			_ = s.hasher.Compare(s.dummyHash, password)
			metrics.RecordAuthAttempt("login", metrics.ResultInvalid)
			log.Debug("login attempt for unknown username")
			return nil, ErrInvalidCredentials
		}
		metrics.RecordAuthAttempt("login", metrics.ResultError)
		log.Error("failed to look up user for login", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		metrics.RecordAuthAttempt("login", metrics.ResultInvalid)
		if !errors.Is(err, ErrPasswordMismatch) {
			log.Warn("stored password hash could not be verified",
				slog.Int64("user_id", user.ID),
				slog.String("error", err.Error()))
		}
		return nil, ErrInvalidCredentials
	}

	metrics.RecordAuthAttempt("login", metrics.ResultSuccess)
	log.Debug("user authenticated", slog.Int64("user_id", user.ID))
	return user, nil
}

// ResolveSession implements Service.ResolveSession
func (s *serviceImpl) ResolveSession(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	claims, err := s.jwtService.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.userStore.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Debug("session token for unknown user",
				slog.Int64("user_id", claims.UserID))
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}

	return user, nil
}

// signupValidationError attaches the form field name to a user validation error.
func signupValidationError(err error) error {
	field := "body"
	switch {
	case errors.Is(err, domain.ErrEmptyUsername), errors.Is(err, domain.ErrUsernameTooLong):
		field = "username"
	case errors.Is(err, domain.ErrEmptyEmail), errors.Is(err, domain.ErrInvalidEmail):
		field = "email"
	case errors.Is(err, domain.ErrEmptyPassword), errors.Is(err, domain.ErrPasswordTooLong):
		field = "password"
	}
	return domain.NewValidationError(field, err.Error(), err)
}
