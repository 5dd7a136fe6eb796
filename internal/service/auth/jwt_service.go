package auth

import (
	"context"
	"time"
)

// JWTService defines operations for managing session tokens.
type JWTService interface {
	// GenerateToken creates a signed session token for the user.
	// Returns the token string and the moment it expires.
	GenerateToken(ctx context.Context, userID int64) (string, time.Time, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns ErrMalformedToken for unparseable or badly signed tokens,
	// ErrExpiredToken for expired ones and ErrInvalidToken for tokens whose
	// subject is not a user ID.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the validated contents of a session token.
type Claims struct {
	// UserID is parsed from the subject claim.
	UserID int64

	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
