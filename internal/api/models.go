package api

import (
	"time"

	"github.com/blokmap/blokmap-api/internal/domain"
)

// SignupRequest is the form payload of POST /auth/signup.
type SignupRequest struct {
	Username string `form:"username" validate:"required,max=64"`
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required,max=72"`
}

// LoginRequest is the form payload of POST /auth/login.
type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// LoginResponse is returned by a successful login. The token itself only
// travels in the session cookie.
type LoginResponse struct {
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CreateTranslationRequest is the body of POST /translations/.
// A missing, null or empty translationKey asks the server to generate one.
type CreateTranslationRequest struct {
	TranslationKey *string `json:"translationKey"`
	Language       string  `json:"language"       validate:"required,oneof=nl en fr de"`
	Translation    string  `json:"translation"    validate:"required"`
}

// TranslationItem is one language/text pair of a bulk create.
type TranslationItem struct {
	Language    string `json:"language"    validate:"required,oneof=nl en fr de"`
	Translation string `json:"translation" validate:"required"`
}

// CreateTranslationsRequest is the body of POST /translations/bulk/.
type CreateTranslationsRequest struct {
	TranslationKey *string           `json:"translationKey"`
	Translations   []TranslationItem `json:"translations"   validate:"required,min=1,dive"`
}

// TranslationsResponse lists the translations stored under one key.
type TranslationsResponse struct {
	TranslationKey string                `json:"translationKey"`
	Translations   []*domain.Translation `json:"translations"`
}
