package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/blokmap/blokmap-api/internal/api/shared"
	"github.com/blokmap/blokmap-api/internal/domain"
	"github.com/blokmap/blokmap-api/internal/platform/logger"
	"github.com/blokmap/blokmap-api/internal/service/auth"
)

// AuthHandler handles signup, login and logout.
type AuthHandler struct {
	authService auth.Service
	jwtService  auth.JWTService
	cookie      shared.SessionCookie
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	authService auth.Service,
	jwtService auth.JWTService,
	cookie shared.SessionCookie,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		authService: authService,
		jwtService:  jwtService,
		cookie:      cookie,
		logger:      logger.With(slog.String("component", "auth_handler")),
	}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}

	req := SignupRequest{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	user, err := h.authService.Signup(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if _, ok := h.startSession(w, r, user); !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, user)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}

	req := LoginRequest{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	user, err := h.authService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	expiresAt, ok := h.startSession(w, r, user)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{UserID: user.ID, ExpiresAt: expiresAt})
}

// Logout handles POST /auth/logout. Tokens are stateless, so this only
// drops the client's cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookie.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// startSession issues a token for user and sets the cookie. It writes a 500
// and returns false when signing fails.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *domain.User) (time.Time, bool) {
	token, expiresAt, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Error("failed to generate session token",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to start session", err)
		return time.Time{}, false
	}
	h.cookie.Set(w, token, expiresAt)
	return expiresAt, true
}
