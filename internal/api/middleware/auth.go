package middleware

import (
	"log/slog"
	"net/http"

	"github.com/blokmap/blokmap-api/internal/api/shared"
	"github.com/blokmap/blokmap-api/internal/platform/logger"
	"github.com/blokmap/blokmap-api/internal/service/auth"
)

// ErrorResponder writes the HTTP response for an error. The API layer's
// error handler is passed in so that session failures use the same
// status and message table as every handler.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

// AuthMiddleware resolves the session cookie to a user for protected routes.
type AuthMiddleware struct {
	authService auth.Service
	cookie      shared.SessionCookie
	respondErr  ErrorResponder
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(authService auth.Service, cookie shared.SessionCookie, respondErr ErrorResponder) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		cookie:      cookie,
		respondErr:  respondErr,
	}
}

// Authenticate reads the session cookie and adds the user to the request
// context. Failures to resolve the session go to the ErrorResponder.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.authService.ResolveSession(r.Context(), m.cookie.Read(r))
		if err != nil {
			m.respondErr(w, r, err)
			return
		}

		ctx := shared.WithUser(r.Context(), user)
		ctx = logger.WithLogger(ctx, logger.FromContext(ctx).With(slog.Int64("user_id", user.ID)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
