package shared

import (
	"net/http"
	"time"

	"github.com/blokmap/blokmap-api/internal/config"
)

// SessionCookie reads and writes the cookie carrying the session token.
type SessionCookie struct {
	Name   string
	Secure bool
}

// NewSessionCookie builds a SessionCookie from the auth configuration.
func NewSessionCookie(cfg config.AuthConfig) SessionCookie {
	return SessionCookie{Name: cfg.CookieName, Secure: cfg.CookieSecure}
}

// Set writes the session token. The cookie expires with the token.
func (c SessionCookie) Set(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt.UTC(),
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear tells the client to drop the session cookie.
func (c SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read returns the session token, or "" when the cookie is absent.
func (c SessionCookie) Read(r *http.Request) string {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
