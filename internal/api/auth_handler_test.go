package api_test

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	t.Run("creates the user and starts a session", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.postForm(t, "/auth/signup", url.Values{
			"username": {"alice"},
			"email":    {"alice@example.com"},
			"password": {"password123"},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		body := decodeBody[map[string]any](t, rec)
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, "alice@example.com", body["email"])
		assert.NotContains(t, body, "password")
		assert.NotContains(t, body, "hashedPassword")
		assert.NotContains(t, body, "hashed_password")
		assert.NotContains(t, rec.Body.String(), "hashed:")

		cookie := sessionCookie(t, rec)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.Equal(t, "/", cookie.Path)

		claims, err := s.jwtService.ValidateToken(context.Background(), cookie.Value)
		require.NoError(t, err)
		assert.Equal(t, int64(body["id"].(float64)), claims.UserID)
		assert.True(t, claims.ExpiresAt.After(time.Now()))
		assert.WithinDuration(t, claims.ExpiresAt, cookie.Expires, time.Second)
	})

	t.Run("duplicate username", func(t *testing.T) {
		s := newTestServer(t)
		s.signup(t, "alice")

		rec := s.postForm(t, "/auth/signup", url.Values{
			"username": {"alice"},
			"email":    {"other@example.com"},
			"password": {"password123"},
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Username already registered", decodeBody[detailBody](t, rec).Detail)
	})

	t.Run("duplicate email", func(t *testing.T) {
		s := newTestServer(t)
		s.signup(t, "alice")

		rec := s.postForm(t, "/auth/signup", url.Values{
			"username": {"bob"},
			"email":    {"alice@example.com"},
			"password": {"password123"},
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Email already registered", decodeBody[detailBody](t, rec).Detail)
	})

	t.Run("invalid email", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.postForm(t, "/auth/signup", url.Values{
			"username": {"alice"},
			"email":    {"not-an-email"},
			"password": {"password123"},
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody[validationBody](t, rec)
		require.Len(t, body.Detail, 1)
		assert.Equal(t, []any{"body", "email"}, body.Detail[0].Loc)
		assert.Equal(t, "value_error.email", body.Detail[0].Type)
	})

	t.Run("missing fields", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.postForm(t, "/auth/signup", url.Values{"username": {"alice"}})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody[validationBody](t, rec)
		require.Len(t, body.Detail, 2)
		assert.Equal(t, []any{"body", "email"}, body.Detail[0].Loc)
		assert.Equal(t, []any{"body", "password"}, body.Detail[1].Loc)
		assert.Equal(t, "value_error.missing", body.Detail[1].Type)
		assert.Empty(t, s.users.Users)
	})
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "alice")
	alice, err := s.users.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		rec := s.postForm(t, "/auth/login", url.Values{
			"username": {"alice"},
			"password": {"password123"},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decodeBody[map[string]any](t, rec)
		assert.Equal(t, float64(alice.ID), body["userId"])
		assert.NotEmpty(t, body["expiresAt"])
		assert.NotContains(t, rec.Body.String(), "eyJ", "the token travels only in the cookie")

		claims, err := s.jwtService.ValidateToken(context.Background(), sessionCookie(t, rec).Value)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, claims.UserID)
	})

	for _, tc := range []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "alice", "wrong"},
		{"unknown user", "mallory", "password123"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.postForm(t, "/auth/login", url.Values{
				"username": {tc.username},
				"password": {tc.password},
			})
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Invalid username or password", decodeBody[detailBody](t, rec).Detail)
			assert.Empty(t, rec.Result().Cookies())
		})
	}

	t.Run("missing password", func(t *testing.T) {
		rec := s.postForm(t, "/auth/login", url.Values{"username": {"alice"}})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	cookie := s.signup(t, "alice")

	rec := s.postForm(t, "/auth/logout", url.Values{}, cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	cleared := sessionCookie(t, rec)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestUserMe(t *testing.T) {
	s := newTestServer(t)
	cookie := s.signup(t, "alice")
	alice, err := s.users.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)

	signed := func(t *testing.T, subject string, expiresAt time.Time) *http.Cookie {
		t.Helper()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		}).SignedString([]byte(testJWTSecret))
		require.NoError(t, err)
		return &http.Cookie{Name: testAuthConfig.CookieName, Value: token}
	}

	t.Run("valid session", func(t *testing.T) {
		rec := s.request(t, http.MethodGet, "/user/me", cookie)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decodeBody[map[string]any](t, rec)
		assert.Equal(t, "alice", body["username"])
		assert.NotContains(t, body, "hashedPassword")
	})

	tests := []struct {
		name   string
		cookie *http.Cookie
		status int
	}{
		{"no cookie", nil, http.StatusUnauthorized},
		{"garbage token", &http.Cookie{Name: testAuthConfig.CookieName, Value: "garbage"}, http.StatusBadRequest},
		{"expired token", signed(t, strconv.FormatInt(alice.ID, 10), time.Now().Add(-time.Hour)), http.StatusUnauthorized},
		{"unknown user", signed(t, "999", time.Now().Add(time.Hour)), http.StatusUnauthorized},
		{"non-numeric subject", signed(t, "alice", time.Now().Add(time.Hour)), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cookies []*http.Cookie
			if tt.cookie != nil {
				cookies = append(cookies, tt.cookie)
			}
			rec := s.request(t, http.MethodGet, "/user/me", cookies...)
			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, decodeBody[detailBody](t, rec).Detail)
		})
	}
}
