package api_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/blokmap/blokmap-api/internal/api"
	"github.com/blokmap/blokmap-api/internal/api/middleware"
	"github.com/blokmap/blokmap-api/internal/api/shared"
	"github.com/blokmap/blokmap-api/internal/config"
	"github.com/blokmap/blokmap-api/internal/mocks"
	"github.com/blokmap/blokmap-api/internal/service"
	"github.com/blokmap/blokmap-api/internal/service/auth"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-that-is-long-enough-for-testing"

var testAuthConfig = config.AuthConfig{
	JWTSecret:            testJWTSecret,
	JWTAlgorithm:         "HS256",
	TokenLifetimeMinutes: 30,
	CookieName:           "access_token",
	CookieSecure:         true,
}

type testServer struct {
	router       http.Handler
	users        *mocks.MockUserStore
	translations *mocks.MockTranslationStore
	jwtService   auth.JWTService
}

// newTestServer wires the handlers over in-memory stores with the same
// routes the server registers.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := mocks.NewMockUserStore()
	translations := mocks.NewMockTranslationStore()
	transactor := &mocks.MockTransactor{}

	jwtService, err := auth.NewJWTService(testAuthConfig)
	require.NoError(t, err)

	authService, err := auth.NewService(users, transactor, &mocks.MockPasswordHasher{}, jwtService, logger)
	require.NoError(t, err)

	translationService, err := service.NewTranslationService(translations, transactor, logger)
	require.NoError(t, err)

	cookie := shared.NewSessionCookie(testAuthConfig)
	authHandler := api.NewAuthHandler(authService, jwtService, cookie, logger)
	userHandler := api.NewUserHandler()
	translationHandler := api.NewTranslationHandler(translationService, logger)
	authMiddleware := middleware.NewAuthMiddleware(authService, cookie, api.HandleAPIError)

	r := chi.NewRouter()
	r.Use(chimiddleware.StripSlashes)
	r.Use(middleware.NewTraceMiddleware(logger))

	r.Post("/auth/signup", authHandler.Signup)
	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/logout", authHandler.Logout)
	r.With(authMiddleware.Authenticate).Get("/user/me", userHandler.Me)

	r.Route("/translations", func(r chi.Router) {
		r.Post("/", translationHandler.CreateTranslation)
		r.Post("/bulk", translationHandler.CreateTranslations)
		r.Get("/{key}", translationHandler.GetTranslations)
		r.Get("/{key}/{language}", translationHandler.GetTranslation)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Delete("/{key}", translationHandler.DeleteTranslations)
			r.Delete("/{key}/{language}", translationHandler.DeleteTranslation)
		})
	})

	return &testServer{
		router:       r,
		users:        users,
		translations: translations,
		jwtService:   jwtService,
	}
}

func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) postForm(t *testing.T, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return s.do(t, req)
}

func (s *testServer) postJSON(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return s.do(t, req)
}

func (s *testServer) request(t *testing.T, method, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return s.do(t, req)
}

// signup registers a user and returns the session cookie it was given.
func (s *testServer) signup(t *testing.T, username string) *http.Cookie {
	t.Helper()
	rec := s.postForm(t, "/auth/signup", url.Values{
		"username": {username},
		"email":    {username + "@example.com"},
		"password": {"password123"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return sessionCookie(t, rec)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == testAuthConfig.CookieName {
			return c
		}
	}
	require.FailNow(t, "session cookie not set")
	return nil
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type detailBody struct {
	Detail string `json:"detail"`
}

type validationBody struct {
	Detail []struct {
		Loc  []any  `json:"loc"`
		Msg  string `json:"msg"`
		Type string `json:"type"`
	} `json:"detail"`
}
