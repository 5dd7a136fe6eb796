package main

import (
	"net/http"

	"github.com/blokmap/blokmap-api/internal/api"
	apiMiddleware "github.com/blokmap/blokmap-api/internal/api/middleware"
	"github.com/blokmap/blokmap-api/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	if app.config.Server.MetricsEnabled {
		r.Use(metrics.Middleware)
	}

	authHandler := api.NewAuthHandler(app.authService, app.jwtService, app.sessionCookie, app.logger)
	userHandler := api.NewUserHandler()
	translationHandler := api.NewTranslationHandler(app.translationService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.authService, app.sessionCookie, api.HandleAPIError)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
	})

	r.With(authMiddleware.Authenticate).Get("/user/me", userHandler.Me)

	r.Route("/translations", func(r chi.Router) {
		r.Post("/", translationHandler.CreateTranslation)
		r.Post("/bulk", translationHandler.CreateTranslations)
		r.Get("/{key}", translationHandler.GetTranslations)
		r.Get("/{key}/{language}", translationHandler.GetTranslation)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Delete("/{key}", translationHandler.DeleteTranslations)
			r.Delete("/{key}/{language}", translationHandler.DeleteTranslation)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	if app.config.Server.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler())
	}

	return r
}
