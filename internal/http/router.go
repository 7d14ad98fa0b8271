package http

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"launchpad/internal/auth"
	"launchpad/internal/config"
	"launchpad/internal/users"
)

// NewRouter wires application routes and middleware using chi.
func NewRouter(cfg config.Config, provider authenticator, authSvc *auth.Service, userSvc *users.Service, notifier *users.Notifier, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(newSecurityHeadersMiddleware(cfg.Environment))
	r.Use(newSlogMiddleware(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":      "ok",
			"environment": cfg.Environment,
		})
	})

	userHandler := NewUserHandler(userSvc, notifier, logger)
	sessionMiddleware := newSessionMiddleware(authSvc, logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(newRateLimitMiddleware(rate.Every(time.Second), 10))

			if provider != nil {
				oauthHandler := NewOAuthHandler(provider, authSvc, userSvc, cfg.FrontendURL, cfg.Environment, cfg.SessionTTL, logger)
				r.Get("/login", oauthHandler.Initiate)
				r.Get("/callback", oauthHandler.Callback)
				r.Post("/logout", oauthHandler.Logout)
			} else {
				logger.Warn("identity provider not configured; sign-in endpoints disabled")
			}
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(sessionMiddleware)

			// Optional auth: returns null rather than 401 so clients can
			// subscribe before the sign-in sync completes.
			r.Get("/me", userHandler.Me)

			r.Group(func(r chi.Router) {
				r.Use(requireUser)
				r.Post("/sync", userHandler.Sync)
				r.Put("/me/preferences", userHandler.UpdatePreferences)
				r.Get("/me/events", userHandler.Events)
			})
		})
	})

	r.NotFound(http.NotFoundHandler().ServeHTTP)

	return r
}
