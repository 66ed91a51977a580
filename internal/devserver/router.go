// Package devserver assembles the local BaaS emulator: a chi router
// over the auth, profiles and change-feed handlers backed by SQLite.
package devserver

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"basekit/internal/config"
	"basekit/internal/devserver/handlers"
	"basekit/internal/devserver/jwt"
	"basekit/internal/devserver/middleware"
	"basekit/internal/devserver/storage"
)

// Store is the combined persistence surface the router needs. The
// sqlite.Storage type satisfies it.
type Store interface {
	storage.UserStorage
	storage.TokenStorage
	storage.ProfileStorage
	storage.ChangeStorage
}

// NewRouter wires middleware, handlers and routes.
func NewRouter(cfg *config.Server, logger *slog.Logger, store Store, registry *prometheus.Registry, version string) http.Handler {
	tokens := jwt.NewService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	authHandler := handlers.NewAuthHandler(logger, store, store, tokens)
	profileHandler := handlers.NewProfileHandler(logger, store, store)
	changesHandler := handlers.NewChangesHandler(logger, store)

	authLimiter := middleware.NewRateLimiter(cfg.AuthRatePerMin)
	requireAuth := middleware.Auth(logger, tokens)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))

	r.Get("/healthz", handlers.Health(version))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/auth/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(logger, authLimiter))
			r.Post("/signup", authHandler.Signup)
			r.Post("/token", authHandler.Token)
			r.Get("/authorize", authHandler.Authorize)
		})
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/logout", authHandler.Logout)
		})
	})

	r.Route("/rest/v1", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/profiles", profileHandler.Get)
		r.Post("/profiles", profileHandler.Insert)
		r.Patch("/profiles", profileHandler.Patch)
	})

	r.Route("/realtime/v1", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/changes", changesHandler.List)
	})

	return r
}
