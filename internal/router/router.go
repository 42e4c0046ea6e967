package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-account-portal/internal/config"
	"go-account-portal/internal/handler"
	"go-account-portal/internal/middleware"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	Page   *handler.PageHandler
	Health *handler.HealthHandler
}

func New(cfg *config.Config, guard *middleware.RouteGuard, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)
	r.Use(guard.Handler)

	r.Get("/health", h.Health.Check)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Post("/register", h.Auth.Register)
		api.Post("/login", h.Auth.Login)
		api.Post("/logout", h.Auth.Logout)
		api.Get("/user", h.User.Profile)
		api.Get("/user/avatar", h.User.Avatar)
	})

	r.Get("/", h.Page.Login)
	r.Get("/register", h.Page.Register)
	r.Get("/dashboard", h.Page.Dashboard)
	r.Handle("/static/*", h.Page.Static())

	return r
}
