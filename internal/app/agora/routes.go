// Package agora собирает HTTP API панели администратора и ежедневную проверку подписок.
package agora

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/reynal240212/agora-finance/internal/http/handlers/auth/login"
	"github.com/reynal240212/agora-finance/internal/http/handlers/health"
	"github.com/reynal240212/agora-finance/internal/http/handlers/subscriptions/listall"
	"github.com/reynal240212/agora-finance/internal/http/handlers/subscriptions/listuser"
	"github.com/reynal240212/agora-finance/internal/http/handlers/subscriptions/register"
	"github.com/reynal240212/agora-finance/internal/http/handlers/sweep/run"
	"github.com/reynal240212/agora-finance/internal/http/handlers/users/create"
	"github.com/reynal240212/agora-finance/internal/http/handlers/users/edit"
	"github.com/reynal240212/agora-finance/internal/http/handlers/users/list"
	"github.com/reynal240212/agora-finance/internal/http/handlers/users/status"
	"github.com/reynal240212/agora-finance/internal/http/middlewarectx"
	"github.com/reynal240212/agora-finance/internal/lib/jwt"
	admin "github.com/reynal240212/agora-finance/internal/services/admin"
	sweep "github.com/reynal240212/agora-finance/internal/services/sweep"
)

// Deps — зависимости обработчиков.
type Deps struct {
	Admin      *admin.AdminService
	Sweep      *sweep.SweepService
	Tokens     *jwt.Maker
	AdminEmail string
	Health     health.Checker
	Registry   *prometheus.Registry
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	loginLimiter := rate.NewLimiter(1, 3)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(middlewarectx.RateLimitMiddleware(loginLimiter, logger)).
			Post("/login", login.New(logger, deps.Admin, deps.Tokens, deps.AdminEmail).ServeHTTP)

		// Только для администратора
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(deps.Tokens, logger))
			r.Use(middlewarectx.AdminOnly(logger))

			r.Get("/users", list.New(logger, deps.Admin).ServeHTTP)
			r.Post("/users", create.New(logger, deps.Admin).ServeHTTP)
			r.Put("/users/{id}", edit.New(logger, deps.Admin).ServeHTTP)
			r.Post("/users/{id}/status", status.New(logger, deps.Admin).ServeHTTP)
			r.Get("/users/{id}/subscriptions", listuser.New(logger, deps.Admin).ServeHTTP)
			r.Post("/users/{id}/subscriptions", register.New(logger, deps.Admin).ServeHTTP)
			r.Get("/subscriptions", listall.New(logger, deps.Admin).ServeHTTP)
			r.Post("/sweep", run.New(logger, deps.Sweep).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, deps.Health).ServeHTTP)
	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}
}
