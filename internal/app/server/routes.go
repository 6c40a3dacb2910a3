// Package server собирает HTTP- и gRPC-серверы сервиса аутентификации.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация swagger-спецификации для /docs.
	_ "github.com/magabrotheeeer/blogapp/docs"
	"github.com/magabrotheeeer/blogapp/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/blogapp/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/blogapp/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/blogapp/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/blogapp/internal/http/handlers/health"
	"github.com/magabrotheeeer/blogapp/internal/http/middlewarectx"
)

// AuthService объединяет всё, что нужно маршрутам /api/auth.
type AuthService interface {
	register.Service
	login.Service
	me.Service
	middlewarectx.Service
}

// RouteOptions — окружение, от которого зависят маршруты.
type RouteOptions struct {
	Production     bool
	AllowedOrigins []string
	Limiter        *middlewarectx.IPRateLimiter
	Storage        health.Pinger
	Gatherer       prometheus.Gatherer
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService AuthService, opts RouteOptions) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)

	r.Route("/api/auth", func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(middlewarectx.RateLimitMiddleware(opts.Limiter, logger))
		}

		r.Post("/register", register.New(logger, authService, opts.Production).ServeHTTP)
		r.Post("/login", login.New(logger, authService, opts.Production).ServeHTTP)
		r.Post("/logout", logout.New(logger, opts.Production).ServeHTTP)

		// Группа с проверкой токена сессии
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Get("/me", me.New(logger, authService).ServeHTTP)
		})
	})

	if opts.Storage != nil {
		r.Get("/health", health.New(logger, opts.Storage).ServeHTTP)
	}
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
