// Package bakeryadmin предоставляет маршруты административного backend.
package bakeryadmin

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/bakery-admin/internal/http/handlers/admin/list"
	"github.com/magabrotheeeer/bakery-admin/internal/http/handlers/admin/manage"
	"github.com/magabrotheeeer/bakery-admin/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/bakery-admin/internal/http/handlers/health"
	userstatus "github.com/magabrotheeeer/bakery-admin/internal/http/handlers/user/status"
	"github.com/magabrotheeeer/bakery-admin/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/bakery-admin/internal/services/auth"
	provisionservice "github.com/magabrotheeeer/bakery-admin/internal/services/provision"
	readerservice "github.com/magabrotheeeer/bakery-admin/internal/services/reader"
	statusservice "github.com/magabrotheeeer/bakery-admin/internal/services/status"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.Service,
	statusService *statusservice.Service,
	provisionService *provisionservice.Service,
	readerService *readerservice.Service) {
	// Глобальные middleware. CORS стоит до маршрутизации, чтобы preflight
	// OPTIONS получал ответ с разрешающими заголовками, а не 405 от роутера.
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}),
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией; проверка статуса подписки здесь
		// не включается, чтобы пользователь с истекшей подпиской мог
		// прочитать собственный статус.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/users/status", userstatus.New(logger, statusService).ServeHTTP)
		})

		// Административная группа. Проверка статуса подписки стоит до
		// проверки роли: предъявитель с истекшей подпиской получает отказ
		// от шлюза статуса, администраторы проходят его без проверки.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.SubscriptionStatusMiddleware(logger, statusService))
			r.Use(middlewarectx.AdminOnlyMiddleware(logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/admin/users", manage.New(logger, provisionService).ServeHTTP)
			r.Get("/admin/users", list.New(logger, readerService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
