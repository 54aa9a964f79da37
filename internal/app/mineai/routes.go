// Package mineai собирает зависимости приложения и его маршруты.
package mineai

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/http/handlers/admin/listusers"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/http/handlers/admin/updateuser"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/http/handlers/billing/checkout"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/http/handlers/billing/notify"
	charactercreate "github.com/debeerphilip63-prog/Mineaiclean/internal/http/handlers/characters/create"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/http/handlers/chat/send"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/http/handlers/health"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/http/handlers/images/generate"
	personacreate "github.com/debeerphilip63-prog/Mineaiclean/internal/http/handlers/personas/create"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/http/middlewarectx"
	jwtlib "github.com/debeerphilip63-prog/Mineaiclean/internal/lib/jwt"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/payfast"
	billingservice "github.com/debeerphilip63-prog/Mineaiclean/internal/services/billing"
	charactersservice "github.com/debeerphilip63-prog/Mineaiclean/internal/services/characters"
	chatservice "github.com/debeerphilip63-prog/Mineaiclean/internal/services/chat"
	imagesservice "github.com/debeerphilip63-prog/Mineaiclean/internal/services/images"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage,
	tokenMaker jwtlib.Maker, verifier *payfast.Verifier,
	billingSvc *billingservice.Service, chatSvc *chatservice.Service,
	imagesSvc *imagesservice.Service, charactersSvc *charactersservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// ITN-приёмник открыт: провайдер не аутентифицируется, подлинность
		// уведомления проверяет сам обработчик.
		r.Post("/billing/notify", notify.New(logger, verifier, billingSvc).ServeHTTP)
		r.Get("/health", health.New(logger, db).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(tokenMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, 5, 10))
			r.Post("/billing/checkout", checkout.New(logger, billingSvc).ServeHTTP)
			r.Post("/chat/send", send.New(logger, chatSvc).ServeHTTP)
			r.Post("/images/generate", generate.New(logger, imagesSvc).ServeHTTP)
			r.Post("/characters", charactercreate.New(logger, charactersSvc).ServeHTTP)
			r.Post("/personas", personacreate.New(logger, charactersSvc).ServeHTTP)

			// Административные маршруты
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminMiddleware(db, logger))
				r.Get("/admin/users", listusers.New(logger, billingSvc).ServeHTTP)
				r.Patch("/admin/users/{id}", updateuser.New(logger, billingSvc).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
