// Package generate реализует HTTP-обработчик генерации изображений.
package generate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/http/middlewarectx"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/http/response"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/lib/sl"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/services/images"
)

// Request — тело запроса на генерацию изображения.
type Request struct {
	Prompt string `json:"prompt" validate:"required,max=2000"`
}

// Result — сгенерированное изображение в base64.
type Result struct {
	Image string `json:"image"`
}

// Service описывает интерфейс бизнес-логики генерации изображений.
type Service interface {
	Generate(ctx context.Context, accountID, prompt string) (string, error)
}

// Handler обрабатывает запросы на генерацию изображений.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сгенерировать изображение по описанию
// @Description Доступно только премиум-аккаунтам
// @Tags Images
// @Accept json
// @Produce json
// @Param request body Request true "Описание изображения"
// @Success 200 {object} Result "Изображение в base64"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 403 {object} response.ErrorResponse "Требуется премиум"
// @Router /images/generate [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.images.generate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	accountID, ok := middlewarectx.AccountIDFromContext(r.Context())
	if !ok {
		log.Error("account id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("not signed in"))
		return
	}

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var validateErr validator.ValidationErrors
		errors.As(err, &validateErr)
		log.Error("invalid request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(validateErr))
		return
	}

	image, err := h.service.Generate(r.Context(), accountID, req.Prompt)
	switch {
	case errors.Is(err, images.ErrPremiumRequired):
		log.Info("image generation denied for free account", slog.String("account_id", accountID))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("image generation requires a premium subscription"))
		return
	case err != nil:
		log.Error("failed to generate image", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("image generated", slog.String("account_id", accountID))
	render.JSON(w, r, Result{Image: image})
}
