// Package create реализует HTTP-обработчик создания персонажа.
package create

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
	"github.com/debeerphilip63-prog/Mineaiclean/internal/models"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/services/characters"
)

// Request — тело запроса на создание персонажа.
type Request struct {
	Name            string `json:"name" validate:"required,max=100"`
	Description     string `json:"description" validate:"required,max=2000"`
	Scenario        string `json:"scenario" validate:"max=2000"`
	Greeting        string `json:"greeting" validate:"max=1000"`
	ExampleDialogue string `json:"example_dialogue" validate:"max=4000"`
	IsNSFW          bool   `json:"is_nsfw"`
	Visibility      string `json:"visibility" validate:"omitempty,oneof=public private"`
	AvatarURL       string `json:"avatar_url" validate:"omitempty,url"`
}

// Result — идентификатор созданного персонажа.
type Result struct {
	ID string `json:"id"`
}

// Service описывает интерфейс бизнес-логики персонажей.
type Service interface {
	CreateCharacter(ctx context.Context, accountID string, ch models.Character) (string, error)
}

// Handler обрабатывает запросы на создание персонажей.
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
// @Summary Создать персонажа
// @Description Доступно только премиум-аккаунтам
// @Tags Characters
// @Accept json
// @Produce json
// @Param request body Request true "Описание персонажа"
// @Success 200 {object} Result "Идентификатор персонажа"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 403 {object} response.ErrorResponse "Требуется премиум"
// @Router /characters [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.characters.create"
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

	id, err := h.service.CreateCharacter(r.Context(), accountID, models.Character{
		Name:            req.Name,
		Description:     req.Description,
		Scenario:        req.Scenario,
		Greeting:        req.Greeting,
		ExampleDialogue: req.ExampleDialogue,
		IsNSFW:          req.IsNSFW,
		Visibility:      req.Visibility,
		AvatarURL:       req.AvatarURL,
	})
	switch {
	case errors.Is(err, characters.ErrPremiumRequired):
		log.Info("character creation denied for free account", slog.String("account_id", accountID))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("character creation requires a premium subscription"))
		return
	case err != nil:
		log.Error("failed to create character", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("character created", slog.String("character_id", id))
	render.JSON(w, r, Result{ID: id})
}
