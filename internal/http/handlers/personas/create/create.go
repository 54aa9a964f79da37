// Package create реализует HTTP-обработчик создания персоны пользователя.
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

// Request — тело запроса на создание персоны.
type Request struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=2000"`
}

// Result — идентификатор созданной персоны.
type Result struct {
	ID string `json:"id"`
}

// Service описывает интерфейс бизнес-логики персон.
type Service interface {
	CreatePersona(ctx context.Context, accountID string, p models.Persona) (string, error)
}

// Handler обрабатывает запросы на создание персон.
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
// @Summary Создать персону пользователя
// @Description Доступно только премиум-аккаунтам
// @Tags Personas
// @Accept json
// @Produce json
// @Param request body Request true "Описание персоны"
// @Success 200 {object} Result "Идентификатор персоны"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 403 {object} response.ErrorResponse "Требуется премиум"
// @Router /personas [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.personas.create"
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

	id, err := h.service.CreatePersona(r.Context(), accountID, models.Persona{
		Name:        req.Name,
		Description: req.Description,
	})
	switch {
	case errors.Is(err, characters.ErrPremiumRequired):
		log.Info("persona creation denied for free account", slog.String("account_id", accountID))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("persona creation requires a premium subscription"))
		return
	case err != nil:
		log.Error("failed to create persona", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("persona created", slog.String("persona_id", id))
	render.JSON(w, r, Result{ID: id})
}
