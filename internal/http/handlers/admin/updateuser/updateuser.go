// Package updateuser реализует административный HTTP-обработчик
// частичного обновления аккаунта: смена тарифа, выдача и снятие триала,
// выставление флагов.
package updateuser

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/http/response"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/lib/sl"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/models"
)

// Service описывает интерфейс обновления аккаунтов.
type Service interface {
	UpdateAccount(ctx context.Context, id string, patch models.AccountPatch) (int64, error)
}

// Handler обрабатывает административные обновления аккаунтов.
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
// @Summary Обновить аккаунт пользователя
// @Description Частичное обновление: тариф, триал, флаги. Только для администраторов
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Идентификатор аккаунта"
// @Param request body models.AccountPatch true "Изменяемые поля"
// @Success 200 {object} response.Response "Аккаунт обновлён"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 404 {object} response.ErrorResponse "Аккаунт не найден"
// @Router /admin/users/{id} [patch]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.updateuser"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("account id is empty")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("account id is required"))
		return
	}

	var patch models.AccountPatch
	if err := render.DecodeJSON(r.Body, &patch); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	if err := h.validate.Struct(patch); err != nil {
		var validateErr validator.ValidationErrors
		errors.As(err, &validateErr)
		log.Error("invalid request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(validateErr))
		return
	}

	if isEmpty(patch) {
		log.Error("patch has no fields")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("patch must contain at least one field"))
		return
	}

	rows, err := h.service.UpdateAccount(r.Context(), id, patch)
	if err != nil {
		log.Error("failed to update account", sl.Err(err), slog.String("account_id", id))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	if rows == 0 {
		log.Info("account not found", slog.String("account_id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("account not found"))
		return
	}

	log.Info("account updated", slog.String("account_id", id))
	render.JSON(w, r, response.OKWithData(nil))
}

func isEmpty(p models.AccountPatch) bool {
	return p.Plan == nil && p.IsAdmin == nil && p.TrialUntil == nil &&
		!p.ClearTrial && p.NSFWEnabled == nil && p.IsOver18 == nil
}
