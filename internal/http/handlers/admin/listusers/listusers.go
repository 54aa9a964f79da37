// Package listusers реализует административный HTTP-обработчик
// постраничного списка аккаунтов.
package listusers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/http/response"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/lib/sl"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/models"
)

// Максимальный размер страницы списка.
const maxLimit = 200

// Service описывает интерфейс получения списка аккаунтов.
type Service interface {
	ListAccounts(ctx context.Context, limit, offset int) ([]models.Account, error)
}

// Handler отдаёт список аккаунтов администраторам.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список аккаунтов
// @Description Постраничный список аккаунтов. Только для администраторов
// @Tags Admin
// @Produce json
// @Param limit query int false "Размер страницы (по умолчанию 50, максимум 200)"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response "Список аккаунтов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /admin/users [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.listusers"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	accounts, err := h.service.ListAccounts(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list accounts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("accounts listed", slog.Int("count", len(accounts)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"users_count": len(accounts),
		"users":       accounts,
	}))
}
