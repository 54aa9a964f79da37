// Package checkout реализует HTTP-обработчик инициации оплаты премиума.
//
// Handler собирает подписанный набор полей PayFast и возвращает его
// клиенту для автосабмита формы на страницу оплаты провайдера.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/http/middlewarectx"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/lib/sl"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/payfast"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики биллинга.
type Service interface {
	BuildCheckout(ctx context.Context, accountID string) (*payfast.Checkout, error)
}

// Body — ответ обработчика: поля для автосабмита либо ошибка.
type Body struct {
	OK        bool              `json:"ok"`
	ActionURL string            `json:"actionUrl,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// Handler обрабатывает запросы на инициацию оплаты.
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
// @Summary Начать оплату премиум-подписки
// @Description Возвращает подписанный набор полей PayFast для автосабмита формы
// @Tags Billing
// @Produce json
// @Success 200 {object} Body "Поля платёжной формы"
// @Failure 401 {object} Body "Пользователь не авторизован"
// @Failure 500 {object} Body "Биллинг не сконфигурирован"
// @Router /billing/checkout [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.checkout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	accountID, ok := middlewarectx.AccountIDFromContext(r.Context())
	if !ok {
		log.Error("account id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, Body{OK: false, Error: "not signed in"})
		return
	}

	checkout, err := h.service.BuildCheckout(r.Context(), accountID)
	switch {
	case errors.Is(err, payfast.ErrMissingCredentials):
		log.Error("billing is not configured", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, Body{OK: false, Error: "billing is not configured"})
		return
	case errors.Is(err, repository.ErrNotFound):
		log.Error("account of a valid session not found", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, Body{OK: false, Error: "not signed in"})
		return
	case err != nil:
		log.Error("failed to build checkout", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, Body{OK: false, Error: "internal error"})
		return
	}

	log.Info("checkout built", slog.String("m_payment_id", checkout.Fields["m_payment_id"]))
	render.JSON(w, r, Body{
		OK:        true,
		ActionURL: checkout.ActionURL,
		Fields:    checkout.Fields,
	})
}
