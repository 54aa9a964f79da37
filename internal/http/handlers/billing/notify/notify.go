// Package notify реализует приёмник ITN-уведомлений PayFast.
//
// Уведомление проходит цепочку проверок (подпись, серверное подтверждение,
// статус платежа, наличие аккаунта) и при успехе переводит аккаунт на
// премиум. Ответ — короткий текстовый токен, код ответа управляет
// ретраями на стороне провайдера.
package notify

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/lib/sl"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/metrics"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/payfast"
)

// Токены ответа. Провайдер игнорирует тело, но токены попадают в его логи
// и в метрики, поэтому набор фиксирован.
const (
	tokenOK               = "OK"
	tokenIgnored          = "IGNORED"
	tokenInvalidSignature = "INVALID_SIGNATURE"
	tokenInvalid          = "INVALID"
	tokenMissingUser      = "MISSING_USER"
	tokenDBError          = "DB_ERROR"
	tokenServerMisconfig  = "SERVER_MISCONFIG"
	tokenError            = "ERROR"
)

// Verifier проверяет подлинность ITN-уведомления.
type Verifier interface {
	Verify(ctx context.Context, rawBody []byte) payfast.Result
}

// Service применяет апгрейд аккаунта.
type Service interface {
	Configured() bool
	ApplyUpgrade(ctx context.Context, accountID, reference string) error
}

// Handler обрабатывает ITN-уведомления.
type Handler struct {
	log      *slog.Logger
	verifier Verifier
	service  Service
}

// New создает новый Handler.
func New(log *slog.Logger, verifier Verifier, service Service) *Handler {
	return &Handler{
		log:      log,
		verifier: verifier,
		service:  service,
	}
}

// ServeHTTP godoc
// @Summary Принять ITN-уведомление PayFast
// @Description Серверное уведомление о платеже; не предназначено для вызова клиентами
// @Tags Billing
// @Accept x-www-form-urlencoded
// @Produce plain
// @Success 200 {string} string "OK или IGNORED"
// @Failure 400 {string} string "INVALID_SIGNATURE, INVALID или MISSING_USER"
// @Failure 500 {string} string "DB_ERROR или SERVER_MISCONFIG"
// @Router /billing/notify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.notify"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read notification body", sl.Err(err))
		respond(w, http.StatusInternalServerError, tokenError)
		return
	}

	if !h.service.Configured() {
		log.Error("payfast credentials are not configured, rejecting notification")
		respond(w, http.StatusInternalServerError, tokenServerMisconfig)
		return
	}

	result := h.verifier.Verify(r.Context(), body)
	switch result.Status {
	case payfast.StatusBadSignature:
		log.Warn("notification signature mismatch")
		respond(w, http.StatusBadRequest, tokenInvalidSignature)
	case payfast.StatusNotConfirmed:
		log.Warn("notification not confirmed by payfast",
			slog.String("reference", result.Reference))
		respond(w, http.StatusBadRequest, tokenInvalid)
	case payfast.StatusIgnore:
		log.Info("notification with non-complete status ignored",
			slog.String("payment_status", result.PaymentStatus),
			slog.String("reference", result.Reference))
		respond(w, http.StatusOK, tokenIgnored)
	case payfast.StatusMissingAccount:
		log.Warn("confirmed notification without account id",
			slog.String("reference", result.Reference))
		respond(w, http.StatusBadRequest, tokenMissingUser)
	case payfast.StatusUpgrade:
		if err := h.service.ApplyUpgrade(r.Context(), result.AccountID, result.Reference); err != nil {
			log.Error("failed to apply upgrade", sl.Err(err),
				slog.String("account_id", result.AccountID))
			respond(w, http.StatusInternalServerError, tokenDBError)
			return
		}
		log.Info("account upgraded",
			slog.String("account_id", result.AccountID),
			slog.String("reference", result.Reference))
		respond(w, http.StatusOK, tokenOK)
	default:
		log.Error("unexpected verification status", slog.Int("status", int(result.Status)))
		respond(w, http.StatusInternalServerError, tokenError)
	}
}

func respond(w http.ResponseWriter, code int, token string) {
	metrics.ITNOutcomes.WithLabelValues(token).Inc()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	w.Write([]byte(token))
}
