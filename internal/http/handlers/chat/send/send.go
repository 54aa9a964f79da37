// Package send реализует HTTP-обработчик отправки сообщения персонажу.
package send

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
	"github.com/debeerphilip63-prog/Mineaiclean/internal/services/chat"
)

// Request — тело запроса на отправку сообщения.
type Request struct {
	CharacterID string `json:"character_id" validate:"required,uuid"`
	Message     string `json:"message" validate:"required,max=4000"`
	PersonaID   string `json:"persona_id" validate:"omitempty,uuid"`
}

// Service описывает интерфейс бизнес-логики чата.
type Service interface {
	Send(ctx context.Context, accountID string, req chat.SendRequest) (*chat.SendResult, error)
}

// Handler обрабатывает запросы на отправку сообщений.
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
// @Summary Отправить сообщение персонажу
// @Description Возвращает ответ персонажа; для бесплатных аккаунтов расходует дневную квоту
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body Request true "Сообщение"
// @Success 200 {object} chat.SendResult "Ответ персонажа"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 402 {object} response.ErrorResponse "Дневной лимит исчерпан"
// @Failure 403 {object} response.ErrorResponse "Доступ к персонажу запрещён"
// @Failure 404 {object} response.ErrorResponse "Персонаж не найден"
// @Router /chat/send [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.send"
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

	result, err := h.service.Send(r.Context(), accountID, chat.SendRequest{
		CharacterID: req.CharacterID,
		Message:     req.Message,
		PersonaID:   req.PersonaID,
	})
	switch {
	case errors.Is(err, chat.ErrQuotaExceeded):
		log.Info("daily quota exhausted", slog.String("account_id", accountID))
		w.WriteHeader(http.StatusPaymentRequired)
		render.JSON(w, r, response.Error("daily message limit reached, upgrade to premium for unlimited chats"))
		return
	case errors.Is(err, chat.ErrCharacterNotFound):
		log.Info("character not found", slog.String("character_id", req.CharacterID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("character not found"))
		return
	case errors.Is(err, chat.ErrForbidden):
		log.Info("access to character denied",
			slog.String("account_id", accountID),
			slog.String("character_id", req.CharacterID))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("you do not have access to this character"))
		return
	case errors.Is(err, chat.ErrNSFWBlocked):
		log.Info("nsfw character blocked", slog.String("account_id", accountID))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("enable NSFW content in settings to chat with this character"))
		return
	case err != nil:
		log.Error("failed to send message", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("message sent", slog.String("conversation_id", result.ConversationID))
	render.JSON(w, r, result)
}
