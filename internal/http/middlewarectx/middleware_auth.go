// Package middlewarectx содержит HTTP middleware: проверку JWT сессии,
// проверку прав администратора и ограничение частоты запросов.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/http/response"
	jwtlib "github.com/debeerphilip63-prog/Mineaiclean/internal/lib/jwt"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/lib/sl"
)

// Key — тип ключей контекста HTTP-запроса.
type Key string

// AccountID — ключ контекста с id аккаунта аутентифицированного пользователя.
const AccountID Key = "account_id"

// TokenParser проверяет токен сессии и извлекает из него claims.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwtlib.SessionClaims, error)
}

// JWTMiddleware проверяет JWT в заголовке Authorization и кладёт id
// аккаунта в контекст запроса. Невалидный токен — 401.
func JWTMiddleware(parser TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := parser.ParseToken(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), AccountID, claims.AccountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountIDFromContext возвращает id аккаунта из контекста запроса.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(AccountID).(string)
	return id, ok && id != ""
}
