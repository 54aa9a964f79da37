package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/http/response"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/lib/sl"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/models"
)

// AccountGetter читает аккаунт для проверки признака администратора.
type AccountGetter interface {
	GetAccount(ctx context.Context, id string) (*models.Account, error)
}

// AdminMiddleware пускает дальше только администраторов. Признак
// проверяется по свежей записи аккаунта, а не по токену: отзыв прав
// действует немедленно.
func AdminMiddleware(accounts AccountGetter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AdminMiddleware"

			accountID, ok := AccountIDFromContext(r.Context())
			if !ok {
				log.Error("account identification missing", slog.String("op", op))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			acc, err := accounts.GetAccount(r.Context(), accountID)
			if err != nil {
				log.Error("failed to load account", slog.String("op", op), sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal error"))
				return
			}
			if !acc.IsAdmin {
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("admin access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
