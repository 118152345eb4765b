package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bakery-admin/internal/http/response"
	"github.com/magabrotheeeer/bakery-admin/internal/lib/sl"
	"github.com/magabrotheeeer/bakery-admin/internal/models"
)

// StatusService определяет интерфейс вычисления статуса подписки.
type StatusService interface {
	GetStatus(ctx context.Context, uid string) (models.SubscriptionStatus, error)
}

// SubscriptionStatusMiddleware создает middleware для проверки статуса
// подписки пользователя. Предъявители роли admin проходят без проверки:
// истекшая подписка не лишает администратора доступа.
func SubscriptionStatusMiddleware(log *slog.Logger, statusService StatusService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if role, ok := r.Context().Value(Role).(string); ok && role == models.RoleAdmin {
				next.ServeHTTP(w, r)
				return
			}

			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			status, err := statusService.GetStatus(r.Context(), userUID)
			if err != nil {
				log.Error("failed to get subscription status", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			if status.IsExpired {
				log.Warn("subscription expired, access denied", slog.String("useruid", userUID))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("subscription expired, access denied"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
