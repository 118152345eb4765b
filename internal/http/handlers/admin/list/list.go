// Package list реализует HTTP-обработчик административного списка
// пользователей: профили, объединенные с записями подписок, со статусом
// витрины ativo/inativo.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bakery-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/bakery-admin/internal/http/response"
	"github.com/magabrotheeeer/bakery-admin/internal/lib/apperr"
	"github.com/magabrotheeeer/bakery-admin/internal/lib/sl"
	"github.com/magabrotheeeer/bakery-admin/internal/models"
	"github.com/magabrotheeeer/bakery-admin/internal/services/auth"
)

// Service описывает интерфейс читающего слоя списка пользователей.
type Service interface {
	ListUsers(ctx context.Context, sess auth.Session) ([]*models.UserOverviewRow, error)
}

// Handler обрабатывает запросы на получение списка пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Возвращает административный список пользователей с производным статусом подписки.
// @Tags Admin
// @Produce  json
// @Success 200 {object} response.Response "Список пользователей"
// @Failure 401 {object} response.ErrorResponse "Не аутентифицирован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Сбой чтения списка"
// @Security BearerAuth
// @Router /admin/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sess, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok {
		log.Error("session missing in request context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	users, err := h.service.ListUsers(r.Context(), sess)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		if errors.Is(err, apperr.ErrForbidden) {
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("admin role required"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list users"))
		return
	}

	log.Info("users listed", slog.Int("count", len(users)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"users": users,
	}))
}
