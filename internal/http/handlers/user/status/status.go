// Package status реализует HTTP-обработчик самостоятельной проверки
// статуса подписки предъявителя токена.
package status

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
)

// Service описывает интерфейс вычисления статуса подписки.
type Service interface {
	GetStatus(ctx context.Context, uid string) (models.SubscriptionStatus, error)
}

// Handler обрабатывает запросы на получение статуса собственной подписки.
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
// @Summary Статус подписки предъявителя
// @Description Вычисляет статус подписки по метаданным учетной записи предъявителя токена.
// @Tags User
// @Produce  json
// @Success 200 {object} response.Response "Статус подписки"
// @Failure 401 {object} response.ErrorResponse "Не аутентифицирован"
// @Failure 404 {object} response.ErrorResponse "Учетная запись не найдена"
// @Security BearerAuth
// @Router /users/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	status, err := h.service.GetStatus(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			log.Error("user not found", slog.String("useruid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to get subscription status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("status evaluated", slog.String("useruid", userUID),
		slog.Bool("is_active", status.IsActive))
	render.JSON(w, r, response.OKWithData(status))
}
