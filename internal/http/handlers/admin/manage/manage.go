// Package manage реализует мультиплексированный HTTP-обработчик операций
// управления учетными записями: одно тело {action, data} покрывает создание,
// обновление и удаление. Обработчик декодирует конверт, валидирует данные
// конкретной операции и делегирует оркестратору провижининга.
package manage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bakery-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/bakery-admin/internal/lib/apperr"
	"github.com/magabrotheeeer/bakery-admin/internal/lib/sl"
	"github.com/magabrotheeeer/bakery-admin/internal/models"
	"github.com/magabrotheeeer/bakery-admin/internal/services/auth"
)

// Request — конверт мультиплексированной операции управления.
type Request struct {
	Action string          `json:"action" validate:"required,oneof=create update delete"`
	Data   json.RawMessage `json:"data" validate:"required"`
}

// SuccessResponse — тело успешного ответа операции управления.
type SuccessResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	User    *models.CreatedUser `json:"user,omitempty"`
}

// ErrorResponse — тело ответа с ошибкой операции управления.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Service описывает интерфейс оркестратора провижининга.
type Service interface {
	Create(ctx context.Context, sess auth.Session, req models.DummyCreateUser) (*models.CreatedUser, error)
	Update(ctx context.Context, sess auth.Session, req models.DummyUpdateUser) (*models.CreatedUser, error)
	Delete(ctx context.Context, sess auth.Session, uid string) error
}

// Handler обрабатывает мультиплексированные запросы управления учетными записями.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Управление учетными записями
// @Description Выполняет создание, обновление или удаление учетной записи по полю action.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body Request true "Конверт операции: action + data"
// @Success 200 {object} SuccessResponse "Операция выполнена"
// @Failure 400 {object} ErrorResponse "Некорректные данные"
// @Failure 401 {object} ErrorResponse "Не аутентифицирован"
// @Failure 403 {object} ErrorResponse "Недостаточно прав"
// @Failure 404 {object} ErrorResponse "Учетная запись не найдена"
// @Failure 500 {object} ErrorResponse "Сбой шага провижининга"
// @Security BearerAuth
// @Router /admin/users [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.manage"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sess, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok {
		log.Error("session missing in request context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, ErrorResponse{Error: "authentication required"})
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid request", Details: err.Error()})
		return
	}

	switch req.Action {
	case "create":
		h.create(w, r, log, sess, req.Data)
	case "update":
		h.update(w, r, log, sess, req.Data)
	case "delete":
		h.delete(w, r, log, sess, req.Data)
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, log *slog.Logger, sess auth.Session, data json.RawMessage) {
	var req models.DummyCreateUser
	if err := json.Unmarshal(data, &req); err != nil {
		log.Error("failed to decode create data", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid create data"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("create data validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid create data", Details: err.Error()})
		return
	}

	user, err := h.service.Create(r.Context(), sess, req)
	if err != nil {
		h.renderError(w, r, log, "create", err)
		return
	}

	log.Info("user created", slog.String("uid", user.UID))
	render.JSON(w, r, SuccessResponse{
		Success: true,
		Message: "user created successfully",
		User:    user,
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, log *slog.Logger, sess auth.Session, data json.RawMessage) {
	var req models.DummyUpdateUser
	if err := json.Unmarshal(data, &req); err != nil {
		log.Error("failed to decode update data", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid update data"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("update data validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid update data", Details: err.Error()})
		return
	}

	user, err := h.service.Update(r.Context(), sess, req)
	if err != nil {
		h.renderError(w, r, log, "update", err)
		return
	}

	log.Info("user updated", slog.String("uid", user.UID))
	render.JSON(w, r, SuccessResponse{
		Success: true,
		Message: "user updated successfully",
		User:    user,
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, log *slog.Logger, sess auth.Session, data json.RawMessage) {
	var req models.DummyDeleteUser
	if err := json.Unmarshal(data, &req); err != nil {
		log.Error("failed to decode delete data", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid delete data"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("delete data validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid delete data", Details: err.Error()})
		return
	}

	if err := h.service.Delete(r.Context(), sess, req.UID); err != nil {
		h.renderError(w, r, log, "delete", err)
		return
	}

	log.Info("user deleted", slog.String("uid", req.UID))
	render.JSON(w, r, SuccessResponse{
		Success: true,
		Message: "user deleted successfully",
	})
}

// renderError переводит ошибку оркестратора в HTTP-статус и тело ответа.
// Ошибка сорвавшегося шага показывает имя шага в details, не раскрывая
// внутреннюю причину.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, log *slog.Logger, action string, err error) {
	log.Error("operation failed", slog.String("action", action), sl.Err(err))

	var stepErr *apperr.StepError
	switch {
	case errors.Is(err, apperr.ErrInvalidArgument):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid request data"})
	case errors.Is(err, apperr.ErrUnauthenticated):
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, ErrorResponse{Error: "authentication required"})
	case errors.Is(err, apperr.ErrForbidden):
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, ErrorResponse{Error: "admin role required"})
	case errors.Is(err, apperr.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, ErrorResponse{Error: "user not found"})
	case errors.As(err, &stepErr):
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{
			Error:   "failed to " + action + " user",
			Details: "step failed: " + stepErr.Step,
		})
	default:
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: "failed to " + action + " user"})
	}
}
