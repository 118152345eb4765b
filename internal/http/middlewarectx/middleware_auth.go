// Package middlewarectx содержит HTTP middleware для обработки и проверки JWT токенов.
//
// JWTMiddleware проверяет наличие и валидность JWT токена в заголовке Authorization,
// разрешает его в сессию предъявителя и в случае успеха добавляет в контекст
// почту, роль и идентификатор пользователя для дальнейшего использования
// в обработчиках.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized с сообщением об ошибке.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bakery-admin/internal/http/response"
	"github.com/magabrotheeeer/bakery-admin/internal/lib/sl"
	"github.com/magabrotheeeer/bakery-admin/internal/services/auth"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User — ключ для почты пользователя в контексте
	User Key = "email"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
	// UserUID — ключ для идентификатора пользователя в контексте
	UserUID Key = "useruid"
)

// TokenResolver описывает интерфейс разрешения bearer-токена в сессию.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*auth.Session, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Если токен валиден, добавляет почту, роль и идентификатор пользователя в
// контекст запроса, иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func JWTMiddleware(resolver TokenResolver, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			sess, err := resolver.ResolveToken(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), User, sess.Email)
			ctx = context.WithValue(ctx, Role, sess.Role)
			ctx = context.WithValue(ctx, UserUID, sess.UserUID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext восстанавливает сессию предъявителя из контекста запроса.
// Возвращает false, если JWTMiddleware не отработал на этом маршруте.
func SessionFromContext(ctx context.Context) (auth.Session, bool) {
	email, ok := ctx.Value(User).(string)
	if !ok {
		return auth.Session{}, false
	}
	role, ok := ctx.Value(Role).(string)
	if !ok {
		return auth.Session{}, false
	}
	uid, ok := ctx.Value(UserUID).(string)
	if !ok {
		return auth.Session{}, false
	}
	return auth.Session{Email: email, Role: role, UserUID: uid}, true
}
