// Package auth содержит логику аутентификации и разрешения bearer-токена
// в сессию предъявителя.
package auth

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/bakery-admin/internal/lib/apperr"
	"github.com/magabrotheeeer/bakery-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/bakery-admin/internal/lib/password"
	"github.com/magabrotheeeer/bakery-admin/internal/models"
)

// IdentityRepository описывает контракт чтения учетных записей.
type IdentityRepository interface {
	// GetIdentityByEmail возвращает учетную запись по почте или ошибку, если не найдена.
	GetIdentityByEmail(ctx context.Context, email string) (*models.UserIdentity, error)
}

// Session — разрешенная сессия предъявителя токена. Учетные данные дальше
// передаются явным контекстом запроса, а не читаются из глобального
// состояния.
type Session struct {
	Email   string
	Role    string
	UserUID string
}

// Service отвечает за вход по паролю и валидацию JWT.
type Service struct {
	ids      IdentityRepository
	jwtMaker jwt.Maker
}

// NewService создает новый экземпляр Service.
func NewService(ids IdentityRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		ids:      ids,
		jwtMaker: jwtMaker,
	}
}

// Login проверяет пароль пользователя и генерирует JWT.
// Возвращает токен и роль предъявителя.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (string, string, error) {
	const op = "services.auth.Login"
	user, err := s.ids.GetIdentityByEmail(ctx, email)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, apperr.ErrUnauthenticated)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, apperr.ErrUnauthenticated)
	}
	token, err := s.jwtMaker.GenerateToken(user.Email, user.Metadata.Role, user.UID)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return token, user.Metadata.Role, nil
}

// ResolveToken проверяет JWT и возвращает сессию предъявителя.
func (s *Service) ResolveToken(_ context.Context, token string) (*Session, error) {
	const op = "services.auth.ResolveToken"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrUnauthenticated)
	}
	return &Session{
		Email:   claims.Email,
		Role:    claims.Role,
		UserUID: claims.UserUID,
	}, nil
}
