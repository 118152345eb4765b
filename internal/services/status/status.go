package status

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/bakery-admin/internal/models"
)

// IdentityRepository определяет чтение учетной записи из хранилища.
type IdentityRepository interface {
	// GetIdentity возвращает учетную запись по UID.
	GetIdentity(ctx context.Context, uid string) (*models.UserIdentity, error)
}

// Service отдает статус подписки по идентификатору учетной записи.
// Часы инжектируются для тестируемости.
type Service struct {
	ids IdentityRepository
	log *slog.Logger
	now func() time.Time
}

// NewService создает новый экземпляр Service с часами time.Now.
func NewService(ids IdentityRepository, log *slog.Logger) *Service {
	return &Service{
		ids: ids,
		log: log,
		now: time.Now,
	}
}

// GetStatus читает учетную запись и вычисляет статус ее подписки.
func (s *Service) GetStatus(ctx context.Context, uid string) (models.SubscriptionStatus, error) {
	const op = "services.status.GetStatus"
	user, err := s.ids.GetIdentity(ctx, uid)
	if err != nil {
		return models.SubscriptionStatus{}, fmt.Errorf("%s: %w", op, err)
	}
	return Evaluate(user.Metadata, s.now()), nil
}
