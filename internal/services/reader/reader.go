// Package reader реализует читающий слой административного списка
// пользователей: кеш, основной агрегированный запрос и резервное
// объединение профилей с записями подписок в памяти.
package reader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/bakery-admin/internal/cache"
	"github.com/magabrotheeeer/bakery-admin/internal/lib/apperr"
	"github.com/magabrotheeeer/bakery-admin/internal/lib/sl"
	"github.com/magabrotheeeer/bakery-admin/internal/models"
	"github.com/magabrotheeeer/bakery-admin/internal/services/auth"
	"github.com/magabrotheeeer/bakery-admin/internal/services/status"
)

const overviewTTL = 5 * time.Minute

// OverviewRepository определяет пути чтения списка пользователей.
type OverviewRepository interface {
	// ListUserOverview — основной путь: агрегированный запрос к хранилищу.
	ListUserOverview(ctx context.Context) ([]*models.UserOverviewRow, error)
	// ListProfiles и ListSubscriptionRecords питают резервное объединение.
	ListProfiles(ctx context.Context) ([]*models.Profile, error)
	ListSubscriptionRecords(ctx context.Context) ([]*models.SubscriptionRecord, error)
}

// Cache описывает кеш списка пользователей.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// Service — читающий слой административного списка пользователей.
type Service struct {
	repo  OverviewRepository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(repo OverviewRepository, c Cache, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: c, log: log, now: time.Now}
}

// ListUsers возвращает административный список пользователей.
// Порядок источников: кеш, агрегированный запрос, резервное объединение
// в памяти. Ошибка резервного пути не поднимается наружу: список — витрина,
// пустой результат для нее лучше, чем отказ всей страницы.
func (s *Service) ListUsers(ctx context.Context, sess auth.Session) ([]*models.UserOverviewRow, error) {
	const op = "services.reader.ListUsers"
	if sess.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrForbidden)
	}

	var cached []*models.UserOverviewRow
	found, err := s.cache.Get(cache.AdminOverviewKey, &cached)
	if err != nil {
		s.log.Warn("failed to read overview cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	rows, err := s.repo.ListUserOverview(ctx)
	if err != nil {
		s.log.Warn("aggregated overview query failed, falling back to in-memory join", sl.Err(err))
		rows = s.fallbackJoin(ctx)
	}
	if rows == nil {
		rows = []*models.UserOverviewRow{}
	}

	if err := s.cache.Set(cache.AdminOverviewKey, rows, overviewTTL); err != nil {
		s.log.Warn("failed to write overview cache", sl.Err(err))
	}
	return rows, nil
}

// fallbackJoin объединяет профили с записями подписок по uid в памяти.
// Статус здесь — правило витрины: "ativo" только при дате истечения строго
// позже текущего дня, без льготного периода.
func (s *Service) fallbackJoin(ctx context.Context) []*models.UserOverviewRow {
	profiles, err := s.repo.ListProfiles(ctx)
	if err != nil {
		s.log.Warn("fallback profile listing failed", sl.Err(err))
		return nil
	}
	records, err := s.repo.ListSubscriptionRecords(ctx)
	if err != nil {
		s.log.Warn("fallback subscription listing failed", sl.Err(err))
		return nil
	}

	byUID := make(map[string]*models.SubscriptionRecord, len(records))
	for _, rec := range records {
		byUID[rec.UserUID] = rec
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	result := make([]*models.UserOverviewRow, 0, len(profiles))
	for _, p := range profiles {
		row := &models.UserOverviewRow{
			UID:       p.UID,
			FullName:  p.FullName,
			Email:     p.Email,
			Status:    "inativo",
			CreatedAt: p.CreatedAt.Format(time.RFC3339),
		}
		if rec, ok := byUID[p.UID]; ok {
			row.Plan = rec.Plan
			if rec.PaymentDate != nil {
				row.PaymentDate = rec.PaymentDate.Format(status.DateLayout)
			}
			if rec.ExpiryDate != nil {
				row.ExpiryDate = rec.ExpiryDate.Format(status.DateLayout)
				if rec.ExpiryDate.After(today) {
					row.Status = "ativo"
				}
			}
		}
		result = append(result, row)
	}
	return result
}
