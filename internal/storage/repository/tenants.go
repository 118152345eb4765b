package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/bakery-admin/internal/models"
)

// CreateTenantSettings создает настройки арендатора для новой учетной записи.
// Запись создается только при создании аккаунта и никогда не пересоздается
// при обновлении, поэтому конфликт по uid молча игнорируется.
func (s *Storage) CreateTenantSettings(ctx context.Context, ts models.TenantSettings) error {
	const op = "storage.CreateTenantSettings"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO tenant_settings (uid, display_name, email)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (uid) DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, query,
		ts.UID, ts.DisplayName, ts.Email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteTenantSettings удаляет настройки арендатора и возвращает количество
// удаленных записей.
func (s *Storage) DeleteTenantSettings(ctx context.Context, uid string) (int64, error) {
	const op = "storage.DeleteTenantSettings"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM tenant_settings WHERE uid = $1`, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
