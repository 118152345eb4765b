package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/bakery-admin/internal/models"
)

// ListUserOverview возвращает агрегированный административный список
// пользователей из функции admin_list_users(). Это основной путь чтения
// списка; его ошибка переключает читающий слой на резервное объединение
// профилей и записей подписок в памяти.
func (s *Storage) ListUserOverview(ctx context.Context) ([]*models.UserOverviewRow, error) {
	const op = "storage.ListUserOverview"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT * FROM admin_list_users()`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.UserOverviewRow
	for rows.Next() {
		var row models.UserOverviewRow
		var createdAt time.Time
		if err = rows.Scan(&row.UID, &row.FullName, &row.Email, &row.Plan,
			&row.PaymentDate, &row.ExpiryDate, &row.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		row.CreatedAt = createdAt.Format(time.RFC3339)
		result = append(result, &row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
