package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/bakery-admin/internal/models"
)

// UpsertProfile вставляет или обновляет профиль по UID учетной записи.
func (s *Storage) UpsertProfile(ctx context.Context, profile models.Profile) error {
	const op = "storage.UpsertProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO profiles (uid, full_name, email)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (uid) DO UPDATE
			  SET full_name = EXCLUDED.full_name,
			      email = EXCLUDED.email`
	if _, err := s.DB.ExecContext(ctx, query,
		profile.UID, profile.FullName, profile.Email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateProfileName обновляет полное имя в профиле.
func (s *Storage) UpdateProfileName(ctx context.Context, uid, fullName string) (int64, error) {
	const op = "storage.UpdateProfileName"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE profiles SET full_name = $1 WHERE uid = $2`, fullName, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// DeleteProfile удаляет профиль и возвращает количество удаленных записей.
func (s *Storage) DeleteProfile(ctx context.Context, uid string) (int64, error) {
	const op = "storage.DeleteProfile"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM profiles WHERE uid = $1`, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ListProfiles возвращает все профили, отсортированные по дате создания
// по убыванию. Используется резервным путем чтения списка.
func (s *Storage) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	const op = "storage.ListProfiles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, full_name, email, created_at
			  FROM profiles
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Profile
	for rows.Next() {
		var p models.Profile
		if err = rows.Scan(&p.UID, &p.FullName, &p.Email, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
