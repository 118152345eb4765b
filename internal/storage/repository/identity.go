package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/bakery-admin/internal/lib/apperr"
	"github.com/magabrotheeeer/bakery-admin/internal/models"
)

// CreateIdentity сохраняет новую учетную запись и возвращает ее UID.
func (s *Storage) CreateIdentity(ctx context.Context, user models.UserIdentity) (string, error) {
	const op = "storage.CreateIdentity"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, password_hash, full_name, role, plan,
			      payment_date, expiry_date, created_via)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.Metadata.FullName, user.Metadata.Role,
		user.Metadata.Plan, user.Metadata.PaymentDate, user.Metadata.ExpiryDate,
		user.Metadata.CreatedVia).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetIdentity возвращает учетную запись по UID.
// Отсутствие записи отображается в apperr.ErrNotFound.
func (s *Storage) GetIdentity(ctx context.Context, uid string) (*models.UserIdentity, error) {
	const op = "storage.GetIdentity"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, password_hash, full_name, role, plan,
			      payment_date, expiry_date, created_via, created_at
			  FROM users
			  WHERE uid = $1`
	return s.scanIdentity(s.DB.QueryRowContext(ctx, query, uid), op)
}

// GetIdentityByEmail возвращает учетную запись по электронной почте.
func (s *Storage) GetIdentityByEmail(ctx context.Context, email string) (*models.UserIdentity, error) {
	const op = "storage.GetIdentityByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, password_hash, full_name, role, plan,
			      payment_date, expiry_date, created_via, created_at
			  FROM users
			  WHERE email = $1`
	return s.scanIdentity(s.DB.QueryRowContext(ctx, query, email), op)
}

func (s *Storage) scanIdentity(row *sql.Row, op string) (*models.UserIdentity, error) {
	u := &models.UserIdentity{}
	if err := row.Scan(&u.UID, &u.Email, &u.PasswordHash, &u.Metadata.FullName,
		&u.Metadata.Role, &u.Metadata.Plan, &u.Metadata.PaymentDate,
		&u.Metadata.ExpiryDate, &u.Metadata.CreatedVia, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateIdentity обновляет метаданные учетной записи и, если передан
// непустой хэш, пароль. Возвращает количество обновленных записей.
func (s *Storage) UpdateIdentity(ctx context.Context, uid string, md models.Metadata, passwordHash string) (int64, error) {
	const op = "storage.UpdateIdentity"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET full_name = $1,
			      role = $2,
			      plan = $3,
			      payment_date = $4,
			      expiry_date = $5,
			      password_hash = CASE WHEN $6 <> '' THEN $6 ELSE password_hash END
			  WHERE uid = $7`
	res, err := s.DB.ExecContext(ctx, query,
		md.FullName, md.Role, md.Plan, md.PaymentDate, md.ExpiryDate,
		passwordHash, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// DeleteIdentity удаляет учетную запись и возвращает количество удаленных записей.
func (s *Storage) DeleteIdentity(ctx context.Context, uid string) (int64, error) {
	const op = "storage.DeleteIdentity"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
