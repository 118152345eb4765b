package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/bakery-admin/internal/models"
)

// UpsertSubscriptionRecord вставляет или обновляет запись подписки по user_uid.
func (s *Storage) UpsertSubscriptionRecord(ctx context.Context, rec models.SubscriptionRecord) error {
	const op = "storage.UpsertSubscriptionRecord"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscription_records
			      (user_uid, plan, payment_date, expiry_date, email,
			       display_name, product_label, source_label)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  ON CONFLICT (user_uid) DO UPDATE
			  SET plan = EXCLUDED.plan,
			      payment_date = EXCLUDED.payment_date,
			      expiry_date = EXCLUDED.expiry_date,
			      email = EXCLUDED.email,
			      display_name = EXCLUDED.display_name,
			      product_label = EXCLUDED.product_label,
			      source_label = EXCLUDED.source_label`
	if _, err := s.DB.ExecContext(ctx, query,
		rec.UserUID, rec.Plan, rec.PaymentDate, rec.ExpiryDate, rec.Email,
		rec.DisplayName, rec.ProductLabel, rec.SourceLabel); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteSubscriptionRecord удаляет запись подписки и возвращает количество
// удаленных записей.
func (s *Storage) DeleteSubscriptionRecord(ctx context.Context, userUID string) (int64, error) {
	const op = "storage.DeleteSubscriptionRecord"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM subscription_records WHERE user_uid = $1`, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ListSubscriptionRecords возвращает все записи подписок.
// Используется резервным путем чтения списка.
func (s *Storage) ListSubscriptionRecords(ctx context.Context) ([]*models.SubscriptionRecord, error) {
	const op = "storage.ListSubscriptionRecords"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, plan, payment_date, expiry_date, email,
			      display_name, product_label, source_label
			  FROM subscription_records`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SubscriptionRecord
	for rows.Next() {
		var rec models.SubscriptionRecord
		var paymentDate, expiryDate sql.NullTime
		if err = rows.Scan(&rec.UserUID, &rec.Plan, &paymentDate, &expiryDate,
			&rec.Email, &rec.DisplayName, &rec.ProductLabel, &rec.SourceLabel); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if paymentDate.Valid {
			rec.PaymentDate = &paymentDate.Time
		}
		if expiryDate.Valid {
			rec.ExpiryDate = &expiryDate.Time
		}
		result = append(result, &rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
