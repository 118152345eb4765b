// Package status вычисляет статус подписки пользователя из зеркала
// метаданных учетной записи. Вычисление чистое и детерминированное при
// заданном моменте времени: никаких запросов, никаких мутаций.
package status

import (
	"time"

	"github.com/magabrotheeeer/bakery-admin/internal/models"
)

const (
	// DateLayout — формат дат в метаданных учетной записи.
	DateLayout = "2006-01-02"

	// graceDays — льготный период: столько дней после номинального
	// истечения доступ остается активным.
	graceDays = 2

	// elevatedDays — сентинельное значение дней до истечения для
	// повышенной роли, у которой подписка не проверяется вовсе.
	elevatedDays = 9999

	// elevatedPlanLabel — отображаемый план для повышенной роли.
	elevatedPlanLabel = "Elevated"
)

// Evaluate классифицирует подписку по метаданным на момент now.
// Сравниваются только календарные дни: время суток и у now, и у даты
// истечения игнорируется, границы проходят по полуночи.
//
// Повышенная роль активна безусловно. Отсутствующая или нечитаемая дата
// истечения — терминальное состояние "нет подписки", то есть истекла.
func Evaluate(md models.Metadata, now time.Time) models.SubscriptionStatus {
	if md.Role == models.RoleAdmin {
		return models.SubscriptionStatus{
			IsActive:            true,
			DaysUntilExpiration: elevatedDays,
			Plan:                elevatedPlanLabel,
			ExpiryDate:          md.ExpiryDate,
			PaymentDate:         md.PaymentDate,
		}
	}

	if md.ExpiryDate == "" {
		return noSubscription(md)
	}
	expiry, err := time.Parse(DateLayout, md.ExpiryDate)
	if err != nil {
		return noSubscription(md)
	}

	year, month, day := now.UTC().Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	days := int(expiry.Sub(today).Hours() / 24)

	return models.SubscriptionStatus{
		IsActive:            days >= -graceDays,
		IsExpired:           days < -graceDays,
		IsExpiringSoon:      days >= 0 && days <= graceDays,
		DaysUntilExpiration: days,
		Plan:                md.Plan,
		ExpiryDate:          md.ExpiryDate,
		PaymentDate:         md.PaymentDate,
	}
}

func noSubscription(md models.Metadata) models.SubscriptionStatus {
	return models.SubscriptionStatus{
		IsExpired:   true,
		Plan:        md.Plan,
		PaymentDate: md.PaymentDate,
	}
}
