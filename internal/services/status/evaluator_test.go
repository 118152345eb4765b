package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/bakery-admin/internal/models"
)

var testNow = time.Date(2024, 6, 15, 13, 45, 12, 0, time.UTC)

func dateFromNow(days int) string {
	return testNow.AddDate(0, 0, days).Format(DateLayout)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		md   models.Metadata
		want models.SubscriptionStatus
	}{
		{
			name: "повышенная роль активна независимо от даты истечения",
			md:   models.Metadata{Role: "admin", ExpiryDate: dateFromNow(-365)},
			want: models.SubscriptionStatus{
				IsActive:            true,
				DaysUntilExpiration: 9999,
				Plan:                "Elevated",
				ExpiryDate:          dateFromNow(-365),
			},
		},
		{
			name: "отсутствие даты истечения означает отсутствие подписки",
			md:   models.Metadata{Plan: "Mensal"},
			want: models.SubscriptionStatus{
				IsExpired:           true,
				DaysUntilExpiration: 0,
				Plan:                "Mensal",
			},
		},
		{
			name: "нечитаемая дата истечения приравнивается к отсутствующей",
			md:   models.Metadata{Plan: "Mensal", ExpiryDate: "31/01/2024"},
			want: models.SubscriptionStatus{
				IsExpired:           true,
				DaysUntilExpiration: 0,
				Plan:                "Mensal",
			},
		},
		{
			name: "истечение сегодня: активна и скоро истекает",
			md:   models.Metadata{Plan: "Mensal", ExpiryDate: dateFromNow(0)},
			want: models.SubscriptionStatus{
				IsActive:            true,
				IsExpiringSoon:      true,
				DaysUntilExpiration: 0,
				Plan:                "Mensal",
				ExpiryDate:          dateFromNow(0),
			},
		},
		{
			name: "истечение через два дня: верхняя граница предупреждения",
			md:   models.Metadata{Plan: "Mensal", ExpiryDate: dateFromNow(2)},
			want: models.SubscriptionStatus{
				IsActive:            true,
				IsExpiringSoon:      true,
				DaysUntilExpiration: 2,
				Plan:                "Mensal",
				ExpiryDate:          dateFromNow(2),
			},
		},
		{
			name: "истечение через три дня: активна, предупреждения еще нет",
			md:   models.Metadata{Plan: "Anual", ExpiryDate: dateFromNow(3)},
			want: models.SubscriptionStatus{
				IsActive:            true,
				DaysUntilExpiration: 3,
				Plan:                "Anual",
				ExpiryDate:          dateFromNow(3),
			},
		},
		{
			name: "два дня после истечения: льготный период включительно",
			md:   models.Metadata{Plan: "Mensal", ExpiryDate: dateFromNow(-2)},
			want: models.SubscriptionStatus{
				IsActive:            true,
				DaysUntilExpiration: -2,
				Plan:                "Mensal",
				ExpiryDate:          dateFromNow(-2),
			},
		},
		{
			name: "три дня после истечения: подписка истекла",
			md:   models.Metadata{Plan: "Mensal", ExpiryDate: dateFromNow(-3)},
			want: models.SubscriptionStatus{
				IsExpired:           true,
				DaysUntilExpiration: -3,
				Plan:                "Mensal",
				ExpiryDate:          dateFromNow(-3),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.md, testNow)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_TimeOfDayIgnored(t *testing.T) {
	md := models.Metadata{Plan: "Mensal", ExpiryDate: dateFromNow(1)}

	almostMidnight := time.Date(2024, 6, 15, 23, 59, 59, 0, time.UTC)
	earlyMorning := time.Date(2024, 6, 15, 0, 0, 1, 0, time.UTC)

	assert.Equal(t, Evaluate(md, almostMidnight), Evaluate(md, earlyMorning))
	assert.Equal(t, 1, Evaluate(md, almostMidnight).DaysUntilExpiration)
}
