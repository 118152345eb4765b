package models

// SubscriptionStatus — производный статус подписки пользователя.
// Не хранится: вычисляется на каждом чтении из UserIdentity.Metadata.
type SubscriptionStatus struct {
	IsActive            bool   `json:"is_active"`
	IsExpired           bool   `json:"is_expired"`
	IsExpiringSoon      bool   `json:"is_expiring_soon"`
	DaysUntilExpiration int    `json:"days_until_expiration"`
	Plan                string `json:"plan"`
	ExpiryDate          string `json:"expiry_date,omitempty"`
	PaymentDate         string `json:"payment_date,omitempty"`
}

// UserOverviewRow — одна строка административного списка пользователей:
// профиль, объединенный с записью подписки. Поле Status здесь — простое
// сравнение даты истечения с текущим днем ("ativo"/"inativo"), без учета
// льготного периода: это правило витрины списка, а не живой проверки доступа.
type UserOverviewRow struct {
	UID         string `json:"uid"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Plan        string `json:"plan"`
	PaymentDate string `json:"payment_date"`
	ExpiryDate  string `json:"expiry_date"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}
