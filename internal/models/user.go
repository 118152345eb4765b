// Package models содержит доменную модель учетной записи пользователя
// продукта, включающую учетные данные, зеркало метаданных подписки и дату
// создания. Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей системы.
const (
	// RoleAdmin — повышенная роль: открывает операции управления учетными
	// записями и снимает все проверки истечения подписки.
	RoleAdmin = "admin"
	// RoleUser — обычный подписчик продукта.
	RoleUser = "user"
)

// UserIdentity представляет учетную запись пользователя системы.
// UID — непрозрачный стабильный идентификатор, ключ для всех зависимых
// записей (профиль, запись подписки, настройки арендатора).
type UserIdentity struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта (уникальная, ключ входа)
	PasswordHash string    // Хэш пароля пользователя
	Metadata     Metadata  // Зеркало метаданных подписки (быстрый путь)
	CreatedAt    time.Time // Дата создания учетной записи
}

// Metadata — мешок метаданных учетной записи. Даты хранятся строками в
// формате 2006-01-02; пустая строка означает отсутствие значения.
// Статус подписки вычисляется именно по этим полям, а не по долговременной
// записи подписки.
type Metadata struct {
	FullName    string `json:"full_name"`
	Role        string `json:"role,omitempty"`
	Plan        string `json:"plan"`
	PaymentDate string `json:"payment_date"`
	ExpiryDate  string `json:"expiry_date"`
	CreatedVia  string `json:"created_via,omitempty"`
}

// CreatedUser — результат успешного создания учетной записи,
// возвращаемый оркестратором вызывающей стороне.
type CreatedUser struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}
