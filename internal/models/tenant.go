package models

import "time"

// TenantSettings — настройки арендатора (пекарни) пользователя, 1:1 с
// UserIdentity. Создаются один раз при создании учетной записи и не
// пересоздаются при обновлении.
type TenantSettings struct {
	UID         string    // Совпадает с UserIdentity.UID
	DisplayName string    // Отображаемое имя пекарни
	Email       string    // Контактная почта
	CreatedAt   time.Time // Дата создания записи
	UpdatedAt   time.Time // Дата последнего изменения
}
