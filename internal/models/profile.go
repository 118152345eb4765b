package models

import "time"

// Profile — публичный профиль пользователя, запись 1:1 с UserIdentity.
// Существование профиля следует за существованием учетной записи:
// профиль создается только апсертом при провижининге.
type Profile struct {
	UID       string    // Совпадает с UserIdentity.UID
	FullName  string    // Полное имя пользователя
	Email     string    // Электронная почта
	CreatedAt time.Time // Дата создания профиля
}
