package models

import "time"

// SubscriptionRecord — долговременная запись о подписке пользователя,
// 1:1 с UserIdentity, апсертится по user_uid. Авторитетные даты биллинга
// для вычисления статуса читаются из зеркала в Metadata; эта таблица —
// долговременный учетный след.
// Даты могут быть nil — это означает отсутствие значения.
type SubscriptionRecord struct {
	UserUID      string     // Идентификатор владельца записи
	Plan         string     // Название тарифного плана
	PaymentDate  *time.Time // Дата последней оплаты
	ExpiryDate   *time.Time // Дата истечения подписки
	Email        string     // Электронная почта владельца
	DisplayName  string     // Отображаемое имя владельца
	ProductLabel string     // Метка продукта, например "Bakery Manager - Plan Mensal"
	SourceLabel  string     // Происхождение записи: "Created via Admin" / "Updated via Admin"
}
