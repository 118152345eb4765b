package models

// UserCreatedEvent публикуется оркестратором после полного успеха создания
// учетной записи. OneTimePassword заполняется только когда пароль был
// сгенерирован сервером и его нужно доставить пользователю.
type UserCreatedEvent struct {
	EventID         string `json:"event_id"`
	UserUID         string `json:"user_uid"`
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	Plan            string `json:"plan"`
	OneTimePassword string `json:"one_time_password,omitempty"`
}

// UserDeletedEvent публикуется после удаления учетной записи и всех
// зависимых записей.
type UserDeletedEvent struct {
	EventID string `json:"event_id"`
	UserUID string `json:"user_uid"`
	Email   string `json:"email"`
}
