package models

// DummyCreateUser используется для приёма данных запроса на создание
// учетной записи, прежде чем конвертировать их в доменные структуры.
// Даты приходят строками формата 2006-01-02, чтобы их можно было
// валидировать и парсить вручную. Пароль опционален: при его отсутствии
// оркестратор генерирует одноразовый пароль сам.
type DummyCreateUser struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password,omitempty"`
	FullName    string `json:"full_name" validate:"required"`
	Plan        string `json:"plan" validate:"required"`
	PaymentDate string `json:"payment_date,omitempty"`
	ExpiryDate  string `json:"expiry_date,omitempty"`
}

// DummyUpdateUser используется для приёма данных запроса на обновление.
// Email обязателен всегда: вызывающая сторона обязана повторить почту
// учетной записи, чтобы рассинхронизация на клиенте была поймана до записи.
type DummyUpdateUser struct {
	UID         string `json:"uid" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	FullName    string `json:"full_name,omitempty"`
	Plan        string `json:"plan,omitempty"`
	PaymentDate string `json:"payment_date,omitempty"`
	ExpiryDate  string `json:"expiry_date,omitempty"`
	Password    string `json:"password,omitempty"`
}

// DummyDeleteUser используется для приёма данных запроса на удаление.
type DummyDeleteUser struct {
	UID string `json:"uid" validate:"required"`
}
