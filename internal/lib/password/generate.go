package password

import "math/rand"

// Алфавит одноразового пароля: латиница в обоих регистрах, цифры и пять
// символов. Длина фиксирована — 12 знаков.
const (
	oneTimeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
		"abcdefghijklmnopqrstuvwxyz" +
		"0123456789" +
		"!@#$%"
	oneTimeLength = 12
)

// GenerateOneTime возвращает случайный одноразовый пароль для учетной
// записи, выдаваемой администратором. Источник случайности — math/rand:
// пароль живет до первой смены и выдается только через админский канал,
// при ужесточении требований источник меняется на crypto/rand.
func GenerateOneTime() string {
	buf := make([]byte, oneTimeLength)
	for i := range buf {
		buf[i] = oneTimeAlphabet[rand.Intn(len(oneTimeAlphabet))]
	}
	return string(buf)
}
