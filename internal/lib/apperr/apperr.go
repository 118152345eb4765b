// Package apperr определяет таксономию ошибок сервиса провижининга.
//
// Сентинельные ошибки сравниваются через errors.Is, StepError извлекается
// через errors.As. Обработчики HTTP отображают таксономию в статус-коды,
// сервисы только оборачивают ошибки, ничего не восстанавливая.
package apperr

import (
	"errors"
	"fmt"
)

// Сентинельные ошибки уровня приложения.
var (
	// ErrUnauthenticated — предъявитель не аутентифицирован: токен
	// отсутствует, истек или не прошел проверку подписи.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden — предъявитель аутентифицирован, но роль недостаточна.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidArgument — полезная нагрузка запроса не прошла проверку.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound — учетная запись с указанным идентификатором отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrUnknown — ошибка, не попавшая ни в одну из категорий.
	ErrUnknown = errors.New("unknown error")
)

// Шаги многотабличного провижининга, используются в StepError.Step.
const (
	StepIdentity       = "identity"
	StepProfile        = "profile"
	StepSubscription   = "subscription"
	StepTenantSettings = "tenant_settings"
)

// StepError сообщает, запись в какое зависимое хранилище не удалась.
// Оборачивает исходную причину, чтобы вызывающая сторона могла
// диагностировать сбой по шагу и тексту ошибки.
type StepError struct {
	Step string // Шаг провижининга, на котором произошел сбой
	Err  error  // Исходная причина
}

func (e *StepError) Error() string {
	return fmt.Sprintf("upstream failure at step %q: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// NewStepError оборачивает причину в StepError с указанным шагом.
func NewStepError(step string, err error) *StepError {
	return &StepError{Step: step, Err: err}
}
