package rws

import "fmt"

// StatusError - ответ контроллера с кодом вне диапазона 2xx.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("controller returned %s", e.Status)
}

// IncompleteResponseError - в ответе контроллера отсутствует или не
// разбирается обязательное поле. Запись для такой сущности не строится:
// частично заполненная запись с значениями-заглушками хуже, чем ошибка.
type IncompleteResponseError struct {
	Resource string
	Field    string
}

func (e *IncompleteResponseError) Error() string {
	return fmt.Sprintf("incomplete response from %s: missing or malformed field %q", e.Resource, e.Field)
}

// PartialAggregateError - одна из составляющих сводного снимка не получена.
// Сводный снимок в этом случае не возвращается целиком.
type PartialAggregateError struct {
	Part string
	Err  error
}

func (e *PartialAggregateError) Error() string {
	return fmt.Sprintf("aggregate snapshot failed on %s: %v", e.Part, e.Err)
}

func (e *PartialAggregateError) Unwrap() error {
	return e.Err
}
