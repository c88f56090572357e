package errors

import (
	"errors"
	"fmt"
)

// Сообщения для клиентов API. Конкретику к ним добавляет обработчик.
const (
	InternalServerError = "internal server error"
	BadRequest          = "bad request"
	NotFound            = "not_found"

	NotFoundErrorCode           = 404
	ServiceUnavailableErrorCode = 503
)

// AppError - ошибка уровня API: HTTP-код, сообщение для клиента и
// внутренняя причина. Причина попадает в тело ответа только при
// IsUserFacing, но всегда доступна через errors.Is и errors.As.
type AppError struct {
	Code         int    `json:"code"`
	Message      string `json:"message"`
	Err          error  `json:"-"`
	IsUserFacing bool   `json:"-"`
}

func (a *AppError) Error() string {
	if a == nil {
		return ""
	}
	if a.Err != nil {
		return fmt.Sprintf("%s (code: %d): %v", a.Message, a.Code, a.Err)
	}
	return fmt.Sprintf("%s (code: %d)", a.Message, a.Code)
}

// Unwrap открывает внутреннюю причину для цепочки ошибок.
func (a *AppError) Unwrap() error {
	return a.Err
}

// NewAppError создает ошибку API с заданным HTTP-кодом.
func NewAppError(httpCode int, message string, err error, isUserFacing bool) *AppError {
	return &AppError{
		Code:         httpCode,
		Message:      message,
		Err:          err,
		IsUserFacing: isUserFacing,
	}
}

// Сентинелы сервисного слоя. Слой usecase сопоставляет их с HTTP-кодами.
var (
	// ErrDataNotFound - сессия или контроллер не найдены ни в пуле, ни в БД.
	ErrDataNotFound = errors.New("data not found")
	// ErrControllerUnavailable - сессия известна, но живого подключения к
	// контроллеру нет.
	ErrControllerUnavailable = errors.New("controller unavailable")
)
