package usecases

import "github.com/Amin173/abb-librws/internal/interfaces"

// UseCases - агрегатор всех use case интерфейсов
type UseCases struct {
	interfaces.Usecases
}

// NewUsecases - конструктор для UseCases
func NewUsecases(
	robotSvc interfaces.RobotService,
) interfaces.Usecases {
	return NewUsecase(robotSvc)
}
