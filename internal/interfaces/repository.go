package interfaces

import (
	"github.com/Amin173/abb-librws/internal/domain/entities"
)

// RobotRepository определяет контракт для работы с сохраненными контроллерами в БД
type RobotRepository interface {
	Create(robot *entities.Robot) error
	GetByEndpoint(endpointURL string) (*entities.Robot, error)
	GetByName(name string) (*entities.Robot, error)
	UpdatePollingState(sessionID, status string, interval int) error
	Delete(sessionID string) error
	GetBySessionID(sessionID string) (*entities.Robot, error)
	GetAll() ([]entities.Robot, error)
}
