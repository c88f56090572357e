package interfaces

import (
	"context"
	"time"

	abbmodels "github.com/Amin173/abb-librws/models"

	"github.com/Amin173/abb-librws/internal/domain/entities"
	"github.com/Amin173/abb-librws/internal/domain/models"
)

// RobotService - это агрегирующий интерфейс для всей бизнес-логики.
type RobotService interface {
	ConnectionManager
	PollingManager

	// StaticInfo читает сводный снимок контроллера через живую сессию пула.
	StaticInfo(ctx context.Context, sessionID string) (abbmodels.StaticInfo, error)
	// IOSignals читает текущие значения сигналов через живую сессию пула.
	IOSignals(ctx context.Context, sessionID string) (abbmodels.IOSignalInfo, error)
}

// ConnectionManager определяет контракт для управления пулом подключений.
type ConnectionManager interface {
	CreateConnection(req models.ConnectionRequest) (*models.ConnectionInfo, error)
	RestoreConnection(robot entities.Robot, password string) (*models.ConnectionInfo, error)
	GetConnection(sessionID string) (*models.ConnectionInfo, bool)
	GetAllConnections() []*models.ConnectionInfo
	DeleteConnection(sessionID string) error
	CheckConnection(sessionID string) (*models.ConnectionInfo, error)
}

// PollingManager определяет контракт для сервиса, опрашивающего контроллеры.
type PollingManager interface {
	StartPolling(conn *models.ConnectionInfo, interval time.Duration) error
	StopPolling(sessionID string) error
	IsPollingActive(sessionID string) bool
}
