package interfaces

import (
	"context"
	"time"

	abbmodels "github.com/Amin173/abb-librws/models"

	"github.com/Amin173/abb-librws/internal/domain/entities"
	"github.com/Amin173/abb-librws/internal/domain/models"
)

// Usecases - это агрегирующий интерфейс для всех use cases
type Usecases interface {
	CreateConnection(req models.ConnectionRequest) (*models.ConnectionInfo, error)
	RestoreConnection(robot entities.Robot, password string) (*models.ConnectionInfo, error)
	GetAllConnections() []*models.ConnectionInfo
	DeleteConnection(sessionID string) error
	CheckConnection(sessionID string) (*models.ConnectionInfo, error)
	StartPolling(sessionID string, interval time.Duration) error
	StopPolling(sessionID string) error
	IsPollingActive(sessionID string) bool
	StaticInfo(ctx context.Context, sessionID string) (abbmodels.StaticInfo, error)
	IOSignals(ctx context.Context, sessionID string) (abbmodels.IOSignalInfo, error)
}
