package interfaces

import (
	"context"

	abbmodels "github.com/Amin173/abb-librws/models"
)

// RobotClient - это минимальный контракт RWS-клиента, который нужен
// сервисному слою. Ему соответствует *abb.Client.
type RobotClient interface {
	GetSystemInfo() *abbmodels.SystemInfo
	SystemInfo(ctx context.Context) (abbmodels.SystemInfo, error)
	StaticInfo(ctx context.Context) (abbmodels.StaticInfo, error)
	IOSignals(ctx context.Context) (abbmodels.IOSignalInfo, error)
	Close()
}

// RobotClientFactory создает подключенный RWS-клиент для контроллера.
// Фабрика позволяет подменять реальные подключения в тестах.
type RobotClientFactory func(host string, port uint16, username, password string) (RobotClient, error)
