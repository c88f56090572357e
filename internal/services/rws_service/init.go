package rws_service

import (
	"context"
	"fmt"
	"time"

	abb "github.com/Amin173/abb-librws"
	abbmodels "github.com/Amin173/abb-librws/models"

	"github.com/Amin173/abb-librws/internal/config"
	"github.com/Amin173/abb-librws/internal/domain/entities"
	"github.com/Amin173/abb-librws/internal/domain/models"
	"github.com/Amin173/abb-librws/internal/interfaces"
	"github.com/Amin173/abb-librws/internal/middleware/logging"
)

type rwsService struct {
	connMgr *ConnectionManager
	pollMgr *PollingManager
}

func NewRobotService(repo interfaces.RobotRepository, producer interfaces.KafkaService, factory interfaces.RobotClientFactory, logger *logging.Logger) interfaces.RobotService {
	pollingManager := NewPollingManager(repo, producer, logger)
	connectionManager := NewConnectionManager(pollingManager, repo, factory, logger)

	return &rwsService{
		connMgr: connectionManager,
		pollMgr: pollingManager,
	}
}

// NewClientFactory строит фабрику RWS-клиентов поверх настроек приложения.
func NewClientFactory(cfg *config.AppConfig) interfaces.RobotClientFactory {
	return func(host string, port uint16, username, password string) (interfaces.RobotClient, error) {
		client, err := abb.New(&abb.Config{
			Host:      host,
			Port:      port,
			Username:  username,
			Password:  password,
			TimeoutMs: cfg.RWS.TimeoutMs,
			LogLevel:  cfg.RWS.LogLevel,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// --- Реализация методов интерфейса RobotService ---

func (s *rwsService) CreateConnection(req models.ConnectionRequest) (*models.ConnectionInfo, error) {
	return s.connMgr.CreateConnection(req)
}

func (s *rwsService) RestoreConnection(robot entities.Robot, password string) (*models.ConnectionInfo, error) {
	return s.connMgr.RestoreConnection(robot, password)
}

func (s *rwsService) GetConnection(sessionID string) (*models.ConnectionInfo, bool) {
	return s.connMgr.GetConnection(sessionID)
}

func (s *rwsService) GetAllConnections() []*models.ConnectionInfo {
	return s.connMgr.GetAllConnections()
}

func (s *rwsService) DeleteConnection(sessionID string) error {
	return s.connMgr.DeleteConnection(sessionID)
}

func (s *rwsService) CheckConnection(sessionID string) (*models.ConnectionInfo, error) {
	return s.connMgr.CheckConnection(sessionID)
}

func (s *rwsService) StartPolling(conn *models.ConnectionInfo, interval time.Duration) error {
	client, err := s.connMgr.Client(conn.SessionID)
	if err != nil {
		return fmt.Errorf("опрос не запущен: %w", err)
	}
	return s.pollMgr.StartPolling(conn, client, interval)
}

func (s *rwsService) StopPolling(sessionID string) error {
	return s.pollMgr.StopPolling(sessionID)
}

func (s *rwsService) IsPollingActive(sessionID string) bool {
	return s.pollMgr.IsPollingActive(sessionID)
}

func (s *rwsService) StaticInfo(ctx context.Context, sessionID string) (abbmodels.StaticInfo, error) {
	client, err := s.connMgr.Client(sessionID)
	if err != nil {
		return abbmodels.StaticInfo{}, err
	}
	return client.StaticInfo(ctx)
}

func (s *rwsService) IOSignals(ctx context.Context, sessionID string) (abbmodels.IOSignalInfo, error) {
	client, err := s.connMgr.Client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.IOSignals(ctx)
}
