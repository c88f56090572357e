package rws_service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Amin173/abb-librws/internal/domain/entities"
	"github.com/Amin173/abb-librws/internal/domain/models"
	"github.com/Amin173/abb-librws/internal/interfaces"
	"github.com/Amin173/abb-librws/internal/middleware/logging"
)

type activePoll struct {
	ticker *time.Ticker
	done   chan bool
}

type PollingManager struct {
	dbRepo      interfaces.RobotRepository
	producer    interfaces.KafkaService
	logger      *logging.Logger
	activePolls map[string]*activePoll
	pollsMutex  sync.Mutex
}

func NewPollingManager(dbRepo interfaces.RobotRepository, producer interfaces.KafkaService, logger *logging.Logger) *PollingManager {
	return &PollingManager{
		dbRepo:      dbRepo,
		producer:    producer,
		logger:      logger.WithPrefix("POLLER"),
		activePolls: make(map[string]*activePoll),
	}
}

func (pm *PollingManager) IsPollingActive(sessionID string) bool {
	pm.pollsMutex.Lock()
	defer pm.pollsMutex.Unlock()
	_, exists := pm.activePolls[sessionID]
	return exists
}

func (pm *PollingManager) StartPolling(conn *models.ConnectionInfo, client interfaces.RobotClient, interval time.Duration) error {
	pm.pollsMutex.Lock()
	defer pm.pollsMutex.Unlock()

	sessionID := conn.SessionID
	if _, exists := pm.activePolls[sessionID]; exists {
		return fmt.Errorf("опрос для сессии '%s' уже запущен", sessionID)
	}

	if err := pm.dbRepo.UpdatePollingState(sessionID, entities.StatusPolled, int(interval.Milliseconds())); err != nil {
		return fmt.Errorf("не удалось обновить статус контроллера в БД: %w", err)
	}

	pm.startPollingForRobotUnsafe(conn, client, interval)
	return nil
}

func (pm *PollingManager) StopPolling(sessionID string) error {
	pm.pollsMutex.Lock()
	defer pm.pollsMutex.Unlock()

	if err := pm.dbRepo.UpdatePollingState(sessionID, entities.StatusConnected, 0); err != nil {
		pm.logger.Error("Failed to update status in DB when stopping polling", "sessionID", sessionID, "error", err)
	}

	pm.stopPollingUnsafe(sessionID)
	return nil
}

func (pm *PollingManager) StopPollingForRobot(sessionID string) {
	pm.pollsMutex.Lock()
	defer pm.pollsMutex.Unlock()
	pm.stopPollingUnsafe(sessionID)
}

func (pm *PollingManager) stopPollingUnsafe(sessionID string) {
	poll, exists := pm.activePolls[sessionID]
	if !exists {
		return
	}
	poll.ticker.Stop()
	poll.done <- true
	close(poll.done)
	delete(pm.activePolls, sessionID)
	pm.logger.Info("Polling stopped", "sessionID", sessionID)
}

func (pm *PollingManager) startPollingForRobotUnsafe(conn *models.ConnectionInfo, client interfaces.RobotClient, interval time.Duration) {
	ticker := time.NewTicker(interval)
	done := make(chan bool)

	sessionID := conn.SessionID
	name := conn.Name
	endpoint := conn.Endpoint

	pm.activePolls[sessionID] = &activePoll{
		ticker: ticker,
		done:   done,
	}

	go func() {
		pm.logger.Info("Starting polling goroutine", "sessionID", sessionID, "endpoint", endpoint, "interval", interval)

		defer func() {
			pm.logger.Info("Polling goroutine stopped", "sessionID", sessionID)
		}()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				data := models.ControllerData{
					SessionID: sessionID,
					Name:      name,
					Endpoint:  endpoint,
					Timestamp: time.Now().UTC(),
				}

				// Шаг 1: Читаем сводный снимок через живую сессию пула
				staticInfo, err := client.StaticInfo(context.Background())
				if err != nil {
					pm.logger.Error("Error reading controller snapshot", "sessionID", sessionID, "error", err)
					continue // Пропускаем эту итерацию, попробуем на следующей
				}
				data.StaticInfo = &staticInfo

				// Шаг 2: Читаем текущие значения сигналов
				signals, err := client.IOSignals(context.Background())
				if err != nil {
					pm.logger.Error("Error reading IO signals", "sessionID", sessionID, "error", err)
					continue
				}
				data.Signals = models.FlattenSignals(signals)

				jsonData, err := json.Marshal(data)
				if err != nil {
					pm.logger.Error("Failed to serialize data for Kafka", "sessionID", sessionID, "error", err)
					continue
				}

				err = pm.producer.Produce(context.Background(), []byte(sessionID), jsonData)
				if err != nil {
					pm.logger.Error("Failed to send data to Kafka", "sessionID", sessionID, "error", err)
				}
			}
		}
	}()
}
