package rws_service

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Amin173/abb-librws/internal/domain/entities"
	"github.com/Amin173/abb-librws/internal/domain/models"
	"github.com/Amin173/abb-librws/internal/interfaces"
	"github.com/Amin173/abb-librws/internal/middleware/logging"
	apperrors "github.com/Amin173/abb-librws/pkg/errors"
)

// checkTimeout ограничивает живую проверку контроллера при CheckConnection.
const checkTimeout = 2 * time.Second

// PollingStarter определяет методы, которые ConnectionManager может вызывать у PollingManager.
type PollingStarter interface {
	StopPollingForRobot(sessionID string)
}

// pooledConnection - активная сессия пула: метаданные плюс живой RWS-клиент.
// Учетные данные хранятся только в памяти для переподключения.
type pooledConnection struct {
	info     *models.ConnectionInfo
	client   interfaces.RobotClient
	host     string
	port     uint16
	username string
	password string
}

type ConnectionManager struct {
	mu         sync.RWMutex
	pool       map[string]*pooledConnection
	pollingMgr PollingStarter // Используем интерфейс
	dbRepo     interfaces.RobotRepository
	factory    interfaces.RobotClientFactory
	logger     *logging.Logger
}

func NewConnectionManager(pollingMgr PollingStarter, dbRepo interfaces.RobotRepository, factory interfaces.RobotClientFactory, logger *logging.Logger) *ConnectionManager {
	return &ConnectionManager{
		pool:       make(map[string]*pooledConnection),
		pollingMgr: pollingMgr,
		dbRepo:     dbRepo,
		factory:    factory,
		logger:     logger.WithPrefix("CONNECTOR"),
	}
}

func (cm *ConnectionManager) CreateConnection(req models.ConnectionRequest) (*models.ConnectionInfo, error) {
	port := req.Port
	if port == 0 {
		port = 80
	}
	username := req.Username
	if username == "" {
		username = "Default User"
	}
	password := req.Password
	if password == "" {
		password = "robotics"
	}
	endpoint := net.JoinHostPort(req.Host, strconv.Itoa(int(port)))

	existingDB, err := cm.dbRepo.GetByEndpoint(endpoint)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("ошибка при проверке контроллера в БД: %w", err)
	}
	if existingDB != nil {
		cm.mu.RLock()
		_, exists := cm.pool[existingDB.SessionID]
		cm.mu.RUnlock()
		if exists {
			return nil, fmt.Errorf("подключение для '%s' уже активно с SessionID: %s", endpoint, existingDB.SessionID)
		}
		cm.logger.Warn("Connection for endpoint exists in DB but not in pool. Deleting old DB record and creating a new session.", "endpoint", endpoint)
		_ = cm.dbRepo.Delete(existingDB.SessionID)
	}

	sameName, err := cm.dbRepo.GetByName(req.Name)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("ошибка при проверке имени контроллера в БД: %w", err)
	}
	if sameName != nil {
		cm.mu.RLock()
		_, exists := cm.pool[sameName.SessionID]
		cm.mu.RUnlock()
		if exists {
			return nil, fmt.Errorf("контроллер с именем '%s' уже подключен с SessionID: %s", req.Name, sameName.SessionID)
		}
		cm.logger.Warn("Robot name exists in DB but not in pool. Deleting old DB record.", "name", req.Name)
		_ = cm.dbRepo.Delete(sameName.SessionID)
	}

	client, err := cm.factory(req.Host, port, username, password)
	if err != nil {
		return nil, fmt.Errorf("первичное подключение к контроллеру провалено: %w", err)
	}

	sessionID := uuid.New().String()
	robotToSave := &entities.Robot{
		SessionID:   sessionID,
		Name:        req.Name,
		EndpointURL: endpoint,
		Username:    username,
		Status:      entities.StatusConnected,
	}
	if err := cm.dbRepo.Create(robotToSave); err != nil {
		client.Close()
		return nil, fmt.Errorf("не удалось сохранить новое подключение %s в БД: %w", sessionID, err)
	}

	connInfo := &models.ConnectionInfo{
		SessionID: sessionID,
		Name:      req.Name,
		Endpoint:  endpoint,
		CreatedAt: time.Now(),
		LastUsed:  time.Now(),
		UseCount:  1,
		IsHealthy: true,
	}
	if system := client.GetSystemInfo(); system != nil {
		connInfo.SystemName = system.SystemName
		connInfo.RobotWareVersion = system.RobotWareVersion
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.pool[sessionID] = &pooledConnection{
		info:     connInfo,
		client:   client,
		host:     req.Host,
		port:     port,
		username: username,
		password: password,
	}

	cm.logger.Info("Connection created successfully", "sessionID", sessionID, "endpoint", endpoint, "system", connInfo.SystemName)
	return connInfo, nil
}

func (cm *ConnectionManager) RestoreConnection(robot entities.Robot, password string) (*models.ConnectionInfo, error) {
	host, portStr, err := net.SplitHostPort(robot.EndpointURL)
	if err != nil {
		return nil, fmt.Errorf("неверный endpoint '%s' у сохраненной сессии %s: %w", robot.EndpointURL, robot.SessionID, err)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("неверный порт '%s' у сохраненной сессии %s: %w", portStr, robot.SessionID, err)
	}

	connInfo := &models.ConnectionInfo{
		SessionID: robot.SessionID,
		Name:      robot.Name,
		Endpoint:  robot.EndpointURL,
		CreatedAt: robot.CreatedAt,
		LastUsed:  time.Now(),
		IsHealthy: false, // По умолчанию нездоровое, пока не проверим
	}
	pooled := &pooledConnection{
		info:     connInfo,
		host:     host,
		port:     uint16(port),
		username: robot.Username,
		password: password,
	}

	client, err := cm.factory(host, uint16(port), robot.Username, password)
	if err != nil {
		cm.logger.Warn("Failed to reconnect to controller, session restored as unhealthy", "sessionID", robot.SessionID, "endpoint", robot.EndpointURL, "error", err)
	} else {
		pooled.client = client
		connInfo.IsHealthy = true
		if system := client.GetSystemInfo(); system != nil {
			connInfo.SystemName = system.SystemName
			connInfo.RobotWareVersion = system.RobotWareVersion
		}
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.pool[robot.SessionID] = pooled

	return connInfo, nil
}

func (cm *ConnectionManager) GetConnection(sessionID string) (*models.ConnectionInfo, bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	pooled, found := cm.pool[sessionID]
	if !found {
		return nil, false
	}
	return pooled.info, true
}

func (cm *ConnectionManager) GetAllConnections() []*models.ConnectionInfo {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	conns := make([]*models.ConnectionInfo, 0, len(cm.pool))
	for _, pooled := range cm.pool {
		conns = append(conns, pooled.info)
	}
	return conns
}

// Client возвращает живой RWS-клиент сессии.
func (cm *ConnectionManager) Client(sessionID string) (interfaces.RobotClient, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	pooled, exists := cm.pool[sessionID]
	if !exists {
		return nil, fmt.Errorf("сессия '%s' не найдена: %w", sessionID, apperrors.ErrDataNotFound)
	}
	if pooled.client == nil {
		return nil, fmt.Errorf("сессия '%s' не имеет живого подключения: %w", sessionID, apperrors.ErrControllerUnavailable)
	}
	return pooled.client, nil
}

func (cm *ConnectionManager) DeleteConnection(sessionID string) error {
	// Сначала останавливаем опрос, если он был
	cm.pollingMgr.StopPollingForRobot(sessionID)

	cm.mu.Lock()
	defer cm.mu.Unlock()

	pooled, exists := cm.pool[sessionID]
	if !exists {
		err := cm.dbRepo.Delete(sessionID)
		if err != nil && err != gorm.ErrRecordNotFound {
			return fmt.Errorf("ошибка удаления сессии '%s' из БД: %w", sessionID, err)
		}
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("сессия '%s' не найдена ни в активном пуле, ни в БД: %w", sessionID, apperrors.ErrDataNotFound)
		}
		cm.logger.Info("Session (not in pool) successfully deleted from DB.", "sessionID", sessionID)
		return nil
	}

	if pooled.client != nil {
		pooled.client.Close()
		pooled.client = nil
	}
	delete(cm.pool, sessionID)

	if err := cm.dbRepo.Delete(sessionID); err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("ошибка удаления сессии '%s' из БД: %w", sessionID, err)
	}

	cm.logger.Info("Session deleted successfully.", "sessionID", sessionID)
	return nil
}

func (cm *ConnectionManager) CheckConnection(sessionID string) (*models.ConnectionInfo, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	pooled, exists := cm.pool[sessionID]
	if !exists {
		return nil, fmt.Errorf("сессия '%s' не найдена: %w", sessionID, apperrors.ErrDataNotFound)
	}

	conn := pooled.info
	previousHealth := conn.IsHealthy
	err := cm.probeConnection(pooled)
	conn.IsHealthy = (err == nil)
	conn.LastUsed = time.Now()
	conn.UseCount++

	if previousHealth != conn.IsHealthy {
		cm.logger.Info("Session health status changed", "sessionID", sessionID, "from", previousHealth, "to", conn.IsHealthy)
	}

	return conn, err
}

// probeConnection проверяет живую сессию чтением системной информации.
// Мертвый клиент закрывается, после чего делается одна попытка
// переподключиться с учетными данными из пула.
func (cm *ConnectionManager) probeConnection(pooled *pooledConnection) error {
	if pooled.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		_, err := pooled.client.SystemInfo(ctx)
		cancel()
		if err == nil {
			return nil
		}
		cm.logger.Warn("Live session probe failed, reconnecting", "sessionID", pooled.info.SessionID, "error", err)
		pooled.client.Close()
		pooled.client = nil
	}

	client, err := cm.factory(pooled.host, pooled.port, pooled.username, pooled.password)
	if err != nil {
		return err
	}
	pooled.client = client
	if system := client.GetSystemInfo(); system != nil {
		pooled.info.SystemName = system.SystemName
		pooled.info.RobotWareVersion = system.RobotWareVersion
	}
	return nil
}
