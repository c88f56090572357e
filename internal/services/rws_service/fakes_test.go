package rws_service

import (
	"context"
	"fmt"
	"sync"

	abbmodels "github.com/Amin173/abb-librws/models"
	"gorm.io/gorm"

	"github.com/Amin173/abb-librws/internal/domain/entities"
	"github.com/Amin173/abb-librws/internal/interfaces"
	"github.com/Amin173/abb-librws/internal/middleware/logging"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(&logging.Config{Enabled: false}, "TEST")
}

// fakeRobotClient заменяет живое RWS-подключение в тестах сервисного слоя.
type fakeRobotClient struct {
	mu       sync.Mutex
	system   abbmodels.SystemInfo
	static   abbmodels.StaticInfo
	signals  abbmodels.IOSignalInfo
	probeErr error
	readErr  error
	closed   int
}

func newFakeRobotClient(systemName string) *fakeRobotClient {
	system := abbmodels.SystemInfo{
		RobotWareVersion: "6.08.01",
		SystemName:       systemName,
		SystemType:       "Virtual Controller",
	}
	return &fakeRobotClient{
		system: system,
		static: abbmodels.StaticInfo{
			Tasks:  []abbmodels.RAPIDTaskInfo{abbmodels.NewRAPIDTaskInfo("T_ROB1", true, true, abbmodels.TaskExecutionReady)},
			System: system,
		},
		signals: abbmodels.IOSignalInfo{
			"do1": abbmodels.Digital(true),
			"ai1": abbmodels.Analog(11.5),
		},
	}
}

func (f *fakeRobotClient) GetSystemInfo() *abbmodels.SystemInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	system := f.system
	return &system
}

func (f *fakeRobotClient) SystemInfo(ctx context.Context) (abbmodels.SystemInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.probeErr != nil {
		return abbmodels.SystemInfo{}, f.probeErr
	}
	return f.system, nil
}

func (f *fakeRobotClient) StaticInfo(ctx context.Context) (abbmodels.StaticInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return abbmodels.StaticInfo{}, f.readErr
	}
	return f.static, nil
}

func (f *fakeRobotClient) IOSignals(ctx context.Context) (abbmodels.IOSignalInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.signals, nil
}

func (f *fakeRobotClient) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
}

func (f *fakeRobotClient) setProbeErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probeErr = err
}

func (f *fakeRobotClient) setReadErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readErr = err
}

func (f *fakeRobotClient) closedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// fakeFactory выдает по одному fakeRobotClient на вызов и считает подключения.
type fakeFactory struct {
	mu      sync.Mutex
	dials   int
	dialErr error
	clients []*fakeRobotClient
}

func (f *fakeFactory) factory() interfaces.RobotClientFactory {
	return func(host string, port uint16, username, password string) (interfaces.RobotClient, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.dials++
		if f.dialErr != nil {
			return nil, f.dialErr
		}
		client := newFakeRobotClient("GreenRoom_" + host)
		f.clients = append(f.clients, client)
		return client, nil
	}
}

func (f *fakeFactory) setDialErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dialErr = err
}

func (f *fakeFactory) dialCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dials
}

func (f *fakeFactory) client(i int) *fakeRobotClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clients[i]
}

// fakeRobotRepository хранит записи в памяти вместо Postgres.
type fakeRobotRepository struct {
	mu     sync.Mutex
	robots map[string]entities.Robot
}

func newFakeRobotRepository() *fakeRobotRepository {
	return &fakeRobotRepository{robots: make(map[string]entities.Robot)}
}

func (r *fakeRobotRepository) Create(robot *entities.Robot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.robots {
		if existing.Name == robot.Name || existing.EndpointURL == robot.EndpointURL {
			return fmt.Errorf("duplicate robot %s", robot.Name)
		}
	}
	r.robots[robot.SessionID] = *robot
	return nil
}

func (r *fakeRobotRepository) GetByEndpoint(endpointURL string) (*entities.Robot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, robot := range r.robots {
		if robot.EndpointURL == endpointURL {
			found := robot
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRobotRepository) GetByName(name string) (*entities.Robot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, robot := range r.robots {
		if robot.Name == name {
			found := robot
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRobotRepository) UpdatePollingState(sessionID, status string, interval int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	robot, exists := r.robots[sessionID]
	if !exists {
		return gorm.ErrRecordNotFound
	}
	robot.Status = status
	robot.Interval = interval
	r.robots[sessionID] = robot
	return nil
}

func (r *fakeRobotRepository) Delete(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.robots[sessionID]; !exists {
		return gorm.ErrRecordNotFound
	}
	delete(r.robots, sessionID)
	return nil
}

func (r *fakeRobotRepository) GetBySessionID(sessionID string) (*entities.Robot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	robot, exists := r.robots[sessionID]
	if !exists {
		return nil, gorm.ErrRecordNotFound
	}
	return &robot, nil
}

func (r *fakeRobotRepository) GetAll() ([]entities.Robot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]entities.Robot, 0, len(r.robots))
	for _, robot := range r.robots {
		all = append(all, robot)
	}
	return all, nil
}

// fakeProducer собирает отправленные сообщения вместо Kafka.
type fakeProducer struct {
	mu       sync.Mutex
	keys     [][]byte
	values   [][]byte
	closeErr error
}

func (p *fakeProducer) Produce(ctx context.Context, key, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.values = append(p.values, value)
	return nil
}

func (p *fakeProducer) Close() error {
	return p.closeErr
}

func (p *fakeProducer) messageCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}

func (p *fakeProducer) lastMessage() ([]byte, []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.keys) == 0 {
		return nil, nil
	}
	return p.keys[len(p.keys)-1], p.values[len(p.values)-1]
}

// serviceFixture собирает сервисный слой на фейках.
type serviceFixture struct {
	service  *rwsService
	connMgr  *ConnectionManager
	pollMgr  *PollingManager
	factory  *fakeFactory
	repo     *fakeRobotRepository
	producer *fakeProducer
}

func newServiceFixture() *serviceFixture {
	repo := newFakeRobotRepository()
	producer := &fakeProducer{}
	factory := &fakeFactory{}
	logger := testLogger()

	pollMgr := NewPollingManager(repo, producer, logger)
	connMgr := NewConnectionManager(pollMgr, repo, factory.factory(), logger)

	return &serviceFixture{
		service:  &rwsService{connMgr: connMgr, pollMgr: pollMgr},
		connMgr:  connMgr,
		pollMgr:  pollMgr,
		factory:  factory,
		repo:     repo,
		producer: producer,
	}
}
