package rws_service

import (
	"context"
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gorm.io/gorm"

	"github.com/Amin173/abb-librws/internal/config"
	"github.com/Amin173/abb-librws/internal/domain/models"
	"github.com/Amin173/abb-librws/internal/interfaces"
	"github.com/Amin173/abb-librws/internal/middleware/logging"
)

// reconcileDebounce гасит всплески событий от редакторов, переписывающих
// манифест несколькими операциями подряд.
const reconcileDebounce = 500 * time.Millisecond

// ManifestWatcher следит за YAML-манифестом контроллеров и приводит пул
// подключений в соответствие с его содержимым.
type ManifestWatcher struct {
	path    string
	service interfaces.RobotService
	dbRepo  interfaces.RobotRepository
	logger  *logging.Logger

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
}

func NewManifestWatcher(path string, service interfaces.RobotService, dbRepo interfaces.RobotRepository, logger *logging.Logger) *ManifestWatcher {
	return &ManifestWatcher{
		path:    path,
		service: service,
		dbRepo:  dbRepo,
		logger:  logger.WithPrefix("WATCHER"),
	}
}

// Watch блокируется до отмены контекста. События записи манифеста
// сворачиваются в один отложенный Reconcile.
func (w *ManifestWatcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("не удалось создать fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	// Редакторы заменяют файл через rename, поэтому следим за каталогом.
	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("не удалось следить за каталогом '%s': %w", dir, err)
	}

	w.logger.Info("Watching robots manifest", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			w.stopDebounce()
			w.logger.Info("Manifest watcher stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.logger.Debug("Manifest changed", "op", event.Op.String(), "file", event.Name)
				w.scheduleReconcile()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Manifest watcher error", "error", err)
		}
	}
}

func (w *ManifestWatcher) scheduleReconcile() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(reconcileDebounce, func() {
		if err := w.Reconcile(); err != nil {
			w.logger.Error("Manifest reconcile failed", "error", err)
		}
	})
}

func (w *ManifestWatcher) stopDebounce() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
}

// Reconcile приводит пул подключений в соответствие с манифестом:
// создает отсутствующие подключения, удаляет исчезнувшие из манифеста
// и выравнивает состояние опроса.
func (w *ManifestWatcher) Reconcile() error {
	specs, err := config.LoadRobots(w.path)
	if err != nil {
		return fmt.Errorf("не удалось перечитать манифест: %w", err)
	}

	desired := make(map[string]config.RobotSpec, len(specs))
	for _, spec := range specs {
		desired[spec.Name] = spec
	}

	// Лишние подключения убираем первыми, чтобы освободить endpoint'ы.
	for _, conn := range w.service.GetAllConnections() {
		if _, ok := desired[conn.Name]; ok {
			continue
		}
		w.logger.Info("Robot removed from manifest, deleting connection", "name", conn.Name, "sessionID", conn.SessionID)
		if err := w.service.DeleteConnection(conn.SessionID); err != nil {
			w.logger.Error("Failed to delete connection", "sessionID", conn.SessionID, "error", err)
		}
	}

	for _, spec := range specs {
		if err := w.ensureRobot(spec); err != nil {
			w.logger.Error("Failed to reconcile robot", "name", spec.Name, "error", err)
		}
	}

	return nil
}

func (w *ManifestWatcher) ensureRobot(spec config.RobotSpec) error {
	endpoint := net.JoinHostPort(spec.Host, strconv.Itoa(int(spec.Port)))

	conn := w.findConnectionByName(spec.Name)
	if conn != nil && conn.Endpoint != endpoint {
		// Контроллер переехал: подключение пересоздается с новым адресом.
		w.logger.Info("Robot endpoint changed, recreating connection", "name", spec.Name, "from", conn.Endpoint, "to", endpoint)
		if err := w.service.DeleteConnection(conn.SessionID); err != nil {
			return err
		}
		conn = nil
	}

	if conn == nil {
		created, err := w.service.CreateConnection(models.ConnectionRequest{
			Name:     spec.Name,
			Host:     spec.Host,
			Port:     spec.Port,
			Username: spec.Username,
			Password: spec.Password,
		})
		if err != nil {
			return err
		}
		conn = created
	}

	return w.ensurePolling(conn, spec.PollIntervalMs)
}

func (w *ManifestWatcher) findConnectionByName(name string) *models.ConnectionInfo {
	for _, conn := range w.service.GetAllConnections() {
		if conn.Name == name {
			return conn
		}
	}
	return nil
}

func (w *ManifestWatcher) ensurePolling(conn *models.ConnectionInfo, intervalMs int) error {
	active := w.service.IsPollingActive(conn.SessionID)

	if intervalMs <= 0 {
		if active {
			w.logger.Info("Polling disabled in manifest, stopping", "sessionID", conn.SessionID)
			return w.service.StopPolling(conn.SessionID)
		}
		return nil
	}

	if active {
		robot, err := w.dbRepo.GetBySessionID(conn.SessionID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("сессия '%s' активна, но отсутствует в БД", conn.SessionID)
			}
			return err
		}
		if robot.Interval == intervalMs {
			return nil
		}
		w.logger.Info("Poll interval changed, restarting polling", "sessionID", conn.SessionID, "from", robot.Interval, "to", intervalMs)
		if err := w.service.StopPolling(conn.SessionID); err != nil {
			return err
		}
	}

	return w.service.StartPolling(conn, time.Duration(intervalMs)*time.Millisecond)
}
