package rws_service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Amin173/abb-librws/internal/domain/models"
)

func writeManifest(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "Не удалось записать манифест")
}

func findConnection(t *testing.T, conns []*models.ConnectionInfo, name string) *models.ConnectionInfo {
	t.Helper()
	for _, conn := range conns {
		if conn.Name == name {
			return conn
		}
	}
	t.Fatalf("подключение '%s' не найдено в пуле", name)
	return nil
}

const twoRobotsManifest = `robots:
  - name: welder
    host: 192.168.125.1
    poll_interval_ms: 40
  - name: gripper
    host: 192.168.125.2
    port: 8080
`

func TestReconcileCreatesConnectionsFromManifest(t *testing.T) {
	fix := newServiceFixture()
	path := filepath.Join(t.TempDir(), "robots.yaml")
	writeManifest(t, path, twoRobotsManifest)

	watcher := NewManifestWatcher(path, fix.service, fix.repo, testLogger())
	require.NoError(t, watcher.Reconcile())

	conns := fix.service.GetAllConnections()
	require.Len(t, conns, 2, "Оба контроллера из манифеста должны попасть в пул")

	welder := findConnection(t, conns, "welder")
	require.Equal(t, "192.168.125.1:80", welder.Endpoint)
	require.True(t, fix.service.IsPollingActive(welder.SessionID), "Опрос welder задан манифестом")

	gripper := findConnection(t, conns, "gripper")
	require.Equal(t, "192.168.125.2:8080", gripper.Endpoint)
	require.False(t, fix.service.IsPollingActive(gripper.SessionID), "Для gripper опрос не задан")

	t.Cleanup(func() { _ = fix.service.StopPolling(welder.SessionID) })
}

func TestReconcileRemovesRobotsDroppedFromManifest(t *testing.T) {
	fix := newServiceFixture()
	path := filepath.Join(t.TempDir(), "robots.yaml")
	writeManifest(t, path, twoRobotsManifest)

	watcher := NewManifestWatcher(path, fix.service, fix.repo, testLogger())
	require.NoError(t, watcher.Reconcile())
	welder := findConnection(t, fix.service.GetAllConnections(), "welder")

	writeManifest(t, path, `robots:
  - name: gripper
    host: 192.168.125.2
    port: 8080
`)
	require.NoError(t, watcher.Reconcile())

	conns := fix.service.GetAllConnections()
	require.Len(t, conns, 1, "Удаленный из манифеста контроллер должен уйти из пула")
	require.Equal(t, "gripper", conns[0].Name)
	require.False(t, fix.service.IsPollingActive(welder.SessionID), "Опрос удаленного контроллера должен быть остановлен")

	_, err := fix.repo.GetBySessionID(welder.SessionID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound, "Запись удаленного контроллера должна уйти из БД")
}

func TestReconcileRestartsPollingOnIntervalChange(t *testing.T) {
	fix := newServiceFixture()
	path := filepath.Join(t.TempDir(), "robots.yaml")
	writeManifest(t, path, `robots:
  - name: welder
    host: 192.168.125.1
    poll_interval_ms: 40
`)

	watcher := NewManifestWatcher(path, fix.service, fix.repo, testLogger())
	require.NoError(t, watcher.Reconcile())
	welder := findConnection(t, fix.service.GetAllConnections(), "welder")
	t.Cleanup(func() { _ = fix.service.StopPolling(welder.SessionID) })

	writeManifest(t, path, `robots:
  - name: welder
    host: 192.168.125.1
    poll_interval_ms: 90
`)
	require.NoError(t, watcher.Reconcile())

	require.True(t, fix.service.IsPollingActive(welder.SessionID))
	saved, err := fix.repo.GetBySessionID(welder.SessionID)
	require.NoError(t, err)
	require.Equal(t, 90, saved.Interval, "Интервал опроса должен обновиться по манифесту")

	// Повторная синхронизация без изменений не перезапускает опрос.
	require.NoError(t, watcher.Reconcile())
	require.True(t, fix.service.IsPollingActive(welder.SessionID))
}

func TestReconcileRecreatesConnectionOnEndpointChange(t *testing.T) {
	fix := newServiceFixture()
	path := filepath.Join(t.TempDir(), "robots.yaml")
	writeManifest(t, path, `robots:
  - name: welder
    host: 192.168.125.1
`)

	watcher := NewManifestWatcher(path, fix.service, fix.repo, testLogger())
	require.NoError(t, watcher.Reconcile())
	oldConn := findConnection(t, fix.service.GetAllConnections(), "welder")

	writeManifest(t, path, `robots:
  - name: welder
    host: 192.168.125.7
`)
	require.NoError(t, watcher.Reconcile())

	conns := fix.service.GetAllConnections()
	require.Len(t, conns, 1)
	newConn := findConnection(t, conns, "welder")
	require.Equal(t, "192.168.125.7:80", newConn.Endpoint, "Подключение должно смотреть на новый адрес")
	require.NotEqual(t, oldConn.SessionID, newConn.SessionID, "Переезд контроллера создает новую сессию")
}

func TestWatchAppliesManifestChanges(t *testing.T) {
	fix := newServiceFixture()
	dir := t.TempDir()
	path := filepath.Join(dir, "robots.yaml")
	writeManifest(t, path, `robots:
  - name: welder
    host: 192.168.125.1
`)

	watcher := NewManifestWatcher(path, fix.service, fix.repo, testLogger())
	require.NoError(t, watcher.Reconcile())
	require.Len(t, fix.service.GetAllConnections(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	watchDone := make(chan error, 1)
	go func() { watchDone <- watcher.Watch(ctx) }()

	// Даем наблюдателю встать на каталог перед записью.
	time.Sleep(100 * time.Millisecond)

	writeManifest(t, path, twoRobotsManifest)

	require.Eventually(t, func() bool {
		return len(fix.service.GetAllConnections()) == 2
	}, 10*time.Second, 50*time.Millisecond, "Изменение манифеста должно примениться к пулу")

	gripper := findConnection(t, fix.service.GetAllConnections(), "gripper")
	require.Equal(t, "192.168.125.2:8080", gripper.Endpoint)

	welder := findConnection(t, fix.service.GetAllConnections(), "welder")
	t.Cleanup(func() { _ = fix.service.StopPolling(welder.SessionID) })

	cancel()
	select {
	case err := <-watchDone:
		require.NoError(t, err, "Наблюдатель должен завершаться без ошибки при отмене контекста")
	case <-time.After(5 * time.Second):
		t.Fatal("наблюдатель не завершился после отмены контекста")
	}
}
