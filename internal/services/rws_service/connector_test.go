package rws_service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Amin173/abb-librws/internal/domain/entities"
	"github.com/Amin173/abb-librws/internal/domain/models"
	apperrors "github.com/Amin173/abb-librws/pkg/errors"
)

func welderRequest() models.ConnectionRequest {
	return models.ConnectionRequest{
		Name:     "welder",
		Host:     "192.168.125.1",
		Port:     80,
		Username: "Default User",
		Password: "robotics",
	}
}

func TestCreateConnectionAddsToPoolAndDB(t *testing.T) {
	fix := newServiceFixture()

	conn, err := fix.connMgr.CreateConnection(welderRequest())
	require.NoError(t, err, "Не удалось создать подключение")
	require.NotEmpty(t, conn.SessionID, "SessionID не назначен")
	require.Equal(t, "welder", conn.Name)
	require.Equal(t, "192.168.125.1:80", conn.Endpoint)
	require.True(t, conn.IsHealthy, "Новое подключение должно быть здоровым")
	require.Equal(t, "GreenRoom_192.168.125.1", conn.SystemName, "Имя системы должно приходить от контроллера")
	require.Equal(t, "6.08.01", conn.RobotWareVersion)

	saved, err := fix.repo.GetBySessionID(conn.SessionID)
	require.NoError(t, err, "Запись о подключении не сохранена в БД")
	require.Equal(t, entities.StatusConnected, saved.Status)
	require.Equal(t, "welder", saved.Name)
	require.Equal(t, "192.168.125.1:80", saved.EndpointURL)

	got, found := fix.connMgr.GetConnection(conn.SessionID)
	require.True(t, found, "Подключение должно быть в пуле")
	require.Same(t, conn, got)
}

func TestCreateConnectionAppliesRobotWareDefaults(t *testing.T) {
	fix := newServiceFixture()

	conn, err := fix.connMgr.CreateConnection(models.ConnectionRequest{Name: "welder", Host: "192.168.125.1"})
	require.NoError(t, err)
	require.Equal(t, "192.168.125.1:80", conn.Endpoint, "Порт по умолчанию должен быть 80")

	saved, err := fix.repo.GetBySessionID(conn.SessionID)
	require.NoError(t, err)
	require.Equal(t, "Default User", saved.Username, "Логин по умолчанию должен быть стандартным для RobotWare")
}

func TestCreateConnectionRejectsActiveDuplicate(t *testing.T) {
	fix := newServiceFixture()

	_, err := fix.connMgr.CreateConnection(welderRequest())
	require.NoError(t, err)

	_, err = fix.connMgr.CreateConnection(welderRequest())
	require.Error(t, err, "Повторное подключение к тому же адресу должно быть отклонено")
	require.Contains(t, err.Error(), "уже активно")
}

func TestCreateConnectionRejectsActiveDuplicateName(t *testing.T) {
	fix := newServiceFixture()

	_, err := fix.connMgr.CreateConnection(welderRequest())
	require.NoError(t, err)

	req := welderRequest()
	req.Host = "192.168.125.9"
	_, err = fix.connMgr.CreateConnection(req)
	require.Error(t, err, "Имя контроллера должно быть уникальным среди активных подключений")
	require.Contains(t, err.Error(), "уже подключен")
}

func TestCreateConnectionReplacesStaleDBRecord(t *testing.T) {
	fix := newServiceFixture()
	require.NoError(t, fix.repo.Create(&entities.Robot{
		SessionID:   "stale-session",
		Name:        "welder",
		EndpointURL: "192.168.125.1:80",
		Status:      entities.StatusConnected,
	}))

	conn, err := fix.connMgr.CreateConnection(welderRequest())
	require.NoError(t, err, "Устаревшая запись в БД не должна блокировать новое подключение")
	require.NotEqual(t, "stale-session", conn.SessionID)

	_, err = fix.repo.GetBySessionID("stale-session")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound, "Устаревшая запись должна быть удалена")
}

func TestCreateConnectionFailsWhenControllerUnavailable(t *testing.T) {
	fix := newServiceFixture()
	fix.factory.setDialErr(errors.New("connection refused"))

	_, err := fix.connMgr.CreateConnection(welderRequest())
	require.Error(t, err)
	require.Contains(t, err.Error(), "первичное подключение")
	require.Empty(t, fix.connMgr.GetAllConnections(), "Неудачное подключение не должно попадать в пул")

	all, err := fix.repo.GetAll()
	require.NoError(t, err)
	require.Empty(t, all, "Неудачное подключение не должно сохраняться в БД")
}

func TestRestoreConnectionReconnects(t *testing.T) {
	fix := newServiceFixture()
	robot := entities.Robot{
		SessionID:   "restored-session",
		Name:        "welder",
		EndpointURL: "192.168.125.1:80",
		Username:    "Default User",
		Status:      entities.StatusConnected,
	}

	conn, err := fix.connMgr.RestoreConnection(robot, "robotics")
	require.NoError(t, err)
	require.Equal(t, "restored-session", conn.SessionID, "SessionID должен сохраняться между перезапусками")
	require.True(t, conn.IsHealthy)
	require.Equal(t, "GreenRoom_192.168.125.1", conn.SystemName)

	client, err := fix.connMgr.Client("restored-session")
	require.NoError(t, err, "После восстановления в пуле должен быть живой клиент")
	require.NotNil(t, client)
}

func TestRestoreConnectionUnhealthyWhenControllerUnavailable(t *testing.T) {
	fix := newServiceFixture()
	fix.factory.setDialErr(errors.New("connection refused"))
	robot := entities.Robot{
		SessionID:   "restored-session",
		Name:        "welder",
		EndpointURL: "192.168.125.1:80",
	}

	conn, err := fix.connMgr.RestoreConnection(robot, "robotics")
	require.NoError(t, err, "Недоступный контроллер не должен срывать восстановление")
	require.False(t, conn.IsHealthy, "Сессия без подключения должна быть нездоровой")

	_, err = fix.connMgr.Client("restored-session")
	require.ErrorIs(t, err, apperrors.ErrControllerUnavailable,
		"Сессия без живого клиента должна сопоставляться с недоступным контроллером")
}

func TestDeleteConnectionClosesClient(t *testing.T) {
	fix := newServiceFixture()
	conn, err := fix.connMgr.CreateConnection(welderRequest())
	require.NoError(t, err)

	require.NoError(t, fix.connMgr.DeleteConnection(conn.SessionID))

	require.Equal(t, 1, fix.factory.client(0).closedCount(), "RWS-сессия должна закрываться при удалении")
	_, found := fix.connMgr.GetConnection(conn.SessionID)
	require.False(t, found)

	_, err = fix.repo.GetBySessionID(conn.SessionID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound, "Запись должна быть удалена из БД")
}

func TestDeleteConnectionUnknownSession(t *testing.T) {
	fix := newServiceFixture()

	err := fix.connMgr.DeleteConnection("no-such-session")
	require.Error(t, err)
	require.ErrorIs(t, err, apperrors.ErrDataNotFound)
}

func TestCheckConnectionRedialsDeadSession(t *testing.T) {
	fix := newServiceFixture()
	conn, err := fix.connMgr.CreateConnection(welderRequest())
	require.NoError(t, err)
	require.Equal(t, 1, fix.factory.dialCount())

	// Контроллер разорвал сессию: живая проверка падает, но переподключение доступно.
	fix.factory.client(0).setProbeErr(errors.New("unexpected EOF"))

	checked, err := fix.connMgr.CheckConnection(conn.SessionID)
	require.NoError(t, err, "Проверка должна переподключиться после обрыва")
	require.True(t, checked.IsHealthy)
	require.Equal(t, 2, fix.factory.dialCount(), "Должна быть ровно одна попытка переподключения")
	require.Equal(t, 1, fix.factory.client(0).closedCount(), "Мертвый клиент должен быть закрыт")
	require.EqualValues(t, 2, checked.UseCount)
}

func TestCheckConnectionUnhealthyWhenControllerGone(t *testing.T) {
	fix := newServiceFixture()
	conn, err := fix.connMgr.CreateConnection(welderRequest())
	require.NoError(t, err)

	fix.factory.client(0).setProbeErr(errors.New("unexpected EOF"))
	fix.factory.setDialErr(errors.New("connection refused"))

	checked, err := fix.connMgr.CheckConnection(conn.SessionID)
	require.Error(t, err, "Недоступный контроллер должен вернуть ошибку проверки")
	require.NotNil(t, checked)
	require.False(t, checked.IsHealthy)
}

func TestCheckConnectionUnknownSession(t *testing.T) {
	fix := newServiceFixture()

	_, err := fix.connMgr.CheckConnection("no-such-session")
	require.ErrorIs(t, err, apperrors.ErrDataNotFound)
}

func TestClientUnknownSession(t *testing.T) {
	fix := newServiceFixture()

	_, err := fix.connMgr.Client("no-such-session")
	require.ErrorIs(t, err, apperrors.ErrDataNotFound, "Отсутствующая сессия должна сопоставляться с 404")
}
