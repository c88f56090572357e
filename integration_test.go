package abb_test

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"testing"
	"time"

	abb "github.com/Amin173/abb-librws"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
)

// Интеграционные тесты выполняются против настоящего контроллера IRC5 или
// виртуального контроллера RobotStudio. Адрес и учетные данные задаются
// переменными окружения ABB_*; без переменной ABB_INTEGRATION тесты
// пропускаются.
func setupTest(t *testing.T) *abb.Client {
	if os.Getenv("ABB_INTEGRATION") == "" {
		t.Skip("Интеграционные тесты отключены: не задана переменная ABB_INTEGRATION")
	}

	err := godotenv.Load("./.env")
	if err != nil {
		log.Printf("Warning: Could not load .env file from ./.env. Using default values or environment variables: %v", err)
	}

	cfg := abb.Load()
	log.Printf("Конфигурация загружена: Host=%s, Port=%d", cfg.Host, cfg.Port)
	require.NotNil(t, cfg, "Конфигурация не была загружена")

	log.Printf("Подключение к %s:%d ...", cfg.Host, cfg.Port)
	c, err := abb.New(cfg)
	require.NoError(t, err, "Не удалось создать RWS клиент")
	require.NotNil(t, c, "Клиент не должен быть nil")
	log.Println("Успешно подключено!")

	return c
}

func logAsJSON(t *testing.T, name string, data interface{}) {
	t.Helper()
	jsonData, err := json.MarshalIndent(data, "", "  ")
	require.NoError(t, err, "Ошибка маршалинга JSON для %s", name)
	log.Printf("--- %s ---\n%s", name, string(jsonData))
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestReadSystemInfo(t *testing.T) {
	c := setupTest(t)
	defer c.Close()

	sysInfo := c.GetSystemInfo()
	require.NotNil(t, sysInfo)
	logAsJSON(t, "SystemInfo", sysInfo)
}

func TestReadRAPIDTasks(t *testing.T) {
	c := setupTest(t)
	defer c.Close()

	tasks, err := c.RAPIDTasks(testContext(t))
	require.NoError(t, err, "Не удалось прочитать задачи RAPID")
	require.NotEmpty(t, tasks, "Контроллер должен сообщать хотя бы одну задачу")

	logAsJSON(t, "RAPIDTasks", tasks)
}

func TestReadRAPIDModules(t *testing.T) {
	c := setupTest(t)
	defer c.Close()

	ctx := testContext(t)
	tasks, err := c.RAPIDTasks(ctx)
	require.NoError(t, err, "Не удалось прочитать задачи RAPID")
	require.NotEmpty(t, tasks)

	modules, err := c.RAPIDModules(ctx, tasks[0].Name)
	require.NoError(t, err, "Не удалось прочитать модули задачи %s", tasks[0].Name)

	logAsJSON(t, "RAPIDModules", modules)
}

func TestReadMechanicalUnits(t *testing.T) {
	c := setupTest(t)
	defer c.Close()

	ctx := testContext(t)
	units, err := c.MechanicalUnits(ctx)
	require.NoError(t, err, "Не удалось прочитать список механических узлов")
	require.NotEmpty(t, units)

	for _, unit := range units {
		static, err := c.MechanicalUnitStaticInfo(ctx, unit)
		require.NoError(t, err, "Не удалось прочитать статическую конфигурацию узла %s", unit)
		logAsJSON(t, "MechanicalUnitStaticInfo "+unit, static)

		dynamic, err := c.MechanicalUnitDynamicInfo(ctx, unit)
		require.NoError(t, err, "Не удалось прочитать динамическую конфигурацию узла %s", unit)
		logAsJSON(t, "MechanicalUnitDynamicInfo "+unit, dynamic)
	}
}

func TestReadIOSignals(t *testing.T) {
	c := setupTest(t)
	defer c.Close()

	signals, err := c.IOSignals(testContext(t))
	require.NoError(t, err, "Не удалось прочитать сигналы ввода-вывода")

	logAsJSON(t, "IOSignals", signals)
}

func TestReadStaticInfo(t *testing.T) {
	c := setupTest(t)
	defer c.Close()

	info, err := c.StaticInfo(testContext(t))
	require.NoError(t, err, "Не удалось собрать сводный снимок")

	logAsJSON(t, "StaticInfo", info)
}

func TestPolling(t *testing.T) {
	c := setupTest(t)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := c.StartPolling(ctx, 2*time.Second)
	for i := 0; i < 3; i++ {
		select {
		case result := <-results:
			require.NoError(t, result.Err, "Опрос вернул ошибку")
			logAsJSON(t, "PollingResult", result.Data)
		case <-time.After(30 * time.Second):
			t.Fatal("Результат опроса не получен за отведенное время")
		}
	}
}

func TestSubscription(t *testing.T) {
	c := setupTest(t)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	events, err := c.Subscribe(ctx, []string{"/rw/panel/speedratio"})
	require.NoError(t, err, "Не удалось оформить подписку")

	select {
	case event := <-events:
		logAsJSON(t, "SubscriptionEvent", event)
	case <-ctx.Done():
		log.Println("За время теста события не поступили")
	}
}
