package abb

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Amin173/abb-librws/models"
	"github.com/Amin173/abb-librws/rws"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Client является основной точкой входа для взаимодействия с библиотекой.
// Конкурентные запросы одного вида объединяются в один запрос к
// контроллеру; запросы разных видов выполняются параллельно.
type Client struct {
	adapter *rws.Adapter
	config  *Config
	logger  *logrus.Logger
	group   singleflight.Group
}

// New создает и возвращает новый экземпляр клиента.
// Эта функция устанавливает сессию с контроллером и проверяет его
// доступность чтением системной информации.
func New(cfg *Config) (*Client, error) {
	logger := logrus.New()

	if cfg.LogLevel == "off" || cfg.LogLevel == "none" {
		logger.SetOutput(io.Discard)
	} else {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			level = logrus.InfoLevel
		}
		logger.SetLevel(level)
		logger.SetOutput(os.Stdout)
	}

	// Настраиваем форматтер с понятным форматом времени
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		ForceColors:     true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	adapter, err := rws.NewAdapter(cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.TimeoutMs, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create rws adapter: %w", err)
	}

	return &Client{
		adapter: adapter,
		config:  cfg,
		logger:  logger,
	}, nil
}

// Close завершает сессию с контроллером.
func (c *Client) Close() {
	if c.adapter != nil {
		c.adapter.Close()
	}
}

// GetLogger возвращает используемый логгер.
func (c *Client) GetLogger() *logrus.Logger {
	return c.logger
}

// GetSystemInfo возвращает системную информацию, полученную при подключении.
func (c *Client) GetSystemInfo() *models.SystemInfo {
	return c.adapter.GetSystemInfo()
}

// SystemInfo считывает текущую идентификацию системы контроллера.
func (c *Client) SystemInfo(ctx context.Context) (models.SystemInfo, error) {
	return coalesce(ctx, c, "system-info", c.adapter.SystemInfo)
}

// SystemOptions считывает список установленных опций RobotWare.
func (c *Client) SystemOptions(ctx context.Context) ([]models.RobotWareOptionInfo, error) {
	return coalesce(ctx, c, "system-options", c.adapter.SystemOptions)
}

// ControllerType считывает тип контроллера (виртуальный или физический).
func (c *Client) ControllerType(ctx context.Context) (string, error) {
	return coalesce(ctx, c, "ctrl-type", c.adapter.ControllerType)
}

// RAPIDTasks считывает задачи RAPID в порядке, сообщенном контроллером.
func (c *Client) RAPIDTasks(ctx context.Context) ([]models.RAPIDTaskInfo, error) {
	return coalesce(ctx, c, "rapid-tasks", c.adapter.RAPIDTasks)
}

// RAPIDModules считывает модули RAPID указанной задачи.
func (c *Client) RAPIDModules(ctx context.Context, task string) ([]models.RAPIDModuleInfo, error) {
	return coalesce(ctx, c, "rapid-modules:"+task, func(ctx context.Context) ([]models.RAPIDModuleInfo, error) {
		return c.adapter.RAPIDModules(ctx, task)
	})
}

// MechanicalUnits считывает имена механических узлов контроллера.
func (c *Client) MechanicalUnits(ctx context.Context) ([]string, error) {
	return coalesce(ctx, c, "mechunits", c.adapter.MechanicalUnits)
}

// MechanicalUnitStaticInfo считывает статическую конфигурацию узла.
func (c *Client) MechanicalUnitStaticInfo(ctx context.Context, unit string) (models.MechanicalUnitStaticInfo, error) {
	return coalesce(ctx, c, "mechunit-static:"+unit, func(ctx context.Context) (models.MechanicalUnitStaticInfo, error) {
		return c.adapter.MechanicalUnitStaticInfo(ctx, unit)
	})
}

// MechanicalUnitDynamicInfo считывает динамическую конфигурацию узла.
func (c *Client) MechanicalUnitDynamicInfo(ctx context.Context, unit string) (models.MechanicalUnitDynamicInfo, error) {
	return coalesce(ctx, c, "mechunit-dynamic:"+unit, func(ctx context.Context) (models.MechanicalUnitDynamicInfo, error) {
		return c.adapter.MechanicalUnitDynamicInfo(ctx, unit)
	})
}

// IOSignals считывает текущие значения всех сигналов ввода-вывода.
// Возвращаемая карта каждый раз строится заново.
func (c *Client) IOSignals(ctx context.Context) (models.IOSignalInfo, error) {
	return coalesce(ctx, c, "io-signals", c.adapter.IOSignals)
}

// StaticInfo собирает сводный снимок статической конфигурации контроллера.
func (c *Client) StaticInfo(ctx context.Context) (models.StaticInfo, error) {
	return coalesce(ctx, c, "static-info", c.adapter.StaticInfo)
}

// Subscribe оформляет подписку на уведомления контроллера по указанным
// ресурсам.
func (c *Client) Subscribe(ctx context.Context, resources []string) (<-chan rws.Event, error) {
	return c.adapter.Subscribe(ctx, resources)
}

// StartPolling запускает периодический сбор сводного снимка StaticInfo.
func (c *Client) StartPolling(ctx context.Context, interval time.Duration) <-chan rws.PollingResult {
	return c.adapter.StartPolling(ctx, interval)
}

func (c *Client) timeout() time.Duration {
	return time.Duration(c.config.TimeoutMs) * time.Millisecond
}

// coalesce выполняет fn один раз для всех конкурентных вызовов с одним
// ключом. Общий запрос выполняется на собственном контексте с тайм-аутом
// клиента: отмена контекста одного из вызывающих не прерывает запрос для
// остальных, при этом каждый вызывающий сохраняет собственную отмену.
func coalesce[T any](ctx context.Context, c *Client, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	ch := c.group.DoChan(key, func() (interface{}, error) {
		flightCtx, cancel := context.WithTimeout(context.Background(), c.timeout())
		defer cancel()
		return fn(flightCtx)
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case result := <-ch:
		if result.Err != nil {
			return zero, result.Err
		}
		value, ok := result.Val.(T)
		if !ok {
			return zero, fmt.Errorf("unexpected coalesced result type for %s", key)
		}
		return value, nil
	}
}
