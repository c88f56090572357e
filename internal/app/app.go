package app

import (
	"context"
	"net/http"
	"time"

	"github.com/Amin173/abb-librws/internal/adapters/handlers"
	"github.com/Amin173/abb-librws/internal/adapters/repositories/postgres"
	"github.com/Amin173/abb-librws/internal/config"
	"github.com/Amin173/abb-librws/internal/domain/entities"
	"github.com/Amin173/abb-librws/internal/interfaces"
	"github.com/Amin173/abb-librws/internal/middleware/logging"
	"github.com/Amin173/abb-librws/internal/services/kafka"
	"github.com/Amin173/abb-librws/internal/services/rws_service"
	"github.com/Amin173/abb-librws/internal/usecases"

	"go.uber.org/fx"
)

// New создает новый экземпляр fx.App
func New() *fx.App {
	return fx.New(
		ConfigModule,
		LoggingModule,
		RepositoryModule,
		ProducerModule,
		ServiceModule,
		UsecaseModule,
		HttpServerModule,
		// Invoke-функции для запуска фоновых задач и хуков жизненного цикла
		fx.Invoke(InvokeRestoreConnections),
		WatcherModule,
	)
}

// --- Модули FX ---

var ConfigModule = fx.Module("config_module",
	fx.Provide(config.LoadConfiguration),
)

func ProvideLogger(cfg *config.AppConfig) *logging.Logger {
	loggerCfg := &logging.Config{
		Enabled:    cfg.Logging.Enable,
		Level:      cfg.Logging.Level,
		LogsDir:    cfg.Logging.LogsDir,
		SavingDays: uint(cfg.Logging.SavingDays),
	}
	return logging.NewLogger(loggerCfg, "RwsMonitorApp")
}

var LoggingModule = fx.Module("logging_module",
	fx.Provide(ProvideLogger),
)

var RepositoryModule = fx.Module("repository_module",
	fx.Provide(postgres.NewRepository),
)

var ProducerModule = fx.Module("producer_module",
	fx.Provide(kafka.NewKafkaProducer),
)

var ServiceModule = fx.Module("service_module",
	fx.Provide(
		rws_service.NewClientFactory,
		rws_service.NewRobotService,
	),
)

var UsecaseModule = fx.Module("usecases_module",
	fx.Provide(usecases.NewUsecases),
)

var HttpServerModule = fx.Module("http_server_module",
	fx.Provide(
		handlers.NewHandler,
		handlers.ProvideRouter,
	),
	fx.Invoke(InvokeHttpServer),
)

func ProvideManifestWatcher(cfg *config.AppConfig, robotSvc interfaces.RobotService, dbRepo interfaces.RobotRepository, logger *logging.Logger) *rws_service.ManifestWatcher {
	return rws_service.NewManifestWatcher(cfg.RobotsFile, robotSvc, dbRepo, logger)
}

var WatcherModule = fx.Module("watcher_module",
	fx.Provide(ProvideManifestWatcher),
	fx.Invoke(InvokeWatchRobotsFile),
)

// InvokeRestoreConnections восстанавливает подключения и опросы при старте.
// Пароли не хранятся в БД и берутся из манифеста по имени контроллера.
func InvokeRestoreConnections(lc fx.Lifecycle, robotSvc interfaces.Usecases, dbRepo interfaces.RobotRepository, cfg *config.AppConfig, logger *logging.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Restoring connections from the database...")
			robots, err := dbRepo.GetAll()
			if err != nil {
				logger.Error("Failed to get robot list from DB", "error", err)
				return nil // Не фатально, просто продолжаем
			}

			if len(robots) == 0 {
				logger.Info("No saved connections found to restore.")
				return nil
			}

			specs, err := config.LoadRobots(cfg.RobotsFile)
			if err != nil {
				logger.Warn("Robots manifest is not readable, restore will skip robots without credentials", "path", cfg.RobotsFile, "error", err)
			}
			passwords := make(map[string]string, len(specs))
			for _, spec := range specs {
				passwords[spec.Name] = spec.Password
			}

			for _, robot := range robots {
				password, ok := passwords[robot.Name]
				if !ok {
					logger.Warn("Robot is missing from the manifest, skipping restore", "sessionID", robot.SessionID, "name", robot.Name)
					continue
				}

				logger.Info("Attempting to restore connection", "sessionID", robot.SessionID, "endpoint", robot.EndpointURL)

				connInfo, err := robotSvc.RestoreConnection(robot, password)
				if err != nil {
					logger.Error("Failed to restore connection", "sessionID", robot.SessionID, "error", err)
					continue
				}

				if connInfo.IsHealthy {
					logger.Info("Connection restored successfully in pool", "sessionID", robot.SessionID)
				} else {
					logger.Warn("Connection restored in pool but is unhealthy.", "sessionID", robot.SessionID)
				}

				if robot.Status == entities.StatusPolled && robot.Interval > 0 {
					interval := time.Duration(robot.Interval) * time.Millisecond
					logger.Info("Starting restored polling", "sessionID", robot.SessionID, "interval", interval)
					if err := robotSvc.StartPolling(connInfo.SessionID, interval); err != nil {
						logger.Warn("Failed to start polling for restored session (it may be unhealthy)", "sessionID", robot.SessionID, "error", err)
					}
				}
			}
			return nil
		},
	})
}

// InvokeWatchRobotsFile запускает наблюдение за манифестом контроллеров.
// Первичная синхронизация выполняется там же, после восстановления пула.
func InvokeWatchRobotsFile(lc fx.Lifecycle, watcher *rws_service.ManifestWatcher, logger *logging.Logger) {
	watchCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer close(done)
				if err := watcher.Reconcile(); err != nil {
					logger.Error("Initial manifest reconcile failed", "error", err)
				}
				if err := watcher.Watch(watchCtx); err != nil {
					logger.Error("Manifest watcher exited", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-ctx.Done():
			}
			return nil
		},
	})
}

// InvokeHttpServer запускает HTTP-сервер.
func InvokeHttpServer(lc fx.Lifecycle, cfg *config.AppConfig, h http.Handler, logger *logging.Logger) {
	serverAddr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("HTTP Server is starting", "address", serverAddr)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("Failed to start server", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}
