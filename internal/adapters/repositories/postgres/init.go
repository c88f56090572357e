package postgres

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Amin173/abb-librws/internal/adapters/repositories/postgres/robot"
	"github.com/Amin173/abb-librws/internal/config"
	"github.com/Amin173/abb-librws/internal/domain/entities"
	"github.com/Amin173/abb-librws/internal/interfaces"
	"github.com/Amin173/abb-librws/internal/middleware/logging"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Repository struct {
	interfaces.RobotRepository
}

func NewRepository(cfg *config.AppConfig, appLogger *logging.Logger) (interfaces.RobotRepository, error) {
	// Шаг 1: Подключение к служебной БД 'postgres' для проверки и создания целевой БД
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN("postgres")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Временное отключение логов
	})
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к служебной БД 'postgres': %w", err)
	}

	// Шаг 2: Проверка существования нужной БД
	var exists bool
	query := "SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = ?)"
	if err := db.Raw(query, cfg.Database.DBName).Scan(&exists).Error; err != nil {
		return nil, fmt.Errorf("не удалось проверить существование БД '%s': %w", cfg.Database.DBName, err)
	}

	// Шаг 3: Если БД не существует, создаем ее
	if !exists {
		appLogger.Info("Database not found. Creating...", "db_name", cfg.Database.DBName)
		createDbQuery := fmt.Sprintf("CREATE DATABASE %s", cfg.Database.DBName)
		if err := db.Exec(createDbQuery).Error; err != nil {
			return nil, fmt.Errorf("не удалось создать БД '%s': %w", cfg.Database.DBName, err)
		}
		appLogger.Info("Database created successfully.", "db_name", cfg.Database.DBName)
	} else {
		appLogger.Info("Database already exists.", "db_name", cfg.Database.DBName)
	}

	// Закрываем соединение со служебной БД
	sqlDB, _ := db.DB()
	_ = sqlDB.Close()

	// Шаг 4: Основное подключение к целевой базе данных
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	appDb, err := gorm.Open(postgres.Open(cfg.Database.DSN(cfg.Database.DBName)), &gorm.Config{Logger: newLogger})
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных '%s': %w", cfg.Database.DBName, err)
	}

	if err := autoMigrate(appDb); err != nil {
		return nil, fmt.Errorf("ошибка выполнения автомиграций: %w", err)
	}

	return &Repository{
		RobotRepository: robot.NewRobotRepository(appDb),
	}, nil
}

func autoMigrate(db *gorm.DB) error {
	// AutoMigrate безопасно создает таблицу, если она не существует,
	// и добавляет новые колонки, если они появились в модели.
	return db.AutoMigrate(&entities.Robot{})
}
