package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// AppConfig - конфигурация процесса rwsmon. Список контроллеров живет
// отдельно, в манифесте robots.yaml (см. LoadRobots).
type AppConfig struct {
	ServerPort  string
	GinMode     string
	KafkaBroker string
	KafkaTopic  string
	RobotsFile  string
	RWS         RWSConfig
	Database    DatabaseConfig
	Logging     LoggerConfig
}

// RWSConfig - параметры, с которыми фабрика создает RWS-клиенты.
type RWSConfig struct {
	TimeoutMs int32
	LogLevel  string
}

// LoggerConfig - настройки сервисного логгера.
type LoggerConfig struct {
	Enable     bool
	LogsDir    string
	Level      string
	SavingDays int
}

// DatabaseConfig - параметры подключения к Postgres.
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	DBName   string
}

// DSN собирает строку подключения gorm для заданной базы. Бутстрап
// реестра передает сюда служебную базу 'postgres'.
func (d DatabaseConfig) DSN(dbname string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		d.Host, d.Username, d.Password, dbname, d.Port)
}

// LoadConfiguration читает .env (если файл есть) и переменные окружения.
// Для каждого параметра есть рабочее значение по умолчанию, поэтому
// загрузка не может провалиться.
func LoadConfiguration() (*AppConfig, error) {
	_ = godotenv.Load()

	config := &AppConfig{
		ServerPort:  getEnv("APP_PORT", "8082"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		KafkaBroker: getEnv("KAFKA_BROKER", "localhost:9092"),
		KafkaTopic:  getEnv("KAFKA_TOPIC", "abb_robot_data"),
		RobotsFile:  getEnv("ROBOTS_FILE", "./robots.yaml"),
		RWS: RWSConfig{
			TimeoutMs: int32(getEnvAsInt("RWS_TIMEOUT", 5000)),
			LogLevel:  getEnv("RWS_LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Username: getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "root"),
			DBName:   getEnv("DB_NAME", "abb_robots_db"),
		},
		Logging: LoggerConfig{
			Enable:     getEnvAsBool("LOGGER_ENABLE", true),
			LogsDir:    getEnv("LOGGER_LOGS_DIR", "./logs"),
			Level:      getEnv("LOGGER_LOG_LEVEL", "DEBUG"),
			SavingDays: getEnvAsInt("LOGGER_SAVING_DAYS", 7),
		},
	}

	// Таймаут уходит в abb.Config как есть, нулевое или отрицательное
	// значение заменяется стандартным.
	if config.RWS.TimeoutMs <= 0 {
		config.RWS.TimeoutMs = 5000
	}

	return config, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}
