package abb

import (
	"os"
	"strconv"
)

// Config хранит модель конфигурации клиента.
type Config struct {
	Host      string
	Port      uint16
	Username  string
	Password  string
	TimeoutMs int32
	LogLevel  string
}

// Load загружает конфигурацию из переменных окружения. Учетные данные по
// умолчанию соответствуют стандартной локальной учетной записи RobotWare.
func Load() *Config {
	host := os.Getenv("ABB_HOST")
	if host == "" {
		host = "127.0.0.1"
	}

	portStr := os.Getenv("ABB_PORT")
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil || port == 0 {
		port = 80
	}

	username := os.Getenv("ABB_USERNAME")
	if username == "" {
		username = "Default User"
	}

	password := os.Getenv("ABB_PASSWORD")
	if password == "" {
		password = "robotics"
	}

	timeoutStr := os.Getenv("ABB_TIMEOUT")
	timeout, err := strconv.ParseInt(timeoutStr, 10, 32)
	if err != nil || timeout == 0 {
		timeout = 5000
	}

	logLevel := os.Getenv("ABB_LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		Host:      host,
		Port:      uint16(port),
		Username:  username,
		Password:  password,
		TimeoutMs: int32(timeout),
		LogLevel:  logLevel,
	}
}
