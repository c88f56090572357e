package models

import "time"

// ConnectionRequest определяет структуру для нового запроса на подключение.
type ConnectionRequest struct {
	Name     string `json:"name" binding:"required"`
	Host     string `json:"host" binding:"required"` // "192.168.125.1"
	Port     uint16 `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionRequest определяет структуру для запросов, использующих SessionID.
type SessionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// PollingRequest определяет структуру для запроса на запуск опроса.
type PollingRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Interval  int    `json:"interval" binding:"required,gt=0"` // в миллисекундах
}

// ConnectionInfo представляет активное подключение в пуле.
type ConnectionInfo struct {
	SessionID        string    `json:"session_id"`
	Name             string    `json:"name"`
	Endpoint         string    `json:"endpoint"`
	SystemName       string    `json:"system_name"`
	RobotWareVersion string    `json:"robot_ware_version"`
	CreatedAt        time.Time `json:"created_at"`
	LastUsed         time.Time `json:"last_used"`
	UseCount         int64     `json:"use_count"`
	IsHealthy        bool      `json:"is_healthy"`
}
