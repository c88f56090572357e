package models

import (
	"time"

	abbmodels "github.com/Amin173/abb-librws/models"
)

// ControllerData - агрегированная структура одной итерации опроса для
// отправки в Kafka.
type ControllerData struct {
	SessionID  string                `json:"session_id"`
	Name       string                `json:"name"`
	Endpoint   string                `json:"endpoint"`
	Timestamp  time.Time             `json:"timestamp"`
	StaticInfo *abbmodels.StaticInfo `json:"static_info,omitempty"`
	Signals    map[string]string     `json:"signals,omitempty"`
}

// FlattenSignals преобразует значения сигналов в строковую форму lvalue
// контроллера для сериализации.
func FlattenSignals(signals abbmodels.IOSignalInfo) map[string]string {
	if len(signals) == 0 {
		return nil
	}
	flat := make(map[string]string, len(signals))
	for name, value := range signals {
		flat[name] = value.String()
	}
	return flat
}
