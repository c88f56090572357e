package models

import "slices"

// RobotWareOptionInfo описывает одну установленную опцию RobotWare.
type RobotWareOptionInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewRobotWareOptionInfo создает запись опции.
func NewRobotWareOptionInfo(name, description string) RobotWareOptionInfo {
	return RobotWareOptionInfo{Name: name, Description: description}
}

// SystemInfo содержит идентификацию работающей системы контроллера.
// Порядок опций соответствует порядку, в котором их сообщил контроллер.
type SystemInfo struct {
	RobotWareVersion string   `json:"robot_ware_version"`
	SystemName       string   `json:"system_name"`
	SystemType       string   `json:"system_type"`
	Options          []string `json:"options"`
}

// Equal сравнивает две записи по значению полей.
func (s SystemInfo) Equal(other SystemInfo) bool {
	return s.RobotWareVersion == other.RobotWareVersion &&
		s.SystemName == other.SystemName &&
		s.SystemType == other.SystemType &&
		slices.Equal(s.Options, other.Options)
}

// StaticInfo - сводный снимок статической конфигурации контроллера:
// все задачи RAPID в порядке, сообщенном контроллером, и идентификация
// системы, полученные в одном раунде запросов.
type StaticInfo struct {
	Tasks  []RAPIDTaskInfo `json:"tasks"`
	System SystemInfo      `json:"system"`
}

// Equal сравнивает два снимка по значению полей.
func (s StaticInfo) Equal(other StaticInfo) bool {
	return slices.Equal(s.Tasks, other.Tasks) && s.System.Equal(other.System)
}
