package models

// RAPIDTaskExecutionState представляет фазу выполнения задачи RAPID.
type RAPIDTaskExecutionState string

const (
	TaskExecutionUnknown       RAPIDTaskExecutionState = "unknown"
	TaskExecutionReady         RAPIDTaskExecutionState = "ready"
	TaskExecutionStopped       RAPIDTaskExecutionState = "stopped"
	TaskExecutionStarted       RAPIDTaskExecutionState = "started"
	TaskExecutionUninitialized RAPIDTaskExecutionState = "uninitialized"
)

// ParseRAPIDTaskExecutionState сопоставляет строку контроллера с состоянием
// выполнения. Неизвестные строки не являются ошибкой: возвращается
// TaskExecutionUnknown и ok=false, чтобы вызывающая сторона могла
// зафиксировать исходное значение в логе.
func ParseRAPIDTaskExecutionState(raw string) (RAPIDTaskExecutionState, bool) {
	switch raw {
	case "ready":
		return TaskExecutionReady, true
	case "stopped":
		return TaskExecutionStopped, true
	case "started":
		return TaskExecutionStarted, true
	case "uninitialized":
		return TaskExecutionUninitialized, true
	default:
		return TaskExecutionUnknown, false
	}
}

// RAPIDTaskInfo описывает одну задачу RAPID.
type RAPIDTaskInfo struct {
	Name           string                  `json:"name"`
	IsMotionTask   bool                    `json:"is_motion_task"`
	IsActive       bool                    `json:"is_active"`
	ExecutionState RAPIDTaskExecutionState `json:"execution_state"`
}

// NewRAPIDTaskInfo создает полностью заполненную запись задачи.
func NewRAPIDTaskInfo(name string, isMotionTask, isActive bool, executionState RAPIDTaskExecutionState) RAPIDTaskInfo {
	return RAPIDTaskInfo{
		Name:           name,
		IsMotionTask:   isMotionTask,
		IsActive:       isActive,
		ExecutionState: executionState,
	}
}

// RAPIDModuleInfo описывает один модуль RAPID внутри задачи.
type RAPIDModuleInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// NewRAPIDModuleInfo создает запись модуля.
func NewRAPIDModuleInfo(name, moduleType string) RAPIDModuleInfo {
	return RAPIDModuleInfo{Name: name, Type: moduleType}
}
