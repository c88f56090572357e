package models

// MechanicalUnitType представляет тип механического узла контроллера.
type MechanicalUnitType string

const (
	UnitTypeNone      MechanicalUnitType = "None"
	UnitTypeTCPRobot  MechanicalUnitType = "TCPRobot"
	UnitTypeRobot     MechanicalUnitType = "Robot"
	UnitTypeSingle    MechanicalUnitType = "Single"
	UnitTypeUndefined MechanicalUnitType = "Undefined"
)

// ParseMechanicalUnitType сопоставляет строку контроллера с типом узла.
// "None" означает отсутствие узла, UnitTypeUndefined - тип, который не
// удалось распознать (ok=false).
func ParseMechanicalUnitType(raw string) (MechanicalUnitType, bool) {
	switch raw {
	case "None":
		return UnitTypeNone, true
	case "TCPRobot":
		return UnitTypeTCPRobot, true
	case "Robot":
		return UnitTypeRobot, true
	case "Single":
		return UnitTypeSingle, true
	default:
		return UnitTypeUndefined, false
	}
}

// MechanicalUnitMode представляет состояние активации механического узла.
type MechanicalUnitMode string

const (
	UnitModeUnknown     MechanicalUnitMode = "Unknown"
	UnitModeActivated   MechanicalUnitMode = "Activated"
	UnitModeDeactivated MechanicalUnitMode = "Deactivated"
)

// ParseMechanicalUnitMode сопоставляет строку контроллера с режимом узла.
func ParseMechanicalUnitMode(raw string) (MechanicalUnitMode, bool) {
	switch raw {
	case "Activated":
		return UnitModeActivated, true
	case "Deactivated":
		return UnitModeDeactivated, true
	default:
		return UnitModeUnknown, false
	}
}

// Coordinate представляет активную систему координат механического узла.
type Coordinate string

const (
	CoordinateBase      Coordinate = "Base"
	CoordinateWorld     Coordinate = "World"
	CoordinateTool      Coordinate = "Tool"
	CoordinateWobj      Coordinate = "Wobj"
	CoordinateUndefined Coordinate = "Undefined"
)

// ParseCoordinate сопоставляет строку контроллера с системой координат.
func ParseCoordinate(raw string) (Coordinate, bool) {
	switch raw {
	case "Base":
		return CoordinateBase, true
	case "World":
		return CoordinateWorld, true
	case "Tool":
		return CoordinateTool, true
	case "Wobj":
		return CoordinateWobj, true
	default:
		return CoordinateUndefined, false
	}
}

// NoIntegratedUnit - строка, которой контроллер обозначает отсутствие
// интеграционной связи между механическими узлами.
const NoIntegratedUnit = "NoIntegratedUnit"

// UnitRef - ссылка по имени на другой механический узел. Нулевое значение
// означает отсутствие связи.
type UnitRef struct {
	Name  string `json:"name"`
	Valid bool   `json:"valid"`
}

// ParseUnitRef преобразует строку контроллера в ссылку на узел. Строка
// NoIntegratedUnit и пустая строка дают нулевую ссылку.
func ParseUnitRef(raw string) UnitRef {
	if raw == "" || raw == NoIntegratedUnit {
		return UnitRef{}
	}
	return UnitRef{Name: raw, Valid: true}
}

// WireString возвращает представление ссылки в формате контроллера.
func (r UnitRef) WireString() string {
	if !r.Valid {
		return NoIntegratedUnit
	}
	return r.Name
}

// MechanicalUnitStaticInfo содержит конфигурацию механического узла,
// неизменную во время работы системы.
type MechanicalUnitStaticInfo struct {
	Type          MechanicalUnitType `json:"type"`
	TaskName      string             `json:"task_name"`
	Axes          int                `json:"axes"`
	AxesTotal     int                `json:"axes_total"`
	IsIntegrated  UnitRef            `json:"is_integrated"`
	HasIntegrated UnitRef            `json:"has_integrated"`
}

// MechanicalUnitDynamicInfo содержит конфигурацию механического узла,
// которая может меняться во время работы. Поля имен могут быть пустыми:
// это означает, что соответствующий объект не активен. Status и JogMode -
// свободный текст контроллера, передается без изменений.
type MechanicalUnitDynamicInfo struct {
	ToolName         string             `json:"tool_name"`
	WobjName         string             `json:"wobj_name"`
	PayloadName      string             `json:"payload_name"`
	TotalPayloadName string             `json:"total_payload_name"`
	Status           string             `json:"status"`
	Mode             MechanicalUnitMode `json:"mode"`
	JogMode          string             `json:"jog_mode"`
	CoordSystem      Coordinate         `json:"coord_system"`
}
