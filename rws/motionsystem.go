package rws

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Amin173/abb-librws/models"
	"github.com/sirupsen/logrus"
)

// MechanicalUnits считывает имена механических узлов контроллера.
func (a *Adapter) MechanicalUnits(ctx context.Context) ([]string, error) {
	const resource = "/rw/motionsystem/mechunits"

	root, err := a.get(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("failed to read mechanical units: %w", err)
	}

	rows := root.findClassAll("ms-mechunit-li")
	units := make([]string, 0, len(rows))
	for _, row := range rows {
		name := row.attr("title")
		if name == "" {
			if spanName, ok := row.spanText("name"); ok {
				name = spanName
			}
		}
		if name == "" {
			return nil, &IncompleteResponseError{Resource: resource, Field: "title"}
		}
		units = append(units, name)
	}
	return units, nil
}

// MechanicalUnitStaticInfo считывает конфигурацию механического узла,
// неизменную во время работы системы.
func (a *Adapter) MechanicalUnitStaticInfo(ctx context.Context, unit string) (models.MechanicalUnitStaticInfo, error) {
	resource := "/rw/motionsystem/mechunits/" + url.PathEscape(unit) + "?resource=static"

	root, err := a.get(ctx, resource)
	if err != nil {
		return models.MechanicalUnitStaticInfo{}, fmt.Errorf("failed to read static info of unit %s: %w", unit, err)
	}

	typeRaw, ok := root.spanText("type")
	if !ok {
		return models.MechanicalUnitStaticInfo{}, &IncompleteResponseError{Resource: resource, Field: "type"}
	}
	unitType, known := models.ParseMechanicalUnitType(typeRaw)
	if !known {
		a.logger.WithFields(logrus.Fields{
			"unit":  unit,
			"value": typeRaw,
		}).Warn("Unrecognized mechanical unit type, falling back to undefined")
	}

	taskName, ok := root.spanText("task-name")
	if !ok {
		return models.MechanicalUnitStaticInfo{}, &IncompleteResponseError{Resource: resource, Field: "task-name"}
	}

	axes, err := a.spanInt(root, resource, "axes")
	if err != nil {
		return models.MechanicalUnitStaticInfo{}, err
	}
	axesTotal, err := a.spanInt(root, resource, "axes-total")
	if err != nil {
		return models.MechanicalUnitStaticInfo{}, err
	}

	// Отсутствующая интеграционная связь приходит строкой NoIntegratedUnit;
	// отсутствие самого поля равносильно отсутствию связи.
	isIntegratedRaw, _ := root.spanText("is-integrated-unit")
	hasIntegratedRaw, _ := root.spanText("has-integrated-unit")

	return models.MechanicalUnitStaticInfo{
		Type:          unitType,
		TaskName:      taskName,
		Axes:          axes,
		AxesTotal:     axesTotal,
		IsIntegrated:  models.ParseUnitRef(isIntegratedRaw),
		HasIntegrated: models.ParseUnitRef(hasIntegratedRaw),
	}, nil
}

// MechanicalUnitDynamicInfo считывает конфигурацию механического узла,
// которая может меняться во время работы.
func (a *Adapter) MechanicalUnitDynamicInfo(ctx context.Context, unit string) (models.MechanicalUnitDynamicInfo, error) {
	resource := "/rw/motionsystem/mechunits/" + url.PathEscape(unit) + "?resource=dynamic"

	root, err := a.get(ctx, resource)
	if err != nil {
		return models.MechanicalUnitDynamicInfo{}, fmt.Errorf("failed to read dynamic info of unit %s: %w", unit, err)
	}

	status, ok := root.spanText("status")
	if !ok {
		return models.MechanicalUnitDynamicInfo{}, &IncompleteResponseError{Resource: resource, Field: "status"}
	}
	jogMode, ok := root.spanText("jog-mode")
	if !ok {
		return models.MechanicalUnitDynamicInfo{}, &IncompleteResponseError{Resource: resource, Field: "jog-mode"}
	}

	modeRaw, ok := root.spanText("mode")
	if !ok {
		return models.MechanicalUnitDynamicInfo{}, &IncompleteResponseError{Resource: resource, Field: "mode"}
	}
	mode, known := models.ParseMechanicalUnitMode(modeRaw)
	if !known {
		a.logger.WithFields(logrus.Fields{
			"unit":  unit,
			"value": modeRaw,
		}).Warn("Unrecognized mechanical unit mode, falling back to unknown")
	}

	coordRaw, ok := root.spanText("coord-system")
	if !ok {
		return models.MechanicalUnitDynamicInfo{}, &IncompleteResponseError{Resource: resource, Field: "coord-system"}
	}
	coord, known := models.ParseCoordinate(coordRaw)
	if !known {
		a.logger.WithFields(logrus.Fields{
			"unit":  unit,
			"value": coordRaw,
		}).Warn("Unrecognized coordinate system, falling back to undefined")
	}

	// Пустое имя означает, что соответствующий объект не активен;
	// отсутствие поля трактуется так же.
	toolName, _ := root.spanText("tool-name")
	wobjName, _ := root.spanText("wobj-name")
	payloadName, _ := root.spanText("payload-name")
	totalPayloadName, _ := root.spanText("total-payload-name")

	return models.MechanicalUnitDynamicInfo{
		ToolName:         toolName,
		WobjName:         wobjName,
		PayloadName:      payloadName,
		TotalPayloadName: totalPayloadName,
		Status:           status,
		Mode:             mode,
		JogMode:          jogMode,
		CoordSystem:      coord,
	}, nil
}

// spanInt считывает обязательное целочисленное поле ответа.
func (a *Adapter) spanInt(root *node, resource, class string) (int, error) {
	raw, ok := root.spanText(class)
	if !ok {
		return 0, &IncompleteResponseError{Resource: resource, Field: class}
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &IncompleteResponseError{Resource: resource, Field: class}
	}
	return value, nil
}
