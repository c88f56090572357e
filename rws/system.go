package rws

import (
	"context"
	"fmt"

	"github.com/Amin173/abb-librws/models"
)

// SystemInfo считывает идентификацию работающей системы контроллера:
// имя системы и версию RobotWare из /rw/system, тип контроллера из /ctrl
// и список установленных опций из /rw/system/options.
func (a *Adapter) SystemInfo(ctx context.Context) (models.SystemInfo, error) {
	root, err := a.get(ctx, "/rw/system")
	if err != nil {
		return models.SystemInfo{}, fmt.Errorf("failed to read system resource: %w", err)
	}

	li := root.findClass("sys-system-li")
	if li == nil {
		return models.SystemInfo{}, &IncompleteResponseError{Resource: "/rw/system", Field: "sys-system-li"}
	}

	name, ok := li.spanText("name")
	if !ok {
		return models.SystemInfo{}, &IncompleteResponseError{Resource: "/rw/system", Field: "name"}
	}
	version, ok := li.spanText("rwversionname")
	if !ok {
		return models.SystemInfo{}, &IncompleteResponseError{Resource: "/rw/system", Field: "rwversionname"}
	}

	ctrlType, err := a.ControllerType(ctx)
	if err != nil {
		return models.SystemInfo{}, err
	}

	options, err := a.SystemOptions(ctx)
	if err != nil {
		return models.SystemInfo{}, err
	}

	optionNames := make([]string, len(options))
	for i, opt := range options {
		optionNames[i] = opt.Name
	}

	return models.SystemInfo{
		RobotWareVersion: version,
		SystemName:       name,
		SystemType:       ctrlType,
		Options:          optionNames,
	}, nil
}

// ControllerType считывает тип контроллера (виртуальный или физический).
func (a *Adapter) ControllerType(ctx context.Context) (string, error) {
	root, err := a.get(ctx, "/ctrl")
	if err != nil {
		return "", fmt.Errorf("failed to read controller resource: %w", err)
	}

	ctrlType, ok := root.spanText("ctrl-type")
	if !ok {
		return "", &IncompleteResponseError{Resource: "/ctrl", Field: "ctrl-type"}
	}
	return ctrlType, nil
}

// SystemOptions считывает список установленных опций RobotWare в порядке,
// сообщенном контроллером.
func (a *Adapter) SystemOptions(ctx context.Context) ([]models.RobotWareOptionInfo, error) {
	root, err := a.get(ctx, "/rw/system/options")
	if err != nil {
		return nil, fmt.Errorf("failed to read system options: %w", err)
	}

	rows := root.findClassAll("sys-option-li")
	options := make([]models.RobotWareOptionInfo, 0, len(rows))
	for _, row := range rows {
		name, ok := row.spanText("option")
		if !ok {
			return nil, &IncompleteResponseError{Resource: "/rw/system/options", Field: "option"}
		}
		description, ok := row.spanText("description")
		if !ok {
			return nil, &IncompleteResponseError{Resource: "/rw/system/options", Field: "description"}
		}
		options = append(options, models.NewRobotWareOptionInfo(name, description))
	}
	return options, nil
}
