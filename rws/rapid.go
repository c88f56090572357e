package rws

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Amin173/abb-librws/models"
	"github.com/sirupsen/logrus"
)

// RAPIDTasks считывает задачи RAPID в порядке, сообщенном контроллером.
func (a *Adapter) RAPIDTasks(ctx context.Context) ([]models.RAPIDTaskInfo, error) {
	const resource = "/rw/rapid/tasks"

	root, err := a.get(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("failed to read RAPID tasks: %w", err)
	}

	rows := root.findClassAll("rap-task-li")
	tasks := make([]models.RAPIDTaskInfo, 0, len(rows))
	for _, row := range rows {
		name, ok := row.spanText("name")
		if !ok {
			return nil, &IncompleteResponseError{Resource: resource, Field: "name"}
		}

		motionRaw, ok := row.spanText("motiontask")
		if !ok {
			return nil, &IncompleteResponseError{Resource: resource, Field: "motiontask"}
		}
		isMotion := a.parseWireBool(resource, name, "motiontask", motionRaw)

		activeRaw, ok := row.spanText("active")
		if !ok {
			return nil, &IncompleteResponseError{Resource: resource, Field: "active"}
		}
		isActive := a.parseWireBool(resource, name, "active", activeRaw)

		stateRaw, ok := row.spanText("excstate")
		if !ok {
			return nil, &IncompleteResponseError{Resource: resource, Field: "excstate"}
		}
		state, known := models.ParseRAPIDTaskExecutionState(stateRaw)
		if !known {
			a.logger.WithFields(logrus.Fields{
				"task":  name,
				"value": stateRaw,
			}).Warn("Unrecognized RAPID task execution state, falling back to unknown")
		}

		tasks = append(tasks, models.NewRAPIDTaskInfo(name, isMotion, isActive, state))
	}
	return tasks, nil
}

// RAPIDModules считывает модули RAPID указанной задачи.
func (a *Adapter) RAPIDModules(ctx context.Context, task string) ([]models.RAPIDModuleInfo, error) {
	resource := "/rw/rapid/modules?task=" + url.QueryEscape(task)

	root, err := a.get(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("failed to read RAPID modules of task %s: %w", task, err)
	}

	rows := root.findClassAll("rap-module-info-li")
	modules := make([]models.RAPIDModuleInfo, 0, len(rows))
	for _, row := range rows {
		name, ok := row.spanText("name")
		if !ok {
			return nil, &IncompleteResponseError{Resource: resource, Field: "name"}
		}
		moduleType, ok := row.spanText("type")
		if !ok {
			return nil, &IncompleteResponseError{Resource: resource, Field: "type"}
		}
		modules = append(modules, models.NewRAPIDModuleInfo(name, moduleType))
	}
	return modules, nil
}

// parseWireBool разбирает булево значение контроллера. Разные версии
// RobotWare сообщают пары TRUE/FALSE и On/Off в разном регистре;
// нераспознанное значение фиксируется в логе и читается как false.
func (a *Adapter) parseWireBool(resource, entity, field, raw string) bool {
	switch strings.ToLower(raw) {
	case "true", "on", "1":
		return true
	case "false", "off", "0":
		return false
	default:
		a.logger.WithFields(logrus.Fields{
			"resource": resource,
			"entity":   entity,
			"field":    field,
			"value":    raw,
		}).Warn("Unrecognized boolean value in controller response, reading as false")
		return false
	}
}
