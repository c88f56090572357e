package rws

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Amin173/abb-librws/models"
	"github.com/sirupsen/logrus"
)

// IOSignals считывает текущие значения всех сигналов ввода-вывода.
// Карта строится заново при каждом вызове: ответ контроллера авторитетен
// для всего набора имен, которые он называет.
func (a *Adapter) IOSignals(ctx context.Context) (models.IOSignalInfo, error) {
	const resource = "/rw/iosystem/signals"

	root, err := a.get(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("failed to read IO signals: %w", err)
	}

	rows := root.findClassAll("ios-signal-li")
	entries := make([]models.SignalEntry, 0, len(rows))
	for _, row := range rows {
		name, ok := row.spanText("name")
		if !ok {
			return nil, &IncompleteResponseError{Resource: resource, Field: "name"}
		}

		signalType, ok := row.spanText("type")
		if !ok {
			return nil, &IncompleteResponseError{Resource: resource, Field: "type"}
		}

		lvalue, ok := row.spanText("lvalue")
		if !ok {
			return nil, &IncompleteResponseError{Resource: resource, Field: "lvalue"}
		}

		value, err := parseSignalValue(signalType, lvalue)
		if err != nil {
			switch err {
			case errGroupSignal:
				a.logger.WithFields(logrus.Fields{
					"signal": name,
					"type":   signalType,
				}).Debug("Skipping group IO signal")
				continue
			case errUnknownSignalType:
				a.logger.WithFields(logrus.Fields{
					"signal": name,
					"type":   signalType,
				}).Warn("Unrecognized IO signal type, skipping signal")
				continue
			default:
				return nil, &IncompleteResponseError{Resource: resource, Field: "lvalue"}
			}
		}

		entries = append(entries, models.SignalEntry{Name: name, Value: value})
	}

	info, duplicates := models.MakeIOSignalInfo(entries)
	for _, name := range duplicates {
		a.logger.WithField("signal", name).Warn("Controller reported duplicate IO signal name, keeping last value")
	}
	return info, nil
}

var (
	errGroupSignal       = errors.New("group signal")
	errUnknownSignalType = errors.New("unknown signal type")
)

// parseSignalValue преобразует пару (тип, lvalue) ответа контроллера в
// значение сигнала. Дискриминант определяется типом сигнала на контроллере:
// DI/DO - цифровые, AI/AO - аналоговые. Групповые сигналы GI/GO не имеют
// представления в карте значений и пропускаются.
func parseSignalValue(signalType, lvalue string) (models.SignalValue, error) {
	switch signalType {
	case "DI", "DO":
		numeric, err := strconv.ParseFloat(lvalue, 32)
		if err != nil {
			return models.SignalValue{}, err
		}
		return models.Digital(numeric != 0), nil
	case "AI", "AO":
		numeric, err := strconv.ParseFloat(lvalue, 32)
		if err != nil {
			return models.SignalValue{}, err
		}
		return models.Analog(float32(numeric)), nil
	case "GI", "GO":
		return models.SignalValue{}, errGroupSignal
	default:
		return models.SignalValue{}, errUnknownSignalType
	}
}
