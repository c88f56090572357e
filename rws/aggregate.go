package rws

import (
	"context"

	"github.com/Amin173/abb-librws/models"
	"golang.org/x/sync/errgroup"
)

// StaticInfo собирает сводный снимок статической конфигурации: список задач
// RAPID и идентификацию системы, запрошенные конкурентно в одном раунде.
// Снимок атомарен: если хотя бы одна составляющая не получена, ошибка
// PartialAggregateError возвращается вместо частично заполненного снимка,
// а запрос второй составляющей отменяется.
func (a *Adapter) StaticInfo(ctx context.Context) (models.StaticInfo, error) {
	var (
		tasks  []models.RAPIDTaskInfo
		system models.SystemInfo
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		result, err := a.RAPIDTasks(ctx)
		if err != nil {
			return &PartialAggregateError{Part: "rapid tasks", Err: err}
		}
		tasks = result
		return nil
	})

	g.Go(func() error {
		result, err := a.SystemInfo(ctx)
		if err != nil {
			return &PartialAggregateError{Part: "system info", Err: err}
		}
		system = result
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.StaticInfo{}, err
	}

	return models.StaticInfo{Tasks: tasks, System: system}, nil
}
