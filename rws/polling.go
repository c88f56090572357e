package rws

import (
	"context"
	"sync"
	"time"

	"github.com/Amin173/abb-librws/models"
)

// PollingResult содержит данные или ошибку одной попытки опроса.
type PollingResult struct {
	Data *models.StaticInfo
	Err  error
}

// StartPolling запускает фоновый процесс, который периодически собирает
// сводный снимок StaticInfo. Медленный сбор не блокирует следующие тики.
// Опрос прекращается при отмене предоставленного контекста.
func (a *Adapter) StartPolling(ctx context.Context, interval time.Duration) <-chan PollingResult {
	resultsChan := make(chan PollingResult)

	go func() {
		defer close(resultsChan)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		// Канал закрывается только после завершения всех отправщиков.
		var inflight sync.WaitGroup
		defer inflight.Wait()

		for {
			select {
			case <-ctx.Done():
				a.logger.Debug("Polling stopped: context cancelled")
				return
			case <-ticker.C:
				inflight.Add(1)
				go func() {
					defer inflight.Done()
					data, err := a.StaticInfo(ctx)
					result := PollingResult{Err: err}
					if err == nil {
						result.Data = &data
					}
					select {
					case resultsChan <- result:
					case <-ctx.Done():
					}
				}()
			}
		}
	}()

	return resultsChan
}
