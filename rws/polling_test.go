package rws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartPollingDeliversSnapshots(t *testing.T) {
	f := newFakeController(t)
	adapter := newTestAdapter(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := adapter.StartPolling(ctx, 20*time.Millisecond)

	select {
	case result := <-results:
		require.NoError(t, result.Err, "Опрос доступного контроллера не должен возвращать ошибку")
		require.NotNil(t, result.Data)
		require.True(t, result.Data.System.Equal(expectedSystemInfo()))
	case <-time.After(5 * time.Second):
		t.Fatal("Результат опроса не получен за отведенное время")
	}

	cancel()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-results:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("Канал результатов не закрылся после отмены контекста")
		}
	}
}

func TestStartPollingReportsErrors(t *testing.T) {
	f := newFakeController(t)
	adapter := newTestAdapter(t, f)

	f.removePage("/rw/rapid/tasks")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := adapter.StartPolling(ctx, 20*time.Millisecond)

	select {
	case result := <-results:
		require.Error(t, result.Err, "Сбой сбора снимка должен приходить в результате, а не теряться")
		require.Nil(t, result.Data)
	case <-time.After(5 * time.Second):
		t.Fatal("Результат опроса не получен за отведенное время")
	}
}
