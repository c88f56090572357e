package rws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const signalEventFrame = `<?xml version="1.0" encoding="utf-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Event</title></head>
<body>
<div class="state">
<ul>
<li class="ios-signalstate-ev">
<a href="/rw/iosystem/signals/do1;state" rel="self"></a>
<span class="lvalue">1</span>
<span class="lstate">not simulated</span>
</li>
</ul>
</div>
</body>
</html>`

func TestSubscribeDeliversEvents(t *testing.T) {
	f := newFakeController(t)
	adapter := newTestAdapter(t, f)
	f.setEvents([]string{signalEventFrame})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := adapter.Subscribe(ctx, []string{"/rw/iosystem/signals/do1;state"})
	require.NoError(t, err, "Не удалось оформить подписку")

	select {
	case event, ok := <-events:
		require.True(t, ok, "Канал событий закрылся до получения события")
		require.Equal(t, "/rw/iosystem/signals/do1;state", event.Resource)
		require.Equal(t, "1", event.Values["lvalue"])
		require.Equal(t, "not simulated", event.Values["lstate"])
		require.False(t, event.At.IsZero())
	case <-time.After(5 * time.Second):
		t.Fatal("Событие подписки не получено за отведенное время")
	}

	cancel()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("Канал событий не закрылся после отмены контекста")
		}
	}
}

func TestSubscribeRequiresResources(t *testing.T) {
	f := newFakeController(t)
	adapter := newTestAdapter(t, f)

	_, err := adapter.Subscribe(context.Background(), nil)
	require.Error(t, err, "Подписка без ресурсов не имеет смысла и должна отклоняться")
}
