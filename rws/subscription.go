package rws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Event - одно уведомление подписки: ресурс, значения его полей и время
// получения.
type Event struct {
	Resource string
	Values   map[string]string
	At       time.Time
}

// Subscribe оформляет группу подписки на указанные ресурсы контроллера и
// возвращает канал событий. Контроллер отвечает на POST /subscription
// адресом группы опроса; события приходят по WebSocket с подпротоколом
// robapi2_subscription, используя cookie текущей сессии. Канал закрывается
// при отмене контекста или потере соединения.
func (a *Adapter) Subscribe(ctx context.Context, resources []string) (<-chan Event, error) {
	if len(resources) == 0 {
		return nil, errors.New("subscription requires at least one resource")
	}

	form := url.Values{}
	groups := make([]string, len(resources))
	for i, resource := range resources {
		key := strconv.Itoa(i + 1)
		groups[i] = key
		form.Set(key, resource)
		form.Set(key+"-p", "1")
	}
	form.Set("resources", strings.Join(groups, ","))

	resp, err := a.postForm(ctx, "/subscription", form)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription group: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusCreated {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return nil, &IncompleteResponseError{Resource: "/subscription", Field: "Location"}
	}

	wsURL, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid subscription location %q: %w", location, err)
	}
	if wsURL.Host == "" {
		wsURL.Host = a.base.Host
	}
	switch wsURL.Scheme {
	case "https":
		wsURL.Scheme = "wss"
	default:
		wsURL.Scheme = "ws"
	}

	dialer := websocket.Dialer{
		Jar:              a.client.Jar,
		Subprotocols:     []string{"robapi2_subscription"},
		HandshakeTimeout: a.client.Timeout,
	}
	conn, _, err := dialer.DialContext(ctx, wsURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open subscription socket: %w", err)
	}

	a.logger.WithField("location", location).Info("Subscription established")

	events := make(chan Event)
	go a.readEvents(ctx, conn, events)
	return events, nil
}

// readEvents владеет соединением подписки: читает кадры, преобразует их
// в события и закрывает канал при завершении.
func (a *Adapter) readEvents(ctx context.Context, conn *websocket.Conn, events chan<- Event) {
	defer close(events)
	defer conn.Close()

	// Отмена контекста прерывает блокирующее чтение закрытием соединения.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				a.logger.WithError(err).Warn("Subscription socket closed")
			}
			return
		}

		parsed, err := parseXML(bytes.NewReader(payload))
		if err != nil {
			a.logger.WithError(err).Warn("Malformed subscription event, skipping")
			continue
		}

		for _, event := range collectEvents(parsed) {
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}

// collectEvents превращает XHTML-кадр подписки в события: каждая строка li
// описывает один ресурс, span-элементы - его поля.
func collectEvents(root *node) []Event {
	var result []Event
	now := time.Now()
	for _, li := range findListItems(root) {
		values := make(map[string]string)
		collectSpanValues(li, values)
		result = append(result, Event{
			Resource: li.firstHref(),
			Values:   values,
			At:       now,
		})
	}
	return result
}

func findListItems(n *node) []*node {
	var items []*node
	for _, child := range n.children {
		if child.name == "li" {
			items = append(items, child)
			continue
		}
		items = append(items, findListItems(child)...)
	}
	return items
}

func collectSpanValues(n *node, values map[string]string) {
	for _, child := range n.children {
		if child.name == "span" {
			if class := child.attr("class"); class != "" {
				values[class] = strings.TrimSpace(child.text)
			}
		}
		collectSpanValues(child, values)
	}
}
