package rws

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/Amin173/abb-librws/models"
	"github.com/sirupsen/logrus"
)

// Adapter инкапсулирует HTTP-сессию Robot Web Services: дайджест-
// аутентификацию, cookie сессии и разбор XHTML-ответов. Он также выполняет
// повторную аутентификацию, когда контроллер завершает сессию. Методы
// адаптера безопасны для конкурентного использования.
type Adapter struct {
	host    string
	base    *url.URL
	client  *http.Client
	auth    *digestAuth
	logger  *logrus.Logger
	sysInfo *models.SystemInfo
}

// NewAdapter создает новый экземпляр Adapter и устанавливает сессию.
// Первый запрос системной информации служит проверкой доступности
// контроллера: недоступный контроллер обнаруживается при создании,
// а не при первом чтении.
func NewAdapter(host string, port uint16, username, password string, timeoutMs int32, logger *logrus.Logger) (*Adapter, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	base, err := url.Parse(fmt.Sprintf("http://%s:%d", host, port))
	if err != nil {
		return nil, fmt.Errorf("invalid controller address %s:%d: %w", host, port, err)
	}

	timeout := time.Duration(timeoutMs) * time.Millisecond
	adapter := &Adapter{
		host:   host,
		base:   base,
		client: &http.Client{Jar: jar, Timeout: timeout},
		auth:   newDigestAuth(username, password),
		logger: logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	sysInfo, err := adapter.SystemInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read system info after connecting: %w", err)
	}
	adapter.sysInfo = &sysInfo

	return adapter, nil
}

// GetSystemInfo возвращает системную информацию, полученную при создании.
func (a *Adapter) GetSystemInfo() *models.SystemInfo {
	return a.sysInfo
}

// Close завершает сессию на контроллере. Ошибка выхода не критична:
// сессия истечет по тайм-ауту на стороне контроллера.
func (a *Adapter) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resp, err := a.send(ctx, http.MethodGet, "/logout", nil)
	if err != nil {
		a.logger.WithError(err).Debug("Logout request failed")
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// get выполняет GET-запрос и возвращает разобранный XHTML-ответ.
func (a *Adapter) get(ctx context.Context, path string) (*node, error) {
	resp, err := a.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	root, err := parseXML(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("malformed response from %s: %w", path, err)
	}
	return root, nil
}

// postForm выполняет POST с телом формы. Тело ответа закрывает вызывающая
// сторона.
func (a *Adapter) postForm(ctx context.Context, path string, form url.Values) (*http.Response, error) {
	return a.send(ctx, http.MethodPost, path, form)
}

// send выполняет запрос и один раз повторяет его после повторной
// аутентификации, если контроллер ответил 401: сессии Robot Web Services
// истекают, и истечение неотличимо от первого обращения.
func (a *Adapter) send(ctx context.Context, method, path string, form url.Values) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		req, err := a.newRequest(ctx, method, path, form)
		if err != nil {
			return nil, err
		}

		resp, err := a.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request %s %s failed: %w", method, path, err)
		}

		if resp.StatusCode != http.StatusUnauthorized || attempt > 0 {
			return resp, nil
		}

		challenge := resp.Header.Get("WWW-Authenticate")
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		if err := a.auth.challenge(challenge); err != nil {
			return nil, fmt.Errorf("authentication with controller failed: %w", err)
		}
		a.logger.WithField("path", path).Debug("Re-authenticating controller session")
	}
}

func (a *Adapter) newRequest(ctx context.Context, method, path string, form url.Values) (*http.Request, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid resource path %q: %w", path, err)
	}
	u := a.base.ResolveReference(ref)

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/xhtml+xml")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if auth := a.auth.authorize(method, u.RequestURI()); auth != "" {
		req.Header.Set("Authorization", auth)
	}
	return req, nil
}
