package rws

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
)

// digestAuth хранит состояние дайджест-аутентификации (RFC 2617) для одной
// сессии контроллера. Контроллер выдает challenge в ответе 401; после этого
// каждый запрос подписывается заголовком Authorization с увеличивающимся
// счетчиком nc.
type digestAuth struct {
	username string
	password string

	mu        sync.Mutex
	realm     string
	nonce     string
	qop       string
	opaque    string
	algorithm string
	nc        uint32
}

func newDigestAuth(username, password string) *digestAuth {
	return &digestAuth{username: username, password: password}
}

// challenge разбирает заголовок WWW-Authenticate и сбрасывает счетчик nc.
func (d *digestAuth) challenge(header string) error {
	const prefix = "Digest "
	if !strings.HasPrefix(header, prefix) {
		return fmt.Errorf("unsupported authentication scheme in challenge %q", header)
	}

	params := parseChallengeParams(header[len(prefix):])

	d.mu.Lock()
	defer d.mu.Unlock()

	d.realm = params["realm"]
	d.nonce = params["nonce"]
	d.qop = params["qop"]
	d.opaque = params["opaque"]
	d.algorithm = params["algorithm"]
	d.nc = 0

	if d.realm == "" || d.nonce == "" {
		return fmt.Errorf("digest challenge without realm or nonce: %q", header)
	}
	return nil
}

// authorize возвращает значение заголовка Authorization для запроса или
// пустую строку, если challenge еще не получен.
func (d *digestAuth) authorize(method, uri string) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.nonce == "" {
		return ""
	}

	d.nc++
	nc := fmt.Sprintf("%08x", d.nc)
	cnonce := randomCnonce()

	ha1 := md5Hex(d.username + ":" + d.realm + ":" + d.password)
	ha2 := md5Hex(method + ":" + uri)

	var response string
	if d.qop == "" {
		// Совместимость с RFC 2069: контроллеры без qop.
		response = md5Hex(ha1 + ":" + d.nonce + ":" + ha2)
	} else {
		response = md5Hex(strings.Join([]string{ha1, d.nonce, nc, cnonce, d.qop, ha2}, ":"))
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Digest username=%q, realm=%q, nonce=%q, uri=%q, response=%q`,
		d.username, d.realm, d.nonce, uri, response)
	if d.qop != "" {
		fmt.Fprintf(&b, `, qop=%s, nc=%s, cnonce=%q`, d.qop, nc, cnonce)
	}
	if d.opaque != "" {
		fmt.Fprintf(&b, `, opaque=%q`, d.opaque)
	}
	if d.algorithm != "" {
		fmt.Fprintf(&b, `, algorithm=%s`, d.algorithm)
	}
	return b.String()
}

// parseChallengeParams разбирает список key=value через запятую с учетом
// значений в кавычках.
func parseChallengeParams(s string) map[string]string {
	params := make(map[string]string)
	for len(s) > 0 {
		s = strings.TrimLeft(s, " \t,")
		eq := strings.IndexByte(s, '=')
		if eq < 0 {
			break
		}
		key := strings.ToLower(strings.TrimSpace(s[:eq]))
		s = s[eq+1:]

		var value string
		if strings.HasPrefix(s, `"`) {
			s = s[1:]
			end := strings.IndexByte(s, '"')
			if end < 0 {
				value, s = s, ""
			} else {
				value, s = s[:end], s[end+1:]
			}
		} else {
			end := strings.IndexByte(s, ',')
			if end < 0 {
				value, s = strings.TrimSpace(s), ""
			} else {
				value, s = strings.TrimSpace(s[:end]), s[end+1:]
			}
		}
		params[key] = value
	}
	return params
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func randomCnonce() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// rand.Read из crypto/rand не возвращает ошибок на поддерживаемых
		// платформах; запасной вариант оставлен для полноты.
		return "0a4f113b0a4f113b"
	}
	return hex.EncodeToString(buf)
}
