// Package flash provides one-time notices persisted across redirects.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/louisbranch/talevortex/internal/services/web/platform/requestmeta"
)

// CookieName is the cookie carrying the pending notice.
const CookieName = "talevortex_flash"

// Kind classifies notice presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notice stores one message key and its arguments.
type Notice struct {
	Kind Kind     `json:"kind"`
	Key  string   `json:"key"`
	Args []string `json:"args,omitempty"`
}

// Success builds a success notice.
func Success(key string, args ...string) Notice {
	return Notice{Kind: KindSuccess, Key: key, Args: args}
}

// Warning builds a warning notice.
func Warning(key string, args ...string) Notice {
	return Notice{Kind: KindWarning, Key: key, Args: args}
}

// Error builds an error notice.
func Error(key string, args ...string) Notice {
	return Notice{Kind: KindError, Key: key, Args: args}
}

// AnyArgs converts Args for use with a message printer.
func (n Notice) AnyArgs() []any {
	out := make([]any, len(n.Args))
	for i, arg := range n.Args {
		out[i] = arg
	}
	return out
}

// Write stores a notice cookie for the next page render.
func Write(w http.ResponseWriter, r *http.Request, notice Notice, policy requestmeta.SchemePolicy) {
	if w == nil {
		return
	}
	normalized, ok := normalizeNotice(notice)
	if !ok {
		return
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPS(r, policy),
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadAndClear reads the pending notice and expires its cookie.
func ReadAndClear(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy) (Notice, bool) {
	if r == nil {
		return Notice{}, false
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie == nil {
		return Notice{}, false
	}
	if w != nil {
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   requestmeta.IsHTTPS(r, policy),
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
	return decodeNotice(cookie.Value)
}

func decodeNotice(raw string) (Notice, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Notice{}, false
	}
	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return Notice{}, false
	}
	var notice Notice
	if err := json.Unmarshal(decoded, &notice); err != nil {
		return Notice{}, false
	}
	return normalizeNotice(notice)
}

func normalizeNotice(notice Notice) (Notice, bool) {
	notice.Key = strings.TrimSpace(notice.Key)
	if notice.Key == "" {
		return Notice{}, false
	}
	notice.Kind = Kind(strings.ToLower(strings.TrimSpace(string(notice.Kind))))
	switch notice.Kind {
	case KindSuccess, KindInfo, KindWarning, KindError:
		return notice, true
	default:
		return Notice{}, false
	}
}
