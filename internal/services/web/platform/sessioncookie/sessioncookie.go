// Package sessioncookie centralizes the browser session cookie.
package sessioncookie

import (
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/talevortex/internal/services/web/platform/requestmeta"
)

// Name is the session cookie name.
const Name = "talevortex_session"

// Read returns the trimmed session cookie value when present.
func Read(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(Name)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

// Write sets the session cookie. A positive ttl bounds the cookie lifetime.
func Write(w http.ResponseWriter, r *http.Request, sessionID string, ttl time.Duration, policy requestmeta.SchemePolicy) {
	if w == nil {
		return
	}
	cookie := &http.Cookie{
		Name:     Name,
		Value:    strings.TrimSpace(sessionID),
		Path:     "/",
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPS(r, policy),
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		cookie.MaxAge = int(ttl / time.Second)
	}
	http.SetCookie(w, cookie)
}

// Clear expires the session cookie.
func Clear(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPS(r, policy),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
