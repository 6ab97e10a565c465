package sessioncookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/louisbranch/talevortex/internal/services/web/platform/requestmeta"
)

func TestRead(t *testing.T) {
	t.Parallel()

	if _, ok := Read(nil); ok {
		t.Fatalf("expected nil request to have no session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	if _, ok := Read(req); ok {
		t.Fatalf("expected missing cookie")
	}

	req.AddCookie(&http.Cookie{Name: Name, Value: "  sess-1  "})
	value, ok := Read(req)
	if !ok || value != "sess-1" {
		t.Fatalf("Read() = %q, %v", value, ok)
	}
}

func TestWrite(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "https://stories.example.test", nil)
	rr := httptest.NewRecorder()
	Write(rr, req, "sess-1", time.Hour, requestmeta.SchemePolicy{})
	cookie, err := http.ParseSetCookie(rr.Header().Get("Set-Cookie"))
	if err != nil {
		t.Fatalf("ParseSetCookie() error = %v", err)
	}
	if cookie.Name != Name || cookie.Value != "sess-1" {
		t.Fatalf("cookie = %s=%s", cookie.Name, cookie.Value)
	}
	if !cookie.Secure || !cookie.HttpOnly {
		t.Fatalf("expected secure http-only cookie, got secure=%v httponly=%v", cookie.Secure, cookie.HttpOnly)
	}
	if cookie.MaxAge != 3600 {
		t.Fatalf("MaxAge = %d, want 3600", cookie.MaxAge)
	}

	plain := httptest.NewRequest(http.MethodGet, "http://stories.example.test", nil)
	rr = httptest.NewRecorder()
	Write(rr, plain, "sess-2", 0, requestmeta.SchemePolicy{})
	cookie, err = http.ParseSetCookie(rr.Header().Get("Set-Cookie"))
	if err != nil {
		t.Fatalf("ParseSetCookie() error = %v", err)
	}
	if cookie.Secure {
		t.Fatalf("expected insecure cookie for http request")
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	Clear(rr, httptest.NewRequest(http.MethodGet, "http://stories.example.test", nil), requestmeta.SchemePolicy{})
	cookie, err := http.ParseSetCookie(rr.Header().Get("Set-Cookie"))
	if err != nil {
		t.Fatalf("ParseSetCookie() error = %v", err)
	}
	if cookie.MaxAge >= 0 || cookie.Value != "" {
		t.Fatalf("expected expired cookie, got MaxAge=%d value=%q", cookie.MaxAge, cookie.Value)
	}
}
