package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/louisbranch/talevortex/internal/platform/requestctx"
	"github.com/louisbranch/talevortex/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/talevortex/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/talevortex/internal/services/web/routepath"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newTestStore(clock *fakeClock) *Store {
	seq := 0
	return NewStore(time.Hour, WithClock(clock.Now), WithIDGenerator(func() (string, error) {
		seq++
		return "sess-" + string(rune('0'+seq)), nil
	}))
}

func TestStoreLifecycle(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := newTestStore(clock)

	sess, err := store.Create(" ada@example.com ", "reader-abc123")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if sess.ID != "sess-1" || sess.Email != "ada@example.com" {
		t.Fatalf("Create() = %+v", sess)
	}
	if want := clock.now.Add(time.Hour); !sess.ExpiresAt.Equal(want) {
		t.Fatalf("ExpiresAt = %v, want %v", sess.ExpiresAt, want)
	}

	updated, ok := store.Update(sess.ID, func(s *Session) {
		s.StoryID = "story-1"
		s.ID = "hijacked"
	})
	if !ok || updated.StoryID != "story-1" || updated.ID != sess.ID {
		t.Fatalf("Update() = %+v, %v", updated, ok)
	}
	if got, ok := store.Get(sess.ID); !ok || got.StoryID != "story-1" {
		t.Fatalf("Get() = %+v, %v", got, ok)
	}

	store.ForgetStory("story-1")
	if got, _ := store.Get(sess.ID); got.StoryID != "" {
		t.Fatalf("StoryID after ForgetStory = %q", got.StoryID)
	}

	store.Delete(sess.ID)
	if _, ok := store.Get(sess.ID); ok {
		t.Fatal("expected deleted session to be gone")
	}
}

func TestStoreExpiry(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := newTestStore(clock)
	sess, err := store.Create("ada@example.com", "reader-abc123")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	clock.now = clock.now.Add(time.Hour)
	if _, ok := store.Get(sess.ID); ok {
		t.Fatal("expected expired session to be dropped")
	}
	if _, ok := store.Update(sess.ID, func(*Session) {}); ok {
		t.Fatal("expected update of expired session to fail")
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("expected no session")
	}
	ctx := WithSession(context.Background(), Session{ID: "sess-1", Email: "ada@example.com"})
	got, ok := FromContext(ctx)
	if !ok || got.Email != "ada@example.com" {
		t.Fatalf("FromContext() = %+v, %v", got, ok)
	}
}

func TestLoadAttachesLiveSession(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := newTestStore(clock)
	sess, _ := store.Create("ada@example.com", "reader-abc123")
	store.Update(sess.ID, func(s *Session) { s.StoryID = "story-1" })

	var got Session
	var gotStory string
	handler := Load(store, requestmeta.SchemePolicy{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = FromContext(r.Context())
		gotStory, _ = requestctx.StoryIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: sess.ID})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got.Email != "ada@example.com" || gotStory != "story-1" {
		t.Fatalf("context email=%q story=%q", got.Email, gotStory)
	}
}

func TestLoadClearsStaleCookie(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Hour)
	called := false
	handler := Load(store, requestmeta.SchemePolicy{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := FromContext(r.Context()); ok {
			t.Error("expected no session for unknown cookie")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "unknown"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if !called {
		t.Fatal("expected next handler to run")
	}
	cookie, err := http.ParseSetCookie(rr.Header().Get("Set-Cookie"))
	if err != nil {
		t.Fatalf("ParseSetCookie() error = %v", err)
	}
	if cookie.Name != sessioncookie.Name || cookie.MaxAge >= 0 {
		t.Fatalf("expected cleared session cookie, got %+v", cookie)
	}
}

func TestRequireRedirectsAnonymous(t *testing.T) {
	t.Parallel()

	handler := Require(requestmeta.SchemePolicy{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("protected handler should not run")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/create_story", nil))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != routepath.Login {
		t.Fatalf("status = %d location = %q", rr.Code, rr.Header().Get("Location"))
	}
	if rr.Header().Get("Set-Cookie") == "" {
		t.Fatal("expected login-required flash cookie")
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Set-Cookie") != "" {
		t.Fatalf("root redirect should not flash: status=%d cookie=%q", rr.Code, rr.Header().Get("Set-Cookie"))
	}
}

func TestRequirePassesSignedIn(t *testing.T) {
	t.Parallel()

	called := false
	handler := Require(requestmeta.SchemePolicy{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithSession(req.Context(), Session{ID: "sess-1"}))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !called {
		t.Fatal("expected protected handler to run")
	}
}
