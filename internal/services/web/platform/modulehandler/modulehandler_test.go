package modulehandler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	domainerrors "github.com/louisbranch/talevortex/internal/platform/errors"
	"github.com/louisbranch/talevortex/internal/services/web/platform/flash"
	"github.com/louisbranch/talevortex/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/talevortex/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/talevortex/internal/services/web/session"
	webtemplates "github.com/louisbranch/talevortex/internal/services/web/templates"
)

func signedInRequest(t *testing.T, base Base, method, target string) *http.Request {
	t.Helper()
	sess, err := base.Sessions().Create("ada@example.com", "reader-abc123")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	req := httptest.NewRequest(method, target, nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: sess.ID})
	return req.WithContext(session.WithSession(req.Context(), sess))
}

func TestViewerReflectsSession(t *testing.T) {
	t.Parallel()

	base := NewTestBase()
	anon := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := base.Viewer(anon); got != (webtemplates.Viewer{}) {
		t.Fatalf("Viewer(anonymous) = %+v", got)
	}
	if got := base.RequestEmail(anon); got != "" {
		t.Fatalf("RequestEmail(anonymous) = %q", got)
	}

	req := signedInRequest(t, base, http.MethodGet, "/")
	want := webtemplates.Viewer{DisplayName: "reader-abc123", SignedIn: true}
	if got := base.Viewer(req); got != want {
		t.Fatalf("Viewer() = %+v, want %+v", got, want)
	}
	if got := base.RequestEmail(req); got != "ada@example.com" {
		t.Fatalf("RequestEmail() = %q", got)
	}
}

func TestUpdateSessionPersists(t *testing.T) {
	t.Parallel()

	base := NewTestBase()
	if _, ok := base.UpdateSession(httptest.NewRequest(http.MethodGet, "/", nil), func(*session.Session) {}); ok {
		t.Fatal("expected anonymous update to fail")
	}

	req := signedInRequest(t, base, http.MethodGet, "/")
	updated, ok := base.UpdateSession(req, func(s *session.Session) { s.StoryID = "story-1" })
	if !ok || updated.StoryID != "story-1" {
		t.Fatalf("UpdateSession() = %+v, %v", updated, ok)
	}
	sess, _ := base.Session(req)
	stored, _ := base.Sessions().Get(sess.ID)
	if stored.StoryID != "story-1" {
		t.Fatalf("stored StoryID = %q", stored.StoryID)
	}
}

func TestStartAndEndSession(t *testing.T) {
	t.Parallel()

	base := NewBase(session.NewStore(2*time.Hour), requestmeta.SchemePolicy{}, nil)
	rr := httptest.NewRecorder()
	sess, err := base.StartSession(rr, httptest.NewRequest(http.MethodGet, "/login/token", nil), "ada@example.com", "reader-abc123")
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	cookie, err := http.ParseSetCookie(rr.Header().Get("Set-Cookie"))
	if err != nil {
		t.Fatalf("ParseSetCookie() error = %v", err)
	}
	if cookie.Value != sess.ID || cookie.MaxAge != 7200 {
		t.Fatalf("cookie = %+v", cookie)
	}

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	base.EndSession(rr, req)
	if _, ok := base.Sessions().Get(sess.ID); ok {
		t.Fatal("expected session to be deleted")
	}
}

func TestWriteErrorLogsServerFailures(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.ErrorLevel)
	base := NewBase(session.NewStore(time.Hour), requestmeta.SchemePolicy{}, zap.New(core))

	rr := httptest.NewRecorder()
	base.WriteError(rr, httptest.NewRequest(http.MethodGet, "/story/s1/view", nil), domainerrors.New(domainerrors.CodeUnknown, "db closed"))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if logs.Len() != 1 {
		t.Fatalf("log entries = %d, want 1", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["path"]; got != "/story/s1/view" {
		t.Fatalf("logged path = %v", got)
	}

	rr = httptest.NewRecorder()
	base.WriteError(rr, httptest.NewRequest(http.MethodPost, "/create_story", nil), domainerrors.New(domainerrors.CodeStoryNameEmpty, "empty"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if logs.Len() != 1 {
		t.Fatalf("client errors should not be logged, got %d entries", logs.Len())
	}
}

func TestRedirectWithError(t *testing.T) {
	t.Parallel()

	base := NewTestBase()
	rr := httptest.NewRecorder()
	err := domainerrors.WithMetadata(domainerrors.CodeUnitNameTaken, "taken", map[string]string{"Name": "Pier"})
	base.RedirectWithError(rr, httptest.NewRequest(http.MethodPost, "/add_existing_unit/u1", nil), "/", err)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
		t.Fatalf("status = %d location = %q", rr.Code, rr.Header().Get("Location"))
	}

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range rr.Result().Cookies() {
		next.AddCookie(cookie)
	}
	notice, ok := flash.ReadAndClear(httptest.NewRecorder(), next, requestmeta.SchemePolicy{})
	if !ok || notice.Kind != flash.KindError || notice.Key != "error.unit_name_taken" || len(notice.Args) != 1 || notice.Args[0] != "Pier" {
		t.Fatalf("notice = %+v, %v", notice, ok)
	}

	rr = httptest.NewRecorder()
	base.RedirectWithError(rr, httptest.NewRequest(http.MethodGet, "/", nil), "/", domainerrors.New(domainerrors.CodeNotFound, "gone"))
	if rr.Code != http.StatusNotFound || !strings.Contains(rr.Body.String(), "error-state") {
		t.Fatalf("expected not-found page, got %d", rr.Code)
	}
}

func TestWritePageUsesViewer(t *testing.T) {
	t.Parallel()

	base := NewTestBase()
	req := signedInRequest(t, base, http.MethodGet, "/")
	rr := httptest.NewRecorder()
	base.WritePage(rr, req, "Stories", http.StatusOK, nil, nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "reader-abc123") {
		t.Fatalf("status = %d body = %s", rr.Code, rr.Body.String())
	}
}

func TestRedirectWithErrorFlashesUnavailableDependency(t *testing.T) {
	t.Parallel()

	base := NewTestBase()
	rr := httptest.NewRecorder()
	err := domainerrors.Wrap(domainerrors.CodeTextGenerationFailed, "generate", errors.New("quota"))
	base.RedirectWithError(rr, httptest.NewRequest(http.MethodGet, "/story/s1/download_text", nil), "/", err)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if rr.Body.Len() > 0 && strings.Contains(rr.Body.String(), "error-state") {
		t.Fatal("unavailable dependency must not render the error page")
	}
}
