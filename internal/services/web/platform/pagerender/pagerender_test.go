package pagerender

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	flashnotice "github.com/louisbranch/talevortex/internal/services/web/platform/flash"
	"github.com/louisbranch/talevortex/internal/services/web/platform/requestmeta"
	webtemplates "github.com/louisbranch/talevortex/internal/services/web/templates"
)

type textComponent string

func (c textComponent) Render(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, string(c))
	return err
}

func TestWritePageRendersLayoutWithStatus(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/create_story", nil)
	rr := httptest.NewRecorder()

	err := WritePage(rr, req, Page{
		Title:      "New story",
		StatusCode: http.StatusBadRequest,
		Viewer:     webtemplates.Viewer{DisplayName: "reader-abc123", SignedIn: true},
		Body:       textComponent(`<section id="page-body">ok</section>`),
	}, requestmeta.SchemePolicy{})
	if err != nil {
		t.Fatalf("WritePage() error = %v", err)
	}
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("content-type = %q", got)
	}
	body := rr.Body.String()
	for _, want := range []string{"<!doctype html>", `id="page-body"`, "New story | TaleVortex", "reader-abc123", "Sign out"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q: %s", want, body)
		}
	}
}

func TestWritePageDefaultsStatusAndBody(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	if err := WritePage(rr, httptest.NewRequest(http.MethodGet, "/", nil), Page{}, requestmeta.SchemePolicy{}); err != nil {
		t.Fatalf("WritePage() error = %v", err)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if err := WritePage(nil, nil, Page{}, requestmeta.SchemePolicy{}); err != nil {
		t.Fatalf("WritePage(nil) error = %v", err)
	}
}

func TestWritePageConsumesFlashNotice(t *testing.T) {
	t.Parallel()

	seed := httptest.NewRecorder()
	flashnotice.Write(seed, httptest.NewRequest(http.MethodPost, "/create_story", nil), flashnotice.Success("notice.story_created", "Harbor"), requestmeta.SchemePolicy{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range seed.Result().Cookies() {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	if err := WritePage(rr, req, Page{Title: "Stories"}, requestmeta.SchemePolicy{}); err != nil {
		t.Fatalf("WritePage() error = %v", err)
	}

	body := rr.Body.String()
	if !strings.Contains(body, `class="flash flash-success"`) {
		t.Fatalf("body missing toast: %s", body)
	}
	if !strings.Contains(body, "Story &#34;Harbor&#34; created.") {
		t.Fatalf("body missing localized notice: %s", body)
	}
	cleared := false
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == flashnotice.CookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected flash cookie to be cleared")
	}
}
