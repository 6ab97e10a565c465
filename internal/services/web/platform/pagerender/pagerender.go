// Package pagerender centralizes module page rendering behavior.
package pagerender

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	shared "github.com/louisbranch/talevortex/internal/services/shared/templates"
	webi18n "github.com/louisbranch/talevortex/internal/services/web/i18n"
	flashnotice "github.com/louisbranch/talevortex/internal/services/web/platform/flash"
	"github.com/louisbranch/talevortex/internal/services/web/platform/httpx"
	"github.com/louisbranch/talevortex/internal/services/web/platform/requestmeta"
	webtemplates "github.com/louisbranch/talevortex/internal/services/web/templates"
)

// Page describes a full page response.
type Page struct {
	Title       string
	StatusCode  int
	Viewer      webtemplates.Viewer
	Breadcrumbs []shared.BreadcrumbItem
	Body        templ.Component
}

// WritePage renders page inside the site layout. A pending flash notice is
// consumed and shown as a toast.
func WritePage(w http.ResponseWriter, r *http.Request, page Page, policy requestmeta.SchemePolicy) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	body := page.Body
	if body == nil {
		body = templ.NopComponent
	}

	loc, lang := webi18n.ForRequest(r)
	chrome := webtemplates.Chrome{
		Title:       page.Title,
		Lang:        lang,
		Viewer:      page.Viewer,
		Toast:       resolveFlashToast(w, r, loc, policy),
		Breadcrumbs: page.Breadcrumbs,
		Loc:         loc,
	}

	var buf bytes.Buffer
	if err := webtemplates.Layout(chrome, body).Render(httpx.RequestContext(r), &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
	return nil
}

func resolveFlashToast(w http.ResponseWriter, r *http.Request, loc webtemplates.Localizer, policy requestmeta.SchemePolicy) *webtemplates.Toast {
	notice, ok := flashnotice.ReadAndClear(w, r, policy)
	if !ok {
		return nil
	}
	message := strings.TrimSpace(webtemplates.TS(loc, notice.Key, notice.Args))
	if message == "" {
		return nil
	}
	return &webtemplates.Toast{
		Kind:    string(notice.Kind),
		Message: message,
	}
}
