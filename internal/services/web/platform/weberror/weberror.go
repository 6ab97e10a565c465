// Package weberror renders shared error responses for web modules.
package weberror

import (
	"net/http"
	"strings"

	webi18n "github.com/louisbranch/talevortex/internal/services/web/i18n"
	apperrors "github.com/louisbranch/talevortex/internal/services/web/platform/errors"
	"github.com/louisbranch/talevortex/internal/services/web/platform/httpx"
	webtemplates "github.com/louisbranch/talevortex/internal/services/web/templates"
)

// ShouldRenderAppError reports whether status should use the error page.
func ShouldRenderAppError(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe localized error message.
func PublicMessage(loc webtemplates.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if loc != nil {
		if key, args := apperrors.MessageKey(err); key != "" {
			if localized := strings.TrimSpace(webtemplates.TS(loc, key, args)); localized != "" && localized != key {
				return localized
			}
		}
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	return http.StatusText(statusCode)
}

// WriteAppError writes the localized error page.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int, viewer webtemplates.Viewer) {
	if w == nil {
		return
	}
	if !ShouldRenderAppError(statusCode) {
		statusCode = http.StatusInternalServerError
	}

	loc, lang := webi18n.ForRequest(r)
	chrome := webtemplates.Chrome{
		Title:  webtemplates.ErrorPageTitle(statusCode, loc),
		Lang:   lang,
		Viewer: viewer,
		Loc:    loc,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	page := webtemplates.Layout(chrome, webtemplates.ErrorState(statusCode, loc))
	if err := page.Render(httpx.RequestContext(r), w); err != nil {
		_, _ = w.Write([]byte(http.StatusText(statusCode)))
	}
}

// WriteModuleError writes the error page for not-found and server errors, and
// a localized plain-text message for everything else.
func WriteModuleError(w http.ResponseWriter, r *http.Request, err error, viewer webtemplates.Viewer) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if ShouldRenderAppError(statusCode) {
		WriteAppError(w, r, statusCode, viewer)
		return
	}
	loc, _ := webi18n.ForRequest(r)
	http.Error(w, PublicMessage(loc, err), statusCode)
}
