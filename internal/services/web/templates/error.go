package templates

import (
	"net/http"

	"github.com/a-h/templ"

	shared "github.com/louisbranch/talevortex/internal/services/shared/templates"
	"github.com/louisbranch/talevortex/internal/services/web/routepath"
)

// ErrorPageTitle returns the browser title for an error page.
func ErrorPageTitle(statusCode int, loc Localizer) string {
	if normalizeErrorStatus(statusCode) == http.StatusNotFound {
		return T(loc, "error_page.title_not_found")
	}
	return T(loc, "error_page.title_server_error")
}

// ErrorState renders the body of an error page.
func ErrorState(statusCode int, loc Localizer) templ.Component {
	return shared.Component(func(m *shared.Markup) {
		notFound := normalizeErrorStatus(statusCode) == http.StatusNotFound
		m.Open("section", "class", "error-state")
		if notFound {
			m.Elem("h1", T(loc, "error_page.heading_not_found"))
			m.Elem("p", T(loc, "error_page.message_not_found"))
		} else {
			m.Elem("h1", T(loc, "error_page.heading_server_error"))
			m.Elem("p", T(loc, "error_page.message_server_error"))
		}
		m.Elem("a", T(loc, "error_page.back_home"), "href", routepath.Root)
		m.Close("section")
	})
}

func normalizeErrorStatus(statusCode int) int {
	if statusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
