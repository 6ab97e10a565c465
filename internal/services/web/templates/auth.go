package templates

import (
	"github.com/a-h/templ"

	shared "github.com/louisbranch/talevortex/internal/services/shared/templates"
	"github.com/louisbranch/talevortex/internal/services/web/routepath"
)

// LoginView is the state of the login page.
type LoginView struct {
	Email string
	// Sent is set once a link was dispatched to Email.
	Sent  bool
	Error string
}

// LoginPage renders the magic-link request form.
func LoginPage(view LoginView, loc Localizer) templ.Component {
	return shared.Component(func(m *shared.Markup) {
		m.Open("section", "class", "login")
		m.Elem("h1", T(loc, "login.heading"))
		if view.Sent {
			m.Elem("p", T(loc, "login.sent", view.Email), "class", "login-sent")
		} else {
			m.Elem("p", T(loc, "login.intro"))
		}
		if view.Error != "" {
			m.Elem("p", view.Error, "class", "field-error")
		}
		m.Open("form", "method", "post", "action", routepath.Login)
		m.Elem("label", T(loc, "login.email"), "for", "email")
		m.Void("input", "type", "email", "id", "email", "name", "email", "required", "", "value", view.Email, "autocomplete", "email")
		m.Elem("button", T(loc, "login.submit"), "type", "submit")
		m.Close("form")
		m.Close("section")
	})
}

// ChangeUsernameView is the state of the display-name form.
type ChangeUsernameView struct {
	Current string
	Value   string
	Error   string
}

// ChangeUsernamePage renders the display-name form.
func ChangeUsernamePage(view ChangeUsernameView, loc Localizer) templ.Component {
	return shared.Component(func(m *shared.Markup) {
		m.Open("section", "class", "change-username")
		m.Elem("h1", T(loc, "username.heading"))
		m.Elem("p", T(loc, "username.current", view.Current))
		if view.Error != "" {
			m.Elem("p", view.Error, "class", "field-error")
		}
		m.Open("form", "method", "post", "action", routepath.ChangeUsername)
		m.Elem("label", T(loc, "username.label"), "for", "username")
		m.Void("input", "type", "text", "id", "username", "name", "username", "required", "", "maxlength", "120", "value", view.Value)
		m.Elem("button", T(loc, "username.submit"), "type", "submit")
		m.Close("form")
		m.Close("section")
	})
}
