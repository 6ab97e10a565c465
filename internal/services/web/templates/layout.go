package templates

import (
	"github.com/a-h/templ"

	shared "github.com/louisbranch/talevortex/internal/services/shared/templates"
	"github.com/louisbranch/talevortex/internal/services/web/routepath"
)

// AppName is the product name shown in page chrome.
const AppName = "TaleVortex"

// Viewer is the signed-in account shown in the top bar.
type Viewer struct {
	DisplayName string
	SignedIn    bool
}

// Toast is a rendered flash notice.
type Toast struct {
	Kind    string
	Message string
}

// Chrome carries the page frame around a body.
type Chrome struct {
	Title       string
	Lang        string
	Viewer      Viewer
	Toast       *Toast
	Breadcrumbs []shared.BreadcrumbItem
	Loc         Localizer
}

const stylesheet = `
body{font-family:system-ui,sans-serif;margin:0;color:#1d1d1f;background:#fafafa}
header.topbar{display:flex;justify-content:space-between;align-items:center;padding:.75rem 1.5rem;background:#23213a;color:#fff}
header.topbar a{color:#fff}
main{max-width:72rem;margin:1.5rem auto;padding:0 1.5rem}
section{background:#fff;border:1px solid #ddd;border-radius:6px;padding:1rem 1.25rem;margin-bottom:1.25rem}
.flash{max-width:72rem;margin:1rem auto 0;padding:.75rem 1rem;border-radius:6px}
.flash-success{background:#e3f6e8}.flash-info{background:#e6f0fb}.flash-warning{background:#fff4d6}.flash-error{background:#fde5e5}
.undefined{color:#a33;font-style:italic}
.field-error{color:#a33}
.breadcrumbs ul{list-style:none;padding:0;display:flex;gap:.5rem}
.breadcrumbs li+li:before{content:"/";margin-right:.5rem;color:#888}
table{border-collapse:collapse;width:100%}td,th{text-align:left;padding:.3rem .5rem;border-bottom:1px solid #eee}
label.option{display:inline-block;margin-right:1rem}
`

// Layout renders a full HTML document around body.
func Layout(chrome Chrome, body templ.Component) templ.Component {
	return shared.Component(func(m *shared.Markup) {
		lang := chrome.Lang
		if lang == "" {
			lang = "en"
		}
		title := AppName
		if chrome.Title != "" {
			title = chrome.Title + " | " + AppName
		}
		m.Raw("<!doctype html>")
		m.Open("html", "lang", lang)
		m.Open("head")
		m.Void("meta", "charset", "utf-8")
		m.Void("meta", "name", "viewport", "content", "width=device-width, initial-scale=1")
		m.Elem("title", title)
		m.Open("style")
		m.Raw(stylesheet)
		m.Close("style")
		m.Close("head")
		m.Open("body")
		writeTopbar(m, chrome)
		if chrome.Toast != nil {
			m.Elem("div", chrome.Toast.Message, "class", "flash flash-"+chrome.Toast.Kind, "role", "status")
		}
		m.Open("main")
		shared.WriteBreadcrumbs(m, chrome.Breadcrumbs)
		m.Render(body)
		m.Close("main")
		m.Close("body")
		m.Close("html")
	})
}

func writeTopbar(m *shared.Markup, chrome Chrome) {
	m.Open("header", "class", "topbar")
	m.Elem("a", AppName, "href", routepath.Root, "class", "brand")
	m.Open("nav")
	if chrome.Viewer.SignedIn {
		m.Text(T(chrome.Loc, "layout.signed_in_as") + " ")
		m.Elem("a", chrome.Viewer.DisplayName, "href", routepath.ChangeUsername)
		m.Text(" · ")
		m.Elem("a", T(chrome.Loc, "layout.logout"), "href", routepath.Logout)
	} else {
		m.Elem("a", T(chrome.Loc, "layout.login"), "href", routepath.Login)
	}
	m.Close("nav")
	m.Close("header")
}
