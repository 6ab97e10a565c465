package templates

import (
	"github.com/a-h/templ"

	shared "github.com/louisbranch/talevortex/internal/services/shared/templates"
	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/export"
	"github.com/louisbranch/talevortex/internal/services/web/routepath"
)

// CreateStoryView is the state of the story creation form.
type CreateStoryView struct {
	Name      string
	Setting   string
	Challenge string
	Error     string
}

// CreateStoryPage renders the story creation form.
func CreateStoryPage(view CreateStoryView, loc Localizer) templ.Component {
	return shared.Component(func(m *shared.Markup) {
		m.Open("section", "class", "create-story")
		m.Elem("h1", T(loc, "story.create_heading"))
		if view.Error != "" {
			m.Elem("p", view.Error, "class", "form-error")
		}
		m.Open("form", "method", "post", "action", routepath.CreateStory)
		m.Elem("label", T(loc, "story.name"), "for", "name")
		m.Void("input", "type", "text", "id", "name", "name", "name", "required", "", "maxlength", "120", "value", view.Name)
		m.Elem("label", T(loc, "story.setting"), "for", "setting")
		m.Elem("textarea", view.Setting, "id", "setting", "name", "setting", "rows", "4")
		m.Elem("label", T(loc, "story.challenge"), "for", "challenge")
		m.Elem("textarea", view.Challenge, "id", "challenge", "name", "challenge", "rows", "4")
		m.Elem("button", T(loc, "story.create_submit"), "type", "submit")
		m.Close("form")
		m.Close("section")
	})
}

// StoryViewPage renders the printable story inside the site layout.
func StoryViewPage(agg domain.Aggregate, loc Localizer) templ.Component {
	return shared.Component(func(m *shared.Markup) {
		m.Open("div", "class", "story-view")
		m.Render(export.StoryBody(agg))
		m.Close("div")
		m.Open("p")
		m.Elem("a", T(loc, "story.back"), "href", routepath.Root)
		m.Close("p")
	})
}
