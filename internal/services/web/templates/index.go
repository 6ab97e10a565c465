package templates

import (
	"slices"

	"github.com/a-h/templ"

	shared "github.com/louisbranch/talevortex/internal/services/shared/templates"
	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/unitschema"
	"github.com/louisbranch/talevortex/internal/services/web/routepath"
)

// IndexView is the state of the home page.
type IndexView struct {
	Stories     []domain.Story
	Current     *domain.Aggregate
	TextEnabled bool
	Browser     BrowserView
}

// BrowserView is the state of the unit browser.
type BrowserView struct {
	Labels          []domain.Label
	IncludeLabelIDs []string
	ExcludeLabelIDs []string
	Query           string
	Units           []domain.Unit
	// CanAdd is set when a current story can receive copies.
	CanAdd bool
}

// IndexPage renders the story list, the current story and the unit browser.
func IndexPage(view IndexView, loc Localizer) templ.Component {
	return shared.Component(func(m *shared.Markup) {
		writeStoryList(m, view, loc)
		if view.Current != nil {
			writeCurrentStory(m, *view.Current, view.TextEnabled, loc)
		}
		writeBrowser(m, view.Browser, loc)
	})
}

func writeStoryList(m *shared.Markup, view IndexView, loc Localizer) {
	m.Open("section", "id", "stories")
	m.Elem("h2", T(loc, "index.stories"))
	if len(view.Stories) == 0 {
		m.Elem("p", T(loc, "index.no_stories"))
	} else {
		m.Open("ul")
		for _, story := range view.Stories {
			m.Open("li")
			if view.Current != nil && view.Current.Story.ID == story.ID {
				m.Elem("strong", story.Name, "aria-current", "true")
			} else {
				m.Elem("a", story.Name, "href", routepath.SelectStory(story.ID))
			}
			m.Close("li")
		}
		m.Close("ul")
	}
	m.Elem("a", T(loc, "index.create_story"), "href", routepath.CreateStory)

	m.Open("form", "method", "post", "action", routepath.ImportStory, "enctype", "multipart/form-data", "class", "import-story")
	m.Elem("label", T(loc, "index.import_story"), "for", routepath.StoryFileKey)
	m.Void("input", "type", "file", "id", routepath.StoryFileKey, "name", routepath.StoryFileKey, "accept", "application/json,.json", "required", "")
	m.Elem("button", T(loc, "index.import_submit"), "type", "submit")
	m.Close("form")
	m.Close("section")
}

func writeCurrentStory(m *shared.Markup, agg domain.Aggregate, textEnabled bool, loc Localizer) {
	story := agg.Story
	m.Open("section", "id", "current-story")
	m.Elem("h2", story.Name)
	m.Elem("h3", T(loc, "story.setting"))
	m.Elem("p", story.Setting)
	m.Elem("h3", T(loc, "story.challenge"))
	m.Elem("p", story.Challenge)

	if len(story.UndefinedNames) > 0 {
		m.Open("p", "class", "undefined-names")
		m.Text(T(loc, "story.undefined_names") + " ")
		for i, name := range story.UndefinedNames {
			if i > 0 {
				m.Text(", ")
			}
			m.Elem("span", name, "class", "undefined")
		}
		m.Close("p")
	}

	m.Elem("h3", T(loc, "story.add_unit"))
	m.Open("ul", "class", "unit-types")
	for _, t := range unitschema.Types() {
		m.Open("li")
		m.Elem("a", string(t), "href", routepath.AddUnit(story.ID, string(t)))
		m.Close("li")
	}
	m.Close("ul")

	for _, group := range agg.UnitsByType() {
		m.Elem("h3", string(group.Type))
		m.Open("ul", "class", "units")
		for _, unit := range group.Units {
			m.Open("li")
			m.Elem("a", unit.Name, "href", routepath.EditUnit(story.ID, unit.Name))
			m.Text(" ")
			m.Elem("a", T(loc, "story.delete_unit"), "href", routepath.DeleteUnit(story.ID, unit.Name), "class", "delete-unit")
			m.Close("li")
		}
		m.Close("ul")
	}

	m.Open("p", "class", "exports")
	m.Elem("a", T(loc, "story.view"), "href", routepath.ViewStory(story.ID))
	m.Text(" · ")
	m.Elem("a", T(loc, "story.download_pdf"), "href", routepath.DownloadPDF(story.ID))
	m.Text(" · ")
	m.Elem("a", T(loc, "story.download_json"), "href", routepath.DownloadJSON(story.ID))
	if textEnabled {
		m.Text(" · ")
		m.Elem("a", T(loc, "story.download_text"), "href", routepath.DownloadText(story.ID))
	}
	m.Close("p")

	m.Open("form", "method", "post", "action", routepath.DeleteStory(story.ID), "class", "delete-story")
	m.Elem("button", T(loc, "story.delete"), "type", "submit")
	m.Close("form")
	m.Close("section")
}

func writeBrowser(m *shared.Markup, view BrowserView, loc Localizer) {
	m.Open("section", "id", "unit-browser")
	m.Elem("h2", T(loc, "browser.heading"))

	m.Open("form", "method", "get", "action", routepath.Root, "class", "browser-filter")
	m.Elem("label", T(loc, "browser.search"), "for", routepath.SearchQueryKey)
	m.Void("input", "type", "search", "id", routepath.SearchQueryKey, "name", routepath.SearchQueryKey, "value", view.Query)
	writeLabelChoices(m, T(loc, "browser.include"), routepath.LabelIDsKey, view.Labels, view.IncludeLabelIDs)
	writeLabelChoices(m, T(loc, "browser.exclude"), routepath.ExcludeLabelIDsKey, view.Labels, view.ExcludeLabelIDs)
	m.Elem("button", T(loc, "browser.filter"), "type", "submit")
	m.Close("form")

	if len(view.Units) == 0 {
		m.Elem("p", T(loc, "browser.empty"))
		m.Close("section")
		return
	}

	m.Open("table", "class", "browser-results")
	m.Open("thead")
	m.Open("tr")
	m.Elem("th", "")
	m.Elem("th", T(loc, "browser.name"))
	m.Elem("th", T(loc, "browser.type"))
	m.Elem("th", T(loc, "browser.labels"))
	m.Elem("th", "")
	m.Close("tr")
	m.Close("thead")
	m.Open("tbody")
	for _, unit := range view.Units {
		m.Open("tr")
		m.Open("td")
		m.Void("input", "type", "checkbox", "name", routepath.UnitIDsKey, "value", unit.ID, "form", "assign-labels", "aria-label", unit.Name)
		m.Close("td")
		m.Elem("td", unit.Name)
		m.Elem("td", string(unit.Type))
		m.Open("td")
		for i, label := range unit.Labels {
			if i > 0 {
				m.Text(", ")
			}
			m.Text(label.Name)
		}
		m.Close("td")
		m.Open("td")
		if view.CanAdd {
			m.Open("form", "method", "post", "action", routepath.AddExistingUnit(unit.ID), "class", "add-existing")
			m.Elem("button", T(loc, "browser.add"), "type", "submit", "name", routepath.ActionKey, "value", routepath.ActionAdd)
			m.Elem("button", T(loc, "browser.use_as_template"), "type", "submit", "name", routepath.ActionKey, "value", routepath.ActionUseAsTemplate)
			m.Close("form")
		}
		m.Close("td")
		m.Close("tr")
	}
	m.Close("tbody")
	m.Close("table")

	m.Open("form", "method", "post", "action", routepath.AssignLabels, "id", "assign-labels")
	m.Elem("label", T(loc, "browser.label_name"), "for", routepath.LabelNameKey)
	m.Void("input", "type", "text", "id", routepath.LabelNameKey, "name", routepath.LabelNameKey, "required", "")
	m.Elem("button", T(loc, "browser.assign"), "type", "submit")
	m.Close("form")
	m.Close("section")
}

func writeLabelChoices(m *shared.Markup, legend, key string, labels []domain.Label, selected []string) {
	if len(labels) == 0 {
		return
	}
	m.Open("fieldset")
	m.Elem("legend", legend)
	for _, label := range labels {
		checkedName, checkedValue := shared.If(slices.Contains(selected, label.ID), "checked", "")
		m.Open("label", "class", "option")
		m.Void("input", "type", "checkbox", "name", key, "value", label.ID, checkedName, checkedValue)
		m.Text(" " + label.Name)
		m.Close("label")
	}
	m.Close("fieldset")
}
