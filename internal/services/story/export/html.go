package export

import (
	"github.com/a-h/templ"

	sharedtemplates "github.com/louisbranch/talevortex/internal/services/shared/templates"
	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/unitschema"
)

const htmlStyle = `body{font-family:Georgia,serif;max-width:48rem;margin:2rem auto;padding:0 1rem;color:#222}
h1{margin-bottom:.25rem}section.unit{border-top:1px solid #ddd;padding:.5rem 0}
dt{font-weight:bold;margin-top:.5rem}dd{margin-left:1rem}.undefined{color:#a33;font-style:italic}`

// HTML renders agg as a standalone HTML document.
func HTML(agg domain.Aggregate) templ.Component {
	return sharedtemplates.Component(func(m *sharedtemplates.Markup) {
		m.Raw("<!DOCTYPE html>")
		m.Open("html", "lang", "en")
		m.Open("head")
		m.Void("meta", "charset", "utf-8")
		m.Elem("title", agg.Story.Name)
		m.Open("style")
		m.Raw(htmlStyle)
		m.Close("style")
		m.Close("head")
		m.Open("body")
		m.Render(StoryBody(agg))
		m.Close("body")
		m.Close("html")
	})
}

// StoryBody renders the story heading, setting, challenge and units grouped
// by type. It is shared by the export document and the in-app story view.
func StoryBody(agg domain.Aggregate) templ.Component {
	return sharedtemplates.Component(func(m *sharedtemplates.Markup) {
		m.Open("article", "class", "story")
		m.Elem("h1", agg.Story.Name)
		m.Elem("h2", "Setting and Style")
		m.Elem("p", agg.Story.Setting)
		m.Elem("h2", "Main Challenge")
		m.Elem("p", agg.Story.Challenge)
		for _, group := range agg.UnitsByType() {
			m.Open("section", "class", "unit-type")
			m.Elem("h2", string(group.Type))
			for _, unit := range group.Units {
				writeUnit(m, agg, unit)
			}
			m.Close("section")
		}
		m.Close("article")
	})
}

func writeUnit(m *sharedtemplates.Markup, agg domain.Aggregate, unit domain.Unit) {
	m.Open("section", "class", "unit")
	m.Elem("h3", unit.Name)
	m.Open("dl")
	for _, field := range domain.OrderedFields(unit) {
		m.Elem("dt", field.Name)
		m.Open("dd")
		if field.Value.Kind == unitschema.KindList {
			writeRefs(m, agg, field.Value.List)
		} else {
			m.Text(field.Value.String(nil))
		}
		m.Close("dd")
	}
	m.Close("dl")
	m.Close("section")
}

func writeRefs(m *sharedtemplates.Markup, agg domain.Aggregate, refs []string) {
	for i, ref := range refs {
		if i > 0 {
			m.Text(", ")
		}
		if target, ok := agg.Lookup(ref); ok {
			m.Text(target.Name)
			continue
		}
		m.Elem("span", agg.ResolveRef(ref), "class", "undefined")
	}
}
