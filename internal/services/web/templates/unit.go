package templates

import (
	"github.com/a-h/templ"

	shared "github.com/louisbranch/talevortex/internal/services/shared/templates"
	"github.com/louisbranch/talevortex/internal/services/story/unitform"
	"github.com/louisbranch/talevortex/internal/services/story/unitschema"
	"github.com/louisbranch/talevortex/internal/services/web/routepath"
)

// UnitFormView is the state of the add and edit unit forms.
type UnitFormView struct {
	StoryID   string
	StoryName string
	Type      unitschema.Type
	// OriginalName is empty when adding a unit.
	OriginalName string
	Name         string
	Description  string
	Fields       []unitform.FieldView
	FillEnabled  bool
	Notice       string
	Error        string
	FieldErrors  map[string]string
}

// Action returns the route the form posts to.
func (v UnitFormView) Action() string {
	if v.OriginalName != "" {
		return routepath.EditUnit(v.StoryID, v.OriginalName)
	}
	return routepath.AddUnit(v.StoryID, string(v.Type))
}

// UnitFormPage renders the unit form with one input per declared field.
func UnitFormPage(view UnitFormView, loc Localizer) templ.Component {
	return shared.Component(func(m *shared.Markup) {
		m.Open("section", "class", "unit-form")
		if view.OriginalName != "" {
			m.Elem("h1", T(loc, "unit.edit_heading", string(view.Type), view.OriginalName))
		} else {
			m.Elem("h1", T(loc, "unit.add_heading", string(view.Type)))
		}
		if view.Notice != "" {
			m.Elem("p", view.Notice, "class", "form-notice", "role", "status")
		}
		if view.Error != "" {
			m.Elem("p", view.Error, "class", "form-error", "role", "alert")
		}

		m.Open("form", "method", "post", "action", view.Action())
		m.Elem("label", T(loc, "unit.name"), "for", unitform.NameKey)
		m.Void("input", "type", "text", "id", unitform.NameKey, "name", unitform.NameKey, "maxlength", "120", "value", view.Name)
		writeFieldError(m, view.FieldErrors[unitform.NameKey])

		for _, field := range view.Fields {
			writeField(m, field)
			writeFieldError(m, view.FieldErrors[field.Field.Name])
		}

		if view.FillEnabled {
			m.Open("fieldset", "class", "fill-features")
			m.Elem("legend", T(loc, "unit.fill_legend"))
			m.Elem("label", T(loc, "unit.description"), "for", routepath.DescriptionKey)
			m.Elem("textarea", view.Description, "id", routepath.DescriptionKey, "name", routepath.DescriptionKey, "rows", "3")
			m.Elem("button", T(loc, "unit.fill_submit"), "type", "submit", "name", routepath.ActionKey, "value", routepath.ActionFillFeatures)
			m.Close("fieldset")
		}

		m.Elem("button", T(loc, "unit.save_submit"), "type", "submit", "name", routepath.ActionKey, "value", routepath.ActionSaveUnit)
		m.Close("form")
		m.Open("p")
		m.Elem("a", T(loc, "unit.cancel"), "href", routepath.Root)
		m.Close("p")
		m.Close("section")
	})
}

func writeField(m *shared.Markup, view unitform.FieldView) {
	name := view.Field.Name
	switch view.Field.Kind {
	case unitschema.KindBool:
		checkedName, checkedValue := shared.If(view.Value.Bool, "checked", "")
		m.Open("label", "class", "option")
		m.Void("input", "type", "checkbox", "name", name, "value", "on", checkedName, checkedValue)
		m.Text(" " + name)
		m.Close("label")
	case unitschema.KindFloat:
		m.Elem("label", name, "for", name)
		m.Void("input", "type", "range", "id", name, "name", name, "min", "0", "max", "1", "step", ".01", "value", view.FloatString())
	case unitschema.KindStr:
		m.Elem("label", name, "for", name)
		m.Elem("textarea", view.Value.Text, "id", name, "name", name, "rows", "3")
	case unitschema.KindList:
		m.Open("fieldset", "class", "list-field")
		m.Elem("legend", name)
		for _, option := range view.Options {
			checkedName, checkedValue := shared.If(option.Selected, "checked", "")
			class := "option"
			if option.Undefined {
				class = "option undefined"
			}
			m.Open("label", "class", class)
			m.Void("input", "type", "checkbox", "name", name, "value", option.Value, checkedName, checkedValue)
			m.Text(" " + option.Value)
			m.Close("label")
		}
		if len(view.Field.Options) == 0 {
			m.Void("input", "type", "text", "name", view.NewEntryKey(), "aria-label", name)
		}
		m.Close("fieldset")
	}
}

func writeFieldError(m *shared.Markup, msg string) {
	if msg == "" {
		return
	}
	m.Elem("p", msg, "class", "field-error")
}
