// Package unitform maps unit fields to HTML form values and back.
//
// Rendering starts from a value source (defaults, a stored unit, or merged AI
// suggestions) and produces one view per declared field. Parsing accepts the
// posted url.Values and yields a field set that always matches the registry
// declaration for the unit type.
package unitform

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/unitschema"
)

// NameKey is the form key carrying the unit name.
const NameKey = "name"

// NewEntrySuffix is appended to a list field's key for its free-text input.
const NewEntrySuffix = "_new"

var truthyTokens = map[string]struct{}{
	"on":      {},
	"true":    {},
	"1":       {},
	"yes":     {},
	"y":       {},
	"t":       {},
	"checked": {},
}

// Option is one selectable entry of a list field.
type Option struct {
	Value     string
	Selected  bool
	Undefined bool
}

// FieldView is a declared field paired with the value to display.
type FieldView struct {
	Field   unitschema.Field
	Value   domain.Value
	Options []Option
}

// NewEntryKey is the form key of the field's free-text list entry.
func (v FieldView) NewEntryKey() string {
	return v.Field.Name + NewEntrySuffix
}

// FloatString formats a float field for a range input.
func (v FieldView) FloatString() string {
	return strconv.FormatFloat(v.Value.Float, 'f', 2, 64)
}

// Choices lists the candidate values offered to list fields.
type Choices struct {
	// UnitNames are the names of units in the current story.
	UnitNames []string
	// UndefinedNames are referenced names with no matching unit.
	UndefinedNames []string
}

// Build returns one view per declared field of t. A nil values map renders
// declared defaults.
func Build(t unitschema.Type, values domain.Fields, choices Choices) ([]FieldView, error) {
	decls, err := unitschema.FieldsFor(t)
	if err != nil {
		return nil, err
	}
	normalized, err := domain.NormalizeFields(t, values)
	if err != nil {
		return nil, err
	}
	views := make([]FieldView, 0, len(decls))
	for _, decl := range decls {
		view := FieldView{Field: decl, Value: normalized[decl.Name]}
		if decl.Kind == unitschema.KindList {
			view.Options = listOptions(decl, view.Value.List, choices)
		}
		views = append(views, view)
	}
	return views, nil
}

func listOptions(decl unitschema.Field, selected []string, choices Choices) []Option {
	selectedKeys := make(map[string]struct{}, len(selected))
	for _, value := range selected {
		selectedKeys[domain.NameKey(value)] = struct{}{}
	}
	seen := map[string]struct{}{}
	var options []Option
	add := func(value string, undefined bool) {
		value = strings.TrimSpace(value)
		key := domain.NameKey(value)
		if key == "" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		_, isSelected := selectedKeys[key]
		options = append(options, Option{Value: value, Selected: isSelected, Undefined: undefined})
	}

	if len(decl.Options) > 0 {
		for _, value := range decl.Options {
			add(value, false)
		}
		return options
	}

	names := append([]string(nil), choices.UnitNames...)
	sort.SliceStable(names, func(i, j int) bool { return domain.NameKey(names[i]) < domain.NameKey(names[j]) })
	for _, name := range names {
		add(name, false)
	}
	for _, name := range choices.UndefinedNames {
		add(name, true)
	}
	// Selected values outside the known set still need to render as checked.
	for _, value := range selected {
		add(value, true)
	}
	return options
}

// Submission is a parsed unit form.
type Submission struct {
	Name   string
	Fields domain.Fields
}

// FieldError reports a posted value that could not be used as given.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Parse converts posted values into a submission for t. Keys that are not
// declared fields are ignored. Values that cannot be parsed fall back to the
// declared default and are reported as field errors.
func Parse(t unitschema.Type, form url.Values) (Submission, []FieldError, error) {
	decls, err := unitschema.FieldsFor(t)
	if err != nil {
		return Submission{}, nil, err
	}
	sub := Submission{
		Name:   strings.TrimSpace(form.Get(NameKey)),
		Fields: make(domain.Fields, len(decls)),
	}
	var fieldErrs []FieldError
	for _, decl := range decls {
		value, fieldErr := parseField(decl, form)
		if fieldErr != nil {
			fieldErrs = append(fieldErrs, *fieldErr)
		}
		sub.Fields[decl.Name] = value
	}
	return sub, fieldErrs, nil
}

func parseField(decl unitschema.Field, form url.Values) (domain.Value, *FieldError) {
	switch decl.Kind {
	case unitschema.KindBool:
		return domain.BoolValue(IsTruthy(form.Get(decl.Name))), nil
	case unitschema.KindFloat:
		raw := strings.TrimSpace(form.Get(decl.Name))
		if raw == "" {
			return domain.DefaultValue(decl.Kind), nil
		}
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.DefaultValue(decl.Kind), &FieldError{Field: decl.Name, Message: "must be a number between 0 and 1"}
		}
		return domain.FloatValue(parsed), nil
	case unitschema.KindList:
		values := append([]string(nil), form[decl.Name]...)
		values = append(values, SplitEntries(form.Get(decl.Name+NewEntrySuffix))...)
		if len(decl.Options) > 0 {
			values = restrictTo(values, decl.Options)
		}
		return domain.ListValue(values...), nil
	default:
		return domain.TextValue(strings.TrimSpace(form.Get(decl.Name))), nil
	}
}

// IsTruthy reports whether raw is one of the accepted checkbox tokens.
func IsTruthy(raw string) bool {
	_, ok := truthyTokens[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// SplitEntries splits a comma-separated free-text entry into trimmed names.
func SplitEntries(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func restrictTo(values []string, allowed []string) []string {
	keys := make(map[string]string, len(allowed))
	for _, option := range allowed {
		keys[domain.NameKey(option)] = option
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		if option, ok := keys[domain.NameKey(value)]; ok {
			out = append(out, option)
		}
	}
	return out
}

// ToValues renders a unit name and fields back into form values, the inverse
// of Parse.
func ToValues(name string, fields domain.Fields) url.Values {
	form := url.Values{}
	if name = strings.TrimSpace(name); name != "" {
		form.Set(NameKey, name)
	}
	for fieldName, value := range fields {
		switch value.Kind {
		case unitschema.KindBool:
			if value.Bool {
				form.Set(fieldName, "on")
			}
		case unitschema.KindFloat:
			form.Set(fieldName, strconv.FormatFloat(value.Float, 'f', -1, 64))
		case unitschema.KindList:
			for _, item := range value.List {
				form.Add(fieldName, item)
			}
		default:
			form.Set(fieldName, value.Text)
		}
	}
	return form
}

// Overlay replaces the base values of the named fields with those from
// overlay. Fields absent from keys keep their base value.
func Overlay(base, overlay domain.Fields, keys []string) domain.Fields {
	out := make(domain.Fields, len(base))
	for name, value := range base {
		out[name] = value
	}
	for _, key := range keys {
		if value, ok := overlay[key]; ok {
			if _, declared := base[key]; declared {
				out[key] = value
			}
		}
	}
	return out
}
