// Package fieldfill asks a language model to propose field values for a unit
// and coerces the answer into the unit's declared schema.
package fieldfill

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/talevortex/internal/platform/errors"
	"github.com/louisbranch/talevortex/internal/platform/textgen"
	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/unitform"
	"github.com/louisbranch/talevortex/internal/services/story/unitschema"
)

// ErrMalformedResponse is returned when the model answer is not a JSON object.
var ErrMalformedResponse = errors.New("model response is not a JSON object")

const systemPrompt = "You are an assistant that helps fill out feature values for units in a story based on a description."

// Request describes the unit to fill.
type Request struct {
	Aggregate   domain.Aggregate
	UnitType    unitschema.Type
	Description string
	// Name is the unit name typed so far; it stands in for an empty
	// description.
	Name string
}

// Suggestion is a coerced model answer. Fields holds the full declared set;
// only Keys were actually supplied by the model.
type Suggestion struct {
	Name   string
	Fields domain.Fields
	Keys   []string
}

// Filler turns descriptions into field suggestions.
type Filler struct {
	gen textgen.Generator
}

// New builds a Filler backed by gen.
func New(gen textgen.Generator) *Filler {
	if gen == nil {
		gen = textgen.Disabled{}
	}
	return &Filler{gen: gen}
}

// Suggest asks the model for field values and coerces the answer.
func (f *Filler) Suggest(ctx context.Context, req Request) (Suggestion, error) {
	prompt, err := BuildPrompt(req)
	if err != nil {
		return Suggestion{}, err
	}
	raw, err := f.gen.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, textgen.ErrDisabled) {
			return Suggestion{}, apperrors.Wrap(apperrors.CodeTextGenerationDisabled, "field fill disabled", err)
		}
		return Suggestion{}, apperrors.Wrap(apperrors.CodeTextGenerationFailed, "field fill request failed", err)
	}
	suggestion, err := ParseResponse(req.UnitType, raw)
	if err != nil {
		return Suggestion{}, apperrors.Wrap(apperrors.CodeTextGenerationFailed, "field fill response unusable", err)
	}
	return suggestion, nil
}

// BuildPrompt renders the story context and target schema into a prompt.
func BuildPrompt(req Request) (textgen.Prompt, error) {
	decls, err := unitschema.FieldsFor(req.UnitType)
	if err != nil {
		return textgen.Prompt{}, err
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = strings.TrimSpace(req.Name)
	}
	if description == "" {
		description = fmt.Sprintf("The %s should fit well within the story.", req.UnitType)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on the following story information and the description, please provide values for the features of the unit type '%s' in JSON format.\n", req.UnitType)
	b.WriteString("A Unit is an element of the story.\n\n")
	fmt.Fprintf(&b, "Story Setting and Style:\n%s\n\n", req.Aggregate.Story.Setting)
	fmt.Fprintf(&b, "Main Challenge:\n%s\n\n", req.Aggregate.Story.Challenge)
	b.WriteString("All already existing units of the story:\n")
	b.WriteString(req.Aggregate.Outline())
	fmt.Fprintf(&b, "\nDescription of the %s to create:\n%s\n\n", req.UnitType, description)
	b.WriteString("Please provide a JSON object with the following keys and appropriate values:\n\n")
	b.WriteString("Features:\n")
	b.WriteString("- 'name' (str)\n")
	for _, decl := range decls {
		fmt.Fprintf(&b, "- '%s' (%s)\n", decl.Name, decl.Kind)
	}
	b.WriteString(`
Example response:
{
    "name": "Name of the unit",
    "feature1": "value1",
    "feature2": true,
    "feature3": 0.5,
    "feature4": ["item1", "item2"],
    "feature5": "Some description"
}

Please ensure the response is valid JSON, starting with the first opening bracket "{" and ending with the last closing bracket "}".
Do not include any text outside of the JSON object.

You should make sure that the feature values are appropriate and consistent with the story and existing units.
If a feature expects a list of names of existing units, please select appropriate ones from the existing units.
If necessary, you may introduce new names, but prefer existing ones.
`)
	return textgen.Prompt{System: systemPrompt, User: b.String()}, nil
}

// ParseResponse decodes a model answer for unit type t. Markdown code fences
// and text around the outermost braces are ignored. Keys that are not
// declared fields are dropped, as are values that cannot be coerced.
func ParseResponse(t unitschema.Type, raw string) (Suggestion, error) {
	decls, err := unitschema.FieldsFor(t)
	if err != nil {
		return Suggestion{}, err
	}
	body := extractObject(raw)
	if body == "" {
		return Suggestion{}, ErrMalformedResponse
	}
	var answer map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &answer); err != nil {
		return Suggestion{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	form := url.Values{}
	var keys []string
	if name, ok := scalarString(answer[unitform.NameKey]); ok {
		form.Set(unitform.NameKey, name)
	}
	for _, decl := range decls {
		rawValue, ok := answer[decl.Name]
		if !ok {
			continue
		}
		if addFormValue(form, decl, rawValue) {
			keys = append(keys, decl.Name)
		}
	}

	sub, fieldErrs, err := unitform.Parse(t, form)
	if err != nil {
		return Suggestion{}, err
	}
	if len(fieldErrs) > 0 {
		rejected := make(map[string]struct{}, len(fieldErrs))
		for _, fe := range fieldErrs {
			rejected[fe.Field] = struct{}{}
		}
		kept := keys[:0]
		for _, key := range keys {
			if _, bad := rejected[key]; !bad {
				kept = append(kept, key)
			}
		}
		keys = kept
	}
	return Suggestion{Name: sub.Name, Fields: sub.Fields, Keys: keys}, nil
}

func extractObject(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if newline := strings.IndexByte(text, '\n'); newline >= 0 {
			text = text[newline+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// addFormValue writes a decoded JSON value into form the way a browser would
// post it, and reports whether the field was usable.
func addFormValue(form url.Values, decl unitschema.Field, raw json.RawMessage) bool {
	switch decl.Kind {
	case unitschema.KindBool:
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			if b {
				form.Set(decl.Name, "on")
			}
			return true
		}
		if s, ok := scalarString(raw); ok {
			if unitform.IsTruthy(s) {
				form.Set(decl.Name, "on")
			}
			return true
		}
		return false
	case unitschema.KindList:
		var items []any
		if err := json.Unmarshal(raw, &items); err == nil {
			for _, item := range items {
				if s := anyString(item); s != "" {
					form.Add(decl.Name, s)
				}
			}
			return true
		}
		if s, ok := scalarString(raw); ok {
			form.Set(decl.Name+unitform.NewEntrySuffix, s)
			return true
		}
		return false
	default:
		s, ok := scalarString(raw)
		if ok {
			form.Set(decl.Name, s)
		}
		return ok
	}
}

// scalarString renders a JSON string, number or boolean as text.
func scalarString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	switch v.(type) {
	case string, float64, bool:
		return anyString(v), true
	default:
		return "", false
	}
}

func anyString(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}
