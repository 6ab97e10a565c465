package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/louisbranch/talevortex/internal/services/story/unitschema"
)

// Value is a single field value. Kind selects which of the payload fields is
// meaningful; the others stay zero.
type Value struct {
	Kind  unitschema.Kind
	Bool  bool
	Float float64
	Text  string
	List  []string
}

// BoolValue wraps a boolean field value.
func BoolValue(v bool) Value { return Value{Kind: unitschema.KindBool, Bool: v} }

// FloatValue wraps a float field value, clamped to [0,1].
func FloatValue(v float64) Value { return Value{Kind: unitschema.KindFloat, Float: ClampUnit(v)} }

// TextValue wraps a free-text field value.
func TextValue(v string) Value { return Value{Kind: unitschema.KindStr, Text: v} }

// ListValue wraps a list field value. Blank entries and duplicates are dropped
// while preserving first-seen order.
func ListValue(values ...string) Value {
	return Value{Kind: unitschema.KindList, List: DedupeNames(values)}
}

// DefaultValue returns the declared default for kind.
func DefaultValue(kind unitschema.Kind) Value {
	switch kind {
	case unitschema.KindBool:
		return BoolValue(false)
	case unitschema.KindFloat:
		return FloatValue(unitschema.DefaultFloat)
	case unitschema.KindList:
		return ListValue()
	default:
		return TextValue("")
	}
}

// ClampUnit bounds v to [0,1].
func ClampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return unitschema.DefaultFloat
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// DedupeNames trims entries and drops blanks and case-insensitive duplicates.
func DedupeNames(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		key := strings.ToLower(value)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, value)
	}
	return out
}

// Equal reports whether two values hold the same kind and payload.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case unitschema.KindBool:
		return v.Bool == other.Bool
	case unitschema.KindFloat:
		return v.Float == other.Float
	case unitschema.KindList:
		if len(v.List) != len(other.List) {
			return false
		}
		for i := range v.List {
			if v.List[i] != other.List[i] {
				return false
			}
		}
		return true
	default:
		return v.Text == other.Text
	}
}

// String renders the value for plain-text output. List entries are passed
// through resolve, which may mark dangling references.
func (v Value) String(resolve func(string) string) string {
	switch v.Kind {
	case unitschema.KindBool:
		if v.Bool {
			return "Yes"
		}
		return "No"
	case unitschema.KindFloat:
		return strconv.FormatFloat(v.Float, 'f', 2, 64)
	case unitschema.KindList:
		parts := make([]string, 0, len(v.List))
		for _, item := range v.List {
			if resolve != nil {
				item = resolve(item)
			}
			parts = append(parts, item)
		}
		return strings.Join(parts, ", ")
	default:
		return v.Text
	}
}

// MarshalJSON encodes the payload for the value's kind as a bare JSON value.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case unitschema.KindBool:
		return json.Marshal(v.Bool)
	case unitschema.KindFloat:
		return json.Marshal(v.Float)
	case unitschema.KindList:
		list := v.List
		if list == nil {
			list = []string{}
		}
		return json.Marshal(list)
	case unitschema.KindStr:
		return json.Marshal(v.Text)
	default:
		return nil, fmt.Errorf("marshal value: unknown kind %q", v.Kind)
	}
}

// DecodeValue decodes a bare JSON value as kind.
func DecodeValue(kind unitschema.Kind, raw json.RawMessage) (Value, error) {
	switch kind {
	case unitschema.KindBool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return Value{}, fmt.Errorf("decode bool: %w", err)
		}
		return BoolValue(b), nil
	case unitschema.KindFloat:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return Value{}, fmt.Errorf("decode float: %w", err)
		}
		return FloatValue(f), nil
	case unitschema.KindList:
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return Value{}, fmt.Errorf("decode list: %w", err)
		}
		return ListValue(list...), nil
	case unitschema.KindStr:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, fmt.Errorf("decode text: %w", err)
		}
		return TextValue(s), nil
	default:
		return Value{}, fmt.Errorf("decode value: unknown kind %q", kind)
	}
}
