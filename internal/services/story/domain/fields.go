package domain

import (
	"encoding/json"
	"fmt"

	"github.com/louisbranch/talevortex/internal/services/story/unitschema"
)

// Fields maps a declared field name to its value.
type Fields map[string]Value

// DefaultFields returns every declared field of t at its default.
func DefaultFields(t unitschema.Type) (Fields, error) {
	decls, err := unitschema.FieldsFor(t)
	if err != nil {
		return nil, err
	}
	out := make(Fields, len(decls))
	for _, decl := range decls {
		out[decl.Name] = DefaultValue(decl.Kind)
	}
	return out, nil
}

// NormalizeFields returns a field set holding exactly t's declared fields.
// Undeclared names are dropped; missing or wrongly-kinded values take the
// declared default.
func NormalizeFields(t unitschema.Type, in Fields) (Fields, error) {
	decls, err := unitschema.FieldsFor(t)
	if err != nil {
		return nil, err
	}
	out := make(Fields, len(decls))
	for _, decl := range decls {
		value, ok := in[decl.Name]
		if !ok || value.Kind != decl.Kind {
			value = DefaultValue(decl.Kind)
		}
		if value.Kind == unitschema.KindFloat {
			value.Float = ClampUnit(value.Float)
		}
		out[decl.Name] = value
	}
	return out, nil
}

// EncodeFields serializes fields as a JSON object keyed by field name.
func EncodeFields(fields Fields) ([]byte, error) {
	if fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(fields)
}

// DecodeFields parses a JSON object of field values for t, normalizing the
// result. Entries that do not decode as their declared kind fall back to the
// default instead of failing the whole unit.
func DecodeFields(t unitschema.Type, data []byte) (Fields, error) {
	raw := map[string]json.RawMessage{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode fields: %w", err)
		}
	}
	decls, err := unitschema.FieldsFor(t)
	if err != nil {
		return nil, err
	}
	out := make(Fields, len(decls))
	for _, decl := range decls {
		value := DefaultValue(decl.Kind)
		if encoded, ok := raw[decl.Name]; ok {
			if decoded, err := DecodeValue(decl.Kind, encoded); err == nil {
				value = decoded
			}
		}
		out[decl.Name] = value
	}
	return out, nil
}
