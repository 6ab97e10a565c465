// Package unitschema is the static registry of unit types and the fields each
// type declares.
package unitschema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownType is returned for unit types missing from the registry.
var ErrUnknownType = errors.New("unknown unit type")

// Kind is the value kind of a unit field.
type Kind string

const (
	KindBool  Kind = "bool"
	KindFloat Kind = "float"
	KindStr   Kind = "str"
	KindList  Kind = "list"
)

// DefaultFloat is the value a float field takes when nothing was supplied.
const DefaultFloat = 0.5

// Valid reports whether k is one of the four field kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindBool, KindFloat, KindStr, KindList:
		return true
	default:
		return false
	}
}

// Field declares a single question on a unit form. Options, when set, fixes
// the values a list field may hold; otherwise list options come from the
// story's units.
type Field struct {
	Name    string
	Kind    Kind
	Options []string
}

// Type names a unit type.
type Type string

const (
	TypeEventOrScene                 Type = "EventOrScene"
	TypeSecret                       Type = "Secret"
	TypeItem                         Type = "Item"
	TypeBeast                        Type = "Beast"
	TypeGrouping                     Type = "Grouping"
	TypeMotivation                   Type = "Motivation"
	TypePlace                        Type = "Place"
	TypeTransportationInfrastructure Type = "TransportationInfrastructure"
	TypeCharacter                    Type = "Character"
)

func list(name string) Field  { return Field{Name: name, Kind: KindList} }
func str(name string) Field   { return Field{Name: name, Kind: KindStr} }
func flag(name string) Field  { return Field{Name: name, Kind: KindBool} }
func float(name string) Field { return Field{Name: name, Kind: KindFloat} }

var order = []Type{
	TypeEventOrScene,
	TypeSecret,
	TypeItem,
	TypeBeast,
	TypeGrouping,
	TypeMotivation,
	TypePlace,
	TypeTransportationInfrastructure,
	TypeCharacter,
}

var registry = map[Type][]Field{
	TypeEventOrScene: {
		list("Which people are involved?"),
		list("Which groups are involved?"),
		list("Which beasts are involved?"),
		list("Which items are involved?"),
		list("Which secrets are involved?"),
		list("What motivations are involved?"),
		list("Where might this happen?"),
		flag("Is this an investigation scene?"),
		flag("Is this a social interaction?"),
		flag("Is this a fight scene?"),
		str("What happens?"),
		str("How do relationships change?"),
		str("What triggers this scene to happen?"),
		flag("Is this scene a start scene?"),
		list("If this scene is a start scene, who's start scene is it?"),
		float("How likely will this scene occur?"),
	},
	TypeSecret: {
		str("What is the secret?"),
		list("Who knows of it?"),
		list("Which people are involved?"),
		list("Which groups are involved?"),
		list("Which items are involved?"),
		float("Excitement level"),
	},
	TypeItem: {
		list("Who owns this?"),
		float("Worth"),
		str("What is it?"),
		list("Where is it?"),
	},
	TypeBeast: {
		str("Which race is this beast?"),
		list("Where could it be?"),
		str("What does it look like?"),
		float("Aggressiveness"),
	},
	TypeGrouping: {
		list("Who is part of the group?"),
		str("Reason for solidarity"),
		list("Where did the group first meet?"),
	},
	TypeMotivation: {
		list("Who is motivated?"),
		str("What is the motivation for?"),
		list("By whom is the motivation?"),
		flag("Is ambition the source of motivation?"),
		flag("Is determination the source of motivation?"),
		flag("Is reflection the source of motivation?"),
	},
	TypePlace: {
		str("Where is it?"),
		str("Environmental conditions"),
		list("Associated places"),
		list("People present"),
		list("Groups present"),
		list("Beasts present"),
		list("Items present"),
		list("Secrets can be found here"),
		float("Size (0.0 to 1.0)"),
		str("What does it look like?"),
		list("Special history"),
		str("Upcoming events at this place"),
		flag("Is it a space in nature?"),
		flag("Is it an urban space?"),
		flag("Is it a cave?"),
	},
	TypeTransportationInfrastructure: {
		list("Connecting places"),
		float("Usage frequency"),
		flag("For motor vehicles?"),
		flag("For non-motor vehicles?"),
		flag("For pedestrians?"),
		flag("Is it a street?"),
		flag("Is it a railway?"),
		flag("Is it a bridge?"),
	},
	TypeCharacter: {
		flag("Is this a player character?"),
		str("Skills or talents"),
		list("Involved events or scenes"),
		list("Groups part of"),
		list("Plans involving this character"),
		str("Character's backstory"),
		list("Important people for this character"),
		list("Important items for this character"),
	},
}

// Types returns every registered unit type in display order.
func Types() []Type {
	out := make([]Type, len(order))
	copy(out, order)
	return out
}

// ParseType resolves raw to a registered type. Matching is exact after
// trimming, since type names appear verbatim in URLs and exports.
func ParseType(raw string) (Type, error) {
	t := Type(strings.TrimSpace(raw))
	if _, ok := registry[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, raw)
	}
	return t, nil
}

// FieldsFor returns the ordered field declarations for t.
func FieldsFor(t Type) ([]Field, error) {
	fields, ok := registry[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, string(t))
	}
	out := make([]Field, len(fields))
	for i, field := range fields {
		out[i] = field
		out[i].Options = append([]string(nil), field.Options...)
	}
	return out, nil
}

// Lookup returns the declaration of the named field on t.
func Lookup(t Type, name string) (Field, bool) {
	for _, field := range registry[t] {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}
