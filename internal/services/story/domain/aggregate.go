package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/louisbranch/talevortex/internal/services/story/unitschema"
)

// Aggregate is a story together with its units, the unit of rendering and
// export.
type Aggregate struct {
	Story Story
	Units []Unit
}

// Lookup finds a unit by case-insensitive name.
func (a Aggregate) Lookup(name string) (Unit, bool) {
	key := NameKey(name)
	for _, unit := range a.Units {
		if NameKey(unit.Name) == key {
			return unit, true
		}
	}
	return Unit{}, false
}

// ResolveRef renders a reference to another unit. References that no longer
// resolve are kept and marked undefined.
func (a Aggregate) ResolveRef(name string) string {
	if unit, ok := a.Lookup(name); ok {
		return unit.Name
	}
	return name + UndefinedSuffix
}

// UnitNames returns the names of every unit in creation order.
func (a Aggregate) UnitNames() []string {
	names := make([]string, 0, len(a.Units))
	for _, unit := range a.Units {
		names = append(names, unit.Name)
	}
	return names
}

// UnitsByType groups units by type, keeping registry type order.
func (a Aggregate) UnitsByType() []TypeGroup {
	grouped := map[unitschema.Type][]Unit{}
	for _, unit := range a.Units {
		grouped[unit.Type] = append(grouped[unit.Type], unit)
	}
	groups := make([]TypeGroup, 0, len(grouped))
	for _, t := range unitschema.Types() {
		if units := grouped[t]; len(units) > 0 {
			groups = append(groups, TypeGroup{Type: t, Units: units})
		}
	}
	return groups
}

// Outline lists every unit as a "Type: Name" line followed by one indented
// "field: value" line per declared field and a blank separator line.
func (a Aggregate) Outline() string {
	var b strings.Builder
	for _, unit := range a.Units {
		fmt.Fprintf(&b, "%s: %s\n", unit.Type, unit.Name)
		for _, field := range OrderedFields(unit) {
			fmt.Fprintf(&b, "  %s: %s\n", field.Name, field.Value.String(a.ResolveRef))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// TypeGroup is the set of units of a single type.
type TypeGroup struct {
	Type  unitschema.Type
	Units []Unit
}

// DanglingReferences lists list-field entries that name no unit in the story,
// sorted and deduplicated.
func (a Aggregate) DanglingReferences() []string {
	seen := map[string]string{}
	for _, unit := range a.Units {
		for _, value := range unit.Fields {
			if value.Kind != unitschema.KindList {
				continue
			}
			for _, ref := range value.List {
				if _, ok := a.Lookup(ref); ok {
					continue
				}
				key := NameKey(ref)
				if _, dup := seen[key]; !dup {
					seen[key] = ref
				}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for _, name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// OrderedFields pairs the unit's values with the declaration order of its
// type.
func OrderedFields(unit Unit) []NamedValue {
	decls, err := unitschema.FieldsFor(unit.Type)
	if err != nil {
		return nil
	}
	out := make([]NamedValue, 0, len(decls))
	for _, decl := range decls {
		value, ok := unit.Fields[decl.Name]
		if !ok {
			value = DefaultValue(decl.Kind)
		}
		out = append(out, NamedValue{Name: decl.Name, Value: value})
	}
	return out
}

// NamedValue is a field value with its declared name.
type NamedValue struct {
	Name  string
	Value Value
}

// RenameReferences rewrites list entries naming oldName to newName across
// units and returns the units that changed.
func RenameReferences(units []Unit, oldName, newName string) []Unit {
	oldKey := NameKey(oldName)
	if oldKey == "" || oldName == newName {
		return nil
	}
	var changed []Unit
	for _, unit := range units {
		touched := false
		fields := make(Fields, len(unit.Fields))
		for name, value := range unit.Fields {
			if value.Kind == unitschema.KindList {
				list := make([]string, len(value.List))
				for i, ref := range value.List {
					if NameKey(ref) == oldKey {
						ref = newName
						touched = true
					}
					list[i] = ref
				}
				value = ListValue(list...)
			}
			fields[name] = value
		}
		if touched {
			unit.Fields = fields
			changed = append(changed, unit)
		}
	}
	return changed
}
