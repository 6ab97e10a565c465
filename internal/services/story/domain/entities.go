// Package domain holds the story, unit, label and user entities and the rules
// that keep their fields consistent with the unit schema registry.
package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/louisbranch/talevortex/internal/platform/errors"
	"github.com/louisbranch/talevortex/internal/services/story/unitschema"
)

// MaxNameLength bounds story, unit, label and display names in runes.
const MaxNameLength = 120

// UndefinedSuffix marks a reference whose target unit does not exist.
const UndefinedSuffix = " (undefined)"

// User is an account created by the first successful magic-link login.
type User struct {
	Email       string
	DisplayName string
	CreatedAt   time.Time
}

// Story is the top-level container owning units.
type Story struct {
	ID             string
	OwnerEmail     string
	Name           string
	Setting        string
	Challenge      string
	UndefinedNames []string
	CreatedAt      time.Time
}

// Label tags units for filtering in the unit browser.
type Label struct {
	ID   string
	Name string
}

// Unit is a typed entity belonging to a story.
type Unit struct {
	ID        string
	StoryID   string
	Type      unitschema.Type
	Name      string
	Fields    Fields
	Labels    []Label
	CreatedAt time.Time
}

// HasLabel reports whether the unit carries the label with labelID.
func (u Unit) HasLabel(labelID string) bool {
	for _, label := range u.Labels {
		if label.ID == labelID {
			return true
		}
	}
	return false
}

// NameKey is the case-insensitive uniqueness key for names.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeStoryName trims and validates a story name.
func NormalizeStoryName(raw string) (string, error) {
	return normalizeName(raw, apperrors.CodeStoryNameEmpty, apperrors.CodeStoryNameTooLong, "story")
}

// NormalizeUnitName trims and validates a unit name.
func NormalizeUnitName(raw string) (string, error) {
	return normalizeName(raw, apperrors.CodeUnitNameEmpty, apperrors.CodeUnitNameTooLong, "unit")
}

// NormalizeLabelName trims and validates a label name.
func NormalizeLabelName(raw string) (string, error) {
	return normalizeName(raw, apperrors.CodeLabelNameEmpty, apperrors.CodeLabelNameTooLong, "label")
}

// NormalizeDisplayName trims and validates a display name.
func NormalizeDisplayName(raw string) (string, error) {
	return normalizeName(raw, apperrors.CodeUserDisplayNameEmpty, apperrors.CodeUserDisplayNameTooLong, "display")
}

func normalizeName(raw string, emptyCode, longCode apperrors.Code, entity string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", apperrors.New(emptyCode, entity+" name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", apperrors.New(longCode, entity+" name is too long")
	}
	return name, nil
}
