// Package export renders a story aggregate as JSON, HTML, PDF or generated
// prose, and reads exported JSON back for import.
package export

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/talevortex/internal/platform/errors"
	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/unitschema"
)

// Document is the JSON export of a story.
type Document struct {
	Name      string         `json:"name"`
	Setting   string         `json:"setting"`
	Challenge string         `json:"challenge"`
	Units     []DocumentUnit `json:"units"`
}

// DocumentUnit is one exported unit.
type DocumentUnit struct {
	Type   unitschema.Type `json:"type"`
	Name   string          `json:"name"`
	Fields domain.Fields   `json:"fields"`
}

// NewDocument builds the export document for agg.
func NewDocument(agg domain.Aggregate) Document {
	doc := Document{
		Name:      agg.Story.Name,
		Setting:   agg.Story.Setting,
		Challenge: agg.Story.Challenge,
		Units:     make([]DocumentUnit, 0, len(agg.Units)),
	}
	for _, unit := range agg.Units {
		fields := unit.Fields
		if fields == nil {
			fields = domain.Fields{}
		}
		doc.Units = append(doc.Units, DocumentUnit{Type: unit.Type, Name: unit.Name, Fields: fields})
	}
	return doc
}

// JSON encodes agg as an indented export document.
func JSON(agg domain.Aggregate) ([]byte, error) {
	data, err := json.MarshalIndent(NewDocument(agg), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode story export: %w", err)
	}
	return data, nil
}

type rawDocument struct {
	Name      string            `json:"name"`
	Setting   string            `json:"setting"`
	Challenge string            `json:"challenge"`
	Units     []rawDocumentUnit `json:"units"`
}

type rawDocumentUnit struct {
	Type   string          `json:"type"`
	Name   string          `json:"name"`
	Fields json.RawMessage `json:"fields"`
}

// DecodeJSON reads an export document. Unit fields are coerced to the
// declared schema; unknown types, missing names and duplicate unit names are
// rejected.
func DecodeJSON(data []byte) (Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, apperrors.Wrap(apperrors.CodeImportMalformed, "story export is not valid JSON", err)
	}
	name, err := domain.NormalizeStoryName(raw.Name)
	if err != nil {
		return Document{}, err
	}
	doc := Document{
		Name:      name,
		Setting:   strings.TrimSpace(raw.Setting),
		Challenge: strings.TrimSpace(raw.Challenge),
		Units:     make([]DocumentUnit, 0, len(raw.Units)),
	}
	seen := make(map[string]struct{}, len(raw.Units))
	for i, rawUnit := range raw.Units {
		t, err := unitschema.ParseType(rawUnit.Type)
		if err != nil {
			return Document{}, apperrors.WithMetadata(apperrors.CodeImportMalformed,
				fmt.Sprintf("unit %d has unknown type %q", i, rawUnit.Type),
				map[string]string{"Index": fmt.Sprint(i), "Type": rawUnit.Type})
		}
		unitName, err := domain.NormalizeUnitName(rawUnit.Name)
		if err != nil {
			return Document{}, err
		}
		key := domain.NameKey(unitName)
		if _, dup := seen[key]; dup {
			return Document{}, apperrors.WithMetadata(apperrors.CodeUnitNameTaken,
				fmt.Sprintf("unit name %q repeats", unitName),
				map[string]string{"Name": unitName})
		}
		seen[key] = struct{}{}

		fieldData := []byte(rawUnit.Fields)
		if len(fieldData) == 0 || string(fieldData) == "null" {
			fieldData = []byte("{}")
		}
		fields, err := domain.DecodeFields(t, fieldData)
		if err != nil {
			return Document{}, apperrors.Wrap(apperrors.CodeImportMalformed, fmt.Sprintf("unit %q fields", unitName), err)
		}
		doc.Units = append(doc.Units, DocumentUnit{Type: t, Name: unitName, Fields: fields})
	}
	return doc, nil
}
