package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/talevortex/internal/platform/errors"
	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/fieldfill"
	"github.com/louisbranch/talevortex/internal/services/story/storage"
	"github.com/louisbranch/talevortex/internal/services/story/unitschema"
)

// CopyLabel is attached to units copied from the unit browser.
const CopyLabel = "copy"

// UnitInput is a submitted unit form.
type UnitInput struct {
	Type   unitschema.Type
	Name   string
	Fields domain.Fields
}

// AddUnit creates a unit in an owned story.
func (s *Service) AddUnit(ctx context.Context, email, storyID string, in UnitInput) (domain.Unit, error) {
	story, err := s.Story(ctx, email, storyID)
	if err != nil {
		return domain.Unit{}, err
	}
	user, err := s.GetUser(ctx, email)
	if err != nil {
		return domain.Unit{}, err
	}
	unit, err := s.insertUnit(ctx, story, user, domain.Unit{Type: in.Type, Name: in.Name, Fields: in.Fields}, false)
	if err != nil {
		return domain.Unit{}, err
	}
	if err := s.refreshUndefinedNames(ctx, story.ID); err != nil {
		return domain.Unit{}, err
	}
	return unit, nil
}

// Unit loads a unit of an owned story by name.
func (s *Service) Unit(ctx context.Context, email, storyID, name string) (domain.Unit, error) {
	story, err := s.Story(ctx, email, storyID)
	if err != nil {
		return domain.Unit{}, err
	}
	return s.unitByName(ctx, story.ID, name)
}

func (s *Service) unitByName(ctx context.Context, storyID, name string) (domain.Unit, error) {
	unit, err := s.store.GetUnitByName(ctx, storyID, name)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Unit{}, apperrors.Wrap(apperrors.CodeNotFound, "unit not found", err)
	}
	if err != nil {
		return domain.Unit{}, fmt.Errorf("load unit: %w", err)
	}
	return unit, nil
}

// UpdateUnit saves a unit of an owned story. The unit type never changes. A
// rename rewrites list references to the old name in sibling units.
func (s *Service) UpdateUnit(ctx context.Context, email, storyID, currentName string, in UnitInput) (domain.Unit, error) {
	story, err := s.Story(ctx, email, storyID)
	if err != nil {
		return domain.Unit{}, err
	}
	unit, err := s.unitByName(ctx, story.ID, currentName)
	if err != nil {
		return domain.Unit{}, err
	}
	name, err := domain.NormalizeUnitName(in.Name)
	if err != nil {
		return domain.Unit{}, err
	}
	fields, err := domain.NormalizeFields(unit.Type, in.Fields)
	if err != nil {
		return domain.Unit{}, err
	}
	oldName := unit.Name
	unit.Name = name
	unit.Fields = fields
	err = s.store.UpdateUnit(ctx, unit)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return domain.Unit{}, apperrors.WithMetadata(apperrors.CodeUnitNameTaken, "unit name taken", map[string]string{"Name": name})
	}
	if err != nil {
		return domain.Unit{}, fmt.Errorf("update unit: %w", err)
	}

	if oldName != name {
		siblings, err := s.store.ListUnitsByStory(ctx, story.ID)
		if err != nil {
			return domain.Unit{}, fmt.Errorf("list units: %w", err)
		}
		for _, changed := range domain.RenameReferences(siblings, oldName, name) {
			if err := s.store.UpdateUnit(ctx, changed); err != nil {
				return domain.Unit{}, fmt.Errorf("rewrite references in %s: %w", changed.ID, err)
			}
		}
		s.log(ctx).Info("unit renamed",
			zap.String("story_id", story.ID),
			zap.String("unit_id", unit.ID),
			zap.String("old_name", oldName),
			zap.String("new_name", name),
		)
	}
	if err := s.refreshUndefinedNames(ctx, story.ID); err != nil {
		return domain.Unit{}, err
	}
	return unit, nil
}

// DeleteUnit removes a unit of an owned story. References to it stay in
// place and render as undefined.
func (s *Service) DeleteUnit(ctx context.Context, email, storyID, name string) (domain.Unit, error) {
	story, err := s.Story(ctx, email, storyID)
	if err != nil {
		return domain.Unit{}, err
	}
	unit, err := s.unitByName(ctx, story.ID, name)
	if err != nil {
		return domain.Unit{}, err
	}
	if err := s.store.DeleteUnit(ctx, unit.ID); err != nil {
		return domain.Unit{}, fmt.Errorf("delete unit: %w", err)
	}
	if err := s.refreshUndefinedNames(ctx, story.ID); err != nil {
		return domain.Unit{}, err
	}
	return unit, nil
}

// BrowsedUnit loads any unit by id for the unit browser.
func (s *Service) BrowsedUnit(ctx context.Context, unitID string) (domain.Unit, error) {
	unit, err := s.store.GetUnit(ctx, unitID)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Unit{}, apperrors.Wrap(apperrors.CodeNotFound, "unit not found", err)
	}
	if err != nil {
		return domain.Unit{}, fmt.Errorf("load unit: %w", err)
	}
	return unit, nil
}

// CopyUnit adds a copy of any unit to an owned story, labelled as a copy.
func (s *Service) CopyUnit(ctx context.Context, email, storyID, unitID string) (domain.Unit, error) {
	story, err := s.Story(ctx, email, storyID)
	if err != nil {
		return domain.Unit{}, err
	}
	user, err := s.GetUser(ctx, email)
	if err != nil {
		return domain.Unit{}, err
	}
	source, err := s.BrowsedUnit(ctx, unitID)
	if err != nil {
		return domain.Unit{}, err
	}
	unit, err := s.insertUnit(ctx, story, user, domain.Unit{Type: source.Type, Name: source.Name, Fields: source.Fields}, true)
	if err != nil {
		return domain.Unit{}, err
	}
	if err := s.refreshUndefinedNames(ctx, story.ID); err != nil {
		return domain.Unit{}, err
	}
	return unit, nil
}

// SuggestFields asks the fill generator for values for a new or edited unit
// of an owned story.
func (s *Service) SuggestFields(ctx context.Context, email, storyID string, t unitschema.Type, description, name string) (fieldfill.Suggestion, error) {
	agg, err := s.Aggregate(ctx, email, storyID)
	if err != nil {
		return fieldfill.Suggestion{}, err
	}
	suggestion, err := s.filler.Suggest(ctx, fieldfill.Request{
		Aggregate:   agg,
		UnitType:    t,
		Description: description,
		Name:        name,
	})
	if err != nil {
		s.log(ctx).Warn("field fill failed",
			zap.String("story_id", storyID),
			zap.String("unit_type", string(t)),
			zap.Error(err),
		)
		return fieldfill.Suggestion{}, err
	}
	return suggestion, nil
}

// insertUnit validates and stores unit in story with its automatic labels:
// the story name, the unit type, the creator's display name and, for copies,
// CopyLabel.
func (s *Service) insertUnit(ctx context.Context, story domain.Story, user domain.User, unit domain.Unit, isCopy bool) (domain.Unit, error) {
	if _, err := unitschema.FieldsFor(unit.Type); err != nil {
		return domain.Unit{}, apperrors.Wrap(apperrors.CodeUnitTypeUnknown, "unknown unit type", err)
	}
	name, err := domain.NormalizeUnitName(unit.Name)
	if err != nil {
		return domain.Unit{}, err
	}
	fields, err := domain.NormalizeFields(unit.Type, unit.Fields)
	if err != nil {
		return domain.Unit{}, err
	}
	unitID, err := s.newID()
	if err != nil {
		return domain.Unit{}, err
	}
	unit = domain.Unit{
		ID:        unitID,
		StoryID:   story.ID,
		Type:      unit.Type,
		Name:      name,
		Fields:    fields,
		CreatedAt: s.nowUTC(),
	}

	labelNames := []string{story.Name, string(unit.Type), user.DisplayName}
	if isCopy {
		labelNames = append(labelNames, CopyLabel)
	}
	labels := make([]domain.Label, 0, len(labelNames))
	labelIDs := make([]string, 0, len(labelNames))
	for _, labelName := range domain.DedupeNames(labelNames) {
		label, err := s.store.GetOrCreateLabel(ctx, labelName)
		if err != nil {
			return domain.Unit{}, fmt.Errorf("label %q: %w", labelName, err)
		}
		labels = append(labels, label)
		labelIDs = append(labelIDs, label.ID)
	}

	err = s.store.CreateUnit(ctx, unit, labelIDs)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return domain.Unit{}, apperrors.WithMetadata(apperrors.CodeUnitNameTaken, "unit name taken", map[string]string{"Name": name})
	}
	if err != nil {
		return domain.Unit{}, fmt.Errorf("create unit: %w", err)
	}
	unit.Labels = labels
	return unit, nil
}
