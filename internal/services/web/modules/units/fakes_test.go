package units

import (
	"context"

	apperrors "github.com/louisbranch/talevortex/internal/platform/errors"
	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/fieldfill"
	"github.com/louisbranch/talevortex/internal/services/story/service"
	"github.com/louisbranch/talevortex/internal/services/story/unitschema"
)

type fakeUnits struct {
	story       domain.Story
	units       []domain.Unit
	browsed     map[string]domain.Unit
	suggestion  fieldfill.Suggestion
	suggestErr  error
	fillEnabled bool
}

func (f *fakeUnits) checkStory(email, storyID string) error {
	if storyID != f.story.ID {
		return apperrors.New(apperrors.CodeNotFound, "story not found")
	}
	if email != f.story.OwnerEmail {
		return apperrors.New(apperrors.CodeStoryNotOwned, "story not owned")
	}
	return nil
}

func (f *fakeUnits) find(name string) int {
	for i, unit := range f.units {
		if domain.NameKey(unit.Name) == domain.NameKey(name) {
			return i
		}
	}
	return -1
}

func (f *fakeUnits) Aggregate(_ context.Context, email, storyID string) (domain.Aggregate, error) {
	if err := f.checkStory(email, storyID); err != nil {
		return domain.Aggregate{}, err
	}
	return domain.Aggregate{Story: f.story, Units: append([]domain.Unit(nil), f.units...)}, nil
}

func (f *fakeUnits) Unit(_ context.Context, email, storyID, name string) (domain.Unit, error) {
	if err := f.checkStory(email, storyID); err != nil {
		return domain.Unit{}, err
	}
	i := f.find(name)
	if i < 0 {
		return domain.Unit{}, apperrors.New(apperrors.CodeNotFound, "unit not found")
	}
	return f.units[i], nil
}

func (f *fakeUnits) AddUnit(_ context.Context, email, storyID string, in service.UnitInput) (domain.Unit, error) {
	if err := f.checkStory(email, storyID); err != nil {
		return domain.Unit{}, err
	}
	name, err := domain.NormalizeUnitName(in.Name)
	if err != nil {
		return domain.Unit{}, err
	}
	if f.find(name) >= 0 {
		return domain.Unit{}, apperrors.WithMetadata(apperrors.CodeUnitNameTaken, "taken", map[string]string{"Name": name})
	}
	unit := domain.Unit{ID: "unit-" + name, StoryID: storyID, Type: in.Type, Name: name, Fields: in.Fields}
	f.units = append(f.units, unit)
	return unit, nil
}

func (f *fakeUnits) UpdateUnit(_ context.Context, email, storyID, currentName string, in service.UnitInput) (domain.Unit, error) {
	if err := f.checkStory(email, storyID); err != nil {
		return domain.Unit{}, err
	}
	i := f.find(currentName)
	if i < 0 {
		return domain.Unit{}, apperrors.New(apperrors.CodeNotFound, "unit not found")
	}
	name, err := domain.NormalizeUnitName(in.Name)
	if err != nil {
		return domain.Unit{}, err
	}
	if j := f.find(name); j >= 0 && j != i {
		return domain.Unit{}, apperrors.WithMetadata(apperrors.CodeUnitNameTaken, "taken", map[string]string{"Name": name})
	}
	f.units[i].Name = name
	f.units[i].Fields = in.Fields
	return f.units[i], nil
}

func (f *fakeUnits) DeleteUnit(_ context.Context, email, storyID, name string) (domain.Unit, error) {
	if err := f.checkStory(email, storyID); err != nil {
		return domain.Unit{}, err
	}
	i := f.find(name)
	if i < 0 {
		return domain.Unit{}, apperrors.New(apperrors.CodeNotFound, "unit not found")
	}
	unit := f.units[i]
	f.units = append(f.units[:i], f.units[i+1:]...)
	return unit, nil
}

func (f *fakeUnits) BrowsedUnit(_ context.Context, unitID string) (domain.Unit, error) {
	unit, ok := f.browsed[unitID]
	if !ok {
		return domain.Unit{}, apperrors.New(apperrors.CodeNotFound, "unit not found")
	}
	return unit, nil
}

func (f *fakeUnits) SuggestFields(_ context.Context, email, storyID string, _ unitschema.Type, _, _ string) (fieldfill.Suggestion, error) {
	if err := f.checkStory(email, storyID); err != nil {
		return fieldfill.Suggestion{}, err
	}
	if f.suggestErr != nil {
		return fieldfill.Suggestion{}, f.suggestErr
	}
	return f.suggestion, nil
}

func (f *fakeUnits) FillEnabled() bool { return f.fillEnabled }
