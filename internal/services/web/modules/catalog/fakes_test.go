package catalog

import (
	"context"
	"errors"
	"slices"
	"strings"

	apperrors "github.com/louisbranch/talevortex/internal/platform/errors"
	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/storage"
)

type fakeCatalog struct {
	stories     []domain.Story
	units       []domain.Unit
	labels      []domain.Label
	textEnabled bool
	browseErr   error
	lastFilter  storage.UnitFilter
	copied      []string
}

func (f *fakeCatalog) ListStories(_ context.Context, email string) ([]domain.Story, error) {
	var out []domain.Story
	for _, story := range f.stories {
		if story.OwnerEmail == email {
			out = append(out, story)
		}
	}
	return out, nil
}

func (f *fakeCatalog) Aggregate(_ context.Context, email, storyID string) (domain.Aggregate, error) {
	for _, story := range f.stories {
		if story.ID != storyID {
			continue
		}
		if story.OwnerEmail != email {
			return domain.Aggregate{}, apperrors.New(apperrors.CodeStoryNotOwned, "story not owned")
		}
		agg := domain.Aggregate{Story: story}
		for _, unit := range f.units {
			if unit.StoryID == storyID {
				agg.Units = append(agg.Units, unit)
			}
		}
		return agg, nil
	}
	return domain.Aggregate{}, apperrors.New(apperrors.CodeNotFound, "story not found")
}

func (f *fakeCatalog) Labels(context.Context) ([]domain.Label, error) {
	return f.labels, nil
}

func (f *fakeCatalog) BrowseUnits(_ context.Context, filter storage.UnitFilter) ([]domain.Unit, error) {
	f.lastFilter = filter
	if f.browseErr != nil {
		return nil, f.browseErr
	}
	var out []domain.Unit
	for _, unit := range f.units {
		if filter.Query != "" && !strings.Contains(strings.ToLower(unit.Name), strings.ToLower(filter.Query)) {
			continue
		}
		out = append(out, unit)
	}
	return out, nil
}

func (f *fakeCatalog) BrowsedUnit(_ context.Context, unitID string) (domain.Unit, error) {
	for _, unit := range f.units {
		if unit.ID == unitID {
			return unit, nil
		}
	}
	return domain.Unit{}, apperrors.New(apperrors.CodeNotFound, "unit not found")
}

func (f *fakeCatalog) AssignLabel(_ context.Context, unitIDs []string, labelName string) (domain.Label, int, error) {
	if len(unitIDs) == 0 {
		return domain.Label{}, 0, apperrors.New(apperrors.CodeUnitSelectionEmpty, "no units selected")
	}
	name, err := domain.NormalizeLabelName(labelName)
	if err != nil {
		return domain.Label{}, 0, err
	}
	label := domain.Label{ID: "label-" + name, Name: name}
	labelled := 0
	for i := range f.units {
		if slices.Contains(unitIDs, f.units[i].ID) {
			f.units[i].Labels = append(f.units[i].Labels, label)
			labelled++
		}
	}
	if labelled == 0 {
		return domain.Label{}, 0, apperrors.New(apperrors.CodeNotFound, "selected units no longer exist")
	}
	return label, labelled, nil
}

func (f *fakeCatalog) CopyUnit(ctx context.Context, email, storyID, unitID string) (domain.Unit, error) {
	if _, err := f.Aggregate(ctx, email, storyID); err != nil {
		return domain.Unit{}, err
	}
	source, err := f.BrowsedUnit(ctx, unitID)
	if err != nil {
		return domain.Unit{}, err
	}
	for _, unit := range f.units {
		if unit.StoryID == storyID && domain.NameKey(unit.Name) == domain.NameKey(source.Name) {
			return domain.Unit{}, apperrors.WithMetadata(apperrors.CodeUnitNameTaken, "taken", map[string]string{"Name": source.Name})
		}
	}
	f.copied = append(f.copied, unitID)
	return source, nil
}

func (f *fakeCatalog) TextEnabled() bool { return f.textEnabled }

var errStoreDown = errors.New("store down")
