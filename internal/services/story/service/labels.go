package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/talevortex/internal/platform/errors"
	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/storage"
)

// AssignLabel attaches the named label, created on first use, to every unit
// in unitIDs and returns how many units were labelled. Units deleted since
// they were listed are skipped; when none remain the call fails with
// CodeNotFound.
func (s *Service) AssignLabel(ctx context.Context, unitIDs []string, labelName string) (domain.Label, int, error) {
	ids := domain.DedupeNames(unitIDs)
	if len(ids) == 0 {
		return domain.Label{}, 0, apperrors.New(apperrors.CodeUnitSelectionEmpty, "no units selected")
	}
	name, err := domain.NormalizeLabelName(labelName)
	if err != nil {
		return domain.Label{}, 0, err
	}
	label, err := s.store.GetOrCreateLabel(ctx, name)
	if err != nil {
		return domain.Label{}, 0, fmt.Errorf("label %q: %w", name, err)
	}
	labelled, err := s.store.AssignLabels(ctx, []string{label.ID}, ids)
	if err != nil {
		return domain.Label{}, 0, fmt.Errorf("assign label: %w", err)
	}
	if labelled == 0 {
		return domain.Label{}, 0, apperrors.New(apperrors.CodeNotFound, "selected units no longer exist")
	}
	if skipped := len(ids) - labelled; skipped > 0 {
		s.log(ctx).Info("skipped missing units", zap.String("label", label.Name), zap.Int("skipped", skipped))
	}
	return label, labelled, nil
}

// Labels lists every label by name.
func (s *Service) Labels(ctx context.Context) ([]domain.Label, error) {
	labels, err := s.store.ListLabels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	return labels, nil
}

// BrowseUnits runs the unit browser query across all stories.
func (s *Service) BrowseUnits(ctx context.Context, filter storage.UnitFilter) ([]domain.Unit, error) {
	units, err := s.store.SearchUnits(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("browse units: %w", err)
	}
	return units, nil
}
