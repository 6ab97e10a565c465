package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/talevortex/internal/platform/errors"
	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/export"
	"github.com/louisbranch/talevortex/internal/services/story/storage"
)

// StoryInput is the user-supplied part of a new story.
type StoryInput struct {
	Name      string
	Setting   string
	Challenge string
}

// ListStories returns the stories owned by email in creation order.
func (s *Service) ListStories(ctx context.Context, email string) ([]domain.Story, error) {
	stories, err := s.store.ListStoriesByOwner(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	return stories, nil
}

// CreateStory creates a story owned by email.
func (s *Service) CreateStory(ctx context.Context, email string, in StoryInput) (domain.Story, error) {
	name, err := domain.NormalizeStoryName(in.Name)
	if err != nil {
		return domain.Story{}, err
	}
	storyID, err := s.newID()
	if err != nil {
		return domain.Story{}, err
	}
	story := domain.Story{
		ID:         storyID,
		OwnerEmail: email,
		Name:       name,
		Setting:    strings.TrimSpace(in.Setting),
		Challenge:  strings.TrimSpace(in.Challenge),
		CreatedAt:  s.nowUTC(),
	}
	err = s.store.CreateStory(ctx, story)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return domain.Story{}, apperrors.WithMetadata(apperrors.CodeStoryNameTaken, "story name taken", map[string]string{"Name": name})
	}
	if err != nil {
		return domain.Story{}, fmt.Errorf("create story: %w", err)
	}
	return story, nil
}

// Story returns the story if email owns it.
func (s *Service) Story(ctx context.Context, email, storyID string) (domain.Story, error) {
	story, err := s.store.GetStory(ctx, storyID)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Story{}, apperrors.Wrap(apperrors.CodeNotFound, "story not found", err)
	}
	if err != nil {
		return domain.Story{}, fmt.Errorf("load story: %w", err)
	}
	if story.OwnerEmail != email {
		return domain.Story{}, apperrors.New(apperrors.CodeStoryNotOwned, "story not found")
	}
	return story, nil
}

// Aggregate loads an owned story with all its units.
func (s *Service) Aggregate(ctx context.Context, email, storyID string) (domain.Aggregate, error) {
	story, err := s.Story(ctx, email, storyID)
	if err != nil {
		return domain.Aggregate{}, err
	}
	units, err := s.store.ListUnitsByStory(ctx, story.ID)
	if err != nil {
		return domain.Aggregate{}, fmt.Errorf("list units: %w", err)
	}
	return domain.Aggregate{Story: story, Units: units}, nil
}

// DeleteStory removes an owned story with its units.
func (s *Service) DeleteStory(ctx context.Context, email, storyID string) (domain.Story, error) {
	story, err := s.Story(ctx, email, storyID)
	if err != nil {
		return domain.Story{}, err
	}
	if err := s.store.DeleteStory(ctx, story.ID); err != nil {
		return domain.Story{}, fmt.Errorf("delete story: %w", err)
	}
	s.log(ctx).Info("story deleted", zap.String("story_id", story.ID))
	return story, nil
}

// ImportStory recreates an exported JSON document as a new story owned by
// email. Units keep their fields and receive the usual automatic labels.
func (s *Service) ImportStory(ctx context.Context, email string, data []byte) (domain.Story, error) {
	doc, err := export.DecodeJSON(data)
	if err != nil {
		return domain.Story{}, err
	}
	user, err := s.GetUser(ctx, email)
	if err != nil {
		return domain.Story{}, err
	}
	story, err := s.CreateStory(ctx, email, StoryInput{Name: doc.Name, Setting: doc.Setting, Challenge: doc.Challenge})
	if err != nil {
		return domain.Story{}, err
	}
	for _, docUnit := range doc.Units {
		unit := domain.Unit{Type: docUnit.Type, Name: docUnit.Name, Fields: docUnit.Fields}
		if _, err := s.insertUnit(ctx, story, user, unit, false); err != nil {
			if delErr := s.store.DeleteStory(ctx, story.ID); delErr != nil {
				s.log(ctx).Warn("drop partial import", zap.String("story_id", story.ID), zap.Error(delErr))
			}
			return domain.Story{}, err
		}
	}
	if err := s.refreshUndefinedNames(ctx, story.ID); err != nil {
		return domain.Story{}, err
	}
	s.log(ctx).Info("story imported", zap.String("story_id", story.ID), zap.Int("units", len(doc.Units)))
	return story, nil
}

// ExportJSON encodes an owned story.
func (s *Service) ExportJSON(ctx context.Context, email, storyID string) (domain.Aggregate, []byte, error) {
	agg, err := s.Aggregate(ctx, email, storyID)
	if err != nil {
		return domain.Aggregate{}, nil, err
	}
	data, err := export.JSON(agg)
	if err != nil {
		return domain.Aggregate{}, nil, err
	}
	return agg, data, nil
}

// ExportPDF writes an owned story as PDF.
func (s *Service) ExportPDF(ctx context.Context, email, storyID string, w io.Writer) (domain.Aggregate, error) {
	agg, err := s.Aggregate(ctx, email, storyID)
	if err != nil {
		return domain.Aggregate{}, err
	}
	if err := export.PDF(ctx, agg, w); err != nil {
		return domain.Aggregate{}, err
	}
	return agg, nil
}

// ExportText asks the text generator for prose based on an owned story.
func (s *Service) ExportText(ctx context.Context, email, storyID string) (domain.Aggregate, string, error) {
	agg, err := s.Aggregate(ctx, email, storyID)
	if err != nil {
		return domain.Aggregate{}, "", err
	}
	text, err := s.narrator.Text(ctx, agg)
	if err != nil {
		s.log(ctx).Warn("story text generation failed", zap.String("story_id", storyID), zap.Error(err))
		return domain.Aggregate{}, "", err
	}
	return agg, text, nil
}

// refreshUndefinedNames recomputes the names referenced by the story's units
// that match no unit.
func (s *Service) refreshUndefinedNames(ctx context.Context, storyID string) error {
	units, err := s.store.ListUnitsByStory(ctx, storyID)
	if err != nil {
		return fmt.Errorf("list units: %w", err)
	}
	names := domain.Aggregate{Units: units}.DanglingReferences()
	if err := s.store.UpdateStoryUndefinedNames(ctx, storyID, names); err != nil {
		return fmt.Errorf("update undefined names: %w", err)
	}
	return nil
}
