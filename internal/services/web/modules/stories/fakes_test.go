package stories

import (
	"context"
	"io"
	"strings"

	apperrors "github.com/louisbranch/talevortex/internal/platform/errors"
	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/service"
)

type fakeStories struct {
	stories map[string]domain.Story
	textErr error
	text    string
	nextID  string
}

func newFakeStories(stories ...domain.Story) *fakeStories {
	f := &fakeStories{stories: map[string]domain.Story{}, nextID: "new-story"}
	for _, story := range stories {
		f.stories[story.ID] = story
	}
	return f
}

func (f *fakeStories) owned(email, storyID string) (domain.Story, error) {
	story, ok := f.stories[storyID]
	if !ok {
		return domain.Story{}, apperrors.New(apperrors.CodeNotFound, "story not found")
	}
	if story.OwnerEmail != email {
		return domain.Story{}, apperrors.New(apperrors.CodeStoryNotOwned, "story not owned")
	}
	return story, nil
}

func (f *fakeStories) CreateStory(_ context.Context, email string, in service.StoryInput) (domain.Story, error) {
	name, err := domain.NormalizeStoryName(in.Name)
	if err != nil {
		return domain.Story{}, err
	}
	for _, story := range f.stories {
		if story.OwnerEmail == email && domain.NameKey(story.Name) == domain.NameKey(name) {
			return domain.Story{}, apperrors.WithMetadata(apperrors.CodeStoryNameTaken, "taken", map[string]string{"Name": name})
		}
	}
	story := domain.Story{ID: f.nextID, OwnerEmail: email, Name: name, Setting: in.Setting, Challenge: in.Challenge}
	f.stories[story.ID] = story
	return story, nil
}

func (f *fakeStories) Story(_ context.Context, email, storyID string) (domain.Story, error) {
	return f.owned(email, storyID)
}

func (f *fakeStories) Aggregate(_ context.Context, email, storyID string) (domain.Aggregate, error) {
	story, err := f.owned(email, storyID)
	if err != nil {
		return domain.Aggregate{}, err
	}
	return domain.Aggregate{Story: story}, nil
}

func (f *fakeStories) DeleteStory(_ context.Context, email, storyID string) (domain.Story, error) {
	story, err := f.owned(email, storyID)
	if err != nil {
		return domain.Story{}, err
	}
	delete(f.stories, storyID)
	return story, nil
}

func (f *fakeStories) ImportStory(ctx context.Context, email string, data []byte) (domain.Story, error) {
	if !strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		return domain.Story{}, apperrors.New(apperrors.CodeImportMalformed, "not json")
	}
	return f.CreateStory(ctx, email, service.StoryInput{Name: "Imported"})
}

func (f *fakeStories) ExportJSON(_ context.Context, email, storyID string) (domain.Aggregate, []byte, error) {
	story, err := f.owned(email, storyID)
	if err != nil {
		return domain.Aggregate{}, nil, err
	}
	return domain.Aggregate{Story: story}, []byte(`{"name":"` + story.Name + `"}`), nil
}

func (f *fakeStories) ExportPDF(_ context.Context, email, storyID string, w io.Writer) (domain.Aggregate, error) {
	story, err := f.owned(email, storyID)
	if err != nil {
		return domain.Aggregate{}, err
	}
	_, err = io.WriteString(w, "%PDF-1.3 fake")
	return domain.Aggregate{Story: story}, err
}

func (f *fakeStories) ExportText(_ context.Context, email, storyID string) (domain.Aggregate, string, error) {
	story, err := f.owned(email, storyID)
	if err != nil {
		return domain.Aggregate{}, "", err
	}
	if f.textErr != nil {
		return domain.Aggregate{}, "", f.textErr
	}
	return domain.Aggregate{Story: story}, f.text, nil
}
