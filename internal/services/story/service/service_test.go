package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/louisbranch/talevortex/internal/platform/errors"
	"github.com/louisbranch/talevortex/internal/platform/requestctx"
	"github.com/louisbranch/talevortex/internal/platform/textgen"
	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/storage"
	"github.com/louisbranch/talevortex/internal/services/story/storage/sqlite"
	"github.com/louisbranch/talevortex/internal/services/story/unitschema"
)

const (
	ada = "ada@example.com"
	bo  = "bo@example.com"
)

type stubGenerator struct {
	out   string
	err   error
	calls int
}

func (s *stubGenerator) Generate(context.Context, textgen.Prompt) (string, error) {
	s.calls++
	return s.out, s.err
}

func newTestService(t *testing.T, opts ...Option) (*Service, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "story.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	seq := 0
	base := []Option{
		WithClock(func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }),
		WithIDGenerator(func() (string, error) {
			seq++
			return fmt.Sprintf("id-%03d", seq), nil
		}),
	}
	return New(store, append(base, opts...)...), store
}

func mustUser(t *testing.T, svc *Service, email string) domain.User {
	t.Helper()
	user, err := svc.EnsureUser(context.Background(), email)
	require.NoError(t, err)
	return user
}

func mustStory(t *testing.T, svc *Service, email, name string) domain.Story {
	t.Helper()
	story, err := svc.CreateStory(context.Background(), email, StoryInput{Name: name, Setting: "Foggy harbor", Challenge: "Stop the smugglers"})
	require.NoError(t, err)
	return story
}

func labelNames(unit domain.Unit) []string {
	names := make([]string, 0, len(unit.Labels))
	for _, label := range unit.Labels {
		names = append(names, label.Name)
	}
	return names
}

func TestEnsureUserCreatesOnceWithRandomName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.EnsureUser(ctx, "  Ada@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, ada, first.Email)
	assert.Regexp(t, `^reader-[0-9a-f]{6}$`, first.DisplayName)

	again, err := svc.EnsureUser(ctx, ada)
	require.NoError(t, err)
	assert.Equal(t, first.DisplayName, again.DisplayName)

	_, err = svc.EnsureUser(ctx, "not-an-email")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUserEmailInvalid))
}

func TestChangeDisplayName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustUser(t, svc, ada)
	mustUser(t, svc, bo)

	name, err := svc.ChangeDisplayName(ctx, ada, "  Ada Lovelace ")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", name)

	_, err = svc.ChangeDisplayName(ctx, bo, "ada lovelace")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUserDisplayNameTaken))

	_, err = svc.ChangeDisplayName(ctx, ada, "ADA LOVELACE")
	assert.NoError(t, err)

	_, err = svc.ChangeDisplayName(ctx, ada, "   ")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUserDisplayNameEmpty))
}

func TestStoryNamesAreUniquePerOwner(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustUser(t, svc, ada)
	mustUser(t, svc, bo)
	mustStory(t, svc, ada, "Vortex")

	_, err := svc.CreateStory(ctx, ada, StoryInput{Name: "vortex"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStoryNameTaken))

	_, err = svc.CreateStory(ctx, bo, StoryInput{Name: "Vortex"})
	assert.NoError(t, err)

	_, err = svc.CreateStory(ctx, ada, StoryInput{Name: " "})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStoryNameEmpty))
}

func TestForeignStoryLooksMissing(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustUser(t, svc, ada)
	mustUser(t, svc, bo)
	story := mustStory(t, svc, ada, "Vortex")

	_, err := svc.Story(ctx, bo, story.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.CodeOf(err).HTTPStatus())

	_, err = svc.AddUnit(ctx, bo, story.ID, UnitInput{Type: unitschema.TypeItem, Name: "Sword"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStoryNotOwned))

	_, err = svc.DeleteStory(ctx, bo, story.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStoryNotOwned))

	_, err = svc.Story(ctx, ada, "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestAddUnitAttachesAutomaticLabels(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := mustUser(t, svc, ada)
	story := mustStory(t, svc, ada, "Vortex")

	unit, err := svc.AddUnit(ctx, ada, story.ID, UnitInput{Type: unitschema.TypeItem, Name: " Sword "})
	require.NoError(t, err)
	assert.Equal(t, "Sword", unit.Name)
	assert.ElementsMatch(t, []string{"Vortex", "Item", user.DisplayName}, labelNames(unit))

	stored, err := svc.Unit(ctx, ada, story.ID, "sword")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Vortex", "Item", user.DisplayName}, labelNames(stored))

	_, err = svc.AddUnit(ctx, ada, story.ID, UnitInput{Type: unitschema.TypeBeast, Name: "SWORD"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnitNameTaken))

	_, err = svc.AddUnit(ctx, ada, story.ID, UnitInput{Type: "Dragonling", Name: "Drake"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnitTypeUnknown))
}

func TestUndefinedNamesFollowUnitChanges(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustUser(t, svc, ada)
	story := mustStory(t, svc, ada, "Vortex")

	_, err := svc.AddUnit(ctx, ada, story.ID, UnitInput{
		Type:   unitschema.TypeItem,
		Name:   "Sword",
		Fields: domain.Fields{"Who owns this?": domain.ListValue("Ghost")},
	})
	require.NoError(t, err)

	got, err := svc.Story(ctx, ada, story.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ghost"}, got.UndefinedNames)

	_, err = svc.AddUnit(ctx, ada, story.ID, UnitInput{Type: unitschema.TypeCharacter, Name: "Ghost"})
	require.NoError(t, err)
	got, err = svc.Story(ctx, ada, story.ID)
	require.NoError(t, err)
	assert.Empty(t, got.UndefinedNames)

	_, err = svc.DeleteUnit(ctx, ada, story.ID, "ghost")
	require.NoError(t, err)
	got, err = svc.Story(ctx, ada, story.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ghost"}, got.UndefinedNames)

	sword, err := svc.Unit(ctx, ada, story.ID, "Sword")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ghost"}, sword.Fields["Who owns this?"].List)
}

func TestRenamePropagatesToListReferences(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustUser(t, svc, ada)
	story := mustStory(t, svc, ada, "Vortex")

	_, err := svc.AddUnit(ctx, ada, story.ID, UnitInput{Type: unitschema.TypeCharacter, Name: "Ghost"})
	require.NoError(t, err)
	_, err = svc.AddUnit(ctx, ada, story.ID, UnitInput{
		Type: unitschema.TypeItem,
		Name: "Sword",
		Fields: domain.Fields{
			"Who owns this?": domain.ListValue("ghost"),
			"What is it?":    domain.TextValue("Ghost's blade"),
		},
	})
	require.NoError(t, err)

	renamed, err := svc.UpdateUnit(ctx, ada, story.ID, "Ghost", UnitInput{Name: "Wraith"})
	require.NoError(t, err)
	assert.Equal(t, "Wraith", renamed.Name)
	assert.Equal(t, unitschema.TypeCharacter, renamed.Type)

	sword, err := svc.Unit(ctx, ada, story.ID, "Sword")
	require.NoError(t, err)
	assert.Equal(t, []string{"Wraith"}, sword.Fields["Who owns this?"].List)
	assert.Equal(t, "Ghost's blade", sword.Fields["What is it?"].Text)

	_, err = svc.Unit(ctx, ada, story.ID, "Ghost")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestUpdateUnitRejectsTakenName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustUser(t, svc, ada)
	story := mustStory(t, svc, ada, "Vortex")
	for _, name := range []string{"Ghost", "Wraith"} {
		_, err := svc.AddUnit(ctx, ada, story.ID, UnitInput{Type: unitschema.TypeCharacter, Name: name})
		require.NoError(t, err)
	}

	_, err := svc.UpdateUnit(ctx, ada, story.ID, "Ghost", UnitInput{Name: "wraith"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnitNameTaken))

	_, err = svc.UpdateUnit(ctx, ada, story.ID, "Ghost", UnitInput{Name: "GHOST"})
	assert.NoError(t, err)
}

func TestCopyUnitAcrossStories(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustUser(t, svc, ada)
	bob := mustUser(t, svc, bo)
	source := mustStory(t, svc, ada, "Vortex")
	target := mustStory(t, svc, bo, "Harbor")

	original, err := svc.AddUnit(ctx, ada, source.ID, UnitInput{
		Type:   unitschema.TypeItem,
		Name:   "Sword",
		Fields: domain.Fields{"Worth": domain.FloatValue(0.5)},
	})
	require.NoError(t, err)

	copied, err := svc.CopyUnit(ctx, bo, target.ID, original.ID)
	require.NoError(t, err)
	assert.NotEqual(t, original.ID, copied.ID)
	assert.Equal(t, target.ID, copied.StoryID)
	assert.InDelta(t, 0.5, copied.Fields["Worth"].Float, 1e-9)
	assert.ElementsMatch(t, []string{"Harbor", "Item", bob.DisplayName, CopyLabel}, labelNames(copied))

	_, err = svc.CopyUnit(ctx, bo, target.ID, original.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnitNameTaken))

	_, err = svc.CopyUnit(ctx, bo, target.ID, "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestAssignLabelAndBrowse(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustUser(t, svc, ada)
	story := mustStory(t, svc, ada, "Vortex")

	sword, err := svc.AddUnit(ctx, ada, story.ID, UnitInput{Type: unitschema.TypeItem, Name: "Sword"})
	require.NoError(t, err)
	dragon, err := svc.AddUnit(ctx, ada, story.ID, UnitInput{Type: unitschema.TypeBeast, Name: "Dragon"})
	require.NoError(t, err)

	_, _, err = svc.AssignLabel(ctx, nil, "shiny")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnitSelectionEmpty))
	_, _, err = svc.AssignLabel(ctx, []string{sword.ID}, " ")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeLabelNameEmpty))

	shiny, labelled, err := svc.AssignLabel(ctx, []string{sword.ID, sword.ID}, " shiny ")
	require.NoError(t, err)
	assert.Equal(t, "shiny", shiny.Name)
	assert.Equal(t, 1, labelled)

	again, labelled, err := svc.AssignLabel(ctx, []string{sword.ID, dragon.ID}, "shiny")
	require.NoError(t, err)
	assert.Equal(t, shiny.ID, again.ID)
	assert.Equal(t, 2, labelled)

	labels, err := svc.Labels(ctx)
	require.NoError(t, err)
	var names []string
	for _, label := range labels {
		names = append(names, label.Name)
	}
	assert.Contains(t, names, "shiny")
	assert.Contains(t, names, "Beast")

	units, err := svc.BrowseUnits(ctx, storage.UnitFilter{IncludeLabelIDs: []string{shiny.ID}, Query: "drag"})
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "Dragon", units[0].Name)
}

func TestAssignLabelSkipsDeletedUnits(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustUser(t, svc, ada)
	story := mustStory(t, svc, ada, "Vortex")
	lamp, err := svc.AddUnit(ctx, ada, story.ID, UnitInput{Type: unitschema.TypeItem, Name: "Lamp"})
	require.NoError(t, err)

	bright, labelled, err := svc.AssignLabel(ctx, []string{lamp.ID, "gone"}, "bright")
	require.NoError(t, err)
	assert.Equal(t, 1, labelled)

	units, err := svc.BrowseUnits(ctx, storage.UnitFilter{IncludeLabelIDs: []string{bright.ID}})
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, lamp.ID, units[0].ID)

	_, _, err = svc.AssignLabel(ctx, []string{"gone"}, "bright")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestNonASCIINamesDifferingInCaseCollide(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustUser(t, svc, ada)
	mustUser(t, svc, bo)
	mustStory(t, svc, ada, "Öl")

	_, err := svc.CreateStory(ctx, ada, StoryInput{Name: "öl"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStoryNameTaken))

	story := mustStory(t, svc, ada, "Vortex")
	_, err = svc.AddUnit(ctx, ada, story.ID, UnitInput{Type: unitschema.TypeItem, Name: "Ärger"})
	require.NoError(t, err)
	_, err = svc.AddUnit(ctx, ada, story.ID, UnitInput{Type: unitschema.TypeItem, Name: "ärger"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnitNameTaken))

	_, err = svc.ChangeDisplayName(ctx, ada, "Ærin")
	require.NoError(t, err)
	_, err = svc.ChangeDisplayName(ctx, bo, "ærin")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUserDisplayNameTaken))

	_, data, err := svc.ExportJSON(ctx, ada, story.ID)
	require.NoError(t, err)
	imported, err := svc.ImportStory(ctx, bo, data)
	require.NoError(t, err)

	agg, err := svc.Aggregate(ctx, bo, imported.ID)
	require.NoError(t, err)
	require.Len(t, agg.Units, 1)
	found, ok := agg.Lookup("ärger")
	require.True(t, ok)
	assert.Equal(t, "Ärger", found.Name)
}

func TestImportRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustUser(t, svc, ada)
	mustUser(t, svc, bo)
	story := mustStory(t, svc, ada, "Vortex")
	_, err := svc.AddUnit(ctx, ada, story.ID, UnitInput{
		Type:   unitschema.TypeItem,
		Name:   "Sword",
		Fields: domain.Fields{"Who owns this?": domain.ListValue("Ghost"), "Worth": domain.FloatValue(0.75)},
	})
	require.NoError(t, err)

	_, data, err := svc.ExportJSON(ctx, ada, story.ID)
	require.NoError(t, err)

	_, err = svc.ImportStory(ctx, ada, data)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStoryNameTaken))

	imported, err := svc.ImportStory(ctx, bo, data)
	require.NoError(t, err)
	assert.Equal(t, "Vortex", imported.Name)
	assert.Equal(t, bo, imported.OwnerEmail)

	agg, err := svc.Aggregate(ctx, bo, imported.ID)
	require.NoError(t, err)
	require.Len(t, agg.Units, 1)
	assert.Equal(t, "Sword", agg.Units[0].Name)
	assert.InDelta(t, 0.75, agg.Units[0].Fields["Worth"].Float, 1e-9)
	assert.Equal(t, []string{"Ghost"}, agg.Story.UndefinedNames)

	_, err = svc.ImportStory(ctx, bo, []byte("{not json"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeImportMalformed))
}

func TestExportPDF(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustUser(t, svc, ada)
	story := mustStory(t, svc, ada, "Vortex")

	var buf bytes.Buffer
	_, err := svc.ExportPDF(ctx, ada, story.ID, &buf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestSuggestFields(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled by default", func(t *testing.T) {
		svc, _ := newTestService(t)
		mustUser(t, svc, ada)
		story := mustStory(t, svc, ada, "Vortex")
		_, err := svc.SuggestFields(ctx, ada, story.ID, unitschema.TypeItem, "a lantern", "")
		assert.True(t, apperrors.HasCode(err, apperrors.CodeTextGenerationDisabled))
	})

	t.Run("provider failure", func(t *testing.T) {
		gen := &stubGenerator{err: errors.New("upstream timeout")}
		svc, _ := newTestService(t, WithFillGenerator(gen))
		mustUser(t, svc, ada)
		story := mustStory(t, svc, ada, "Vortex")
		_, err := svc.SuggestFields(ctx, ada, story.ID, unitschema.TypeItem, "a lantern", "")
		assert.True(t, apperrors.HasCode(err, apperrors.CodeTextGenerationFailed))
		assert.Equal(t, 1, gen.calls)
	})

	t.Run("success", func(t *testing.T) {
		gen := &stubGenerator{out: `{"name": "Lantern", "Worth": 0.25, "What is it?": "A brass lamp"}`}
		svc, _ := newTestService(t, WithFillGenerator(gen))
		mustUser(t, svc, ada)
		story := mustStory(t, svc, ada, "Vortex")
		suggestion, err := svc.SuggestFields(ctx, ada, story.ID, unitschema.TypeItem, "a lantern", "")
		require.NoError(t, err)
		assert.Equal(t, "Lantern", suggestion.Name)
		assert.Equal(t, "A brass lamp", suggestion.Fields["What is it?"].Text)
	})
}

func TestExportTextHasNoFallback(t *testing.T) {
	ctx := context.Background()

	gen := &stubGenerator{err: errors.New("quota exceeded")}
	svc, _ := newTestService(t, WithTextGenerator(gen))
	mustUser(t, svc, ada)
	story := mustStory(t, svc, ada, "Vortex")

	_, text, err := svc.ExportText(ctx, ada, story.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeTextGenerationFailed))
	assert.Empty(t, text)

	gen.err = nil
	gen.out = "Once upon a time in a foggy harbor."
	_, text, err = svc.ExportText(ctx, ada, story.ID)
	require.NoError(t, err)
	assert.Equal(t, "Once upon a time in a foggy harbor.", text)
}

func TestGeneratorFlags(t *testing.T) {
	svc, _ := newTestService(t)
	assert.False(t, svc.FillEnabled())
	assert.False(t, svc.TextEnabled())

	svc, _ = newTestService(t, WithFillGenerator(textgen.Disabled{}), WithTextGenerator(&stubGenerator{}))
	assert.False(t, svc.FillEnabled())
	assert.True(t, svc.TextEnabled())
}

func TestServiceLogsCarryRequestContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc, _ := newTestService(t, WithLogger(zap.New(core)))
	mustUser(t, svc, ada)
	story, err := svc.CreateStory(context.Background(), ada, StoryInput{Name: "Harbor"})
	require.NoError(t, err)

	ctx := requestctx.WithRequestID(context.Background(), "req-7")
	ctx = requestctx.WithStoryID(ctx, story.ID)
	_, err = svc.DeleteStory(ctx, ada, story.ID)
	require.NoError(t, err)

	entries := logs.FilterMessage("story deleted").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, story.ID, fields["current_story_id"])
	assert.Equal(t, story.ID, fields["story_id"])
}
