package export

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/talevortex/internal/platform/errors"
	"github.com/louisbranch/talevortex/internal/platform/textgen"
	"github.com/louisbranch/talevortex/internal/services/story/domain"
)

// Narrator writes story prose through a text generator.
type Narrator struct {
	gen textgen.Generator
}

// NewNarrator builds a Narrator backed by gen.
func NewNarrator(gen textgen.Generator) *Narrator {
	if gen == nil {
		gen = textgen.Disabled{}
	}
	return &Narrator{gen: gen}
}

// Text asks the generator for a full story. There is no local fallback; a
// generator failure is returned as is.
func (n *Narrator) Text(ctx context.Context, agg domain.Aggregate) (string, error) {
	out, err := n.gen.Generate(ctx, TextPrompt(agg))
	if err != nil {
		if errors.Is(err, textgen.ErrDisabled) {
			return "", apperrors.Wrap(apperrors.CodeTextGenerationDisabled, "story text disabled", err)
		}
		return "", apperrors.Wrap(apperrors.CodeTextGenerationFailed, "story text generation failed", err)
	}
	return out, nil
}

// TextPrompt renders the story details the generator expands into prose.
func TextPrompt(agg domain.Aggregate) textgen.Prompt {
	var b strings.Builder
	b.WriteString("Write a full story based on the following details:\n\n")
	fmt.Fprintf(&b, "Setting and Style:\n%s\n\n", agg.Story.Setting)
	fmt.Fprintf(&b, "Main Challenge:\n%s\n\n", agg.Story.Challenge)
	b.WriteString("Units:\n")
	b.WriteString(agg.Outline())
	return textgen.Prompt{User: b.String()}
}
