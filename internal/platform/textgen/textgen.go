// Package textgen wraps the hosted language models used to suggest unit
// fields and to write story prose.
package textgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	platformotel "github.com/louisbranch/talevortex/internal/platform/otel"
	"github.com/louisbranch/talevortex/internal/platform/timeouts"
)

// ErrDisabled is returned when no model provider is configured.
var ErrDisabled = errors.New("text generation is disabled")

// ErrEmptyResponse is returned when the provider answers without text.
var ErrEmptyResponse = errors.New("text generation returned no content")

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

const (
	defaultOpenAIFillModel = "gpt-4o-mini"
	defaultOpenAITextModel = "o1-mini"
	defaultGeminiModel     = "gemini-2.5-flash"
)

// Prompt is a single-turn request. System may be empty.
type Prompt struct {
	System string
	User   string
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// Config selects the provider and models.
type Config struct {
	Provider     string `env:"TALEVORTEX_AI_PROVIDER" envDefault:"openai"`
	APIKey       string `env:"TALEVORTEX_AI_API_KEY"`
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	Model        string `env:"TALEVORTEX_AI_MODEL"`
	TextModel    string `env:"TALEVORTEX_AI_TEXT_MODEL"`
	BaseURL      string `env:"TALEVORTEX_AI_BASE_URL"`
}

// Key returns the API key, falling back to OPENAI_API_KEY for the OpenAI
// provider.
func (c Config) Key() string {
	if key := strings.TrimSpace(c.APIKey); key != "" {
		return key
	}
	if c.provider() == ProviderOpenAI {
		return strings.TrimSpace(c.OpenAIAPIKey)
	}
	return ""
}

// Enabled reports whether a key is available.
func (c Config) Enabled() bool {
	return c.Key() != ""
}

func (c Config) provider() string {
	provider := strings.ToLower(strings.TrimSpace(c.Provider))
	if provider == "" {
		return ProviderOpenAI
	}
	return provider
}

func (c Config) fillModel() string {
	if model := strings.TrimSpace(c.Model); model != "" {
		return model
	}
	if c.provider() == ProviderGemini {
		return defaultGeminiModel
	}
	return defaultOpenAIFillModel
}

func (c Config) textModel() string {
	if model := strings.TrimSpace(c.TextModel); model != "" {
		return model
	}
	if c.provider() == ProviderGemini {
		return defaultGeminiModel
	}
	return defaultOpenAITextModel
}

// Generators holds the model used for field suggestions and the model used
// for full story text.
type Generators struct {
	Fill Generator
	Text Generator
}

// Enabled reports whether both generators reach a provider.
func (g Generators) Enabled() bool {
	_, fillOff := g.Fill.(Disabled)
	_, textOff := g.Text.(Disabled)
	return g.Fill != nil && g.Text != nil && !fillOff && !textOff
}

// New builds generators for cfg. Without an API key both generators are
// Disabled.
func New(ctx context.Context, cfg Config) (Generators, error) {
	if !cfg.Enabled() {
		return Generators{Fill: Disabled{}, Text: Disabled{}}, nil
	}
	switch provider := cfg.provider(); provider {
	case ProviderOpenAI:
		return Generators{
			Fill: Traced(NewOpenAI(cfg.Key(), cfg.fillModel(), cfg.BaseURL), provider, cfg.fillModel()),
			Text: Traced(NewOpenAI(cfg.Key(), cfg.textModel(), cfg.BaseURL), provider, cfg.textModel()),
		}, nil
	case ProviderGemini:
		fill, err := NewGemini(ctx, cfg.Key(), cfg.fillModel(), cfg.BaseURL)
		if err != nil {
			return Generators{}, err
		}
		text, err := NewGemini(ctx, cfg.Key(), cfg.textModel(), cfg.BaseURL)
		if err != nil {
			return Generators{}, err
		}
		return Generators{
			Fill: Traced(fill, provider, cfg.fillModel()),
			Text: Traced(text, provider, cfg.textModel()),
		}, nil
	default:
		return Generators{}, fmt.Errorf("unknown text generation provider %q", cfg.Provider)
	}
}

// Disabled rejects every request with ErrDisabled.
type Disabled struct{}

// Generate implements Generator.
func (Disabled) Generate(context.Context, Prompt) (string, error) {
	return "", ErrDisabled
}

// Traced wraps next with a span per call and the generation timeout.
func Traced(next Generator, provider, model string) Generator {
	return &traced{next: next, provider: provider, model: model}
}

type traced struct {
	next     Generator
	provider string
	model    string
}

func (t *traced) Generate(ctx context.Context, prompt Prompt) (string, error) {
	ctx, span := platformotel.Tracer("textgen").Start(ctx, "textgen.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("textgen.provider", t.provider),
		attribute.String("textgen.model", t.model),
		attribute.Int("textgen.prompt_bytes", len(prompt.System)+len(prompt.User)),
	)

	ctx, cancel := context.WithTimeout(ctx, timeouts.TextGeneration)
	defer cancel()

	out, err := t.next.Generate(ctx, prompt)
	if err == nil && strings.TrimSpace(out) == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.Int("textgen.response_bytes", len(out)))
	return out, nil
}
