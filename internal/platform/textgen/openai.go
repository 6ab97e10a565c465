package textgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI generates text with the chat completions API.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI builds an OpenAI generator. baseURL may be empty.
func NewOpenAI(apiKey, model, baseURL string) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAI{client: openai.NewClient(opts...), model: model}
}

// Generate implements Generator.
func (g *OpenAI) Generate(ctx context.Context, prompt Prompt) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if strings.TrimSpace(prompt.System) != "" {
		messages = append(messages, openai.SystemMessage(prompt.System))
	}
	messages = append(messages, openai.UserMessage(prompt.User))

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(g.model),
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
