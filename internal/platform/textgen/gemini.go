package textgen

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Gemini generates text with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini builds a Gemini generator. baseURL may be empty.
func NewGemini(ctx context.Context, apiKey, model, baseURL string) (*Gemini, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Generate implements Generator.
func (g *Gemini) Generate(ctx context.Context, prompt Prompt) (string, error) {
	var cfg *genai.GenerateContentConfig
	if strings.TrimSpace(prompt.System) != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		}
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt.User), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return resp.Text(), nil
}
