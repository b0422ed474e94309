package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiAdapter calls the Gemini API through the official GenAI SDK.
type GeminiAdapter struct {
	client *genai.Client
	model  string
}

// NewGeminiAdapter creates a Gemini adapter. The API key comes from the
// GEMINI_API_KEY environment variable when apiKey is empty (SDK default).
func NewGeminiAdapter(ctx context.Context, apiKey, model string) (*GeminiAdapter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating GenAI client: %w", err)
	}

	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiAdapter{client: client, model: model}, nil
}

// Generate produces a response for the given prompt.
func (a *GeminiAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		// Low temperature keeps answers close to the grounding data.
		Temperature: genai.Ptr(float32(0.2)),
	}

	result, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}
