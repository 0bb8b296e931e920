// File path: internal/llm/providers/gemini.go
package providers

import (
	"context"
	"fmt"
	"os"

	genai "google.golang.org/genai"

	"github.com/lathemind/lathemind/internal/common"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider wraps the official genai client. Retries and rate limiting
// are deliberately absent: a failed call maps to the caller's fallback path.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultGeminiModel
	}
	common.Logger().Info("llm: gemini provider configured", "model", model)
	return &GeminiProvider{client: client, model: model}, nil
}

func (g *GeminiProvider) AnalyzeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	logger := common.Logger()
	logger.Debug("llm: sending drawing analysis request", "model", g.model, "image_bytes", len(image))
	contents := []*genai.Content{{
		Parts: []*genai.Part{
			{Text: prompt},
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: image}},
		},
	}}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.2),
		MaxOutputTokens: 2000,
	})
	if err != nil {
		logger.Error("llm: drawing analysis request failed", "error", err)
		return "", err
	}
	return firstCandidateText(resp)
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	logger := common.Logger()
	logger.Debug("llm: sending generation request", "model", g.model)
	contents := []*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.3),
		MaxOutputTokens: 4000,
	})
	if err != nil {
		logger.Error("llm: generation request failed", "error", err)
		return "", err
	}
	return firstCandidateText(resp)
}

func (g *GeminiProvider) Name() string { return "gemini:" + g.model }

func (g *GeminiProvider) Available() bool { return true }

func firstCandidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty model response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty model response")
	}
	return candidate.Content.Parts[0].Text, nil
}
