// File path: internal/llm/llm.go
package llm

import (
	"context"
	"os"
	"strings"

	"github.com/lathemind/lathemind/internal/common"
	"github.com/lathemind/lathemind/internal/llm/providers"
)

type Provider = providers.Provider

var ErrUnavailable = providers.ErrUnavailable

// NewProvider selects the collaborator backend once, at startup. Preference
// order: Gemini when GEMINI_API_KEY is set, then OpenAI, then the
// unconfigured variant whose calls fail fast into the fallback paths.
func NewProvider(ctx context.Context) Provider {
	logger := common.Logger()
	if apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); apiKey != "" {
		provider, err := providers.NewGeminiProvider(ctx, apiKey)
		if err == nil {
			logger.Info("llm: gemini provider selected")
			return provider
		}
		logger.Error("llm: gemini client init failed", "error", err)
	}
	if apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); apiKey != "" {
		logger.Info("llm: openai provider selected")
		return providers.NewOpenAIProvider(apiKey)
	}
	logger.Warn("llm: no API key configured; generation will use local fallbacks")
	return providers.NewUnconfigured()
}
