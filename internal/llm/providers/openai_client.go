// File path: internal/llm/providers/openai_client.go
package providers

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/lathemind/lathemind/internal/common"
)

// OpenAIProvider is the alternate collaborator backend, used when only an
// OpenAI key is present.
type OpenAIProvider struct {
	client    openai.Client
	chatModel string
}

func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	chatModel := os.Getenv("OPENAI_CHAT_MODEL")
	if chatModel == "" {
		chatModel = "gpt-4o"
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	common.Logger().Info("llm: openai provider configured", "chat_model", chatModel)
	return &OpenAIProvider{client: client, chatModel: chatModel}
}

func (o *OpenAIProvider) AnalyzeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	logger := common.Logger()
	logger.Debug("llm: sending drawing analysis request", "model", o.chatModel, "image_bytes", len(image))
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(prompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
	}
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.chatModel),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(parts)},
	})
	if err != nil {
		logger.Error("llm: drawing analysis request failed", "error", err)
		return "", err
	}
	return firstChoiceText(resp)
}

func (o *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	logger := common.Logger()
	logger.Debug("llm: sending generation request", "model", o.chatModel)
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.chatModel),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
	})
	if err != nil {
		logger.Error("llm: generation request failed", "error", err)
		return "", err
	}
	return firstChoiceText(resp)
}

func (o *OpenAIProvider) Name() string { return "openai:" + o.chatModel }

func (o *OpenAIProvider) Available() bool { return true }

func firstChoiceText(resp *openai.ChatCompletion) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
