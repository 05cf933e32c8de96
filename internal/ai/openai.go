package ai

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"sermonforge_backend/internal/logger"
	"sermonforge_backend/internal/models"
)

// OpenAIGenerator generates sermon content with the OpenAI chat API in JSON
// mode.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, info SermonInfo, contentType models.ContentType) (json.RawMessage, error) {
	instruction, ok := typeInstructions[contentType]
	if !ok || instruction == "" {
		return nil, fmt.Errorf("no prompt defined for content type %q", contentType)
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(info, contentType)},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	raw := json.RawMessage(resp.Choices[0].Message.Content)
	if !json.Valid(raw) {
		return nil, fmt.Errorf("openai returned invalid JSON for %s", contentType)
	}

	logger.CtxInfo(ctx, "Content generated",
		"content_type", contentType,
		"model", g.model,
		"tokens", resp.Usage.TotalTokens,
	)
	return raw, nil
}
