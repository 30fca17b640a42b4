package genai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient adapts an OpenAI-compatible chat completion API to Engine.
// The whole prompt (system instruction plus serialized transcript) travels
// as one user message, matching the single-opaque-prompt contract.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAIClient with the given API key and model.
func NewOpenAI(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIClient) Name() string { return "openai" }

func (c *OpenAIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choice list", ErrUpstream)
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) IsReady(ctx context.Context) bool {
	_, err := c.client.ListModels(ctx)
	return err == nil
}
