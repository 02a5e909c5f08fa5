package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ai-api-tester/internal/config"

	openai "github.com/sashabaranov/go-openai"
)

// openAIProvider implements the Provider interface using OpenAI's API
type openAIProvider struct {
	config config.AIConfig
	client *openai.Client
}

func newOpenAIProvider(cfg config.AIConfig, apiKey string) *openAIProvider {
	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.HTTPClient = &http.Client{
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
	return &openAIProvider{
		config: cfg,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

func (p *openAIProvider) Name() string {
	return "openai"
}

// Complete performs a single chat completion request
func (p *openAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       p.config.Model,
			Temperature: float32(p.config.TemperatureValue()),
			MaxTokens:   p.config.MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are an expert QA engineer that analyzes API specifications and designs test strategies. Always respond in the requested format.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}
