// internal/gpt/client.go
package gpt

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"lifesync/config"
)

// ErrNoAPIKey is returned when no completion key is configured.
var ErrNoAPIKey = errors.New("completion API key is not configured")

// Client talks to any OpenAI-compatible chat completion endpoint.
type Client struct {
	client      *openai.Client
	apiKey      string
	model       string
	maxTokens   int
	temperature float32
}

func NewClient(cfg config.GPTConfig) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	c := &Client{
		client:      openai.NewClientWithConfig(clientCfg),
		apiKey:      cfg.APIKey,
		model:       openai.GPT3Dot5Turbo,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
	if cfg.Model != "" {
		c.WithModel(cfg.Model)
	}
	return c
}

func (c *Client) WithModel(model string) *Client {
	c.model = model
	return c
}

// Complete sends one system preamble and one user message and returns the first choice.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from completion API")
	}

	return resp.Choices[0].Message.Content, nil
}
