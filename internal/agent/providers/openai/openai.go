// Package openai adapts the OpenAI chat-completions API to the
// agent.Backend capability surface.
package openai

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/sovereign-systems/acsa/internal/agent"
	acsaerrors "github.com/sovereign-systems/acsa/internal/errors"

	openaisdk "github.com/sashabaranov/go-openai"
)

type Backend struct {
	client *openaisdk.Client
	model  string
	name   string
}

func New(name, apiKey, baseURL, model string) *Backend {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	cfg := openaisdk.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	if model == "" {
		model = openaisdk.GPT4Turbo
	}
	return &Backend{client: openaisdk.NewClientWithConfig(cfg), model: model, name: name}
}

func (b *Backend) Name() string { return b.name }

func (b *Backend) Generate(ctx context.Context, req agent.Request) (agent.Response, error) {
	started := time.Now()

	messages := []openaisdk.ChatCompletionMessage{
		{Role: openaisdk.ChatMessageRoleSystem, Content: agent.SystemPrompt(req.Role)},
	}
	if req.Context != "" {
		messages = append(messages, openaisdk.ChatCompletionMessage{Role: openaisdk.ChatMessageRoleUser, Content: req.Context})
	}
	messages = append(messages, openaisdk.ChatCompletionMessage{Role: openaisdk.ChatMessageRoleUser, Content: req.Prompt})

	resp, err := b.client.CreateChatCompletion(ctx, openaisdk.ChatCompletionRequest{
		Model:    b.model,
		Messages: messages,
	})
	if err != nil {
		return agent.Response{}, acsaerrors.Transport("openai request failed: " + err.Error())
	}
	if len(resp.Choices) == 0 {
		return agent.Response{}, acsaerrors.InvalidOutput("openai returned no choices")
	}

	text := resp.Choices[0].Message.Content
	if text == "" {
		return agent.Response{}, acsaerrors.InvalidOutput("openai returned empty content")
	}

	return agent.Response{
		Role:      req.Role,
		Text:      text,
		TokensIn:  int(resp.Usage.PromptTokens),
		TokensOut: int(resp.Usage.CompletionTokens),
		LatencyMs: time.Since(started).Milliseconds(),
		Timestamp: time.Now(),
	}, nil
}
