// Package anthropic adapts the Anthropic Messages API to the agent.Backend
// capability surface.
package anthropic

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sovereign-systems/acsa/internal/agent"
	acsaerrors "github.com/sovereign-systems/acsa/internal/errors"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type Backend struct {
	client anthropicsdk.Client
	model  string
	name   string
}

func New(name, apiKey, model string) *Backend {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if model == "" {
		model = string(anthropicsdk.ModelClaude3_7SonnetLatest)
	}
	client := anthropicsdk.NewClient(option.WithAPIKey(apiKey))
	return &Backend{client: client, model: model, name: name}
}

func (b *Backend) Name() string { return b.name }

func (b *Backend) Generate(ctx context.Context, req agent.Request) (agent.Response, error) {
	started := time.Now()

	system := agent.SystemPrompt(req.Role)
	userText := req.Prompt
	if req.Context != "" {
		userText = req.Context + "\n\n" + req.Prompt
	}

	msg, err := b.client.Messages.New(ctx, anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(b.model),
		MaxTokens: 1024,
		System:    []anthropicsdk.TextBlockParam{{Text: system}},
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(userText)),
		},
	})
	if err != nil {
		return agent.Response{}, acsaerrors.Transport(fmt.Sprintf("anthropic %s request failed", req.Role))
	}

	var text string
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropicsdk.TextBlock); ok {
			text += tb.Text
		}
	}
	if text == "" {
		return agent.Response{}, acsaerrors.InvalidOutput("anthropic returned no text content")
	}

	return agent.Response{
		Role:      req.Role,
		Text:      text,
		TokensIn:  int(msg.Usage.InputTokens),
		TokensOut: int(msg.Usage.OutputTokens),
		LatencyMs: time.Since(started).Milliseconds(),
		Timestamp: time.Now(),
	}, nil
}
