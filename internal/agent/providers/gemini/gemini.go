// Package gemini adapts the Gemini generateContent API to the
// agent.Backend capability surface.
package gemini

import (
	"context"
	"os"
	"time"

	"github.com/sovereign-systems/acsa/internal/agent"
	acsaerrors "github.com/sovereign-systems/acsa/internal/errors"

	"google.golang.org/genai"
)

type Backend struct {
	client *genai.Client
	model  string
	name   string
}

func New(name, apiKey, model string) (*Backend, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, acsaerrors.Transport("gemini client init failed: " + err.Error())
	}
	return &Backend{client: client, model: model, name: name}, nil
}

func (b *Backend) Name() string { return b.name }

func (b *Backend) Generate(ctx context.Context, req agent.Request) (agent.Response, error) {
	started := time.Now()

	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: req.Prompt}}},
	}
	if req.Context != "" {
		contents = []*genai.Content{
			{Role: "user", Parts: []*genai.Part{{Text: req.Context}}},
			{Role: "user", Parts: []*genai.Part{{Text: req.Prompt}}},
		}
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: agent.SystemPrompt(req.Role)}}},
	})
	if err != nil {
		return agent.Response{}, acsaerrors.Transport("gemini request failed: " + err.Error())
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return agent.Response{}, acsaerrors.InvalidOutput("gemini returned no candidates")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		text += part.Text
	}
	if text == "" {
		return agent.Response{}, acsaerrors.InvalidOutput("gemini returned empty content")
	}

	var in, out int
	if resp.UsageMetadata != nil {
		in = int(resp.UsageMetadata.PromptTokenCount)
		out = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return agent.Response{
		Role:      req.Role,
		Text:      text,
		TokensIn:  in,
		TokensOut: out,
		LatencyMs: time.Since(started).Milliseconds(),
		Timestamp: time.Now(),
	}, nil
}
