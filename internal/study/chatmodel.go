package study

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatGenerator adapts an Eino chat model to the TextGenerator interface.
// The pipeline sends a single user message per request — no tool calls, no
// multi-turn state, no streaming.
type ChatGenerator struct {
	// model is the LLM backend constructed by the provider factory.
	model model.ToolCallingChatModel
}

// NewChatGenerator constructs a ChatGenerator over the given chat model.
func NewChatGenerator(m model.ToolCallingChatModel) (*ChatGenerator, error) {
	if m == nil {
		return nil, fmt.Errorf("study: chat model must not be nil")
	}
	return &ChatGenerator{model: m}, nil
}

// Generate sends the prompt as one user message and returns the model's text.
func (g *ChatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("study: chat model generate: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("study: chat model returned nil response")
	}
	return resp.Content, nil
}
