package llm

import (
	"context"

	"github.com/finsightai/finsight/internal/core"
)

// Provider defines the interface for LLM providers
type Provider interface {
	Name() string
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ChatRequest holds the request parameters
type ChatRequest struct {
	SystemPrompt string
	Messages     []Message
	MaxTokens    int
	Temperature  float64
	JSONMode     bool
}

// Message represents a chat message
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// ChatResponse holds the response from the LLM
type ChatResponse struct {
	Content      string
	Usage        Usage
	FinishReason string
}

// Usage tracks token consumption
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Generate issues a single system/user prompt pair and returns the raw
// text. The output is carried forward unparsed; any provider error is a
// generator failure, which is fatal to the stage that needed the text.
func Generate(ctx context.Context, p Provider, systemPrompt, userPrompt string) (string, error) {
	resp, err := p.Chat(ctx, ChatRequest{
		SystemPrompt: systemPrompt,
		Messages:     []Message{{Role: "user", Content: userPrompt}},
		MaxTokens:    4096,
		Temperature:  0.1,
	})
	if err != nil {
		return "", core.WrapError(core.ErrGeneratorFailed, err)
	}
	return resp.Content, nil
}
