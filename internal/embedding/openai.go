package embedding

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAI implements Embedder against an OpenAI-compatible embeddings
// endpoint.
type OpenAI struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	dimension int
}

// NewOpenAI creates a new OpenAI embedder.
func NewOpenAI(apiKey, baseURL, model string, dimension int) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key required")
	}
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	if dimension <= 0 {
		dimension = 1536
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		client:    openai.NewClientWithConfig(cfg),
		model:     openai.EmbeddingModel(model),
		dimension: dimension,
	}, nil
}

// Dimension returns the configured vector dimension.
func (e *OpenAI) Dimension() int {
	return e.dimension
}

// Embed returns the embedding vector for the given text.
func (e *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      e.model,
		Dimensions: e.dimension,
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings API error: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embeddings API returned no data")
	}
	vec := resp.Data[0].Embedding
	if len(vec) != e.dimension {
		return nil, fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(vec), e.dimension)
	}
	return vec, nil
}
