package embedding

import "context"

// Embedder turns text into a fixed-dimension vector. The dimension is
// fixed for the lifetime of the embedder and must match the collection it
// feeds.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}
