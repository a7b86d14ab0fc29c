package rag

import "context"

// Embedder maps text to fixed-length vectors via an external service.
// Embed is used for queries, EmbedBatch for document chunks; the two may
// carry different task hints for the backing model.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}
