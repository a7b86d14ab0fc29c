// File: services/intelligence/embedder.go
package intelligence

import (
	"context"
	"fmt"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiEmbedder maps text to embedding vectors via the Gemini API, with the
// retrieval task hint set per call site: queries and documents are embedded
// with different hints so the model can optimize for each.
type GeminiEmbedder struct {
	queryModel *genai.EmbeddingModel
	docModel   *genai.EmbeddingModel
}

func NewGeminiEmbedder(ctx context.Context, apiKey, modelName string) (*GeminiEmbedder, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	queryModel := client.EmbeddingModel(modelName)
	queryModel.TaskType = genai.TaskTypeRetrievalQuery
	docModel := client.EmbeddingModel(modelName)
	docModel.TaskType = genai.TaskTypeRetrievalDocument

	return &GeminiEmbedder{queryModel: queryModel, docModel: docModel}, nil
}

// Embed embeds a single query text.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	var out []float64
	err := withRetry(ctx, func() error {
		res, err := e.queryModel.EmbedContent(ctx, genai.Text(text))
		if err != nil {
			return wrapServiceError("gemini embed", err)
		}
		if res.Embedding == nil || len(res.Embedding.Values) == 0 {
			return wrapServiceError("gemini embed", fmt.Errorf("no embedding returned"))
		}
		out = toFloat64(res.Embedding.Values)
		return nil
	})
	return out, err
}

// EmbedBatch embeds document chunks in one batched request.
func (e *GeminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	var out [][]float64
	err := withRetry(ctx, func() error {
		batch := e.docModel.NewBatch()
		for _, t := range texts {
			batch.AddContent(genai.Text(t))
		}
		res, err := e.docModel.BatchEmbedContents(ctx, batch)
		if err != nil {
			return wrapServiceError("gemini embed batch", err)
		}
		if len(res.Embeddings) != len(texts) {
			return wrapServiceError("gemini embed batch",
				fmt.Errorf("expected %d embeddings, got %d", len(texts), len(res.Embeddings)))
		}
		out = make([][]float64, len(res.Embeddings))
		for i, emb := range res.Embeddings {
			out[i] = toFloat64(emb.Values)
		}
		return nil
	})
	return out, err
}

func toFloat64(values []float32) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
