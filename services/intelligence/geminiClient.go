// File: services/intelligence/geminiClient.go
package intelligence

import (
	"context"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient produces grounded answers via the Gemini generation API.
type GeminiClient struct {
	model *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{model: client.GenerativeModel(modelName)}, nil
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	var out string
	err := withRetry(ctx, func() error {
		resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return wrapServiceError("gemini generate", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return wrapServiceError("gemini generate", fmt.Errorf("empty response"))
		}
		var sb strings.Builder
		for _, part := range resp.Candidates[0].Content.Parts {
			if textPart, ok := part.(genai.Text); ok {
				sb.WriteString(string(textPart))
			}
		}
		out = sb.String()
		return nil
	})
	return out, err
}
