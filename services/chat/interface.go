package chat

import (
	"context"

	"concierge/models"
)

// Generator is the hosted text-generation collaborator.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ChatService is the single turn-processing entry point exposed to the
// presentation layer.
type ChatService interface {
	ProcessTurn(ctx context.Context, sessionID, userText string) (*models.ChatResponse, error)
}
