// File: services/rag/composer.go
package rag

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"concierge/models"
)

// Prompt is a grounded generation request. Grounded is false when no
// retrieval context could be included, so the answer can disclose the
// limitation.
type Prompt struct {
	Text     string
	Grounded bool
}

// Composer combines retrieved context with the user question into a single
// generation prompt, bounded by a maximum total context length.
type Composer struct {
	maxContextChars int
	maxHistory      int
}

func NewComposer(maxContextChars int) *Composer {
	if maxContextChars <= 0 {
		maxContextChars = 6000
	}
	return &Composer{maxContextChars: maxContextChars, maxHistory: 10}
}

// Build assembles the prompt. Retrieved chunks arrive in descending-score
// order and the lowest-scoring ones are dropped first when the context budget
// is exceeded. The best chunk is always included, trimmed to the budget if it
// alone exceeds it.
func (c *Composer) Build(question string, history []models.Message, retrieved []models.RetrievedChunk) Prompt {
	var contextBlocks []string
	used := 0
	for i, rc := range retrieved {
		header := fmt.Sprintf("[Source: %s | Chunk %d | Score %.3f]\n",
			rc.Chunk.DocumentID, rc.Chunk.Index, rc.Score)
		text := rc.Chunk.Text
		if used+len(header)+len(text) > c.maxContextChars {
			if i > 0 {
				break
			}
			remaining := c.maxContextChars - len(header)
			if remaining < 0 {
				remaining = 0
			}
			text = truncateText(text, remaining)
		}
		block := header + text
		contextBlocks = append(contextBlocks, block)
		used += len(block)
	}

	var sb strings.Builder
	sb.WriteString("You are an AI booking assistant.\n")
	sb.WriteString("Use the CONTEXT to answer the QUESTION.\n")
	sb.WriteString("If the answer is not in the context, say you are not sure and ask a clarifying question.\n")

	if len(history) > 0 {
		start := len(history) - c.maxHistory
		if start < 0 {
			start = 0
		}
		sb.WriteString("\nCHAT HISTORY:\n")
		for _, msg := range history[start:] {
			content := strings.TrimSpace(msg.Content)
			if content == "" {
				continue
			}
			sb.WriteString(strings.ToUpper(msg.Role) + ": " + content + "\n")
		}
	}

	grounded := len(contextBlocks) > 0
	if grounded {
		sb.WriteString("\nCONTEXT:\n" + strings.Join(contextBlocks, "\n\n---\n\n") + "\n")
	} else {
		sb.WriteString("\nCONTEXT:\n(No documents have been ingested yet.)\n")
	}

	sb.WriteString("\nQUESTION:\n" + strings.TrimSpace(question))
	return Prompt{Text: sb.String(), Grounded: grounded}
}

// truncateText cuts text to at most max bytes, backing off to a rune boundary.
func truncateText(text string, max int) string {
	if len(text) <= max {
		return text
	}
	text = text[:max]
	for len(text) > 0 && !utf8.ValidString(text) {
		text = text[:len(text)-1]
	}
	return text
}
