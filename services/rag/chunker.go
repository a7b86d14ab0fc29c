package rag

import "concierge/models"

// Chunker splits extracted document text into overlapping character windows.
// Offsets are rune positions so multi-byte text chunks cleanly.
type Chunker struct {
	size    int
	overlap int
}

func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 5
	}
	return &Chunker{size: size, overlap: overlap}
}

// Chunk covers the full document with windows of the configured size,
// adjacent windows overlapping by the configured amount. The final chunk may
// be shorter than the target size; no chunk is ever empty. Deterministic for
// a given input and configuration.
func (c *Chunker) Chunk(doc models.Document) []models.DocumentChunk {
	runes := []rune(doc.Content)
	length := len(runes)
	if length == 0 {
		return nil
	}

	var chunks []models.DocumentChunk
	start := 0
	for start < length {
		end := start + c.size
		if end > length {
			end = length
		}
		chunks = append(chunks, models.DocumentChunk{
			DocumentID: doc.ID,
			Index:      len(chunks),
			Start:      start,
			End:        end,
			Text:       string(runes[start:end]),
		})
		if end == length {
			break
		}
		start = end - c.overlap
	}
	return chunks
}
