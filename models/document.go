package models

import "strconv"

// Document represents the extracted text of one uploaded file.
type Document struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// DocumentChunk is a contiguous span of source text, the unit of embedding
// and retrieval. Offsets are rune positions within the source document.
type DocumentChunk struct {
	DocumentID string `json:"documentId"`
	Index      int    `json:"index"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Text       string `json:"text"`
}

// Key identifies a chunk within the ingested document set.
func (c DocumentChunk) Key() string {
	return c.DocumentID + ":" + strconv.Itoa(c.Index)
}

// RetrievedChunk pairs a chunk with its similarity score for one query.
type RetrievedChunk struct {
	Chunk DocumentChunk `json:"chunk"`
	Score float64       `json:"score"`
}
