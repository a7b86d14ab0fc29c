// File: services/rag/retriever.go
package rag

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"

	"concierge/models"

	"go.uber.org/zap"
)

// embedTimeout bounds every individual call to the embedding service so a
// hung call cannot hang the turn.
const embedTimeout = 15 * time.Second

// Retriever orchestrates chunk embedding at ingestion time and query
// embedding plus top-k lookup at question time. The index is rebuilt, not
// patched, on every document-set change and published with swap-on-complete
// semantics: concurrent queries see either the previous or the new index,
// never a partially populated one.
type Retriever struct {
	chunker  *Chunker
	embedder Embedder
	topK     int
	logger   *zap.Logger

	mu    sync.Mutex // guards docs, vectors and rebuilds
	docs  []models.Document
	seen  map[string]bool      // name+content fingerprints of ingested docs
	cache map[string][]float64 // chunk key -> vector, lives with the doc set

	index atomic.Pointer[Index]
}

func NewRetriever(chunker *Chunker, embedder Embedder, topK int, logger *zap.Logger) *Retriever {
	r := &Retriever{
		chunker:  chunker,
		embedder: embedder,
		topK:     topK,
		logger:   logger,
		seen:     make(map[string]bool),
		cache:    make(map[string][]float64),
	}
	r.index.Store(NewIndex())
	return r
}

// Ingest adds documents to the set and rebuilds the index over the whole set.
// A chunk whose embedding fails is logged and skipped; the rest of the
// ingestion proceeds. Returns the number of chunks indexed.
func (r *Retriever) Ingest(ctx context.Context, docs []models.Document) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-ingesting an already-known document leaves the set unchanged, so an
	// identical upload twice yields identical query results.
	for _, doc := range docs {
		fp := fingerprint(doc)
		if r.seen[fp] {
			continue
		}
		r.seen[fp] = true
		r.docs = append(r.docs, doc)
	}

	var chunks []models.DocumentChunk
	for _, doc := range r.docs {
		chunks = append(chunks, r.chunker.Chunk(doc)...)
	}

	if err := r.embedMissing(ctx, chunks); err != nil {
		return 0, err
	}

	next := NewIndex()
	for _, chunk := range chunks {
		vec, ok := r.cache[chunk.Key()]
		if !ok {
			// Embedding failed for this chunk; it stays out of the index.
			continue
		}
		next.Insert(chunk, vec)
	}
	r.index.Store(next)
	return next.Len(), nil
}

// embedMissing fills the vector cache for chunks not yet embedded. It tries
// one batch call first and falls back to per-chunk calls so a single bad
// chunk cannot abort the rest.
func (r *Retriever) embedMissing(ctx context.Context, chunks []models.DocumentChunk) error {
	var missing []models.DocumentChunk
	for _, chunk := range chunks {
		if _, ok := r.cache[chunk.Key()]; !ok {
			missing = append(missing, chunk)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	texts := make([]string, len(missing))
	for i, chunk := range missing {
		texts[i] = chunk.Text
	}

	batchCtx, cancelBatch := context.WithTimeout(ctx, embedTimeout)
	vectors, err := r.embedder.EmbedBatch(batchCtx, texts)
	cancelBatch()
	if err == nil && len(vectors) == len(missing) {
		for i, chunk := range missing {
			r.cache[chunk.Key()] = vectors[i]
		}
		return nil
	}
	if err != nil {
		r.logger.Warn("batch embedding failed, retrying per chunk", zap.Error(err))
	}

	for _, chunk := range missing {
		chunkCtx, cancelChunk := context.WithTimeout(ctx, embedTimeout)
		vec, embedErr := r.embedder.Embed(chunkCtx, chunk.Text)
		cancelChunk()
		if embedErr != nil {
			r.logger.Warn("skipping chunk: embedding failed",
				zap.String("chunk", chunk.Key()), zap.Error(embedErr))
			continue
		}
		r.cache[chunk.Key()] = vec
	}
	return nil
}

// Retrieve embeds the question and returns the top-k chunks by similarity.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]models.RetrievedChunk, error) {
	snapshot := r.index.Load()
	if snapshot.Len() == 0 {
		return nil, nil
	}
	embedCtx, cancel := context.WithTimeout(ctx, embedTimeout)
	defer cancel()
	vec, err := r.embedder.Embed(embedCtx, query)
	if err != nil {
		return nil, err
	}
	return snapshot.Query(vec, r.topK), nil
}

// Size reports the number of indexed chunks.
func (r *Retriever) Size() int {
	return r.index.Load().Len()
}

func fingerprint(doc models.Document) string {
	sum := sha256.Sum256([]byte(doc.Name + "\x00" + doc.Content))
	return hex.EncodeToString(sum[:])
}
