// File: services/rag/index.go
package rag

import (
	"math"
	"sort"

	"concierge/models"
)

type indexEntry struct {
	chunk  models.DocumentChunk
	vector []float64 // L2-normalized at insert
	order  int
}

// Index is an in-memory nearest-neighbor structure over chunk vectors using
// brute-force cosine similarity. It holds no external resources and is
// rebuilt from scratch whenever the document set changes; a built Index is
// never mutated after being published, so readers need no locking.
type Index struct {
	entries []indexEntry
}

func NewIndex() *Index {
	return &Index{}
}

// Insert adds one entry. Amortized O(1).
func (ix *Index) Insert(chunk models.DocumentChunk, vector []float64) {
	ix.entries = append(ix.entries, indexEntry{
		chunk:  chunk,
		vector: normalize(vector),
		order:  len(ix.entries),
	})
}

// Len returns the number of stored entries.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Query returns the k entries with highest cosine similarity to the query
// vector in descending-score order. Ties break by insertion order, earlier
// first. k=0 yields an empty result; k beyond the stored count yields all
// entries.
func (ix *Index) Query(vector []float64, k int) []models.RetrievedChunk {
	if k <= 0 || len(ix.entries) == 0 {
		return nil
	}
	query := normalize(vector)

	scored := make([]struct {
		score float64
		order int
	}, len(ix.entries))
	for i, e := range ix.entries {
		scored[i].score = dot(e.vector, query)
		scored[i].order = e.order
	}

	idxs := make([]int, len(ix.entries))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool {
		return scored[idxs[a]].score > scored[idxs[b]].score
	})

	if k > len(idxs) {
		k = len(idxs)
	}
	results := make([]models.RetrievedChunk, 0, k)
	for _, i := range idxs[:k] {
		results = append(results, models.RetrievedChunk{
			Chunk: ix.entries[i].chunk,
			Score: scored[i].score,
		})
	}
	return results
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func normalize(v []float64) []float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		// Still hand back a copy; stored entries must not alias caller memory.
		out := make([]float64, len(v))
		copy(out, v)
		return out
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
