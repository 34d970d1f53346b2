// Package vectorindex implements the in-memory cosine-similarity lookup
// over master-skill embeddings (C3). It is loaded once per process and
// treated as immutable for the life of a request; the 0.92 acceptance
// threshold is applied by the caller (the skill matcher), not here.
package vectorindex

import (
	"math"

	"github.com/nexusats/matchengine/internal/domain"
)

// Index is a flat-scan vector index. A production deployment with a large
// taxonomy could swap this for an ANN structure without changing the
// Matcher contract; the spec's correctness properties only require Search
// to return the true best match.
type Index struct {
	entries []domain.VectorEntry
}

// New builds an Index from the given entries. Entries with a nil skill or
// empty embedding are skipped.
func New(entries []domain.VectorEntry) *Index {
	idx := &Index{entries: make([]domain.VectorEntry, 0, len(entries))}
	for _, e := range entries {
		if e.Skill == nil || len(e.Embedding) == 0 {
			continue
		}
		idx.entries = append(idx.entries, e)
	}
	return idx
}

// Len reports how many entries the index holds.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Search scans every entry and returns the one with the highest cosine
// similarity to query, along with that similarity. If the index is empty
// it returns (nil, 0).
func (idx *Index) Search(query []float64) (*domain.VectorEntry, float64) {
	var best *domain.VectorEntry
	bestScore := -1.0

	for i := range idx.entries {
		score := CosineSimilarity(query, idx.entries[i].Embedding)
		if score > bestScore {
			bestScore = score
			best = &idx.entries[i]
		}
	}

	if best == nil {
		return nil, 0
	}
	return best, bestScore
}

// CosineSimilarity computes the cosine similarity of two equal-length
// float vectors. Mismatched lengths or zero-magnitude vectors return 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
