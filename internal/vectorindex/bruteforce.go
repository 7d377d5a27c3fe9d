package vectorindex

import (
	"sync"

	"github.com/nvandessel/vexlake/internal/vecmath"
	"github.com/nvandessel/vexlake/internal/vxerr"
)

// BruteForceIndex is an exhaustive-scan index with the same Insert/Search
// surface as Index. It exists as a correctness oracle: HNSW recall is
// measured by comparing its approximate results against this exact one,
// never as a production storage path in its own right.
type BruteForceIndex struct {
	mu        sync.RWMutex
	dimension int
	vectors   map[uint64]vecmath.Vector
}

// NewBruteForceIndex constructs an empty exact index over D-dimensional
// vectors.
func NewBruteForceIndex(dimension int) *BruteForceIndex {
	return &BruteForceIndex{
		dimension: dimension,
		vectors:   make(map[uint64]vecmath.Vector),
	}
}

// Dimension returns the configured vector length.
func (b *BruteForceIndex) Dimension() int { return b.dimension }

// Len returns the number of vectors currently held.
func (b *BruteForceIndex) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.vectors)
}

// Insert adds id/vector, rejecting duplicate ids the same way Index does.
func (b *BruteForceIndex) Insert(id uint64, vector []float32) error {
	if len(vector) != b.dimension {
		return vxerr.DimensionError(b.dimension, len(vector))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.vectors[id]; exists {
		return vxerr.New(vxerr.InvalidConfig, "id %d already present; ids are write-once", id)
	}

	cp := make([]float32, len(vector))
	copy(cp, vector)
	b.vectors[id] = vecmath.Vector{ID: id, Values: cp}
	return nil
}

// Search returns the exact top-k results by cosine similarity, using
// vecmath.BruteForceTopK as the scoring kernel.
func (b *BruteForceIndex) Search(query []float32, k int) ([]SearchResult, error) {
	if len(query) != b.dimension {
		return nil, vxerr.DimensionError(b.dimension, len(query))
	}

	b.mu.RLock()
	vectors := make([]vecmath.Vector, 0, len(b.vectors))
	for _, v := range b.vectors {
		vectors = append(vectors, v)
	}
	b.mu.RUnlock()

	scored := vecmath.BruteForceTopK(query, vectors, k)
	results := make([]SearchResult, len(scored))
	for i, s := range scored {
		results[i] = SearchResult{ID: s.ID, Score: s.Score}
	}
	return results, nil
}
