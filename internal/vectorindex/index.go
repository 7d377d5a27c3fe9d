// Package vectorindex implements the HNSW (Hierarchical Navigable Small
// World) graph index: incremental insertion and top-K approximate nearest
// neighbor search over fixed-dimension float32 vectors, with deterministic
// byte serialization so a built index can round-trip through object
// storage.
//
// Index is a single mutable owner: it performs no internal locking.
// Concurrent Insert/Search on the same instance is not supported —
// callers serialize access externally, and must only call Serialize at a
// quiescent point. A deserialized Index is safe to share across
// goroutines that only call Search.
package vectorindex

import (
	"container/heap"
	"math"
	"sort"

	"github.com/nvandessel/vexlake/internal/vecmath"
	"github.com/nvandessel/vexlake/internal/vxerr"
)

// node is a single HNSW graph vertex. neighbors[l] holds the node's
// out-edges at layer l; len(neighbors) == topLayer(node)+1.
type node struct {
	id        uint64
	vector    []float32
	neighbors [][]uint64
}

// SearchResult pairs a vector id with its cosine similarity score.
type SearchResult struct {
	ID    uint64
	Score float32
}

// Index is a Hierarchical Navigable Small World graph.
type Index struct {
	config     Config
	nodes      map[uint64]*node
	entryPoint uint64
	hasEntry   bool
	topLayer   int // -1 when empty
}

// New constructs an empty Index. cfg.Dimension must be positive; other
// fields fall back to the documented defaults when zero.
func New(cfg Config) (*Index, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Index{
		config:   cfg,
		nodes:    make(map[uint64]*node),
		topLayer: -1,
	}, nil
}

// Dimension returns the index's configured vector length.
func (idx *Index) Dimension() int { return idx.config.Dimension }

// Len returns the number of vectors currently in the index.
func (idx *Index) Len() int { return len(idx.nodes) }

// dist is the internal distance function: smaller is closer.
func dist(q, x []float32) float32 {
	return 1 - vecmath.CosineSimilarity(q, x)
}

func (idx *Index) distTo(q []float32, id uint64) float32 {
	return dist(q, idx.nodes[id].vector)
}

// assignLayer draws the top layer for a newly inserted node: r is drawn
// uniformly from (0, 1], and the layer is floor(-ln(r) * ml).
func (idx *Index) assignLayer() int {
	r := 1 - idx.config.randFloat64() // (0, 1]
	return int(math.Floor(-math.Log(r) * idx.config.Ml))
}

// Insert adds id/vector to the index. Fails with DimensionMismatch when
// len(vector) != Dimension. Re-inserting an id that already exists fails
// with InvalidConfig: ids are write-once, and silently replacing a
// vector while leaving its old edges in place would corrupt the graph's
// distance invariants (see the Open Question in DESIGN.md).
func (idx *Index) Insert(id uint64, vector []float32) error {
	if len(vector) != idx.config.Dimension {
		return vxerr.DimensionError(idx.config.Dimension, len(vector))
	}
	if _, exists := idx.nodes[id]; exists {
		return vxerr.New(vxerr.InvalidConfig, "id %d already present; ids are write-once", id)
	}

	cp := make([]float32, len(vector))
	copy(cp, vector)

	lNew := idx.assignLayer()

	if !idx.hasEntry {
		idx.nodes[id] = &node{id: id, vector: cp, neighbors: make([][]uint64, lNew+1)}
		idx.entryPoint = id
		idx.hasEntry = true
		idx.topLayer = lNew
		return nil
	}

	ep := idx.entryPoint
	best := idx.distTo(cp, ep)

	// Greedy zoom-in from the top layer down to one above the new node's
	// top layer, to find a good entry point into its insertion range.
	for l := idx.topLayer; l > lNew; l-- {
		ep, best = idx.greedyDescend(cp, ep, best, l)
	}

	newNode := &node{id: id, vector: cp, neighbors: make([][]uint64, lNew+1)}
	// Registered before linking so linkAndPrune can rank the new id by
	// distance when a neighbor's list overflows.
	idx.nodes[id] = newNode

	top := lNew
	if idx.topLayer < top {
		top = idx.topLayer
	}
	for l := top; l >= 0; l-- {
		frontier := idx.searchLayer(cp, ep, idx.config.EfConstruction, l)

		m := idx.config.M
		if l == 0 {
			m = idx.config.MMax0
		}
		if m > len(frontier) {
			m = len(frontier)
		}
		selected := make([]uint64, m)
		for i := 0; i < m; i++ {
			selected[i] = frontier[i].id
		}
		newNode.neighbors[l] = selected

		degreeCap := idx.config.M
		if l == 0 {
			degreeCap = idx.config.MMax0
		}
		for _, nbID := range selected {
			idx.linkAndPrune(nbID, id, l, degreeCap)
		}

		if len(selected) > 0 {
			ep = selected[0]
		}
	}

	if lNew > idx.topLayer {
		idx.topLayer = lNew
		idx.entryPoint = id
	}

	return nil
}

// greedyDescend repeatedly hops to a strictly closer layer-l neighbor of
// ep until no improvement is found, returning the new (ep, best).
func (idx *Index) greedyDescend(q []float32, ep uint64, best float32, l int) (uint64, float32) {
	changed := true
	for changed {
		changed = false
		n := idx.nodes[ep]
		if l >= len(n.neighbors) {
			continue
		}
		for _, nbID := range n.neighbors[l] {
			d := idx.distTo(q, nbID)
			if d < best {
				best = d
				ep = nbID
				changed = true
			}
		}
	}
	return ep, best
}

// linkAndPrune appends newID to neighbor's layer-l neighbor list and, if
// that exceeds cap, shrinks the list by keeping the cap entries nearest
// to neighbor's own vector (ascending distance) — "shrink by nearest
// retention", not the Malkov diversity heuristic. Implementations must
// reproduce this exact policy for deterministic topology.
func (idx *Index) linkAndPrune(neighborID, newID uint64, l, degreeCap int) {
	n := idx.nodes[neighborID]
	if l >= len(n.neighbors) {
		return
	}

	n.neighbors[l] = append(n.neighbors[l], newID)
	if len(n.neighbors[l]) <= degreeCap {
		return
	}

	type scored struct {
		id   uint64
		dist float32
	}
	ranked := make([]scored, len(n.neighbors[l]))
	for i, id := range n.neighbors[l] {
		ranked[i] = scored{id: id, dist: idx.distTo(n.vector, id)}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].dist < ranked[j].dist })

	kept := make([]uint64, degreeCap)
	for i := 0; i < degreeCap; i++ {
		kept[i] = ranked[i].id
	}
	n.neighbors[l] = kept
}

// searchLayer is the best-first beam search protocol described in
// spec.md §4.2: a bounded max-heap result set and an unbounded min-heap
// work queue, both keyed by distance to q. Returns the final result set
// sorted ascending by distance.
func (idx *Index) searchLayer(q []float32, ep uint64, ef, l int) []candidate {
	visited := map[uint64]bool{ep: true}

	epDist := idx.distTo(q, ep)

	work := minHeap{{id: ep, dist: epDist}}
	heap.Init(&work)

	result := maxHeap{{id: ep, dist: epDist}}
	heap.Init(&result)

	for work.Len() > 0 {
		c := heap.Pop(&work).(candidate)
		if result.Len() > 0 && c.dist > result[0].dist {
			break
		}

		n := idx.nodes[c.id]
		if l >= len(n.neighbors) {
			continue
		}

		for _, nbID := range n.neighbors[l] {
			if visited[nbID] {
				continue
			}
			visited[nbID] = true

			d := idx.distTo(q, nbID)
			if result.Len() < ef || d < result[0].dist {
				heap.Push(&work, candidate{id: nbID, dist: d})
				heap.Push(&result, candidate{id: nbID, dist: d})
				if result.Len() > ef {
					heap.Pop(&result)
				}
			}
		}
	}

	out := make([]candidate, len(result))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&result).(candidate)
	}
	return out
}

// Search returns up to k results sorted by cosine similarity descending.
// ef is the search-time beam width; the effective beam is max(ef, k).
// Returns an empty slice on an empty index. Fails with DimensionMismatch
// when len(query) != Dimension.
func (idx *Index) Search(query []float32, k, ef int) ([]SearchResult, error) {
	if len(query) != idx.config.Dimension {
		return nil, vxerr.DimensionError(idx.config.Dimension, len(query))
	}
	if !idx.hasEntry {
		return []SearchResult{}, nil
	}

	ep := idx.entryPoint
	best := idx.distTo(query, ep)
	for l := idx.topLayer; l > 0; l-- {
		ep, best = idx.greedyDescend(query, ep, best, l)
	}

	beam := ef
	if k > beam {
		beam = k
	}

	frontier := idx.searchLayer(query, ep, beam, 0)

	results := make([]SearchResult, len(frontier))
	for i, c := range frontier {
		results[i] = SearchResult{ID: c.id, Score: 1 - c.dist}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}
