package vectorindex

// candidate pairs a node id with its distance to the query that is
// currently driving a search_layer traversal.
type candidate struct {
	id   uint64
	dist float32
}

// minHeap is a min-priority queue ordered by ascending distance: the work
// queue in search_layer, which always expands the closest unvisited
// candidate next.
type minHeap []candidate

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// maxHeap is a max-priority queue ordered by descending distance: the
// bounded result set in search_layer, whose root is always the current
// farthest kept candidate so it can be evicted when the set overflows ef.
type maxHeap []candidate

func (h maxHeap) Len() int            { return len(h) }
func (h maxHeap) Less(i, j int) bool  { return h[i].dist > h[j].dist }
func (h maxHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *maxHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
