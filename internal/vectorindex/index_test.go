package vectorindex

import (
	"bytes"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/nvandessel/vexlake/internal/vxerr"
)

func newTestIndex(t *testing.T, dim int) *Index {
	t.Helper()
	idx, err := New(Config{Dimension: dim, Rand: rand.New(rand.NewPCG(1, 2))})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return idx
}

func TestSearchEmptyIndexReturnsEmptySlice(t *testing.T) {
	idx := newTestIndex(t, 4)
	results, err := idx.Search([]float32{1, 0, 0, 0}, 5, 50)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}

func TestSearchDimensionMismatch(t *testing.T) {
	idx := newTestIndex(t, 4)
	if err := idx.Insert(1, []float32{1, 0, 0, 0}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	_, err := idx.Search([]float32{1, 0}, 1, 10)
	if !vxerr.Is(err, vxerr.DimensionMismatch) {
		t.Fatalf("Search dimension mismatch: got %v, want DimensionMismatch", err)
	}
}

func TestInsertDuplicateIDRejected(t *testing.T) {
	idx := newTestIndex(t, 3)
	if err := idx.Insert(1, []float32{1, 0, 0}); err != nil {
		t.Fatalf("first Insert: %v", err)
	}
	err := idx.Insert(1, []float32{0, 1, 0})
	if !vxerr.Is(err, vxerr.InvalidConfig) {
		t.Fatalf("duplicate Insert: got %v, want InvalidConfig", err)
	}
}

func TestSearchThreeOrthogonalVectors(t *testing.T) {
	idx := newTestIndex(t, 3)
	vectors := map[uint64][]float32{
		1: {1, 0, 0},
		2: {0, 1, 0},
		3: {0, 0, 1},
	}
	for id, v := range vectors {
		if err := idx.Insert(id, v); err != nil {
			t.Fatalf("Insert(%d): %v", id, err)
		}
	}

	results, err := idx.Search([]float32{1, 0.1, 0.1}, 2, 50)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].ID != 1 {
		t.Errorf("results[0].ID = %d, want 1", results[0].ID)
	}
}

// orthogonalCorpus builds n axis-aligned unit vectors in dimension n (or
// cycling axes when k > n), giving a dataset with an unambiguous exact
// top-k for any axis-aligned query.
func orthogonalCorpus(n, dim int) map[uint64][]float32 {
	out := make(map[uint64][]float32, n)
	for i := 0; i < n; i++ {
		v := make([]float32, dim)
		v[i%dim] = 1
		out[uint64(i)] = v
	}
	return out
}

func TestRecallAcrossDimensions(t *testing.T) {
	for _, dim := range []int{8, 32, 128} {
		dim := dim
		t.Run("", func(t *testing.T) {
			idx, err := New(Config{Dimension: dim, Rand: rand.New(rand.NewPCG(7, 11))})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			bf := NewBruteForceIndex(dim)

			corpus := orthogonalCorpus(200, dim)
			for id, v := range corpus {
				if err := idx.Insert(id, v); err != nil {
					t.Fatalf("Insert(%d): %v", id, err)
				}
				if err := bf.Insert(id, v); err != nil {
					t.Fatalf("bf Insert(%d): %v", id, err)
				}
			}

			query := make([]float32, dim)
			query[0] = 1

			k := 10
			approx, err := idx.Search(query, k, 100)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			exact, err := bf.Search(query, k)
			if err != nil {
				t.Fatalf("bf Search: %v", err)
			}

			exactSet := make(map[uint64]bool, len(exact))
			for _, r := range exact {
				exactSet[r.ID] = true
			}
			hits := 0
			for _, r := range approx {
				if exactSet[r.ID] {
					hits++
				}
			}
			recall := float64(hits) / float64(len(exact))
			if recall < 0.8 {
				t.Errorf("dim=%d: recall = %v, want >= 0.8", dim, recall)
			}
		})
	}
}

func TestExactRecallOnWellSeparatedSet(t *testing.T) {
	dim := 16
	idx, err := New(Config{Dimension: dim, EfConstruction: 400, Rand: rand.New(rand.NewPCG(3, 5))})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	clusters := [][]float32{}
	for c := 0; c < 5; c++ {
		center := make([]float32, dim)
		center[c%dim] = 10
		clusters = append(clusters, center)
	}

	id := uint64(0)
	var targetID uint64
	for ci, center := range clusters {
		for j := 0; j < 20; j++ {
			v := make([]float32, dim)
			copy(v, center)
			v[(ci+1)%dim] += float32(j) * 0.01
			if err := idx.Insert(id, v); err != nil {
				t.Fatalf("Insert(%d): %v", id, err)
			}
			if ci == 0 && j == 0 {
				targetID = id
			}
			id++
		}
	}

	results, err := idx.Search(clusters[0], 1, 200)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].ID != targetID {
		t.Errorf("top result = %d, want %d (exact cluster center match)", results[0].ID, targetID)
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	dim := 8
	idx, err := New(Config{Dimension: dim, Rand: rand.New(rand.NewPCG(42, 99))})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	corpus := orthogonalCorpus(50, dim)
	for id, v := range corpus {
		if err := idx.Insert(id, v); err != nil {
			t.Fatalf("Insert(%d): %v", id, err)
		}
	}

	var buf bytes.Buffer
	if err := idx.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	restored, err := Deserialize(&buf)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if restored.Dimension() != idx.Dimension() {
		t.Fatalf("Dimension() = %d, want %d", restored.Dimension(), idx.Dimension())
	}
	if restored.Len() != idx.Len() {
		t.Fatalf("Len() = %d, want %d", restored.Len(), idx.Len())
	}

	query := make([]float32, dim)
	query[0] = 1

	want, err := idx.Search(query, 5, 50)
	if err != nil {
		t.Fatalf("Search (original): %v", err)
	}
	got, err := restored.Search(query, 5, 50)
	if err != nil {
		t.Fatalf("Search (restored): %v", err)
	}

	if len(want) != len(got) {
		t.Fatalf("len mismatch: want %d got %d", len(want), len(got))
	}
	for i := range want {
		if want[i].ID != got[i].ID {
			t.Errorf("result[%d].ID = %d, want %d", i, got[i].ID, want[i].ID)
		}
		if math.Abs(float64(want[i].Score-got[i].Score)) > 1e-5 {
			t.Errorf("result[%d].Score = %v, want %v", i, got[i].Score, want[i].Score)
		}
	}
}

func TestDeserializeRejectsTruncatedStream(t *testing.T) {
	idx := newTestIndex(t, 4)
	if err := idx.Insert(1, []float32{1, 0, 0, 0}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	var buf bytes.Buffer
	if err := idx.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()-4])
	if _, err := Deserialize(truncated); err == nil {
		t.Fatal("expected error deserializing truncated stream")
	}
}
