package columnar

import (
	"context"
	"math"
	"testing"

	"github.com/apache/arrow/go/v17/arrow/array"

	"github.com/nvandessel/vexlake/internal/objectstore"
	"github.com/nvandessel/vexlake/internal/vxerr"
)

func TestCreateBatchDimensionMismatch(t *testing.T) {
	rows := []Row{
		{ID: 1, Vector: []float32{1, 2, 3}},
		{ID: 2, Vector: []float32{4, 5}}, // wrong length
	}
	_, err := CreateBatch(3, rows)
	if !vxerr.Is(err, vxerr.DimensionMismatch) {
		t.Fatalf("CreateBatch: got %v, want DimensionMismatch", err)
	}
}

func TestCreateBatchAndRowsRoundTrip(t *testing.T) {
	rows := []Row{
		{ID: 1, Vector: []float32{1, 2, 3}, Metadata: `{"tag":"a"}`, HasMeta: true},
		{ID: 2, Vector: []float32{4, 5, 6}},
	}

	rec, err := CreateBatch(3, rows)
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	defer rec.Release()

	if rec.NumRows() != 2 {
		t.Fatalf("NumRows = %d, want 2", rec.NumRows())
	}

	decoded, err := Rows(rec)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("len(decoded) = %d, want 2", len(decoded))
	}

	if decoded[0].ID != 1 || !decoded[0].HasMeta || decoded[0].Metadata != `{"tag":"a"}` {
		t.Errorf("decoded[0] = %+v, want id 1 with metadata", decoded[0])
	}
	if decoded[1].ID != 2 || decoded[1].HasMeta {
		t.Errorf("decoded[1] = %+v, want id 2 with no metadata", decoded[1])
	}
	for i, v := range decoded[0].Vector {
		if v != rows[0].Vector[i] {
			t.Errorf("decoded[0].Vector[%d] = %v, want %v", i, v, rows[0].Vector[i])
		}
	}
}

func TestWriteBatchReadAllRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := objectstore.NewMemoryStore()

	rows := []Row{
		{ID: 1, Vector: []float32{1, 2, 3}, Metadata: `{"tag":"a"}`, HasMeta: true},
		{ID: 2, Vector: []float32{4, 5, 6}},
	}
	rec, err := CreateBatch(3, rows)
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	defer rec.Release()

	path := "data/part-0.parquet"
	if err := WriteBatch(ctx, store, path, rec); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}

	batches, err := ReadAll(ctx, store, path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(batches) != 1 {
		t.Fatalf("len(batches) = %d, want 1", len(batches))
	}
	defer batches[0].Release()

	if batches[0].NumRows() != 2 {
		t.Fatalf("NumRows = %d, want 2", batches[0].NumRows())
	}

	idCol, ok := batches[0].Column(0).(*array.Uint64)
	if !ok {
		t.Fatalf("column 0 is not uint64")
	}
	if idCol.Value(0) != 1 || idCol.Value(1) != 2 {
		t.Errorf("id column = [%d, %d], want [1, 2]", idCol.Value(0), idCol.Value(1))
	}

	decoded, err := Rows(batches[0])
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	for i, row := range decoded {
		for d, v := range row.Vector {
			want := rows[i].Vector[d]
			if math.Float32bits(v) != math.Float32bits(want) {
				t.Errorf("row %d dim %d = %v, want %v (bit-exact)", i, d, v, want)
			}
		}
	}
}
