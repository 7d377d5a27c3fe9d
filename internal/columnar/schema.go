// Package columnar builds and reads the Parquet-backed columnar record
// batches vector data is persisted as: one row per vector, with an id, a
// fixed-size-list vector column, and an optional metadata string.
package columnar

import (
	"github.com/apache/arrow/go/v17/arrow"
)

// Schema returns the Arrow schema for a batch of dimension-D vectors: id
// (uint64, non-null), vector (fixed-size-list of D nullable float32
// elements, non-null as a list), metadata (nullable utf8).
func Schema(dimension int) *arrow.Schema {
	elem := arrow.Field{Name: "item", Type: arrow.PrimitiveTypes.Float32, Nullable: true}
	vectorType := arrow.FixedSizeListOfField(int32(dimension), elem)

	return arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Uint64, Nullable: false},
		{Name: "vector", Type: vectorType, Nullable: false},
		{Name: "metadata", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)
}
