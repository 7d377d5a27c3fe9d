package columnar

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/nvandessel/vexlake/internal/vxerr"
)

// Row is one vector record prior to columnar encoding.
type Row struct {
	ID       uint64
	Vector   []float32
	Metadata string // stored only when HasMeta is true
	HasMeta  bool   // false stores a null metadata value
}

// CreateBatch builds an Arrow record batch for rows, all of which must
// carry vectors of the given dimension. Fails with DimensionMismatch on
// the first offending row.
func CreateBatch(dimension int, rows []Row) (arrow.Record, error) {
	mem := memory.NewGoAllocator()
	schema := Schema(dimension)

	idBuilder := array.NewUint64Builder(mem)
	defer idBuilder.Release()

	listBuilder := array.NewFixedSizeListBuilder(mem, int32(dimension), arrow.PrimitiveTypes.Float32)
	defer listBuilder.Release()
	valueBuilder := listBuilder.ValueBuilder().(*array.Float32Builder)

	metaBuilder := array.NewStringBuilder(mem)
	defer metaBuilder.Release()

	for _, r := range rows {
		if len(r.Vector) != dimension {
			return nil, vxerr.DimensionError(dimension, len(r.Vector))
		}

		idBuilder.Append(r.ID)

		listBuilder.Append(true)
		valueBuilder.AppendValues(r.Vector, nil)

		if r.HasMeta {
			metaBuilder.Append(r.Metadata)
		} else {
			metaBuilder.AppendNull()
		}
	}

	idArr := idBuilder.NewArray()
	defer idArr.Release()
	listArr := listBuilder.NewArray()
	defer listArr.Release()
	metaArr := metaBuilder.NewArray()
	defer metaArr.Release()

	return array.NewRecord(schema, []arrow.Array{idArr, listArr, metaArr}, int64(len(rows))), nil
}

// Rows decodes a record batch built from Schema(dimension) back into Row
// values, the inverse of CreateBatch.
func Rows(rec arrow.Record) ([]Row, error) {
	if rec.NumCols() != 3 {
		return nil, vxerr.New(vxerr.Codec, "expected 3 columns, got %d", rec.NumCols())
	}

	idArr, ok := rec.Column(0).(*array.Uint64)
	if !ok {
		return nil, vxerr.New(vxerr.Codec, "column 0 is not a uint64 array")
	}
	listArr, ok := rec.Column(1).(*array.FixedSizeList)
	if !ok {
		return nil, vxerr.New(vxerr.Codec, "column 1 is not a fixed-size-list array")
	}
	valueArr, ok := listArr.ListValues().(*array.Float32)
	if !ok {
		return nil, vxerr.New(vxerr.Codec, "vector list values are not float32")
	}
	metaArr, ok := rec.Column(2).(*array.String)
	if !ok {
		return nil, vxerr.New(vxerr.Codec, "column 2 is not a string array")
	}

	dimension := int(listArr.DataType().(*arrow.FixedSizeListType).Len())

	n := int(rec.NumRows())
	rows := make([]Row, n)
	for i := 0; i < n; i++ {
		start := i * dimension
		vec := make([]float32, dimension)
		copy(vec, valueArr.Float32Values()[start:start+dimension])

		row := Row{ID: idArr.Value(i), Vector: vec}
		if !metaArr.IsNull(i) {
			row.HasMeta = true
			row.Metadata = metaArr.Value(i)
		}
		rows[i] = row
	}
	return rows, nil
}
