package columnar

import (
	"bytes"
	"context"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/file"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"

	"github.com/nvandessel/vexlake/internal/objectstore"
	"github.com/nvandessel/vexlake/internal/vxerr"
)

// WriteBatch encodes rec as a Parquet file and writes it to store at path.
// Query (a DataFusion-style SQL read path over these files) is treated as
// an external collaborator and is not implemented here.
func WriteBatch(ctx context.Context, store objectstore.Store, path string, rec arrow.Record) error {
	var buf bytes.Buffer

	props := parquet.NewWriterProperties()
	writer, err := pqarrow.NewFileWriter(rec.Schema(), &buf, props, pqarrow.DefaultWriterProps())
	if err != nil {
		return vxerr.Wrap(vxerr.Codec, err, "create parquet writer for %s", path)
	}

	if err := writer.Write(rec); err != nil {
		writer.Close()
		return vxerr.Wrap(vxerr.Codec, err, "write record batch for %s", path)
	}
	if err := writer.Close(); err != nil {
		return vxerr.Wrap(vxerr.Codec, err, "close parquet writer for %s", path)
	}

	if err := store.Write(ctx, path, buf.Bytes()); err != nil {
		return vxerr.Wrap(vxerr.Storage, err, "write %s", path)
	}
	return nil
}

// ReadAll reads and decodes every record batch in the Parquet file at
// path.
func ReadAll(ctx context.Context, store objectstore.Store, path string) ([]arrow.Record, error) {
	data, err := store.Read(ctx, path)
	if err != nil {
		return nil, vxerr.Wrap(vxerr.Storage, err, "read %s", path)
	}

	reader, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, vxerr.Wrap(vxerr.Codec, err, "open parquet file %s", path)
	}
	defer reader.Close()

	arrowReader, err := pqarrow.NewFileReader(reader, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, vxerr.Wrap(vxerr.Codec, err, "create arrow reader for %s", path)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, vxerr.Wrap(vxerr.Codec, err, "read table from %s", path)
	}
	defer table.Release()

	tr := array.NewTableReader(table, table.NumRows())
	defer tr.Release()

	var records []arrow.Record
	for tr.Next() {
		rec := tr.Record()
		rec.Retain()
		records = append(records, rec)
	}
	return records, nil
}
