// Package objectstore defines the storage adapter the catalogue and
// columnar layers write through: a thin, context-aware abstraction over a
// flat key/byte-blob namespace, with in-memory and S3-backed
// implementations.
package objectstore

import "context"

// Store is the storage adapter every path-addressed VexLake component
// writes through. Implementations must treat path as an opaque key (no
// assumed directory semantics beyond List's prefix matching).
type Store interface {
	Write(ctx context.Context, path string, data []byte) error
	Read(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) (bool, error)
	Delete(ctx context.Context, path string) error
	DeletePrefix(ctx context.Context, prefix string) error
	List(ctx context.Context, prefix string) ([]string, error)
}
