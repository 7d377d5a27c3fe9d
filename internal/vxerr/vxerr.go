// Package vxerr defines the unified error taxonomy shared by every VexLake
// core package. Layers wrap underlying failures with Wrap, which keeps the
// cause reachable through Unwrap the way fmt.Errorf's %w does, and adds a
// typed Kind so callers can branch on error category with Is instead of
// string-matching messages.
package vxerr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error for programmatic handling.
type Kind int

const (
	// Other is an unclassified failure.
	Other Kind = iota
	// Storage is any failure surfaced by the object-store adapter.
	Storage
	// Codec is a record-batch / Parquet encode-decode failure.
	Codec
	// Serialization is an encode/decode failure of a persisted format: JSON
	// version manifests, the latest-version pointer, and the HNSW binary
	// stream (including malformed index bytes).
	Serialization
	// Index is a corruption or invariant failure inside the HNSW graph.
	Index
	// DimensionMismatch is a caller-supplied vector of the wrong length.
	DimensionMismatch
	// NotFound is a lookup-style miss.
	NotFound
	// InvalidConfig is a constructor-time validation failure.
	InvalidConfig
	// FfiError is a string-conversion failure at the (external) C ABI boundary.
	FfiError
)

func (k Kind) String() string {
	switch k {
	case Storage:
		return "storage"
	case Codec:
		return "codec"
	case Serialization:
		return "serialization"
	case Index:
		return "index"
	case DimensionMismatch:
		return "dimension_mismatch"
	case NotFound:
		return "not_found"
	case InvalidConfig:
		return "invalid_config"
	case FfiError:
		return "ffi_error"
	default:
		return "other"
	}
}

// Error is the concrete error type returned by VexLake core packages.
type Error struct {
	Kind     Kind
	Message  string
	Expected int // only meaningful for DimensionMismatch
	Actual   int // only meaningful for DimensionMismatch
	Wrapped  error
}

func (e *Error) Error() string {
	if e.Kind == DimensionMismatch {
		return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
	}
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// New creates an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind that wraps err.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Wrapped: err}
}

// DimensionError builds a DimensionMismatch error.
func DimensionError(expected, actual int) *Error {
	return &Error{Kind: DimensionMismatch, Expected: expected, Actual: actual}
}

// NotFoundError builds a NotFound error for the given key.
func NotFoundError(key string) *Error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf("key not found: %s", key)}
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
