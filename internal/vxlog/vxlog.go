// Package vxlog provides the structured logger used across the VexLake
// core. No repository in the retrieval pack this project was grown from
// imports a third-party structured-logging library (no zerolog, zap, or
// logrus appears anywhere); the closest analog, gibram's pkg/logging,
// hand-rolls a JSON logger instead. log/slog is the stdlib's own
// structured logger, so using it keeps that "no external logging
// dependency" convention without reinventing one from scratch.
package vxlog

import (
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	current *slog.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

// Default returns the process-wide logger.
func Default() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// SetDefault replaces the process-wide logger, e.g. to switch to JSON
// output or route to a different writer.
func SetDefault(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	current = l
}

// New builds a logger with the given output format. json=false yields the
// human-readable text handler used for local CLI runs.
func New(w *os.File, json bool) *slog.Logger {
	if json {
		return slog.New(slog.NewJSONHandler(w, nil))
	}
	return slog.New(slog.NewTextHandler(w, nil))
}
