package catalog

import (
	"context"
	"testing"

	"github.com/nvandessel/vexlake/internal/objectstore"
)

func TestLatestVersionNumIsZeroBeforeAnyCommit(t *testing.T) {
	store := objectstore.NewMemoryStore()
	ctx := context.Background()

	n, err := GetLatestVersionNum(ctx, store)
	if err != nil {
		t.Fatalf("GetLatestVersionNum: %v", err)
	}
	if n != 0 {
		t.Errorf("n = %d, want 0", n)
	}
}

func TestGetVersionZeroIsSyntheticEmpty(t *testing.T) {
	store := objectstore.NewMemoryStore()
	ctx := context.Background()

	info, err := GetVersion(ctx, store, 0)
	if err != nil {
		t.Fatalf("GetVersion(0): %v", err)
	}
	if info.TotalVectors != 0 || len(info.DataFiles) != 0 {
		t.Errorf("GetVersion(0) = %+v, want empty manifest", info)
	}
}

func TestCommitAndReadLifecycle(t *testing.T) {
	store := objectstore.NewMemoryStore()
	ctx := context.Background()

	v1 := VersionInfo{
		Version:      1,
		Timestamp:    123456789,
		DataFiles:    map[string]string{"0": "data/part-0.parquet"},
		IndexFiles:   map[string]string{},
		TotalVectors: 100,
	}

	if err := CommitVersion(ctx, store, v1); err != nil {
		t.Fatalf("CommitVersion: %v", err)
	}

	n, err := GetLatestVersionNum(ctx, store)
	if err != nil {
		t.Fatalf("GetLatestVersionNum: %v", err)
	}
	if n != 1 {
		t.Fatalf("n = %d, want 1", n)
	}

	loaded, err := GetLatestVersion(ctx, store)
	if err != nil {
		t.Fatalf("GetLatestVersion: %v", err)
	}
	if loaded.Version != 1 || loaded.TotalVectors != 100 {
		t.Errorf("loaded = %+v, want version 1 with 100 vectors", loaded)
	}
	if loaded.DataFiles["0"] != "data/part-0.parquet" {
		t.Errorf("DataFiles[0] = %q, want data/part-0.parquet", loaded.DataFiles["0"])
	}
}

func TestCommitIsMonotonic(t *testing.T) {
	store := objectstore.NewMemoryStore()
	ctx := context.Background()

	for v := uint64(1); v <= 3; v++ {
		if err := CommitVersion(ctx, store, VersionInfo{Version: v, TotalVectors: int(v) * 10}); err != nil {
			t.Fatalf("CommitVersion(%d): %v", v, err)
		}
	}

	n, err := GetLatestVersionNum(ctx, store)
	if err != nil {
		t.Fatalf("GetLatestVersionNum: %v", err)
	}
	if n != 3 {
		t.Fatalf("n = %d, want 3", n)
	}

	v2, err := GetVersion(ctx, store, 2)
	if err != nil {
		t.Fatalf("GetVersion(2): %v", err)
	}
	if v2.TotalVectors != 20 {
		t.Errorf("v2.TotalVectors = %d, want 20", v2.TotalVectors)
	}
}

func TestGetVersionUnknownReturnsError(t *testing.T) {
	store := objectstore.NewMemoryStore()
	ctx := context.Background()

	_, err := GetVersion(ctx, store, 42)
	if err == nil {
		t.Fatal("expected error reading uncommitted version")
	}
}
