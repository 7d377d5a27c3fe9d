// Package catalog implements the versioned metadata manifest that gives
// the storage layer snapshot isolation: each commit publishes a new
// numbered version file and then advances a "latest" pointer, so readers
// either see a fully-formed version or the previous one.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nvandessel/vexlake/internal/objectstore"
	"github.com/nvandessel/vexlake/internal/vxerr"
)

const latestPath = "_metadata/latest"

// VersionInfo describes one committed snapshot: which Parquet data and
// index files it is made of, and how many vectors it covers.
type VersionInfo struct {
	Version      uint64            `json:"version"`
	Timestamp    uint64            `json:"timestamp"`
	DataFiles    map[string]string `json:"data_files"`
	IndexFiles   map[string]string `json:"index_files"`
	TotalVectors int               `json:"total_vectors"`
}

func versionPath(version uint64) string {
	return fmt.Sprintf("_metadata/version_%d.json", version)
}

// GetLatestVersionNum returns the version number the "latest" pointer
// names, or 0 if no version has ever been committed.
func GetLatestVersionNum(ctx context.Context, store objectstore.Store) (uint64, error) {
	exists, err := store.Exists(ctx, latestPath)
	if err != nil {
		return 0, vxerr.Wrap(vxerr.Storage, err, "check %s", latestPath)
	}
	if !exists {
		return 0, nil
	}

	data, err := store.Read(ctx, latestPath)
	if err != nil {
		return 0, vxerr.Wrap(vxerr.Storage, err, "read %s", latestPath)
	}

	n, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, vxerr.Wrap(vxerr.Serialization, err, "parse %s", latestPath)
	}
	return n, nil
}

// GetVersion returns the manifest for the given version number. Version 0
// is a synthetic empty manifest and is never read from storage.
func GetVersion(ctx context.Context, store objectstore.Store, version uint64) (VersionInfo, error) {
	if version == 0 {
		return VersionInfo{
			DataFiles:  map[string]string{},
			IndexFiles: map[string]string{},
		}, nil
	}

	data, err := store.Read(ctx, versionPath(version))
	if err != nil {
		return VersionInfo{}, vxerr.Wrap(vxerr.Storage, err, "read %s", versionPath(version))
	}

	var info VersionInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return VersionInfo{}, vxerr.Wrap(vxerr.Serialization, err, "unmarshal %s", versionPath(version))
	}
	return info, nil
}

// GetLatestVersion resolves the "latest" pointer and returns its manifest.
func GetLatestVersion(ctx context.Context, store objectstore.Store) (VersionInfo, error) {
	n, err := GetLatestVersionNum(ctx, store)
	if err != nil {
		return VersionInfo{}, err
	}
	return GetVersion(ctx, store, n)
}

// CommitVersion writes info's manifest and then advances the "latest"
// pointer to it. The two writes are sequential, not transactional: a
// cancelled or failed commit may leave the versioned file written
// without the pointer advanced, which is legal and must be tolerated by
// readers (they simply keep seeing the prior latest version).
func CommitVersion(ctx context.Context, store objectstore.Store, info VersionInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return vxerr.Wrap(vxerr.Serialization, err, "marshal version %d", info.Version)
	}

	if err := store.Write(ctx, versionPath(info.Version), data); err != nil {
		return vxerr.Wrap(vxerr.Storage, err, "write %s", versionPath(info.Version))
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	pointer := strconv.FormatUint(info.Version, 10)
	if err := store.Write(ctx, latestPath, []byte(pointer)); err != nil {
		return vxerr.Wrap(vxerr.Storage, err, "write %s", latestPath)
	}
	return nil
}
