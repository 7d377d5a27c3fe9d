package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nvandessel/vexlake/internal/config"
	"github.com/nvandessel/vexlake/internal/objectstore"
	"github.com/nvandessel/vexlake/internal/vxlog"
)

const indexObjectPath = "index/hnsw.bin"

// loadConfig reads --root/--config, falling back to config.Default when
// no such file exists: the CLI's demo path should work with zero setup
// against an in-memory store.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	root, _ := cmd.Flags().GetString("root")
	file, _ := cmd.Flags().GetString("config")
	path := filepath.Join(root, file)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Default(), nil
	}
	return config.Load(path)
}

// openStore builds the object-store backend named by cfg.Storage.
func openStore(ctx context.Context, cfg config.Config) (objectstore.Store, error) {
	if err := cfg.Storage.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Storage.Backend {
	case "s3":
		s3cfg, err := cfg.Storage.S3Config()
		if err != nil {
			return nil, err
		}
		return objectstore.NewS3Store(ctx, s3cfg)
	default:
		return objectstore.NewMemoryStore(), nil
	}
}

func encodeJSON(v any) {
	if err := json.NewEncoder(os.Stdout).Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

func init() {
	// Install a text logger on stderr as the shared default. Command
	// errors and JSON-encoding failures are printed with fmt.Fprintln,
	// not through this logger.
	vxlog.SetDefault(vxlog.New(os.Stderr, false))
}
