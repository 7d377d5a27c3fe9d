package main

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/vexlake/internal/objectstore"
	"github.com/nvandessel/vexlake/internal/vectorindex"
)

func newInsertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insert",
		Short: "Insert a vector into the persisted index",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetUint64("id")
			vecStr, _ := cmd.Flags().GetString("vector")
			jsonOut, _ := cmd.Flags().GetBool("json")

			vector, err := parseVector(vecStr)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx := context.Background()
			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}

			idx, err := loadOrCreateIndex(ctx, store, cfg.Index.Dimension)
			if err != nil {
				return err
			}

			if err := idx.Insert(id, vector); err != nil {
				return err
			}

			if err := saveIndex(ctx, store, idx); err != nil {
				return err
			}

			if jsonOut {
				encodeJSON(map[string]any{"status": "inserted", "id": id, "count": idx.Len()})
			} else {
				fmt.Printf("inserted id=%d (index now holds %d vectors)\n", id, idx.Len())
			}
			return nil
		},
	}

	cmd.Flags().Uint64("id", 0, "Vector id")
	cmd.Flags().String("vector", "", "Comma-separated vector components (required)")
	cmd.MarkFlagRequired("vector")

	return cmd
}

func loadOrCreateIndex(ctx context.Context, store objectstore.Store, dimension int) (*vectorindex.Index, error) {
	exists, err := store.Exists(ctx, indexObjectPath)
	if err != nil {
		return nil, err
	}
	if !exists {
		return vectorindex.New(vectorindex.Config{Dimension: dimension})
	}

	data, err := store.Read(ctx, indexObjectPath)
	if err != nil {
		return nil, err
	}
	return vectorindex.Deserialize(bytes.NewReader(data))
}

func saveIndex(ctx context.Context, store objectstore.Store, idx *vectorindex.Index) error {
	var buf bytes.Buffer
	if err := idx.Serialize(&buf); err != nil {
		return err
	}
	return store.Write(ctx, indexObjectPath, buf.Bytes())
}
