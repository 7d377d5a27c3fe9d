package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvandessel/vexlake/internal/catalog"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and commit the versioned storage manifest",
	}

	cmd.AddCommand(newCatalogGetLatestCmd(), newCatalogCommitCmd())
	return cmd
}

func newCatalogGetLatestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-latest",
		Short: "Print the latest committed version manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx := context.Background()
			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}

			info, err := catalog.GetLatestVersion(ctx, store)
			if err != nil {
				return err
			}

			if jsonOut {
				encodeJSON(info)
				return nil
			}
			fmt.Printf("version: %d\n", info.Version)
			fmt.Printf("total_vectors: %d\n", info.TotalVectors)
			fmt.Printf("data_files: %d\n", len(info.DataFiles))
			fmt.Printf("index_files: %d\n", len(info.IndexFiles))
			return nil
		},
	}
}

func newCatalogCommitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Commit a new version manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			version, _ := cmd.Flags().GetUint64("version")
			totalVectors, _ := cmd.Flags().GetInt("total-vectors")
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx := context.Background()
			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}

			info := catalog.VersionInfo{
				Version:      version,
				Timestamp:    uint64(time.Now().Unix()),
				DataFiles:    map[string]string{},
				IndexFiles:   map[string]string{},
				TotalVectors: totalVectors,
			}
			if err := catalog.CommitVersion(ctx, store, info); err != nil {
				return err
			}

			if jsonOut {
				encodeJSON(map[string]any{"status": "committed", "version": version})
			} else {
				fmt.Printf("committed version %d\n", version)
			}
			return nil
		},
	}

	cmd.Flags().Uint64("version", 0, "Version number (required)")
	cmd.Flags().Int("total-vectors", 0, "Total vector count for this version")
	cmd.MarkFlagRequired("version")

	return cmd
}
