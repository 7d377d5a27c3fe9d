package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the persisted index for nearest neighbors",
		RunE: func(cmd *cobra.Command, args []string) error {
			vecStr, _ := cmd.Flags().GetString("vector")
			k, _ := cmd.Flags().GetInt("k")
			ef, _ := cmd.Flags().GetInt("ef")
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

			results, err := idx.Search(vector, k, ef)
			if err != nil {
				return err
			}

			if jsonOut {
				encodeJSON(map[string]any{"results": results})
				return nil
			}

			if len(results) == 0 {
				fmt.Println("no results")
				return nil
			}
			for i, r := range results {
				fmt.Printf("%d. id=%d score=%.4f\n", i+1, r.ID, r.Score)
			}
			return nil
		},
	}

	cmd.Flags().String("vector", "", "Comma-separated query vector (required)")
	cmd.Flags().Int("k", 10, "Number of results")
	cmd.Flags().Int("ef", 50, "Search beam width")
	cmd.MarkFlagRequired("vector")

	return cmd
}
