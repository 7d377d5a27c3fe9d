package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "vexlake",
		Short: "VexLake - embeddable vector index and columnar storage core",
		Long: `vexlake drives the HNSW vector index and versioned columnar
storage layer from the command line: build an index, query it, and
inspect the storage catalogue without writing any Go.`,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("root", ".", "Directory holding the config file (not applied to object-store keys)")
	rootCmd.PersistentFlags().String("config", "vexlake.yaml", "Path to vexlake.yaml")

	rootCmd.AddCommand(
		newVersionCmd(),
		newInsertCmd(),
		newSearchCmd(),
		newCatalogCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				encodeJSON(map[string]string{"version": version})
			} else {
				fmt.Printf("vexlake version %s\n", version)
			}
		},
	}
}
