package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var indexStore string

var indexCmd = &cobra.Command{
	Use:   "index <corpus.jsonl>",
	Short: "Build a store from a corpus",
	Long: `Loads every chunk of a JSONL corpus into a SQLite full-text store.
Each corpus gets its own store; search fuses several of them.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexStore, "store", "", "store file to create or update (required)")
	_ = indexCmd.MarkFlagRequired("store")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	if cfg.Index == nil || cfg.CreateStore == nil {
		return errors.New("index service not configured")
	}

	store, err := cfg.CreateStore(indexStore)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close() //nolint:errcheck

	ctx := commandContext(cmd)
	n, err := cfg.Index.Build(ctx, args[0], store)
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}

	total, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count store: %w", err)
	}
	cmd.Printf("Indexed %d chunks into %s (%d total)\n", n, store.Name(), total)
	return nil
}
