package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
)

var (
	catalogueOutput string
	catalogueChunks string
)

var catalogueCmd = &cobra.Command{
	Use:   "catalogue <file.pdf>",
	Short: "Extract program records from a program catalogue",
	Long: `Parses a program catalogue PDF into program records (program header,
strategic objectives, target audience, responsible agency and specific
objectives) and prints them as a JSON array.

With --chunks each record is also appended to a corpus as one chunk.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogue,
}

func init() {
	catalogueCmd.Flags().StringVarP(&catalogueOutput, "output", "o", "", "write the JSON array to this file instead of stdout")
	catalogueCmd.Flags().StringVar(&catalogueChunks, "chunks", "", "append one chunk per record to this corpus file")
	rootCmd.AddCommand(catalogueCmd)
}

func runCatalogue(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	if cfg.Catalogue == nil {
		return errors.New("catalogue service not configured")
	}

	ctx := commandContext(cmd)
	path := args[0]

	records, err := cfg.Catalogue.Parse(ctx, path)
	if err != nil {
		return fmt.Errorf("catalogue failed: %w", err)
	}

	data, err := marshalRecords(records)
	if err != nil {
		return err
	}

	if catalogueOutput == "" {
		cmd.Print(string(data))
	} else {
		if err := os.MkdirAll(filepath.Dir(catalogueOutput), 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		if err := os.WriteFile(catalogueOutput, data, 0o644); err != nil { //nolint:gosec // output is meant to be shared
			return fmt.Errorf("write %s: %w", catalogueOutput, err)
		}
		cmd.Printf("Wrote %d programs to %s\n", len(records), catalogueOutput)
	}

	if catalogueChunks != "" {
		if cfg.NewCorpusWriter == nil {
			return errors.New("corpus writer not configured")
		}
		writer, err := cfg.NewCorpusWriter(catalogueChunks)
		if err != nil {
			return err
		}
		chunks := cfg.Catalogue.Chunks(filepath.Base(path), records)
		if err := writer.Append(ctx, chunks); err != nil {
			return fmt.Errorf("append chunks: %w", err)
		}
		cmd.Printf("Appended %d chunks to %s\n", len(chunks), writer.Path())
	}

	return nil
}

// marshalRecords renders records as an indented JSON array with non-ASCII
// text kept as is.
func marshalRecords(records []domain.ProgramRecord) ([]byte, error) {
	if records == nil {
		records = []domain.ProgramRecord{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("failed to marshal records: %w", err)
	}
	return buf.Bytes(), nil
}
