package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driving"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [folder]",
	Short: "Turn a folder of documents into corpus chunks",
	Long: `Extracts every PDF, spreadsheet and text file in the folder, cleans and
segments the text and appends one JSON line per chunk to the corpus.

Documents that fail to extract are reported and skipped. With --watch the
folder is re-ingested whenever files change, until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	f := ingestCmd.Flags()
	f.String("strategy", "", "chunking strategy: paragraph or sentence")
	f.Int("chunk-size", 0, "maximum chunk length in characters")
	f.Int("workers", 0, "documents processed concurrently")
	f.Int("timeout", 0, "per-document extraction timeout in seconds (0 disables)")
	f.StringP("output", "o", "", "corpus file chunks are appended to")
	f.Bool("write-text", false, "also write cleaned text of each document to <output dir>/txt")
	f.Bool("watch", false, "keep running and re-ingest changed files")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	if cfg.NewIngest == nil || cfg.NewConnector == nil {
		return errors.New("ingest service not configured")
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	current, err := settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	folder := "."
	if len(args) > 0 {
		folder = args[0]
	}

	opts, output, err := ingestOptions(cmd, current.Ingest)
	if err != nil {
		return err
	}

	svc, err := cfg.NewIngest(output)
	if err != nil {
		return err
	}
	conn := cfg.NewConnector(folder)
	defer conn.Close() //nolint:errcheck

	ctx := commandContext(cmd)
	cmd.Printf("Ingesting %s into %s\n", folder, output)

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		cmd.Println("Watching for changes (Ctrl+C to stop)...")
		return svc.Watch(ctx, conn, opts, func(report *domain.IngestReport) {
			printReport(cmd, report)
		})
	}

	report, err := svc.Ingest(ctx, conn, opts)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	printReport(cmd, report)
	return nil
}

// ingestOptions merges settings with the flags set on this invocation.
func ingestOptions(cmd *cobra.Command, s domain.IngestSettings) (driving.IngestOptions, string, error) {
	f := cmd.Flags()

	if f.Changed("strategy") {
		v, _ := f.GetString("strategy")
		s.Strategy = domain.Strategy(v)
	}
	if f.Changed("chunk-size") {
		s.ChunkSize, _ = f.GetInt("chunk-size")
	}
	if f.Changed("workers") {
		s.Workers, _ = f.GetInt("workers")
	}
	if f.Changed("timeout") {
		secs, _ := f.GetInt("timeout")
		s.ExtractionTimeout = time.Duration(secs) * time.Second
	}
	if f.Changed("output") {
		s.Output, _ = f.GetString("output")
	}
	if f.Changed("write-text") {
		s.WriteText, _ = f.GetBool("write-text")
	}

	if !s.Strategy.IsValid() {
		return driving.IngestOptions{}, "", fmt.Errorf("%w: unknown strategy %q", domain.ErrConfiguration, s.Strategy)
	}

	return driving.IngestOptions{
		Strategy:          s.Strategy,
		ChunkSize:         s.ChunkSize,
		Workers:           s.Workers,
		ExtractionTimeout: s.ExtractionTimeout,
		WriteText:         s.WriteText,
	}, s.Output, nil
}

func printReport(cmd *cobra.Command, report *domain.IngestReport) {
	cmd.Println()
	cmd.Println("Ingestion metrics")
	cmd.Println("=================")
	cmd.Printf("  Elapsed: %s\n", report.Elapsed.Round(time.Millisecond))
	cmd.Printf("  Files processed: %d\n", len(report.Documents))
	cmd.Printf("  Succeeded: %d\n", report.Succeeded())
	cmd.Printf("  Failed: %d\n", len(report.Failed()))
	cmd.Printf("  Chunks generated: %d\n", report.Chunks)

	if len(report.Documents) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Files:")
	for _, d := range report.Documents {
		if d.OK() {
			cmd.Printf("  ✓ %s (%d chunks)\n", d.SourceID, d.Chunks)
		} else {
			cmd.Printf("  ✗ %s: %v\n", d.SourceID, d.Err)
		}
	}
}
