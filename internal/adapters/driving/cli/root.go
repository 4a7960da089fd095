// Package cli implements the ppa command line on cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driving"
	"github.com/ppa-inteligente/ppa/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// Config holds the services and adapter factories the commands use.
// Factories take per-invocation values that only exist after flag parsing.
type Config struct {
	// OpenSettings loads settings from a config directory ("" for the default).
	OpenSettings func(configDir string) (driving.SettingsService, error)

	// NewIngest builds an ingest service appending to the corpus at output.
	NewIngest func(output string) (driving.IngestService, error)

	// NewConnector opens a source folder.
	NewConnector func(root string) driven.Connector

	// NewReranker builds the reranker, or returns nil when none is configured.
	NewReranker func(settings *domain.RerankerSettings) (driven.Reranker, error)

	// NewSearch builds a search service. The reranker may be nil.
	NewSearch func(reranker driven.Reranker, storeTimeout time.Duration) driving.SearchService

	// OpenStore opens an existing store for querying.
	OpenStore func(path string) (driven.IndexStore, error)

	// CreateStore opens a store for indexing, creating it if needed.
	CreateStore func(path string) (driven.IndexStore, error)

	// NewCorpusWriter opens a corpus file for appending.
	NewCorpusWriter func(path string) (driven.CorpusWriter, error)

	Index     driving.IndexService
	Catalogue driving.CatalogueService
}

var (
	cliConfig *Config

	verbose   bool
	logFile   string
	configDir string
	envFile   string
)

// SetConfig sets the services used by every command.
func SetConfig(config *Config) {
	cliConfig = config
}

var rootCmd = &cobra.Command{
	Use:   "ppa",
	Short: "Ingest plan documents and search them across stores",
	Long: `ppa turns a folder of PDF, spreadsheet and text documents into a
line-delimited JSON corpus of chunks, builds keyword stores from corpora and
answers queries by fusing results from several stores.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also append log output to this file")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.ppa)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with OPENAI_API_KEY / OLLAMA_HOST")
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if logFile != "" {
		if err := logger.SetFile(logFile); err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Could not load %s: %v", envFile, err)
		}
	}
	return nil
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer logger.Close() //nolint:errcheck

	return rootCmd.ExecuteContext(ctx)
}

func requireConfig() (*Config, error) {
	if cliConfig == nil {
		return nil, errors.New("services not configured")
	}
	return cliConfig, nil
}

// loadSettings opens the settings service for the --config-dir flag.
func loadSettings() (driving.SettingsService, error) {
	cfg, err := requireConfig()
	if err != nil {
		return nil, err
	}
	if cfg.OpenSettings == nil {
		return nil, errors.New("settings service not configured")
	}
	return cfg.OpenSettings(configDir)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
