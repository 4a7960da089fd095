package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change ingestion, search and reranker settings.

Settings live in config.toml inside the config directory. Command flags
override them for a single invocation.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change one setting by its dotted key, for example:

  ppa settings set ingest.chunk_size 1000
  ppa settings set search.stores saude.db,educacao.db
  ppa settings set reranker.provider ollama`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settings keys",
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	settingsService, err := loadSettings()
	if err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Ingest]")
	cmd.Printf("  Strategy: %s\n", settings.Ingest.Strategy.Description())
	cmd.Printf("  Chunk size: %d\n", settings.Ingest.ChunkSize)
	cmd.Printf("  Workers: %d\n", settings.Ingest.Workers)
	cmd.Printf("  Extraction timeout: %s\n", settings.Ingest.ExtractionTimeout)
	cmd.Printf("  Output: %s\n", settings.Ingest.Output)
	cmd.Printf("  Write text: %t\n", settings.Ingest.WriteText)
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  K: %d\n", settings.Search.K)
	cmd.Printf("  Store timeout: %s\n", settings.Search.StoreTimeout)
	if len(settings.Search.Stores) > 0 {
		cmd.Printf("  Stores: %s\n", strings.Join(settings.Search.Stores, ", "))
	} else {
		cmd.Printf("  Stores: (none)\n")
	}
	cmd.Printf("  Rerank: %t\n", settings.Search.Rerank)
	cmd.Println()

	cmd.Println("[Reranker]")
	cmd.Printf("  Provider: %s\n", settings.Reranker.Provider.Description())
	if settings.Reranker.Model != "" {
		cmd.Printf("  Model: %s\n", settings.Reranker.Model)
	}
	if settings.Reranker.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Reranker.BaseURL)
	}
	if settings.Reranker.Provider.RequiresAPIKey() {
		if settings.Reranker.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Reranker.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	cmd.Printf("  Requests per second: %g\n", settings.Reranker.RequestsPerSecond)
	if settings.Reranker.QueryPrefix != "" {
		cmd.Printf("  Query prefix: %q\n", settings.Reranker.QueryPrefix)
	}
	status := "configured"
	if !settings.Reranker.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)

	if err := settingsService.Validate(); err != nil {
		cmd.Println()
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	settingsService, err := loadSettings()
	if err != nil {
		return err
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("%s updated.\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	settingsService, err := loadSettings()
	if err != nil {
		return err
	}
	for _, k := range settingsService.Keys() {
		cmd.Println(k)
	}
	return nil
}

// maskAPIKey masks an API key for display.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
