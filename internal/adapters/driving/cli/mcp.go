package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppa-inteligente/ppa/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search the
configured stores.

By default, the server communicates over stdio using JSON-RPC. Use --port to
serve over HTTP instead.

Stores come from --store or the search.stores setting. The search tool
accepts a query, an optional k and an optional rerank flag.

Examples:
  # Stdio mode (default)
  ppa mcp serve --store saude.db --store educacao.db

  # HTTP mode
  ppa mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringArray("store", nil, "store file to query, repeatable (default search.stores)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	settingsService, err := loadSettings()
	if err != nil {
		return err
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	paths := settings.Search.Stores
	if cmd.Flags().Changed("store") {
		paths, _ = cmd.Flags().GetStringArray("store")
	}

	// Tool calls may ask for reranking, so build the reranker when configured.
	svc, err := buildSearch(settings, settings.Reranker.IsConfigured())
	if err != nil {
		return err
	}

	stores, closeStores, err := openStores(paths)
	if err != nil {
		return err
	}
	defer closeStores()

	server, err := mcp.NewServer(&mcp.Ports{
		Search:   svc,
		Stores:   stores,
		DefaultK: settings.Search.K,
		Settings: settingsService,
	})
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
