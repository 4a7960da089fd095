package cli

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/ppa-inteligente/ppa/internal/adapters/driving/mcp"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long: `Print the ppa version, the MCP server version and the Go toolchain
the binary was built with. Use --short for the version alone.`,
	Run: func(cmd *cobra.Command, _ []string) {
		v := buildVersion()
		if versionShort {
			cmd.Println(v)
			return
		}
		cmd.Printf("ppa version %s\n", v)
		cmd.Printf("  mcp server: %s\n", mcp.Version)
		cmd.Printf("  go: %s\n", runtime.Version())
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version")
	rootCmd.AddCommand(versionCmd)
}

// buildVersion prefers the -ldflags version and falls back to the module
// version recorded by go install.
func buildVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return version
}
