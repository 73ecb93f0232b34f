package cli

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	impactserver "github.com/impactsim/impactsim/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long: `Starts the MCP server on the stdio transport. The catalog is loaded
once at startup; a catalog that fails validation aborts the start.

Stdout carries the MCP protocol, so all diagnostics go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cleanup, err := impactserver.New(serverOptions())
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}
		defer cleanup()

		return server.ServeStdio(s)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
