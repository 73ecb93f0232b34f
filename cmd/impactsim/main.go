// Impactsim: advisory change impact analysis MCP server.
//
// Usage:
//
//	impactsim serve      # Start MCP server (stdio transport)
//	impactsim validate   # Validate the catalog and exit
//	impactsim version    # Print the version
package main

import (
	"fmt"
	"os"

	"github.com/impactsim/impactsim/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
