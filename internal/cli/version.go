package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/impactsim/impactsim/internal/server"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the impactsim version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "impactsim v%s\n", server.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
