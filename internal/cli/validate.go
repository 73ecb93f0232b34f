package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/impactsim/impactsim/internal/catalog"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the catalog without starting the server",
	Long: `Loads and validates the configured catalog, then exits. Use this to
check a custom --config-dir or industry variant before deploying it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := serverOptions()

		c, err := catalog.Load(opts.ConfigDir, opts.Industry)
		if err != nil {
			return fmt.Errorf("catalog validation failed: %w", err)
		}

		if opts.RiskThreshold != "" {
			if _, err := catalog.ParseRiskLevel(opts.RiskThreshold); err != nil {
				return fmt.Errorf("risk threshold override: %w", err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(),
			"catalog OK: %d patterns, %d categories, %d knowledge entries, %d actions, threshold %s\n",
			len(c.Patterns), len(c.Categories), len(c.Knowledge), len(c.Actions), c.Threshold)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
