// Package cli implements the impactsim command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/impactsim/impactsim/internal/server"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "impactsim",
	Short: "Advisory change impact analysis MCP server",
	Long: `Impactsim is an MCP server that assesses the risk of proposed
infrastructure changes. It matches plain-language change descriptions
against a configurable catalog of known patterns, assigns a risk level,
and reports impacts, safe conditions, and safeguards.

All output is advisory. The server never executes or schedules changes.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.impactsim.yaml)")
	rootCmd.PersistentFlags().String("config-dir", "", "directory of catalog tables (default: embedded catalog, or IMPACTSIM_CONFIG_DIR)")
	rootCmd.PersistentFlags().String("industry", "", "industry mode selecting table variants, e.g. 'finance' (or IMPACTSIM_INDUSTRY)")
	rootCmd.PersistentFlags().String("risk-threshold", "", "override the catalog's escalation threshold (LOW, MEDIUM, HIGH, CRITICAL)")
	rootCmd.PersistentFlags().String("metrics-db", "", "statistics database path (default: in-memory)")

	// TODO: surface BindPFlag errors once cobra exposes a hook for it
	viper.BindPFlag("config_dir", rootCmd.PersistentFlags().Lookup("config-dir"))
	viper.BindPFlag("industry", rootCmd.PersistentFlags().Lookup("industry"))
	viper.BindPFlag("risk_threshold", rootCmd.PersistentFlags().Lookup("risk-threshold"))
	viper.BindPFlag("metrics_db", rootCmd.PersistentFlags().Lookup("metrics-db"))
}

// initConfig reads in the config file and IMPACTSIM_* environment
// variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".impactsim")
	}

	viper.SetEnvPrefix("impactsim")
	viper.AutomaticEnv()

	// Config file is optional; flags and env cover everything.
	_ = viper.ReadInConfig()
}

// serverOptions resolves the effective startup options from flags,
// environment, and config file.
func serverOptions() server.Options {
	return server.Options{
		ConfigDir:     viper.GetString("config_dir"),
		Industry:      viper.GetString("industry"),
		RiskThreshold: viper.GetString("risk_threshold"),
		MetricsPath:   viper.GetString("metrics_db"),
	}
}
