// Package cli implements the yara command line.
package cli

import (
	"fmt"
	"os"
	"yara_assistant/internal/config"
	"yara_assistant/src/logger"
	"yara_assistant/src/model"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool

	// loaded by the root command before any subcommand runs
	appConfig *model.Config
)

// RootCmd is the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "yara",
	Short: "Yara, a friendly conversational assistant",
	Long: `Yara answers chat messages from session memory, business data,
canned persona responses and, when configured, a generation model.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose || cfg.Server.Debug {
			cfg.Log.Level = "debug"
		}
		if err := logger.InitLogger(cfg.Log); err != nil {
			return err
		}
		appConfig = cfg
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file (optional)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	RootCmd.AddCommand(serveCmd)
	RootCmd.AddCommand(chatCmd)
	RootCmd.AddCommand(seedCmd)
}
