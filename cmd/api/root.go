package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/procodeli/portal/internal/config"
	"github.com/procodeli/portal/internal/logging"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "PROCODELI portal password-reset service",
	Long: `portal serves the PROCODELI password-reset screen on top of the hosted auth backend.

Available commands:
  serve        Start the HTTP server
  bootstrap    Create the DynamoDB tables`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			slog.Info("no .env file found, reading from environment")
		}
		cfg = config.Load()
		logging.Setup(cfg.LogLevel, cfg.AppEnv)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(bootstrapCmd)
}
