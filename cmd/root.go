/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log/slog"
	"os"

	"github.com/exercise-tracker/apiserver/config"
	"github.com/exercise-tracker/apiserver/internal/logger"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "exercise-tracker",
	Short: "Exercise tracker API server",
	Long: `Exercise tracker API server and maintenance commands.

	exercise-tracker server
	exercise-tracker migrate up
	exercise-tracker export
	exercise-tracker events tail
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the environment config and the logger every command shares.
func setup() (config.Config, *slog.Logger, func() error) {
	cfg := config.LoadConfig()
	log, sync := logger.New(cfg.IsProduction(), cfg.LogLevel)
	slog.SetDefault(log)
	return cfg, log, sync
}
