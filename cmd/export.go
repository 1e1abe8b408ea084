/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/exercise-tracker/apiserver/internal/server"
	"github.com/exercise-tracker/apiserver/internal/services"
	"github.com/exercise-tracker/apiserver/internal/storage"
	"github.com/spf13/cobra"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Upload a JSON snapshot of every user to object storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, sync := setup()
		defer func() { _ = sync() }()

		ctx := cmd.Context()
		users, err := server.OpenStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = users.Close(context.Background()) }()

		objects, err := storage.Open(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}

		key, snapshot, err := services.NewExportService(users, objects).Export(ctx)
		if err != nil {
			return err
		}

		log.Info("snapshot exported",
			slog.String("bucket", objects.Bucket()),
			slog.String("key", key),
			slog.Int("users", snapshot.Count),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
