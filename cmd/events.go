/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/exercise-tracker/apiserver/internal/mq"
	"github.com/spf13/cobra"
)

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the exercise event stream",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Log every event published on MQ_CHANNEL until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, sync := setup()
		defer func() { _ = sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		events, err := mq.Open(ctx, cfg.MQ)
		if errors.Is(err, mq.ErrDisabled) {
			return fmt.Errorf("MQ_BACKEND is not set")
		}
		if err != nil {
			return err
		}
		defer func() { _ = events.Close() }()

		log.Info("tailing events", slog.String("channel", events.Channel()))
		err = events.Subscribe(ctx, func(ctx context.Context, msg mq.Message) error {
			event, err := mq.DecodeEvent(msg)
			if err != nil {
				log.Warn("dropping undecodable message", slog.String("id", msg.ID), slog.Any("error", err))
				return nil
			}
			attrs := []any{
				slog.String("id", event.ID),
				slog.String("type", event.Type),
				slog.String("user_id", event.UserID),
				slog.String("username", event.Username),
				slog.Time("occurred_at", event.OccurredAt),
			}
			if event.Exercise != nil {
				attrs = append(attrs,
					slog.String("description", event.Exercise.Description),
					slog.Int("duration", event.Exercise.Duration),
					slog.String("date", event.Exercise.Date),
				)
			}
			log.Info("event", attrs...)
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)
}
