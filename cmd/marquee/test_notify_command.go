package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"marquee/internal/chat"
	"marquee/internal/logging"
	"marquee/internal/notify"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification to the library owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var client chat.Client = chat.NoopClient{}
			if cfg.Chat.WebhookURL != "" {
				client = chat.NewWebhookClient(cfg.Chat.WebhookURL, time.Duration(cfg.Chat.RequestTimeout)*time.Second)
			}
			router := notify.NewRouter(cfg, client, logging.NewNop())

			if err := router.Test(cmd.Context()); err != nil {
				return fmt.Errorf("test notification: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
			return nil
		},
	}
}
