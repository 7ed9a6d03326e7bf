package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sandeepkv93/listd/internal/discord"
	"github.com/sandeepkv93/listd/internal/reminder"
	"github.com/sandeepkv93/listd/internal/views"
)

func newRemindCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Run one reminder sweep now",
		Long: `Scan every channel list for items due today or overdue and post a
reminder to each channel that has any.

With --dry-run the reminders are printed instead of sent, and no Discord
token is needed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(nil)
			if err != nil {
				return err
			}
			defer a.Close()

			var sender reminder.Sender
			if dryRun {
				out := cmd.OutOrStdout()
				sender = reminder.SenderFunc(func(_ context.Context, channelID, content string) error {
					_, err := fmt.Fprintf(out, "#%s\n%s\n\n", channelID, views.RenderMarkdown(content))
					return err
				})
			} else {
				if err := a.Config.RequireToken(); err != nil {
					return err
				}
				bot, err := discord.New(a.Router, a.Repo, discord.Options{
					Token:  a.Config.Discord.Token.Value(),
					Logger: a.Logger,
				})
				if err != nil {
					return err
				}
				sender = bot.Sender()
			}

			sw, err := a.Sweeper(sender)
			if err != nil {
				return err
			}
			report, err := sw.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			a.Logger.Info(cmd.Context(), "reminder sweep finished",
				zap.Int("channels", report.Channels),
				zap.Int("sent", report.Sent),
				zap.Int("failed", report.Failed),
				zap.Int("skipped", report.Skipped),
			)
			if report.Failed > 0 {
				return fmt.Errorf("remind: %d of %d reminders failed", report.Failed, report.Sent+report.Failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print reminders instead of sending them")
	return cmd
}
