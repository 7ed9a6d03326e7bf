package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/listd/internal/config"
	"github.com/sandeepkv93/listd/internal/console"
	"github.com/sandeepkv93/listd/internal/model"
)

type consoleFlags struct {
	userID   string
	username string
	admin    bool
	channel  string
	logFile  string
}

func newConsoleCmd() *cobra.Command {
	var f consoleFlags
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Work with lists from the terminal",
		Long: `Open a terminal session that drives the same handlers as the bot.

Type slash commands such as /add milk or /list. Controls on the most recent
list are addressed by number: ":click 3" presses a button, ":pick 1 2"
chooses the second option of select menu 1. ":as ID NAME" and ":admin on"
change who you are acting as.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(func(cfg *config.Config) {
				// the terminal belongs to the TUI
				cfg.Logging.Output = f.logFile
			})
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := console.NewSession(a.Router, console.SessionOptions{
				Actor:       model.Actor{ID: f.userID, Username: f.username, Admin: f.admin},
				ChannelID:   f.channel,
				ChannelName: f.channel,
			})
			if err != nil {
				return err
			}
			title := fmt.Sprintf("listd #%s", f.channel)
			if _, err := tea.NewProgram(console.NewModel(cmd.Context(), s, title), tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("console: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&f.userID, "user", "console", "user id to act as")
	cmd.Flags().StringVar(&f.username, "name", "", "display name (defaults to the user id)")
	cmd.Flags().BoolVar(&f.admin, "admin", false, "act with administrator rights")
	cmd.Flags().StringVar(&f.channel, "channel", "console", "channel id whose list is shared")
	cmd.Flags().StringVar(&f.logFile, "log-file", "discard", "log destination while the console runs")
	return cmd
}
