// Package main implements the listd command: a Discord list bot with a local
// console transport.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/listd/internal/app"
	"github.com/sandeepkv93/listd/internal/config"
	"github.com/sandeepkv93/listd/internal/logging"
)

var (
	configPath string
	version    = "dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "listd: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "listd",
		Short: "Shared and personal to-do lists for Discord",
		Long: `listd keeps per-channel and per-user to-do and shopping lists.

It runs as a Discord bot (serve), as a local terminal console (console),
and sends daily due-date reminders to channels.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	root.AddCommand(
		newServeCmd(),
		newConsoleCmd(),
		newRemindCmd(),
		newCommandsCmd(),
		newVersionCmd(),
	)
	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openApp loads config and opens the store. adjust may tweak the config
// before validation.
func openApp(adjust func(*config.Config)) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if adjust != nil {
		adjust(cfg)
	}
	logger, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return app.New(cfg, logger)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the listd version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "listd", version)
		},
	}
}
