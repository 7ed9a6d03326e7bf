package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sandeepkv93/listd/internal/discord"
	"github.com/sandeepkv93/listd/internal/httpserver"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Discord bot, reminders and the HTTP endpoint",
		Long: `Connect to the Discord gateway and answer slash commands and components.

The daily reminder sweep runs when reminder.enabled is set, and the health
and metrics endpoint when http.enabled is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	a, err := openApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()
	cfg := a.Config
	if err := cfg.RequireToken(); err != nil {
		return err
	}

	bot, err := discord.New(a.Router, a.Repo, discord.Options{
		Token:            cfg.Discord.Token.Value(),
		AppID:            cfg.Discord.AppID,
		GuildID:          cfg.Discord.GuildID,
		RegisterCommands: cfg.Discord.RegisterCommands,
		Logger:           a.Logger,
	})
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return bot.Run(ctx) })

	if cfg.Reminder.Enabled {
		svc, err := a.ReminderService(bot.Sender())
		if err != nil {
			return err
		}
		g.Go(func() error { return svc.Run(ctx) })
	}

	if cfg.HTTP.Enabled {
		srv, err := httpserver.NewServer(a.Repo, a.Logger, httpserver.Config{Host: cfg.HTTP.Host, Port: cfg.HTTP.Port})
		if err != nil {
			return err
		}
		g.Go(srv.Start)
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	a.Logger.Info(ctx, "listd started",
		zap.Bool("reminders", cfg.Reminder.Enabled),
		zap.Bool("http", cfg.HTTP.Enabled),
		zap.String("http.addr", cfg.HTTP.Addr()),
	)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serve: %w", err)
	}
	a.Logger.Info(context.Background(), "listd stopped")
	return nil
}
