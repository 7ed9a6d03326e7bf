package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/sandeepkv93/listd/internal/commands"
	"github.com/sandeepkv93/listd/internal/logging"
	"github.com/sandeepkv93/listd/internal/router"
	"github.com/sandeepkv93/listd/internal/storage"
)

const presence = "/help for commands"

type Options struct {
	Token string
	AppID string
	// GuildID scopes command registration; empty registers globally.
	GuildID          string
	RegisterCommands bool
	Logger           *logging.Logger
}

type Bot struct {
	session *discordgo.Session
	router  *router.Router
	repo    storage.Repository
	logger  *logging.Logger
	opts    Options
	ctx     context.Context
}

func New(r *router.Router, repo storage.Repository, opts Options) (*Bot, error) {
	if r == nil || repo == nil {
		return nil, errors.New("discord: router and repository are required")
	}
	if opts.Token == "" {
		return nil, errors.New("discord: token is required")
	}
	s, err := discordgo.New("Bot " + opts.Token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	b := &Bot{
		session: s,
		router:  r,
		repo:    repo,
		logger:  logger.Named("discord"),
		opts:    opts,
		ctx:     context.Background(),
	}
	s.AddHandler(b.onReady)
	s.AddHandler(b.onGuildCreate)
	s.AddHandler(b.onInteraction)
	return b, nil
}

// Sender returns the reminder sender backed by this bot's session.
func (b *Bot) Sender() *Sender {
	return &Sender{s: b.session}
}

// Run connects to the gateway and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	defer b.session.Close()

	if b.opts.RegisterCommands {
		if err := b.RegisterCommands(ctx); err != nil {
			return err
		}
	}
	<-ctx.Done()
	b.logger.Info(context.Background(), "disconnecting from gateway")
	return nil
}

func (b *Bot) RegisterCommands(ctx context.Context) error {
	appID := b.opts.AppID
	if appID == "" && b.session.State != nil && b.session.State.User != nil {
		appID = b.session.State.User.ID
	}
	if appID == "" {
		return errors.New("discord: application id unknown")
	}
	cmds, err := b.session.ApplicationCommandBulkOverwrite(appID, b.opts.GuildID, ApplicationCommands(commands.Definitions()), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	b.logger.Info(ctx, "registered commands", zap.Int("count", len(cmds)), zap.String("guild.id", b.opts.GuildID))
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info(b.ctx, "gateway ready",
		zap.String("user", r.User.Username),
		zap.Int("guilds", len(r.Guilds)),
	)
	if err := s.UpdateGameStatus(0, presence); err != nil {
		b.logger.Warn(b.ctx, "could not set presence", zap.Error(err))
	}
}

func (b *Bot) onGuildCreate(_ *discordgo.Session, g *discordgo.GuildCreate) {
	_, created, err := b.repo.GetOrCreateGuild(b.ctx, g.ID)
	if err != nil {
		b.logger.Error(b.ctx, "could not load guild record", zap.String("guild.id", g.ID), zap.Error(err))
		return
	}
	if created {
		b.logger.Info(b.ctx, "joined guild", zap.String("guild.id", g.ID), zap.String("name", g.Name))
	}
}

func (b *Bot) channelName(s *discordgo.Session, id string) string {
	if s.State == nil || id == "" {
		return ""
	}
	ch, err := s.State.Channel(id)
	if err != nil {
		return ""
	}
	return ch.Name
}

func (b *Bot) onInteraction(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	in, ok := Interaction(ic.Interaction, b.channelName(s, ic.ChannelID))
	if !ok {
		return
	}
	resp := &responder{s: s, i: ic.Interaction}
	if err := b.router.Handle(b.ctx, in, resp); err != nil {
		b.logger.Warn(b.ctx, "interaction left unanswered", zap.String("interaction.id", in.ID), zap.Error(err))
	}
}
