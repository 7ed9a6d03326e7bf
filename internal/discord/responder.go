package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/sandeepkv93/listd/internal/router"
	"github.com/sandeepkv93/listd/internal/views"
)

// session is the part of *discordgo.Session the adapter calls.
type session interface {
	InteractionRespond(i *discordgo.Interaction, r *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(i *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type responder struct {
	s session
	i *discordgo.Interaction
}

var _ router.Responder = (*responder)(nil)

func (r *responder) respond(ctx context.Context, kind discordgo.InteractionResponseType, data *discordgo.InteractionResponseData) error {
	return r.s.InteractionRespond(r.i, &discordgo.InteractionResponse{Type: kind, Data: data}, discordgo.WithContext(ctx))
}

func (r *responder) Reply(ctx context.Context, msg views.Message) error {
	return r.respond(ctx, discordgo.InteractionResponseChannelMessageWithSource, ResponseData(msg))
}

func (r *responder) Update(ctx context.Context, msg views.Message) error {
	data := ResponseData(msg)
	// Ephemeral flags cannot change on update.
	data.Flags = 0
	return r.respond(ctx, discordgo.InteractionResponseUpdateMessage, data)
}

func (r *responder) ShowModal(ctx context.Context, m views.Modal) error {
	return r.respond(ctx, discordgo.InteractionResponseModal, ModalData(m))
}

func (r *responder) FollowUp(ctx context.Context, msg views.Message) error {
	_, err := r.s.FollowupMessageCreate(r.i, true, &discordgo.WebhookParams{
		Content:    msg.Content,
		Embeds:     Embeds(msg.Embeds),
		Components: Components(msg.Rows),
		Flags:      flags(msg),
	}, discordgo.WithContext(ctx))
	return err
}

// EditSource edits the public message the interaction came from. Ephemeral
// sources belong to an earlier interaction token and cannot be edited.
func (r *responder) EditSource(ctx context.Context, msg views.Message) error {
	src := r.i.Message
	if src == nil || src.Flags&discordgo.MessageFlagsEphemeral != 0 {
		return router.ErrNoSource
	}
	content := msg.Content
	embeds := Embeds(msg.Embeds)
	components := Components(msg.Rows)
	_, err := r.s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         src.ID,
		Channel:    src.ChannelID,
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	return err
}

// Sender posts reminder messages to channels.
type Sender struct {
	s session
}

func (s *Sender) SendMessage(ctx context.Context, channelID, content string) error {
	_, err := s.s.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	return err
}
