// Package discord adapts the router to the Discord gateway.
package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sandeepkv93/listd/internal/commands"
	"github.com/sandeepkv93/listd/internal/model"
	"github.com/sandeepkv93/listd/internal/router"
	"github.com/sandeepkv93/listd/internal/views"
)

func buttonStyle(s views.ButtonStyle) discordgo.ButtonStyle {
	switch s {
	case views.StyleSuccess:
		return discordgo.SuccessButton
	case views.StyleDanger:
		return discordgo.DangerButton
	case views.StyleSecondary:
		return discordgo.SecondaryButton
	default:
		return discordgo.PrimaryButton
	}
}

func emoji(name string) *discordgo.ComponentEmoji {
	if name == "" {
		return nil
	}
	return &discordgo.ComponentEmoji{Name: name}
}

// Components converts action rows. The result is never nil so that an empty
// row set clears components on update.
func Components(rows []views.ActionRow) []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(rows))
	for _, row := range rows {
		var items []discordgo.MessageComponent
		if row.Select != nil {
			menu := discordgo.SelectMenu{
				MenuType:    discordgo.StringSelectMenu,
				CustomID:    row.Select.CustomID,
				Placeholder: row.Select.Placeholder,
				Disabled:    row.Select.Disabled,
			}
			for _, o := range row.Select.Options {
				menu.Options = append(menu.Options, discordgo.SelectMenuOption{
					Label:       o.Label,
					Value:       o.Value,
					Description: o.Description,
					Emoji:       emoji(o.Emoji),
				})
			}
			items = append(items, menu)
		}
		for _, b := range row.Buttons {
			items = append(items, discordgo.Button{
				CustomID: b.CustomID,
				Label:    b.Label,
				Style:    buttonStyle(b.Style),
				Disabled: b.Disabled,
				Emoji:    emoji(b.Emoji),
			})
		}
		if len(items) > 0 {
			out = append(out, discordgo.ActionsRow{Components: items})
		}
	}
	return out
}

func Embeds(embeds []views.Embed) []*discordgo.MessageEmbed {
	out := make([]*discordgo.MessageEmbed, 0, len(embeds))
	for _, e := range embeds {
		me := &discordgo.MessageEmbed{
			Title:       e.Title,
			Description: e.Description,
			Color:       e.Color,
		}
		for _, f := range e.Fields {
			me.Fields = append(me.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
		}
		if e.Footer != "" {
			me.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
		}
		if !e.Timestamp.IsZero() {
			me.Timestamp = e.Timestamp.UTC().Format(time.RFC3339)
		}
		out = append(out, me)
	}
	return out
}

func flags(msg views.Message) discordgo.MessageFlags {
	if msg.Ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

func ResponseData(msg views.Message) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content:    msg.Content,
		Embeds:     Embeds(msg.Embeds),
		Components: Components(msg.Rows),
		Flags:      flags(msg),
	}
}

func ModalData(m views.Modal) *discordgo.InteractionResponseData {
	rows := make([]discordgo.MessageComponent, 0, len(m.Inputs))
	for _, in := range m.Inputs {
		style := discordgo.TextInputShort
		if in.Paragraph {
			style = discordgo.TextInputParagraph
		}
		rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:    in.CustomID,
				Label:       in.Label,
				Style:       style,
				Placeholder: in.Placeholder,
				Value:       in.Value,
				Required:    in.Required,
				MaxLength:   in.MaxLength,
			},
		}})
	}
	return &discordgo.InteractionResponseData{CustomID: m.CustomID, Title: m.Title, Components: rows}
}

func optionType(k commands.OptionKind) discordgo.ApplicationCommandOptionType {
	switch k {
	case commands.OptionBool:
		return discordgo.ApplicationCommandOptionBoolean
	case commands.OptionInteger:
		return discordgo.ApplicationCommandOptionInteger
	default:
		return discordgo.ApplicationCommandOptionString
	}
}

// ApplicationCommands converts the command definitions for registration.
func ApplicationCommands(defs []commands.Definition) []*discordgo.ApplicationCommand {
	out := make([]*discordgo.ApplicationCommand, 0, len(defs))
	for _, d := range defs {
		cmd := &discordgo.ApplicationCommand{Name: d.Name, Description: d.Description}
		for _, o := range d.Options {
			opt := &discordgo.ApplicationCommandOption{
				Type:        optionType(o.Kind),
				Name:        o.Name,
				Description: o.Description,
				Required:    o.Required,
				MaxLength:   o.MaxLength,
			}
			if o.MinValue != 0 {
				v := float64(o.MinValue)
				opt.MinValue = &v
			}
			for _, c := range o.Choices {
				opt.Choices = append(opt.Choices, &discordgo.ApplicationCommandOptionChoice{Name: c.Name, Value: c.Value})
			}
			cmd.Options = append(cmd.Options, opt)
		}
		out = append(out, cmd)
	}
	return out
}

func actor(i *discordgo.Interaction) model.Actor {
	if i.Member != nil && i.Member.User != nil {
		return model.Actor{
			ID:       i.Member.User.ID,
			Username: i.Member.User.Username,
			Admin:    i.Member.Permissions&discordgo.PermissionAdministrator != 0,
		}
	}
	if i.User != nil {
		return model.Actor{ID: i.User.ID, Username: i.User.Username}
	}
	return model.Actor{}
}

// modalFields flattens submitted text inputs by custom id.
func modalFields(components []discordgo.MessageComponent) map[string]string {
	out := make(map[string]string)
	var walk func([]discordgo.MessageComponent)
	walk = func(cs []discordgo.MessageComponent) {
		for _, c := range cs {
			switch v := c.(type) {
			case *discordgo.ActionsRow:
				walk(v.Components)
			case discordgo.ActionsRow:
				walk(v.Components)
			case *discordgo.TextInput:
				out[v.CustomID] = v.Value
			case discordgo.TextInput:
				out[v.CustomID] = v.Value
			}
		}
	}
	walk(components)
	return out
}

// Interaction converts a gateway interaction. ok is false for interaction
// types the bot does not handle (pings, autocomplete).
func Interaction(i *discordgo.Interaction, channelName string) (router.Interaction, bool) {
	in := router.Interaction{
		ID:          i.ID,
		Actor:       actor(i),
		ChannelID:   i.ChannelID,
		ChannelName: channelName,
		GuildID:     i.GuildID,
	}
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		in.Kind = router.KindCommand
		in.Command = data.Name
		in.Options = make(map[string]any, len(data.Options))
		for _, o := range data.Options {
			in.Options[o.Name] = o.Value
		}
	case discordgo.InteractionMessageComponent:
		data := i.MessageComponentData()
		in.Kind = router.KindComponent
		in.CustomID = data.CustomID
		in.Values = data.Values
	case discordgo.InteractionModalSubmit:
		data := i.ModalSubmitData()
		in.Kind = router.KindModal
		in.CustomID = data.CustomID
		in.Fields = modalFields(data.Components)
	default:
		return router.Interaction{}, false
	}
	return in, true
}
