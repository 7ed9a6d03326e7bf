package logging

import (
	"context"

	"go.uber.org/zap"
)

// Interaction carries correlation data for one inbound interaction.
type Interaction struct {
	ID        string
	Kind      string
	ActorID   string
	ChannelID string
	GuildID   string
}

type interactionCtxKey struct{}
type loggerCtxKey struct{}

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 5)
	if ctx == nil {
		return fields
	}
	if in, ok := ctx.Value(interactionCtxKey{}).(Interaction); ok {
		if in.ID != "" {
			fields = append(fields, zap.String("interaction.id", in.ID))
		}
		if in.Kind != "" {
			fields = append(fields, zap.String("interaction.kind", in.Kind))
		}
		if in.ActorID != "" {
			fields = append(fields, zap.String("actor.id", in.ActorID))
		}
		if in.ChannelID != "" {
			fields = append(fields, zap.String("channel.id", in.ChannelID))
		}
		if in.GuildID != "" {
			fields = append(fields, zap.String("guild.id", in.GuildID))
		}
	}
	return fields
}

func WithInteraction(ctx context.Context, in Interaction) context.Context {
	return context.WithValue(ctx, interactionCtxKey{}, in)
}

func InteractionFromContext(ctx context.Context) (Interaction, bool) {
	in, ok := ctx.Value(interactionCtxKey{}).(Interaction)
	return in, ok
}

// WithLogger stores logger in context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext retrieves logger from context, or a nop logger.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return NewNop()
}
