package storage

import (
	"context"
	"errors"

	"github.com/sandeepkv93/listd/internal/model"
)

var (
	ErrNotFound     = errors.New("storage: not found")
	ErrCorrupt      = errors.New("storage: document is corrupt")
	ErrInvalidScope = errors.New("storage: invalid scope")
)

// Repository persists whole records. The GetOrCreate methods report whether
// the default record was created (and persisted) by the call.
type Repository interface {
	GetOrCreateUser(ctx context.Context, id string) (model.UserRecord, bool, error)
	GetOrCreateChannel(ctx context.Context, id string) (model.ChannelRecord, bool, error)
	GetOrCreateGuild(ctx context.Context, id string) (model.GuildRecord, bool, error)

	SaveUser(ctx context.Context, id string, rec model.UserRecord) error
	SaveChannel(ctx context.Context, id string, rec model.ChannelRecord) error
	SaveGuild(ctx context.Context, id string, rec model.GuildRecord) error

	ChannelIDs(ctx context.Context) ([]string, error)
	Close() error
}
