package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sandeepkv93/listd/internal/logging"
	"github.com/sandeepkv93/listd/internal/metrics"
	"github.com/sandeepkv93/listd/internal/storage"
)

// Sender delivers a plain message to a channel.
type Sender interface {
	SendMessage(ctx context.Context, channelID, content string) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, channelID, content string) error

func (f SenderFunc) SendMessage(ctx context.Context, channelID, content string) error {
	return f(ctx, channelID, content)
}

type Options struct {
	Location *time.Location
	// SendInterval spaces outbound messages; zero disables the limit.
	SendInterval time.Duration
	Logger       *logging.Logger
	Metrics      *metrics.Metrics
	Now          func() time.Time
}

// Report summarises one sweep.
type Report struct {
	Channels int
	Sent     int
	Failed   int
	Skipped  int
}

type Sweeper struct {
	repo    storage.Repository
	sender  Sender
	loc     *time.Location
	limiter *rate.Limiter
	logger  *logging.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewSweeper(repo storage.Repository, sender Sender, opts Options) (*Sweeper, error) {
	if repo == nil {
		return nil, errors.New("reminder: nil repository")
	}
	if sender == nil {
		return nil, errors.New("reminder: nil sender")
	}
	s := &Sweeper{
		repo:    repo,
		sender:  sender,
		loc:     opts.Location,
		limiter: rate.NewLimiter(rate.Inf, 1),
		logger:  opts.Logger,
		metrics: opts.Metrics,
		now:     opts.Now,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if opts.SendInterval > 0 {
		s.limiter = rate.NewLimiter(rate.Every(opts.SendInterval), 1)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.logger = s.logger.Named("reminder")
	return s, nil
}

// Sweep checks every known channel once. A failing channel is logged and
// counted; the sweep only aborts when the channel index cannot be read or ctx
// ends.
func (s *Sweeper) Sweep(ctx context.Context) (Report, error) {
	var rep Report
	ids, err := s.repo.ChannelIDs(ctx)
	if err != nil {
		return rep, fmt.Errorf("list channels: %w", err)
	}
	now := s.now()
	rep.Channels = len(ids)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		sent, err := s.remind(ctx, id, now)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return rep, ctx.Err()
			}
			rep.Failed++
			s.metrics.ReminderMessage("failed")
			s.logger.Error(ctx, "reminder failed", zap.String("channel.id", id), zap.Error(err))
		case sent:
			rep.Sent++
			s.metrics.ReminderMessage("sent")
		default:
			rep.Skipped++
		}
	}

	s.metrics.ReminderSweep()
	s.logger.Info(ctx, "reminder sweep finished",
		zap.Int("channels", rep.Channels),
		zap.Int("sent", rep.Sent),
		zap.Int("failed", rep.Failed),
	)
	return rep, nil
}

func (s *Sweeper) remind(ctx context.Context, channelID string, now time.Time) (bool, error) {
	rec, _, err := s.repo.GetOrCreateChannel(ctx, channelID)
	if err != nil {
		return false, fmt.Errorf("load channel: %w", err)
	}
	today, overdue := Due(rec.List, now, s.loc)
	msg := Compose(today, overdue, s.loc)
	if msg == "" {
		return false, nil
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return false, err
	}
	if err := s.sender.SendMessage(ctx, channelID, msg); err != nil {
		return false, fmt.Errorf("send: %w", err)
	}
	s.logger.Debug(ctx, "reminder sent",
		zap.String("channel.id", channelID),
		zap.Int("due_today", len(today)),
		zap.Int("overdue", len(overdue)),
	)
	return true, nil
}
