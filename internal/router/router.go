// Package router turns inbound interactions into list operations and replies.
package router

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/listd/internal/customid"
	"github.com/sandeepkv93/listd/internal/logging"
	"github.com/sandeepkv93/listd/internal/metrics"
	"github.com/sandeepkv93/listd/internal/model"
	"github.com/sandeepkv93/listd/internal/storage"
	"github.com/sandeepkv93/listd/internal/views"
)

type Kind string

const (
	KindCommand   Kind = "command"
	KindComponent Kind = "component"
	KindModal     Kind = "modal"
)

// Interaction is a transport-neutral inbound event.
type Interaction struct {
	ID          string
	Kind        Kind
	Actor       model.Actor
	ChannelID   string
	ChannelName string
	GuildID     string

	// Command and Options carry a structured slash command. When Command is
	// empty, Input is parsed as a text command line.
	Command string
	Options map[string]any
	Input   string

	CustomID string
	Values   []string
	Fields   map[string]string
}

// Responder delivers replies for one interaction. Reply, Update and ShowModal
// are the initial response; FollowUp and EditSource come after it.
type Responder interface {
	Reply(ctx context.Context, msg views.Message) error
	// Update replaces the message the component is attached to.
	Update(ctx context.Context, msg views.Message) error
	ShowModal(ctx context.Context, modal views.Modal) error
	FollowUp(ctx context.Context, msg views.Message) error
	// EditSource edits the message the interaction came from after the
	// initial response. It returns ErrNoSource when there is none.
	EditSource(ctx context.Context, msg views.Message) error
}

var ErrNoSource = errors.New("router: interaction has no source message")

const genericFailure = "There was an error processing your request. Please try again later."

type Options struct {
	Logger   *logging.Logger
	Metrics  *metrics.Metrics
	Location *time.Location
	Now      func() time.Time
}

type Router struct {
	lists   *storage.Lists
	logger  *logging.Logger
	metrics *metrics.Metrics
	loc     *time.Location
	now     func() time.Time
}

func New(lists *storage.Lists, opts Options) (*Router, error) {
	if lists == nil {
		return nil, errors.New("router: nil lists")
	}
	r := &Router{
		lists:   lists,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		loc:     opts.Location,
		now:     opts.Now,
	}
	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	r.logger = r.logger.Named("router")
	if r.loc == nil {
		r.loc = time.UTC
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r, nil
}

// Handle routes one interaction. Actor-facing failures and panics are
// answered here; the returned error only reports that even the error reply
// could not be delivered.
func (r *Router) Handle(ctx context.Context, in Interaction, resp Responder) (err error) {
	start := time.Now()
	ctx = logging.WithInteraction(ctx, logging.Interaction{
		ID:        in.ID,
		Kind:      string(in.Kind),
		ActorID:   in.Actor.ID,
		ChannelID: in.ChannelID,
		GuildID:   in.GuildID,
	})
	tr := &tracker{Responder: resp}
	outcome := "ok"

	defer func() {
		if rec := recover(); rec != nil {
			outcome = "panic"
			r.logger.Error(ctx, "interaction panicked", zap.Any("panic", rec), zap.Stack("stack"))
			err = r.fail(ctx, tr, views.Text(genericFailure))
		}
		r.metrics.ObserveInteraction(string(in.Kind), outcome, time.Since(start))
		r.logger.Debug(ctx, "interaction handled",
			zap.String("custom_id", in.CustomID),
			zap.String("command", in.Command),
			zap.String("outcome", outcome),
			zap.Duration("elapsed", time.Since(start)),
		)
	}()

	herr := r.dispatch(ctx, in, tr)
	if herr == nil {
		return nil
	}

	var ue *UserError
	if errors.As(classify(herr), &ue) {
		outcome = "rejected"
		r.logger.Info(ctx, "interaction rejected", zap.String("kind", string(ue.Kind)), zap.Error(herr))
		return r.fail(ctx, tr, views.Text(ue.Message))
	}
	outcome = "error"
	r.logger.Error(ctx, "interaction failed", zap.Error(herr))
	return r.fail(ctx, tr, views.Text(genericFailure))
}

func (r *Router) fail(ctx context.Context, tr *tracker, msg views.Message) error {
	var err error
	if tr.responded {
		err = tr.FollowUp(ctx, msg)
	} else {
		err = tr.Reply(ctx, msg)
	}
	if err != nil {
		r.logger.Warn(ctx, "could not deliver error reply", zap.Error(err))
		return fmt.Errorf("deliver error reply: %w", err)
	}
	return nil
}

func (r *Router) dispatch(ctx context.Context, in Interaction, resp Responder) error {
	switch in.Kind {
	case KindCommand:
		return r.handleCommand(ctx, in, resp)
	case KindComponent, KindModal:
		action, err := customid.Decode(in.CustomID)
		if err != nil {
			return err
		}
		return r.handleAction(ctx, in, action, resp)
	default:
		return validation("Unsupported interaction.")
	}
}

func (r *Router) scope(in Interaction, personal bool) (storage.Scope, error) {
	if personal {
		if in.Actor.ID == "" {
			return storage.Scope{}, validation("Unknown user.")
		}
		return storage.UserScope(in.Actor.ID), nil
	}
	if in.ChannelID == "" {
		return storage.Scope{}, validation("This command must be used in a channel.")
	}
	return storage.ChannelScope(in.ChannelID), nil
}

func (r *Router) title(in Interaction, personal bool) string {
	if personal {
		return views.PersonalTitle(in.Actor.Username)
	}
	return views.ChannelTitle(in.ChannelName)
}

func (r *Router) render(in Interaction, personal bool, list model.List, f views.Filter, start int) views.Message {
	msg, _ := views.ListMessage(views.ListInput{
		Title:    r.title(in, personal),
		Personal: personal,
		List:     list,
		Filter:   f,
		Start:    start,
		Now:      r.now(),
		Location: r.loc,
	})
	return msg
}

// refreshSource re-renders the list on the originating message. Failures are
// logged only; the primary reply already went out.
func (r *Router) refreshSource(ctx context.Context, in Interaction, resp Responder, personal bool, list model.List, f views.Filter, start int) {
	err := resp.EditSource(ctx, r.render(in, personal, list, f, start))
	switch {
	case err == nil:
	case errors.Is(err, ErrNoSource):
		r.logger.Trace(ctx, "no source message to refresh")
	default:
		r.logger.Warn(ctx, "could not refresh source list", zap.Error(err))
	}
}

type tracker struct {
	Responder
	responded bool
}

func (t *tracker) Reply(ctx context.Context, msg views.Message) error {
	err := t.Responder.Reply(ctx, msg)
	if err == nil {
		t.responded = true
	}
	return err
}

func (t *tracker) Update(ctx context.Context, msg views.Message) error {
	err := t.Responder.Update(ctx, msg)
	if err == nil {
		t.responded = true
	}
	return err
}

func (t *tracker) ShowModal(ctx context.Context, modal views.Modal) error {
	err := t.Responder.ShowModal(ctx, modal)
	if err == nil {
		t.responded = true
	}
	return err
}
