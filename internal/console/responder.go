package console

import (
	"context"

	"github.com/sandeepkv93/listd/internal/router"
	"github.com/sandeepkv93/listd/internal/views"
)

// responder writes router output into the session transcript. source is the
// entry the interaction was started from, nil for typed commands.
type responder struct {
	s      *Session
	source *Entry
}

func (r *responder) Reply(_ context.Context, msg views.Message) error {
	r.s.appendEntry(msg)
	return nil
}

func (r *responder) Update(_ context.Context, msg views.Message) error {
	if r.source == nil {
		r.s.appendEntry(msg)
		return nil
	}
	r.s.replaceEntry(r.source, msg)
	return nil
}

func (r *responder) ShowModal(_ context.Context, modal views.Modal) error {
	r.s.openModal(modal, r.source)
	return nil
}

func (r *responder) FollowUp(_ context.Context, msg views.Message) error {
	r.s.appendEntry(msg)
	return nil
}

func (r *responder) EditSource(_ context.Context, msg views.Message) error {
	if r.source == nil {
		return router.ErrNoSource
	}
	r.s.replaceEntry(r.source, msg)
	return nil
}
