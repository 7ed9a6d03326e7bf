// Package console drives the router from a terminal. Messages are kept in a
// transcript; controls on the focused message are addressed by number.
package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sandeepkv93/listd/internal/model"
	"github.com/sandeepkv93/listd/internal/router"
	"github.com/sandeepkv93/listd/internal/views"
)

var (
	ErrNoFocus     = errors.New("console: no message with controls")
	ErrNoModal     = errors.New("console: no form is open")
	ErrBadControl  = errors.New("console: no such control")
	ErrBadOption   = errors.New("console: no such option")
	ErrUnknownVerb = errors.New("console: unknown console command")
)

// Handler is the router surface the console needs.
type Handler interface {
	Handle(ctx context.Context, in router.Interaction, resp router.Responder) error
}

// Entry is one transcript message. Entries are edited in place when the
// router updates the message they show.
type Entry struct {
	ID      int
	Message views.Message
}

type Session struct {
	mu sync.Mutex

	handler     Handler
	actor       model.Actor
	channelID   string
	channelName string
	guildID     string

	entries []*Entry
	nextID  int
	focus   *Entry
	modal   *views.Modal
	// modalSource is the entry that opened the pending form.
	modalSource *Entry
}

type SessionOptions struct {
	Actor       model.Actor
	ChannelID   string
	ChannelName string
	GuildID     string
}

func NewSession(h Handler, opts SessionOptions) (*Session, error) {
	if h == nil {
		return nil, errors.New("console: nil handler")
	}
	if opts.Actor.ID == "" {
		return nil, errors.New("console: actor id is required")
	}
	if opts.Actor.Username == "" {
		opts.Actor.Username = opts.Actor.ID
	}
	return &Session{
		handler:     h,
		actor:       opts.Actor,
		channelID:   opts.ChannelID,
		channelName: opts.ChannelName,
		guildID:     opts.GuildID,
	}, nil
}

func (s *Session) Actor() model.Actor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actor
}

// Entries returns copies of the transcript, oldest first.
func (s *Session) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, *e)
	}
	return out
}

// Focus is the most recent message carrying controls.
func (s *Session) Focus() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.focus == nil {
		return Entry{}, false
	}
	return *s.focus, true
}

func (s *Session) PendingModal() (views.Modal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modal == nil {
		return views.Modal{}, false
	}
	return *s.modal, true
}

func (s *Session) CancelModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = nil
	s.modalSource = nil
}

// Exec runs one input line. Lines starting with ":" are console verbs:
//
//	:click N      press button N of the focused message
//	:pick N M     choose option M of select menu N
//	:as ID [NAME] act as another user
//	:admin on|off toggle administrator rights
//
// Anything else is sent as a slash command.
func (s *Session) Exec(ctx context.Context, line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil
	}
	if !strings.HasPrefix(line, ":") {
		return "", s.dispatch(ctx, router.Interaction{Kind: router.KindCommand, Input: line}, nil)
	}

	fields := strings.Fields(strings.TrimPrefix(line, ":"))
	if len(fields) == 0 {
		return "", ErrUnknownVerb
	}
	switch fields[0] {
	case "click":
		if len(fields) != 2 {
			return "", fmt.Errorf("usage: :click N")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return "", fmt.Errorf("usage: :click N")
		}
		return "", s.Click(ctx, n)
	case "pick":
		if len(fields) != 3 {
			return "", fmt.Errorf("usage: :pick N M")
		}
		n, err1 := strconv.Atoi(fields[1])
		m, err2 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil {
			return "", fmt.Errorf("usage: :pick N M")
		}
		return "", s.Pick(ctx, n, m)
	case "as":
		if len(fields) < 2 {
			return "", fmt.Errorf("usage: :as ID [NAME]")
		}
		s.mu.Lock()
		s.actor.ID = fields[1]
		s.actor.Username = fields[1]
		if len(fields) > 2 {
			s.actor.Username = strings.Join(fields[2:], " ")
		}
		s.actor.Admin = false
		name := s.actor.Username
		s.mu.Unlock()
		return "acting as " + name, nil
	case "admin":
		if len(fields) != 2 || (fields[1] != "on" && fields[1] != "off") {
			return "", fmt.Errorf("usage: :admin on|off")
		}
		s.mu.Lock()
		s.actor.Admin = fields[1] == "on"
		s.mu.Unlock()
		return "administrator " + fields[1], nil
	default:
		return "", ErrUnknownVerb
	}
}

// Click presses a button on the focused message.
func (s *Session) Click(ctx context.Context, n int) error {
	s.mu.Lock()
	src := s.focus
	s.mu.Unlock()
	if src == nil {
		return ErrNoFocus
	}
	ctl, ok := control(src.Message, n)
	if !ok || ctl.Button == nil {
		return ErrBadControl
	}
	if ctl.Button.Disabled {
		return fmt.Errorf("console: button %d is disabled", n)
	}
	return s.dispatch(ctx, router.Interaction{Kind: router.KindComponent, CustomID: ctl.Button.CustomID}, src)
}

// Pick chooses option m (1-based) of select menu n on the focused message.
func (s *Session) Pick(ctx context.Context, n, m int) error {
	s.mu.Lock()
	src := s.focus
	s.mu.Unlock()
	if src == nil {
		return ErrNoFocus
	}
	ctl, ok := control(src.Message, n)
	if !ok || ctl.Select == nil {
		return ErrBadControl
	}
	if m < 1 || m > len(ctl.Select.Options) {
		return ErrBadOption
	}
	in := router.Interaction{
		Kind:     router.KindComponent,
		CustomID: ctl.Select.CustomID,
		Values:   []string{ctl.Select.Options[m-1].Value},
	}
	return s.dispatch(ctx, in, src)
}

// SubmitModal sends the pending form with the given field values keyed by
// input id.
func (s *Session) SubmitModal(ctx context.Context, values map[string]string) error {
	s.mu.Lock()
	modal, src := s.modal, s.modalSource
	s.modal, s.modalSource = nil, nil
	s.mu.Unlock()
	if modal == nil {
		return ErrNoModal
	}
	fields := make(map[string]string, len(modal.Inputs))
	for _, in := range modal.Inputs {
		fields[in.CustomID] = values[in.CustomID]
	}
	return s.dispatch(ctx, router.Interaction{Kind: router.KindModal, CustomID: modal.CustomID, Fields: fields}, src)
}

func control(msg views.Message, n int) (views.Control, bool) {
	for _, c := range views.Controls(msg) {
		if c.Index == n {
			return c, true
		}
	}
	return views.Control{}, false
}

func (s *Session) dispatch(ctx context.Context, in router.Interaction, src *Entry) error {
	s.mu.Lock()
	in.ID = uuid.NewString()
	in.Actor = s.actor
	in.ChannelID = s.channelID
	in.ChannelName = s.channelName
	in.GuildID = s.guildID
	s.mu.Unlock()
	return s.handler.Handle(ctx, in, &responder{s: s, source: src})
}

func (s *Session) appendEntry(msg views.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e := &Entry{ID: s.nextID, Message: msg}
	s.entries = append(s.entries, e)
	if len(views.Controls(msg)) > 0 {
		s.focus = e
	}
}

func (s *Session) replaceEntry(e *Entry, msg views.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.Message = msg
	switch {
	case len(views.Controls(msg)) > 0:
		s.focus = e
	case s.focus == e:
		s.focus = nil
		for i := len(s.entries) - 1; i >= 0; i-- {
			if len(views.Controls(s.entries[i].Message)) > 0 {
				s.focus = s.entries[i]
				break
			}
		}
	}
}

func (s *Session) openModal(m views.Modal, src *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = &m
	s.modalSource = src
}
