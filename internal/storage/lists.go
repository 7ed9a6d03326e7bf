package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sandeepkv93/listd/internal/model"
)

type LockPolicy string

const (
	// LockScope serializes read-modify-write cycles per scope.
	LockScope LockPolicy = "scope"
	// LockNone leaves concurrent updates of one scope last-writer-wins.
	LockNone LockPolicy = "none"
)

func (p LockPolicy) IsValid() bool {
	return p == LockScope || p == LockNone
}

type Scope struct {
	Kind model.ScopeKind
	ID   string
}

func ChannelScope(id string) Scope { return Scope{Kind: model.ScopeChannel, ID: id} }

func UserScope(id string) Scope { return Scope{Kind: model.ScopeUser, ID: id} }

func (s Scope) Personal() bool { return s.Kind == model.ScopeUser }

func (s Scope) String() string { return string(s.Kind) + "/" + s.ID }

func (s Scope) validate() error {
	if !s.Kind.IsValid() || s.ID == "" {
		return fmt.Errorf("%w: %q", ErrInvalidScope, s.String())
	}
	return nil
}

// UpdateFunc mutates the list and reports whether anything changed.
type UpdateFunc func(l *model.List) (bool, error)

// Lists is the list-level access layer over a Repository.
type Lists struct {
	repo  Repository
	locks locker
	now   func() time.Time
}

func NewLists(repo Repository, policy LockPolicy) (*Lists, error) {
	if repo == nil {
		return nil, fmt.Errorf("storage: nil repository")
	}
	var lk locker
	switch policy {
	case LockScope, "":
		lk = newKeyedMutex()
	case LockNone:
		lk = noLocks{}
	default:
		return nil, fmt.Errorf("storage: unknown lock policy %q", policy)
	}
	return &Lists{repo: repo, locks: lk, now: time.Now}, nil
}

func (l *Lists) Repository() Repository {
	return l.repo
}

func (l *Lists) Read(ctx context.Context, scope Scope) (model.List, error) {
	if err := scope.validate(); err != nil {
		return model.List{}, err
	}
	switch scope.Kind {
	case model.ScopeChannel:
		rec, _, err := l.repo.GetOrCreateChannel(ctx, scope.ID)
		if err != nil {
			return model.List{}, err
		}
		return rec.List, nil
	default:
		rec, _, err := l.repo.GetOrCreateUser(ctx, scope.ID)
		if err != nil {
			return model.List{}, err
		}
		return rec.ActiveList(l.now()), nil
	}
}

// Update loads the scope's list, applies fn and saves the owning record only
// when fn succeeds and reports a change. It returns the resulting list.
func (l *Lists) Update(ctx context.Context, scope Scope, fn UpdateFunc) (model.List, error) {
	if err := scope.validate(); err != nil {
		return model.List{}, err
	}
	unlock := l.locks.lock(scope.String())
	defer unlock()

	switch scope.Kind {
	case model.ScopeChannel:
		rec, _, err := l.repo.GetOrCreateChannel(ctx, scope.ID)
		if err != nil {
			return model.List{}, err
		}
		list := rec.List
		changed, err := fn(&list)
		if err != nil {
			return rec.List, err
		}
		if !changed {
			return list, nil
		}
		rec.List = list
		if err := l.repo.SaveChannel(ctx, scope.ID, rec); err != nil {
			return model.List{}, fmt.Errorf("save channel %s: %w", scope.ID, err)
		}
		return list, nil
	default:
		rec, _, err := l.repo.GetOrCreateUser(ctx, scope.ID)
		if err != nil {
			return model.List{}, err
		}
		before := rec.ActiveList(l.now())
		list := before
		list.Items = append([]model.Item(nil), before.Items...)
		changed, err := fn(&list)
		if err != nil {
			return before, err
		}
		if !changed {
			return list, nil
		}
		rec.SetActiveList(list)
		if err := l.repo.SaveUser(ctx, scope.ID, rec); err != nil {
			return model.List{}, fmt.Errorf("save user %s: %w", scope.ID, err)
		}
		return list, nil
	}
}

type locker interface {
	lock(key string) func()
}

type noLocks struct{}

func (noLocks) lock(string) func() { return func() {} }

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.mu.Lock()
	return func() {
		m.mu.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
