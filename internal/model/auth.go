package model

import "errors"

var ErrForbidden = errors.New("model: actor may not modify this item")

type ScopeKind string

const (
	ScopeChannel ScopeKind = "channel"
	ScopeUser    ScopeKind = "user"
)

func (k ScopeKind) IsValid() bool {
	return k == ScopeChannel || k == ScopeUser
}

type Actor struct {
	ID       string
	Username string
	Admin    bool
}

// CanModify covers edit, delete, priority and category changes. Channel admins
// may modify anyone's items; personal items belong to their author only.
func CanModify(it Item, actor Actor, kind ScopeKind) bool {
	if it.CreatedBy == actor.ID {
		return true
	}
	return kind == ScopeChannel && actor.Admin
}

func Authorize(it Item, actor Actor, kind ScopeKind) error {
	if !CanModify(it, actor, kind) {
		return ErrForbidden
	}
	return nil
}
