package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// List is an ordered item collection. Entries that failed to decode are kept
// in raw form so a save never drops data it could not read.
type List struct {
	Items   []Item
	Created time.Time

	invalid []json.RawMessage
}

type listWire struct {
	Items   json.RawMessage `json:"items"`
	Created time.Time       `json:"created"`
}

type listOut struct {
	Items   []json.RawMessage `json:"items"`
	Created time.Time         `json:"created"`
}

func NewList(now time.Time) List {
	return List{Items: []Item{}, Created: now.UTC()}
}

func (l *List) UnmarshalJSON(data []byte) error {
	var wire listWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	l.Created = wire.Created
	l.Items = []Item{}
	l.invalid = nil

	var raws []json.RawMessage
	trimmed := bytes.TrimSpace(wire.Items)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		return nil
	}
	for _, raw := range raws {
		var it Item
		if err := json.Unmarshal(raw, &it); err != nil {
			l.invalid = append(l.invalid, append(json.RawMessage(nil), raw...))
			continue
		}
		l.Items = append(l.Items, it)
	}
	return nil
}

func (l List) MarshalJSON() ([]byte, error) {
	out := listOut{Items: make([]json.RawMessage, 0, len(l.Items)+len(l.invalid)), Created: l.Created}
	for _, it := range l.Items {
		raw, err := json.Marshal(it)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, raw)
	}
	out.Items = append(out.Items, l.invalid...)
	return json.Marshal(out)
}

// Preserved reports how many undecodable entries the list carries.
func (l List) Preserved() int {
	return len(l.invalid)
}

func (l List) Len() int {
	return len(l.Items)
}

func (l List) Index(id ItemID) int {
	if id == "" {
		return -1
	}
	for i := range l.Items {
		if l.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns a pointer into the list so callers can mutate in place.
func (l *List) Find(id ItemID) (*Item, bool) {
	i := l.Index(id)
	if i < 0 {
		return nil, false
	}
	return &l.Items[i], true
}

func (l *List) Add(it Item) {
	l.Items = append(l.Items, it)
}

func (l *List) Remove(id ItemID) (Item, bool) {
	i := l.Index(id)
	if i < 0 {
		return Item{}, false
	}
	removed := l.Items[i]
	l.Items = append(l.Items[:i], l.Items[i+1:]...)
	return removed, true
}

type ClearMode string

const (
	ClearCompleted ClearMode = "completed"
	ClearAll       ClearMode = "all"
)

func (m ClearMode) IsValid() bool {
	return m == ClearCompleted || m == ClearAll
}

func (l *List) Clear(mode ClearMode) int {
	if mode == ClearAll {
		return l.ClearAll()
	}
	return l.ClearCompleted()
}

func (l *List) ClearCompleted() int {
	kept := l.Items[:0]
	removed := 0
	for _, it := range l.Items {
		if it.Completed {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	l.Items = kept
	return removed
}

// ClearAll empties the list, including entries kept only in raw form.
func (l *List) ClearAll() int {
	n := len(l.Items) + len(l.invalid)
	l.Items = []Item{}
	l.invalid = nil
	return n
}

func (l List) CompletedCount() int {
	n := 0
	for _, it := range l.Items {
		if it.Completed {
			n++
		}
	}
	return n
}
