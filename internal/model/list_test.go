package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestClearCompleted(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	l := NewList(now)
	for i := 0; i < 5; i++ {
		it := NewItem("item", "u1", now)
		it.Completed = i < 3
		l.Add(it)
	}
	if n := l.Clear(ClearCompleted); n != 3 {
		t.Fatalf("removed %d, want 3", n)
	}
	if l.Len() != 2 || l.CompletedCount() != 0 {
		t.Fatalf("unexpected remainder: %d items", l.Len())
	}
	if n := l.Clear(ClearAll); n != 2 || l.Len() != 0 {
		t.Fatalf("clear all removed %d, left %d", n, l.Len())
	}
}

func TestListFindAndRemove(t *testing.T) {
	now := time.Now()
	l := NewList(now)
	a := NewItem("a", "u1", now)
	b := NewItem("b", "u1", now)
	l.Add(a)
	l.Add(b)

	got, ok := l.Find(b.ID)
	if !ok {
		t.Fatal("expected to find b")
	}
	got.Text = "bb"
	if l.Items[1].Text != "bb" {
		t.Fatal("Find should return a pointer into the list")
	}
	if _, ok := l.Remove(a.ID); !ok || l.Len() != 1 {
		t.Fatalf("remove failed, len=%d", l.Len())
	}
	if _, ok := l.Remove("missing"); ok {
		t.Fatal("removing a missing id should report false")
	}
}

func TestListDecodePreservesInvalidEntries(t *testing.T) {
	raw := `{"items":[{"id":"a","text":"ok"},{"id":"b","text":5},"junk"],"created":"2026-02-09T12:00:00Z"}`
	var l List
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if l.Len() != 1 || l.Preserved() != 2 {
		t.Fatalf("got %d valid, %d preserved", l.Len(), l.Preserved())
	}
	out, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"junk"`) || !strings.Contains(string(out), `"text":5`) {
		t.Fatalf("invalid entries dropped: %s", out)
	}
}

func TestClearAllDropsInvalidEntries(t *testing.T) {
	raw := `{"items":[{"id":"a","text":"ok"},{"id":"b","dueDate":"bad"}],"created":"2026-02-09T12:00:00Z"}`
	var l List
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if removed := l.Clear(ClearAll); removed != 2 {
		t.Fatalf("removed %d, want 2", removed)
	}
	if l.Len() != 0 || l.Preserved() != 0 {
		t.Fatalf("list not empty: %d valid, %d preserved", l.Len(), l.Preserved())
	}
	out, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"items":[]`) {
		t.Fatalf("saved list still has entries: %s", out)
	}
}

func TestListDecodeNonArrayItems(t *testing.T) {
	var l List
	if err := json.Unmarshal([]byte(`{"items":{"oops":true}}`), &l); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if l.Len() != 0 || l.Items == nil {
		t.Fatalf("expected empty non-nil items, got %#v", l.Items)
	}
}

func TestUserRecordActiveList(t *testing.T) {
	now := time.Now()
	var u UserRecord
	l := u.ActiveList(now)
	l.Add(NewItem("x", "u", now))
	u.SetActiveList(l)
	if got := u.Lists[DefaultListName]; got.Len() != 1 {
		t.Fatalf("active list not stored, len=%d", got.Len())
	}
}
