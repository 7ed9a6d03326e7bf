package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/listd/internal/model"
)

func TestDocumentStoreCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")
	store, err := OpenDocumentStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("document not created: %v", err)
	}
	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("created document is not valid json: %v", err)
	}
}

func TestDocumentStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := OpenDocumentStore(path); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestDocumentStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	store, err := OpenDocumentStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := t.Context()

	rec, created, err := store.GetOrCreateChannel(ctx, "c1")
	if err != nil || !created {
		t.Fatalf("get or create: created=%v err=%v", created, err)
	}
	rec.List.Add(model.NewItem("bread", "u1", time.Now()))

	// Mutating the returned record must not leak into the store before a save.
	if again, _, _ := store.GetOrCreateChannel(ctx, "c1"); again.List.Len() != 0 {
		t.Fatalf("record shared with store: len=%d", again.List.Len())
	}
	if err := store.SaveChannel(ctx, "c1", rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	reopened, err := OpenDocumentStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, created, err := reopened.GetOrCreateChannel(ctx, "c1")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if created || got.List.Len() != 1 || got.List.Items[0].Text != "bread" {
		t.Fatalf("unexpected reload: created=%v items=%#v", created, got.List.Items)
	}

	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}

func TestDocumentStoreReadsLegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	legacy := `{"users":{},"channels":{"c1":{"list":{"items":[{"id":1700000000000,"text":"eggs","completed":false,"createdBy":"u1","createdAt":"2024-01-01T00:00:00.000Z","updatedAt":"2024-01-01T00:00:00.000Z"}],"created":"2024-01-01T00:00:00.000Z"},"settings":{}}}}`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store, err := OpenDocumentStore(path)
	if err != nil {
		t.Fatalf("open legacy: %v", err)
	}
	rec, _, err := store.GetOrCreateChannel(t.Context(), "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.List.Len() != 1 || rec.List.Items[0].ID != "1700000000000" {
		t.Fatalf("unexpected legacy items: %#v", rec.List.Items)
	}
	if _, _, err := store.GetOrCreateGuild(t.Context(), "g1"); err != nil {
		t.Fatalf("guilds map should be normalized: %v", err)
	}
}
