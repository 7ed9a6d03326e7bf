package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/listd/internal/model"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "listd-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLiteGetOrCreateAndSave(t *testing.T) {
	repo := setupRepo(t)
	ctx := t.Context()

	rec, created, err := repo.GetOrCreateChannel(ctx, "c1")
	if err != nil {
		t.Fatalf("create channel: %v", err)
	}
	if !created {
		t.Fatal("first access should create the record")
	}

	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	rec.List.Add(model.NewItem("milk", "u1", now))
	if err := repo.SaveChannel(ctx, "c1", rec); err != nil {
		t.Fatalf("save channel: %v", err)
	}

	again, created, err := repo.GetOrCreateChannel(ctx, "c1")
	if err != nil {
		t.Fatalf("reload channel: %v", err)
	}
	if created || again.List.Len() != 1 || again.List.Items[0].Text != "milk" {
		t.Fatalf("unexpected reload: created=%v items=%#v", created, again.List.Items)
	}

	user, created, err := repo.GetOrCreateUser(ctx, "u1")
	if err != nil || !created {
		t.Fatalf("create user: created=%v err=%v", created, err)
	}
	if user.Settings.DefaultList != model.DefaultListName {
		t.Fatalf("unexpected default list: %q", user.Settings.DefaultList)
	}
	if _, _, err := repo.GetOrCreateGuild(ctx, "g1"); err != nil {
		t.Fatalf("create guild: %v", err)
	}

	ids, err := repo.ChannelIDs(ctx)
	if err != nil {
		t.Fatalf("channel ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != "c1" {
		t.Fatalf("unexpected channel ids: %v", ids)
	}
}

func TestSQLiteCorruptPayload(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "corrupt.db")
	repo, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer repo.Close()

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`INSERT INTO scopes (kind, id, payload, created_at, updated_at) VALUES ('channel', 'bad', '{not json', 'x', 'x')`); err != nil {
		t.Fatalf("insert corrupt row: %v", err)
	}

	if _, _, err := repo.GetOrCreateChannel(t.Context(), "bad"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}
