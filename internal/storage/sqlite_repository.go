package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/listd/internal/model"
)

const sqliteTimeLayout = time.RFC3339Nano

const (
	kindUser    = "user"
	kindChannel = "channel"
	kindGuild   = "guild"
)

// SQLiteRepository stores each record as a JSON payload row keyed by
// (kind, id). Saves are single-statement upserts.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return &SQLiteRepository{db: db, now: time.Now}, nil
}

// OpenSQLite opens the database at path and applies pending migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) GetOrCreateUser(ctx context.Context, id string) (model.UserRecord, bool, error) {
	var rec model.UserRecord
	created, err := r.getOrCreate(ctx, kindUser, id, model.NewUserRecord(r.now()), &rec)
	return rec, created, err
}

func (r *SQLiteRepository) GetOrCreateChannel(ctx context.Context, id string) (model.ChannelRecord, bool, error) {
	var rec model.ChannelRecord
	created, err := r.getOrCreate(ctx, kindChannel, id, model.NewChannelRecord(r.now()), &rec)
	return rec, created, err
}

func (r *SQLiteRepository) GetOrCreateGuild(ctx context.Context, id string) (model.GuildRecord, bool, error) {
	var rec model.GuildRecord
	created, err := r.getOrCreate(ctx, kindGuild, id, model.NewGuildRecord(), &rec)
	return rec, created, err
}

func (r *SQLiteRepository) SaveUser(ctx context.Context, id string, rec model.UserRecord) error {
	return r.upsert(ctx, kindUser, id, rec)
}

func (r *SQLiteRepository) SaveChannel(ctx context.Context, id string, rec model.ChannelRecord) error {
	return r.upsert(ctx, kindChannel, id, rec)
}

func (r *SQLiteRepository) SaveGuild(ctx context.Context, id string, rec model.GuildRecord) error {
	return r.upsert(ctx, kindGuild, id, rec)
}

func (r *SQLiteRepository) ChannelIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM scopes WHERE kind = ? ORDER BY id`, kindChannel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) getOrCreate(ctx context.Context, kind, id string, def, dst any) (bool, error) {
	payload, err := json.Marshal(def)
	if err != nil {
		return false, fmt.Errorf("encode default %s: %w", kind, err)
	}
	now := formatTime(r.now())
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO scopes (kind, id, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (kind, id) DO NOTHING`,
		kind, id, string(payload), now, now,
	)
	if err != nil {
		return false, err
	}
	created := checkRowsAffected(res) == nil

	if err := r.load(ctx, kind, id, dst); err != nil {
		return false, err
	}
	return created, nil
}

func (r *SQLiteRepository) load(ctx context.Context, kind, id string, dst any) error {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM scopes WHERE kind = ? AND id = ?`, kind, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrCorrupt, kind, id, err)
	}
	return nil
}

func (r *SQLiteRepository) upsert(ctx context.Context, kind, id string, rec any) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	now := formatTime(r.now())
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO scopes (kind, id, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (kind, id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		kind, id, string(payload), now, now,
	)
	return err
}

func formatTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
