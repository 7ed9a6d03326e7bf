package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sandeepkv93/listd/internal/model"
)

// DocumentStore keeps the whole store in one JSON file. The in-memory copy is
// authoritative; every save rewrites the file through a temp file and rename.
type DocumentStore struct {
	mu   sync.Mutex
	path string
	doc  model.Document
	now  func() time.Time
}

func OpenDocumentStore(path string) (*DocumentStore, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("storage: empty document path")
	}
	s := &DocumentStore{path: trimmed, doc: model.NewDocument(), now: time.Now}

	raw, err := os.ReadFile(trimmed)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := s.persist(); err != nil {
			return nil, fmt.Errorf("create document: %w", err)
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read document: %w", err)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return s, nil
	}
	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, trimmed, err)
	}
	doc.Normalize()
	s.doc = doc
	return s, nil
}

func (s *DocumentStore) Path() string {
	return s.path
}

func (s *DocumentStore) Close() error {
	return nil
}

func (s *DocumentStore) GetOrCreateUser(ctx context.Context, id string) (model.UserRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.UserRecord{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.doc.Users[id]; ok {
		out, err := clone(rec)
		return out, false, err
	}
	rec := model.NewUserRecord(s.now())
	s.doc.Users[id] = rec
	if err := s.persist(); err != nil {
		delete(s.doc.Users, id)
		return model.UserRecord{}, false, err
	}
	out, err := clone(rec)
	return out, true, err
}

func (s *DocumentStore) GetOrCreateChannel(ctx context.Context, id string) (model.ChannelRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.ChannelRecord{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.doc.Channels[id]; ok {
		out, err := clone(rec)
		return out, false, err
	}
	rec := model.NewChannelRecord(s.now())
	s.doc.Channels[id] = rec
	if err := s.persist(); err != nil {
		delete(s.doc.Channels, id)
		return model.ChannelRecord{}, false, err
	}
	out, err := clone(rec)
	return out, true, err
}

func (s *DocumentStore) GetOrCreateGuild(ctx context.Context, id string) (model.GuildRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.GuildRecord{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.doc.Guilds[id]; ok {
		out, err := clone(rec)
		return out, false, err
	}
	rec := model.NewGuildRecord()
	s.doc.Guilds[id] = rec
	if err := s.persist(); err != nil {
		delete(s.doc.Guilds, id)
		return model.GuildRecord{}, false, err
	}
	out, err := clone(rec)
	return out, true, err
}

func (s *DocumentStore) SaveUser(ctx context.Context, id string, rec model.UserRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored, err := clone(rec)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.doc.Users[id]
	s.doc.Users[id] = stored
	if err := s.persist(); err != nil {
		if had {
			s.doc.Users[id] = prev
		} else {
			delete(s.doc.Users, id)
		}
		return err
	}
	return nil
}

func (s *DocumentStore) SaveChannel(ctx context.Context, id string, rec model.ChannelRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored, err := clone(rec)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.doc.Channels[id]
	s.doc.Channels[id] = stored
	if err := s.persist(); err != nil {
		if had {
			s.doc.Channels[id] = prev
		} else {
			delete(s.doc.Channels, id)
		}
		return err
	}
	return nil
}

func (s *DocumentStore) SaveGuild(ctx context.Context, id string, rec model.GuildRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored, err := clone(rec)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.doc.Guilds[id]
	s.doc.Guilds[id] = stored
	if err := s.persist(); err != nil {
		if had {
			s.doc.Guilds[id] = prev
		} else {
			delete(s.doc.Guilds, id)
		}
		return err
	}
	return nil
}

func (s *DocumentStore) ChannelIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.doc.Channels))
	for id := range s.doc.Channels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// persist must be called with mu held.
func (s *DocumentStore) persist() error {
	payload, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return writeFileAtomic(s.path, append(payload, '\n'))
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create document dir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp document: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

// clone detaches records from the in-memory document so callers never share
// maps or slices with it.
func clone[T any](in T) (T, error) {
	var out T
	raw, err := json.Marshal(in)
	if err != nil {
		return out, fmt.Errorf("encode record: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode record: %w", err)
	}
	return out, nil
}
