package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const versionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)`

// MigrateUp applies every migration not yet recorded in schema_migrations,
// oldest first, each in its own transaction.
func MigrateUp(db *sql.DB) error {
	versions, err := migrationVersions()
	if err != nil {
		return err
	}
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}
	for _, v := range versions {
		if applied[v] {
			continue
		}
		if err := runMigration(db, v, ".up.sql", `INSERT INTO schema_migrations (version) VALUES (?)`); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown reverts every applied migration, newest first.
func MigrateDown(db *sql.DB) error {
	versions, err := migrationVersions()
	if err != nil {
		return err
	}
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}
	slices.Reverse(versions)
	for _, v := range versions {
		if !applied[v] {
			continue
		}
		if err := runMigration(db, v, ".down.sql", `DELETE FROM schema_migrations WHERE version = ?`); err != nil {
			return err
		}
	}
	return nil
}

func migrationVersions() ([]string, error) {
	entries, err := fs.Glob(migrationFiles, "migrations/*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("glob migrations: %w", err)
	}
	versions := make([]string, 0, len(entries))
	for _, name := range entries {
		versions = append(versions, strings.TrimSuffix(strings.TrimPrefix(name, "migrations/"), ".up.sql"))
	}
	slices.Sort(versions)
	return versions, nil
}

func appliedVersions(db *sql.DB) (map[string]bool, error) {
	if _, err := db.Exec(versionTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}
	rows, err := db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()
	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func runMigration(db *sql.DB, version, suffix, record string) error {
	name := "migrations/" + version + suffix
	body, err := migrationFiles.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(string(body)); err != nil {
		return fmt.Errorf("apply migration %s: %w", name, err)
	}
	if _, err := tx.Exec(record, version); err != nil {
		return fmt.Errorf("record migration %s: %w", name, err)
	}
	return tx.Commit()
}
