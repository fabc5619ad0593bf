package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/biztoolkit/internal/client/storage/migrations"
	"github.com/dmitrijs2005/biztoolkit/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// kvRepository runs the statements against either *sql.DB or *sql.Tx.
type kvRepository struct {
	db dbx.DBTX
}

func (r kvRepository) get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	return value, nil
}

func (r kvRepository) set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	return nil
}

func (r kvRepository) deleteMany(ctx context.Context, keys []string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	placeholders, args := dbx.In(keys)
	res, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key IN (`+placeholders+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete kv%v: %w", keys, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to delete kv%v: %w", keys, err)
	}
	return n, nil
}

func (r kvRepository) deleteIf(ctx context.Context, key, value string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ? AND value = ?`, key, value)
	if err != nil {
		return false, fmt.Errorf("failed to delete kv[%s]: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete kv[%s]: %w", key, err)
	}
	return n > 0, nil
}

// SQLiteStore is the Store backed by a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an already migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the database at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// single writer; also keeps ":memory:" databases on one connection
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewSQLiteStore(db), nil
}

func (s *SQLiteStore) repo() kvRepository {
	return kvRepository{db: s.db}
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	return s.repo().get(ctx, key)
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	return s.repo().set(ctx, key, value)
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.repo().deleteMany(ctx, []string{key})
	return err
}

func (s *SQLiteStore) DeleteIf(ctx context.Context, key, value string) (bool, error) {
	return s.repo().deleteIf(ctx, key, value)
}

func (s *SQLiteStore) DeleteMany(ctx context.Context, keys ...string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := kvRepository{db: tx}.deleteMany(ctx, keys)
		return err
	})
}

func (s *SQLiteStore) List(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM kv`)
	if err != nil {
		return nil, fmt.Errorf("failed to list kv: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan kv row: %w", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate kv rows: %w", err)
	}

	return result, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv`)
	if err != nil {
		return fmt.Errorf("failed to clear kv: %w", err)
	}
	return nil
}

// EnsureSchema makes sure the owned keys were written under SchemaVersion.
// On a mismatch, including legacy data with no version at all, the owned
// keys are deleted and the current version is recorded, all in one
// transaction. It reports whether any stored value was discarded.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) (bool, error) {
	var discarded bool

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := kvRepository{db: tx}

		v, err := r.get(ctx, KeySchemaVersion)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if err == nil && v == currentVersion() {
			return nil
		}

		n, err := r.deleteMany(ctx, OwnedKeys)
		if err != nil {
			return err
		}
		discarded = n > 0

		return r.set(ctx, KeySchemaVersion, currentVersion())
	})
	if err != nil {
		return false, fmt.Errorf("schema check failed: %w", err)
	}

	return discarded, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
