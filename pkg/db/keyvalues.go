package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrKeyNotFound = errors.New("key not found")

// KeyValue is a mirrored named value.
type KeyValue struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// KeyValueStore provides access to mirrored key values.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (*KeyValue, error)
	List(ctx context.Context) ([]*KeyValue, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// KeyValues returns a KeyValueStore for this database.
func (db *DB) KeyValues() KeyValueStore {
	return &keyValueStore{db: db}
}

type keyValueStore struct {
	db *DB
}

func (s *keyValueStore) Get(ctx context.Context, key string) (*KeyValue, error) {
	kv := &KeyValue{}
	var updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT key, value, updated_at FROM key_values WHERE key = ?
	`, key).Scan(&kv.Key, &kv.Value, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	kv.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	return kv, nil
}

func (s *keyValueStore) List(ctx context.Context) ([]*KeyValue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value, updated_at FROM key_values ORDER BY key
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var values []*KeyValue
	for rows.Next() {
		kv := &KeyValue{}
		var updatedAt string
		if err := rows.Scan(&kv.Key, &kv.Value, &updatedAt); err != nil {
			return nil, err
		}
		kv.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
		values = append(values, kv)
	}
	return values, rows.Err()
}

func (s *keyValueStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO key_values (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = datetime('now')
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *keyValueStore) Delete(ctx context.Context, key string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM key_values WHERE key = ?`, key)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrKeyNotFound
	}
	return nil
}
