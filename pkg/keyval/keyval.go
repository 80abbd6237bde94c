// Package keyval provides the sinks that mirror light power states as named
// values: a SQLite-backed store, an MQTT publisher, and a fan-out over both.
package keyval

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/urmzd/ledhub/pkg/db"
	"github.com/urmzd/ledhub/pkg/light"
)

// Store persists mirrored values in the database.
type Store struct {
	values db.KeyValueStore
}

// NewStore creates a Store over values.
func NewStore(values db.KeyValueStore) *Store {
	return &Store{values: values}
}

// SetNamedValue implements light.Mirror.
func (s *Store) SetNamedValue(ctx context.Context, key, value string) error {
	if err := s.values.Set(ctx, key, value); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	log.Debug().Str("key", key).Str("value", value).Msg("Stored named value")
	return nil
}

// Get returns the value of key, and false when it was never set.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	kv, err := s.values.Get(ctx, key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return kv.Value, true, nil
}

// All returns every stored value by key.
func (s *Store) All(ctx context.Context) (map[string]string, error) {
	list, err := s.values.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(list))
	for _, kv := range list {
		out[kv.Key] = kv.Value
	}
	return out, nil
}

// Multi forwards every value to all of its mirrors. One failing mirror does
// not stop the others.
type Multi []light.Mirror

// SetNamedValue implements light.Mirror.
func (m Multi) SetNamedValue(ctx context.Context, key, value string) error {
	var errs []error
	for _, mirror := range m {
		if mirror == nil {
			continue
		}
		if err := mirror.SetNamedValue(ctx, key, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
