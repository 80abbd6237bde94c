package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
)

// Bootstrap seeds the zone table from the configured zones if it's empty.
// This is called after migrations and handles first-run setup; later edits
// live in the database.
func (db *DB) Bootstrap(ctx context.Context, zones map[string][]string) error {
	needs, err := db.NeedsBootstrap(ctx)
	if err != nil {
		return fmt.Errorf("failed to check zones: %w", err)
	}
	if !needs || len(zones) == 0 {
		return nil // Already bootstrapped
	}

	names := make([]string, 0, len(zones))
	for name := range zones {
		names = append(names, name)
	}
	sort.Strings(names)

	return db.Tx(ctx, func(tx *sql.Tx) error {
		for _, name := range names {
			if err := replaceZone(ctx, tx, name, zones[name]); err != nil {
				return err
			}
		}
		return nil
	})
}

// NeedsBootstrap returns true if no zone has been stored yet.
func (db *DB) NeedsBootstrap(ctx context.Context) (bool, error) {
	count, err := db.Zones().Count(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
