package db

import (
	"context"
	"database/sql"
	"fmt"
)

// ZoneStore provides access to zone membership.
type ZoneStore interface {
	// All returns every zone with its client ids.
	All(ctx context.Context) (map[string][]string, error)
	// Replace sets the members of zone; an empty list removes the zone.
	Replace(ctx context.Context, zone string, clientIDs []string) error
	Count(ctx context.Context) (int, error)
}

// Zones returns a ZoneStore for this database.
func (db *DB) Zones() ZoneStore {
	return &zoneStore{db: db}
}

type zoneStore struct {
	db *DB
}

func (s *zoneStore) All(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT zone, client_id FROM zone_members ORDER BY zone, client_id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	zones := make(map[string][]string)
	for rows.Next() {
		var zone, id string
		if err := rows.Scan(&zone, &id); err != nil {
			return nil, err
		}
		zones[zone] = append(zones[zone], id)
	}
	return zones, rows.Err()
}

func (s *zoneStore) Replace(ctx context.Context, zone string, clientIDs []string) error {
	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		return replaceZone(ctx, tx, zone, clientIDs)
	})
}

func (s *zoneStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT zone) FROM zone_members`).Scan(&count)
	return count, err
}

func replaceZone(ctx context.Context, tx *sql.Tx, zone string, clientIDs []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM zone_members WHERE zone = ?`, zone); err != nil {
		return fmt.Errorf("failed to clear zone %s: %w", zone, err)
	}
	for _, id := range clientIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO zone_members (zone, client_id) VALUES (?, ?)
		`, zone, id); err != nil {
			return fmt.Errorf("failed to add %s to zone %s: %w", id, zone, err)
		}
	}
	return nil
}
