package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// FlagDBInit guards the one-time seed.
const FlagDBInit = "db-init"

func getMeta(ctx context.Context, q querier, key string, dst any) (bool, error) {
	var raw string
	err := q.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: get meta %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("store: decode meta %s: %w", key, err)
	}
	return true, nil
}

func putMeta(ctx context.Context, q querier, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode meta %s: %w", key, err)
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, string(raw))
	if err != nil {
		return fmt.Errorf("store: put meta %s: %w", key, err)
	}
	return nil
}

func getFlag(ctx context.Context, q querier, key string) (bool, error) {
	var v bool
	if _, err := getMeta(ctx, q, key, &v); err != nil {
		return false, err
	}
	return v, nil
}

// Flag reports the boolean meta flag key. A missing flag reads as false.
func (db *DB) Flag(ctx context.Context, key string) (bool, error) {
	return getFlag(ctx, db.conn, key)
}

// SetFlag upserts the boolean meta flag key.
func (db *DB) SetFlag(ctx context.Context, key string, v bool) error {
	return putMeta(ctx, db.conn, key, v)
}
