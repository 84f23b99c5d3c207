package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/flashdeck/internal/models"
)

// resolveCategory returns the id of the category called name, creating it on
// first use. It must run inside the caller's transaction so that a created
// row is rolled back with the rest of the write.
//
// The UNIQUE constraint on categories.name settles concurrent creators: the
// losing insert is ignored and the winner's row is re-fetched.
func resolveCategory(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	id, found, err := lookupCategory(ctx, tx, name)
	if err != nil {
		return 0, err
	}
	if found {
		return id, nil
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO categories (name, created_at, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, name, now, now); err != nil {
		return 0, fmt.Errorf("store: insert category %q: %w", name, err)
	}

	id, found, err = lookupCategory(ctx, tx, name)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("store: category %q vanished after insert", name)
	}
	return id, nil
}

func lookupCategory(ctx context.Context, q querier, name string) (int64, bool, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM categories WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("store: lookup category %q: %w", name, err)
	}
	return id, true, nil
}

// ListCategories returns every category ordered by name.
func (db *DB) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list categories: %w", err)
	}
	defer rows.Close()

	out := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
