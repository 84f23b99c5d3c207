package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/flashdeck/internal/models"
)

// Seed writes b once, guarded by the FlagDBInit meta flag. The flag check,
// every insert and the flag upsert share one transaction, so a crash leaves
// either the full baseline or nothing. It reports whether anything was written.
func (db *DB) Seed(ctx context.Context, b models.Baseline) (bool, error) {
	seeded := false
	err := db.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		done, err := getFlag(ctx, tx, FlagDBInit)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		now := time.Now().UTC()
		for _, name := range b.Categories {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO categories (name, created_at, updated_at)
				VALUES (?, ?, ?)
				ON CONFLICT(name) DO NOTHING
			`, name, now, now); err != nil {
				return fmt.Errorf("store: seed category %q: %w", name, err)
			}
		}

		for _, d := range b.Decks {
			if err := seedDeck(ctx, tx, d, now); err != nil {
				return err
			}
			db.log.Debug("seed: deck inserted",
				slog.String("title", d.Title),
				slog.Int("cards", len(d.Cards)))
		}

		if err := putMeta(ctx, tx, FlagDBInit, true); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return seeded, nil
}

func seedDeck(ctx context.Context, tx *sql.Tx, d models.BaselineDeck, now time.Time) error {
	var categoryID sql.NullInt64
	id, found, err := lookupCategory(ctx, tx, d.Category)
	if err != nil {
		return err
	}
	if found {
		categoryID = sql.NullInt64{Int64: id, Valid: true}
	}

	var description sql.NullString
	if d.Description != "" {
		description = sql.NullString{String: d.Description, Valid: true}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO decks (title, description, card_count, category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, d.Title, description, len(d.Cards), categoryID, now, now)
	if err != nil {
		return fmt.Errorf("store: seed deck %q: %w", d.Title, err)
	}
	deckID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("store: seed deck %q id: %w", d.Title, err)
	}

	if err := insertCards(ctx, tx, deckID, d.Cards); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO deck_progress (deck_id, progress) VALUES (?, 0)
	`, deckID); err != nil {
		return fmt.Errorf("store: seed progress of deck %q: %w", d.Title, err)
	}
	return nil
}
