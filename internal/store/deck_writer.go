package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/flashdeck/internal/apperr"
	"github.com/starford/flashdeck/internal/models"
)

// DeckWrite is the payload of CreateDeck and UpdateDeck. The stored
// card_count is always len(Cards).
type DeckWrite struct {
	Title    string
	Category string
	Cards    []models.CardInput
}

// CreateDeck inserts a deck, its category (if new) and its cards in one
// transaction and returns the new deck id.
func (db *DB) CreateDeck(ctx context.Context, w DeckWrite) (int64, error) {
	var deckID int64
	err := db.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		categoryID, err := resolveCategory(ctx, tx, w.Category)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		res, err := tx.ExecContext(ctx, `
			INSERT INTO decks (title, card_count, category_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`, w.Title, len(w.Cards), categoryID, now, now)
		if err != nil {
			return fmt.Errorf("store: insert deck: %w", err)
		}
		deckID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("store: deck id: %w", err)
		}

		return insertCards(ctx, tx, deckID, w.Cards)
	})
	if err != nil {
		return 0, err
	}
	return deckID, nil
}

// UpdateDeck replaces the metadata and the full card set of deck id.
// An unknown id yields apperr.ErrNotFound and nothing is written.
// The progress row is kept, clamped to the new card count.
func (db *DB) UpdateDeck(ctx context.Context, id int64, w DeckWrite) error {
	return db.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		categoryID, err := resolveCategory(ctx, tx, w.Category)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE decks
			SET title = ?, card_count = ?, category_id = ?, updated_at = ?
			WHERE id = ?
		`, w.Title, len(w.Cards), categoryID, time.Now().UTC(), id)
		if err != nil {
			return fmt.Errorf("store: update deck %d: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("store: update deck %d: %w", id, err)
		}
		if n == 0 {
			return fmt.Errorf("store: deck %d: %w", id, apperr.ErrNotFound)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE deck_id = ?`, id); err != nil {
			return fmt.Errorf("store: delete cards of deck %d: %w", id, err)
		}
		if err := insertCards(ctx, tx, id, w.Cards); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE deck_progress SET progress = MIN(progress, ?) WHERE deck_id = ?
		`, len(w.Cards), id); err != nil {
			return fmt.Errorf("store: clamp progress of deck %d: %w", id, err)
		}
		return nil
	})
}

// SetProgress records how many cards of deck id have been studied.
// progress must not exceed the deck's card count.
func (db *DB) SetProgress(ctx context.Context, id int64, progress int) error {
	return db.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var cardCount int
		err := tx.QueryRowContext(ctx, `SELECT card_count FROM decks WHERE id = ?`, id).Scan(&cardCount)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("store: deck %d: %w", id, apperr.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("store: load deck %d: %w", id, err)
		}
		if progress < 0 || progress > cardCount {
			return fmt.Errorf("%w: progress %d outside [0, %d]", apperr.ErrInvalidInput, progress, cardCount)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO deck_progress (deck_id, progress) VALUES (?, ?)
			ON CONFLICT(deck_id) DO UPDATE SET progress = excluded.progress
		`, id, progress); err != nil {
			return fmt.Errorf("store: set progress of deck %d: %w", id, err)
		}
		return nil
	})
}

// insertCards appends cards to deck deckID in slice order, which is also
// their display order.
func insertCards(ctx context.Context, tx *sql.Tx, deckID int64, cards []models.CardInput) error {
	if len(cards) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO cards (deck_id, front, back) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare card insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range cards {
		if _, err := stmt.ExecContext(ctx, deckID, c.Front, c.Back); err != nil {
			return fmt.Errorf("store: insert card %d of deck %d: %w", i, deckID, err)
		}
	}
	return nil
}
