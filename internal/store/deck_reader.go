package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/flashdeck/internal/apperr"
	"github.com/starford/flashdeck/internal/models"
)

// ListDecks returns every deck with its category name and progress, most
// recently created first. Decks without a category or progress row are
// included; missing progress reads as 0.
func (db *DB) ListDecks(ctx context.Context) ([]models.DeckSummary, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT d.id, d.title, d.description, c.name, COALESCE(p.progress, 0), d.card_count
		FROM decks d
		LEFT JOIN categories c ON c.id = d.category_id
		LEFT JOIN deck_progress p ON p.deck_id = d.id
		ORDER BY d.created_at DESC, d.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list decks: %w", err)
	}
	defer rows.Close()

	out := []models.DeckSummary{}
	for rows.Next() {
		var (
			s           models.DeckSummary
			description sql.NullString
			category    sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Title, &description, &category, &s.Progress, &s.CardCount); err != nil {
			return nil, fmt.Errorf("store: scan deck: %w", err)
		}
		s.Description = nullableString(description)
		s.CategoryName = nullableString(category)
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetDeckDetail returns deck id with its cards in display order.
// An unknown id yields apperr.ErrNotFound.
func (db *DB) GetDeckDetail(ctx context.Context, id int64) (*models.DeckDetail, error) {
	var (
		d           = models.DeckDetail{ID: id}
		description sql.NullString
		category    sql.NullString
	)
	err := db.conn.QueryRowContext(ctx, `
		SELECT d.title, d.description, c.name
		FROM decks d
		LEFT JOIN categories c ON c.id = d.category_id
		WHERE d.id = ?
	`, id).Scan(&d.Title, &description, &category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: deck %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get deck %d: %w", id, err)
	}
	d.Description = nullableString(description)
	d.CategoryName = nullableString(category)

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, front, back FROM cards WHERE deck_id = ? ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("store: cards of deck %d: %w", id, err)
	}
	defer rows.Close()

	d.Cards = []models.Card{}
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.ID, &c.Front, &c.Back); err != nil {
			return nil, fmt.Errorf("store: scan card: %w", err)
		}
		d.Cards = append(d.Cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
