// Package deckservice validates deck commands and forwards them to the store.
package deckservice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/flashdeck/internal/apperr"
	"github.com/starford/flashdeck/internal/models"
	"github.com/starford/flashdeck/internal/store"
)

// Service coordinates validation and deck persistence.
type Service struct {
	db  store.DeckStore
	log *slog.Logger
}

// NewService creates a new deck service.
func NewService(db store.DeckStore, logger *slog.Logger) *Service {
	return &Service{db: db, log: logger}
}

// CreateDeck validates req and stores it as a new deck.
func (s *Service) CreateDeck(ctx context.Context, req SaveDeckRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, invalid(err)
	}
	id, err := s.db.CreateDeck(ctx, toWrite(req))
	if err != nil {
		return 0, err
	}
	s.log.Info("deck created",
		slog.Int64("deck_id", id),
		slog.String("category", req.Category),
		slog.Int("cards", len(req.Cards)))
	return id, nil
}

// UpdateDeck validates req and replaces the stored deck.
func (s *Service) UpdateDeck(ctx context.Context, req UpdateDeckRequest) error {
	if err := req.Validate(); err != nil {
		return invalid(err)
	}
	if err := s.db.UpdateDeck(ctx, req.DeckID, toWrite(req.SaveDeckRequest)); err != nil {
		return err
	}
	s.log.Info("deck updated",
		slog.Int64("deck_id", req.DeckID),
		slog.String("category", req.Category),
		slog.Int("cards", len(req.Cards)))
	return nil
}

// SetProgress records how many cards of a deck have been studied.
func (s *Service) SetProgress(ctx context.Context, deckID int64, progress int) error {
	if progress < 0 {
		return fmt.Errorf("%w: progress must not be negative", apperr.ErrInvalidInput)
	}
	if err := s.db.SetProgress(ctx, deckID, progress); err != nil {
		return err
	}
	s.log.Debug("progress recorded", slog.Int64("deck_id", deckID), slog.Int("progress", progress))
	return nil
}

// ListDecks returns every deck summary, most recent first.
func (s *Service) ListDecks(ctx context.Context) ([]models.DeckSummary, error) {
	return s.db.ListDecks(ctx)
}

// GetDeckDetail returns one deck with its cards.
func (s *Service) GetDeckDetail(ctx context.Context, deckID int64) (*models.DeckDetail, error) {
	return s.db.GetDeckDetail(ctx, deckID)
}

// ListCategories returns every known category.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.db.ListCategories(ctx)
}

func toWrite(req SaveDeckRequest) store.DeckWrite {
	return store.DeckWrite{
		Title:    req.Title,
		Category: req.Category,
		Cards:    req.Cards,
	}
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", apperr.ErrInvalidInput, err)
}
