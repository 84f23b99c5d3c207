package store

import (
	"context"

	"github.com/starford/flashdeck/internal/models"
)

// DeckStore defines the deck persistence operations.
// Consumers should depend on this interface rather than the concrete *DB type.
type DeckStore interface {
	CreateDeck(ctx context.Context, w DeckWrite) (int64, error)
	UpdateDeck(ctx context.Context, id int64, w DeckWrite) error
	SetProgress(ctx context.Context, id int64, progress int) error
	ListDecks(ctx context.Context) ([]models.DeckSummary, error)
	GetDeckDetail(ctx context.Context, id int64) (*models.DeckDetail, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	Seed(ctx context.Context, b models.Baseline) (bool, error)
	Close() error
}

// Verify *DB satisfies DeckStore at compile time.
var _ DeckStore = (*DB)(nil)
