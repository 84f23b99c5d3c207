// Package seed loads and applies the baseline data written on first start.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/starford/flashdeck/internal/models"
	"github.com/starford/flashdeck/internal/store"
)

//go:embed baseline.yaml
var defaultBaseline []byte

// Default returns the embedded baseline.
func Default() (models.Baseline, error) {
	return Parse(defaultBaseline)
}

// Load reads a baseline from path. An empty path selects the embedded one.
func Load(path string) (models.Baseline, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Baseline{}, fmt.Errorf("seed: read %s: %w", path, err)
	}
	b, err := Parse(data)
	if err != nil {
		return models.Baseline{}, fmt.Errorf("seed: %s: %w", path, err)
	}
	return b, nil
}

// Parse decodes and validates a YAML baseline document.
func Parse(data []byte) (models.Baseline, error) {
	var b models.Baseline
	if err := yaml.Unmarshal(data, &b); err != nil {
		return models.Baseline{}, fmt.Errorf("parse baseline: %w", err)
	}
	if err := Validate(b); err != nil {
		return models.Baseline{}, err
	}
	return b, nil
}

// Validate checks that every baseline deck has a title and at least one
// complete card.
func Validate(b models.Baseline) error {
	for i := range b.Decks {
		d := &b.Decks[i]
		if err := validation.ValidateStruct(d,
			validation.Field(&d.Title, validation.Required),
			validation.Field(&d.Cards, validation.Required),
		); err != nil {
			return fmt.Errorf("baseline deck %d: %w", i, err)
		}
		for j, c := range d.Cards {
			if c.Front == "" || c.Back == "" {
				return fmt.Errorf("baseline deck %q: card %d needs a front and a back", d.Title, j)
			}
		}
	}
	return nil
}

// Run writes b unless the database has already been seeded.
func Run(ctx context.Context, db store.DeckStore, b models.Baseline, logger *slog.Logger) error {
	seeded, err := db.Seed(ctx, b)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if seeded {
		logger.Info("Database seeded",
			slog.Int("categories", len(b.Categories)),
			slog.Int("decks", len(b.Decks)))
	} else {
		logger.Debug("Database already seeded, skipping")
	}
	return nil
}
