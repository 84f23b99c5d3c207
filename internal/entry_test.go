package internal

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/flashdeck/internal/store"
	"github.com/starford/flashdeck/internal/testutil"
)

func TestRun_RequiresConfig(t *testing.T) {
	err := Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config is required")
}

func TestRun_AbortsWithoutDatabaseURL(t *testing.T) {
	err := Run(context.Background(),
		WithConfig(NewDefaultConfig()),
		WithLogOutput(io.Discard),
		WithStdio(strings.NewReader(""), io.Discard),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestRun_SeedsBeforeServing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decks.db")
	cfg := NewDefaultConfig()
	cfg.Database.URL = "sqlite://" + path

	var logs bytes.Buffer
	err := Run(context.Background(),
		WithConfig(cfg),
		WithLogOutput(&logs),
		WithStdio(strings.NewReader(""), io.Discard),
	)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "Database seeded")

	db, err := store.Open(cfg.Database.URL, testutil.Logger())
	require.NoError(t, err)
	defer db.Close()

	seeded, err := db.Flag(context.Background(), store.FlagDBInit)
	require.NoError(t, err)
	assert.True(t, seeded)

	decks, err := db.ListDecks(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, decks)
}

func TestRun_SeedDisabled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Database.URL = "sqlite://" + filepath.Join(t.TempDir(), "decks.db")
	cfg.Seed.Enabled = false

	require.NoError(t, Run(context.Background(),
		WithConfig(cfg),
		WithLogOutput(io.Discard),
		WithStdio(strings.NewReader(""), io.Discard),
	))

	db, err := store.Open(cfg.Database.URL, testutil.Logger())
	require.NoError(t, err)
	defer db.Close()

	decks, err := db.ListDecks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, decks)
}
