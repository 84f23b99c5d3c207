package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/flashdeck/internal/apperr"
	"github.com/starford/flashdeck/internal/deckservice"
	"github.com/starford/flashdeck/internal/models"
	"github.com/starford/flashdeck/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	db := testutil.TestDB(t)
	svc := deckservice.NewService(db, testutil.Logger())
	return New(svc, testutil.Logger(), "test")
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var (
		result *mcp.CallToolResult
		err    error
	)
	switch name {
	case "create_deck":
		result, err = srv.createDeck(ctx, req)
	case "update_deck":
		result, err = srv.updateDeck(ctx, req)
	case "list_decks":
		result, err = srv.listDecks(ctx, req)
	case "get_deck_detail":
		result, err = srv.getDeckDetail(ctx, req)
	case "list_categories":
		result, err = srv.listCategories(ctx, req)
	case "set_deck_progress":
		result, err = srv.setDeckProgress(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}
	require.NoError(t, err, "tool %s", name)
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func listDecks(t *testing.T, srv *Server) []models.DeckSummary {
	t.Helper()
	r := callTool(t, srv, "list_decks", map[string]any{})
	require.False(t, r.IsError, resultText(r))
	var decks []models.DeckSummary
	require.NoError(t, json.Unmarshal([]byte(resultText(r)), &decks))
	return decks
}

func deckDetail(t *testing.T, srv *Server, id int64) models.DeckDetail {
	t.Helper()
	r := callTool(t, srv, "get_deck_detail", map[string]any{"deck_id": float64(id)})
	require.False(t, r.IsError, resultText(r))
	var d models.DeckDetail
	require.NoError(t, json.Unmarshal([]byte(resultText(r)), &d))
	return d
}

func basicsArgs() map[string]any {
	return map[string]any{
		"title":    "Basics",
		"category": "Lang",
		"cards": []any{
			map[string]any{"front": "a", "back": "1"},
			map[string]any{"front": "b", "back": "2"},
		},
		"card_count": float64(2),
	}
}

func TestCreateListAndDetail(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "create_deck", basicsArgs())
	require.False(t, r.IsError, resultText(r))
	assert.Equal(t, "ok", resultText(r))

	decks := listDecks(t, srv)
	require.Len(t, decks, 1)
	assert.Equal(t, "Basics", decks[0].Title)
	assert.Equal(t, 2, decks[0].CardCount)
	require.NotNil(t, decks[0].CategoryName)
	assert.Equal(t, "Lang", *decks[0].CategoryName)

	d := deckDetail(t, srv, decks[0].ID)
	require.Len(t, d.Cards, 2)
	assert.Equal(t, "a", d.Cards[0].Front)
	assert.Equal(t, "2", d.Cards[1].Back)
}

func TestUpdateDeck(t *testing.T) {
	srv := testServer(t)
	callTool(t, srv, "create_deck", basicsArgs())
	id := listDecks(t, srv)[0].ID

	r := callTool(t, srv, "update_deck", map[string]any{
		"deck_id":    float64(id),
		"title":      "Basics v2",
		"category":   "Lang",
		"cards":      []any{map[string]any{"front": "c", "back": "3"}},
		"card_count": float64(1),
	})
	require.False(t, r.IsError, resultText(r))

	d := deckDetail(t, srv, id)
	assert.Equal(t, "Basics v2", d.Title)
	require.Len(t, d.Cards, 1)
	assert.Equal(t, "c", d.Cards[0].Front)
	assert.Equal(t, "3", d.Cards[0].Back)
}

func TestUpdateDeck_UnknownID(t *testing.T) {
	srv := testServer(t)
	args := basicsArgs()
	args["deck_id"] = float64(404)

	r := callTool(t, srv, "update_deck", args)
	assert.True(t, r.IsError)
	assert.Equal(t, "deck 404 not found", resultText(r))
}

func TestGetDeckDetail_NotFound(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_deck_detail", map[string]any{"deck_id": float64(9)})
	assert.True(t, r.IsError)
	assert.Equal(t, "deck 9 not found", resultText(r))
}

func TestGetDeckDetail_MissingID(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_deck_detail", map[string]any{})
	assert.True(t, r.IsError)
}

func TestCreateDeck_InvalidInput(t *testing.T) {
	srv := testServer(t)

	args := basicsArgs()
	args["card_count"] = float64(5)
	r := callTool(t, srv, "create_deck", args)
	assert.True(t, r.IsError)
	assert.Contains(t, resultText(r), "card_count")

	args = basicsArgs()
	args["cards"] = "not a list"
	r = callTool(t, srv, "create_deck", args)
	assert.True(t, r.IsError)
	assert.Contains(t, resultText(r), "invalid arguments")

	assert.Empty(t, listDecks(t, srv))
}

func TestListCategoriesAndProgress(t *testing.T) {
	srv := testServer(t)
	callTool(t, srv, "create_deck", basicsArgs())
	id := listDecks(t, srv)[0].ID

	r := callTool(t, srv, "set_deck_progress", map[string]any{"deck_id": float64(id), "progress": float64(2)})
	require.False(t, r.IsError, resultText(r))
	assert.Equal(t, 2, listDecks(t, srv)[0].Progress)

	r = callTool(t, srv, "set_deck_progress", map[string]any{"deck_id": float64(id), "progress": float64(3)})
	assert.True(t, r.IsError)

	r = callTool(t, srv, "list_categories", map[string]any{})
	require.False(t, r.IsError, resultText(r))
	var cats []models.Category
	require.NoError(t, json.Unmarshal([]byte(resultText(r)), &cats))
	require.Len(t, cats, 1)
	assert.Equal(t, "Lang", cats[0].Name)
}

func TestToolsListed(t *testing.T) {
	srv := testServer(t)
	resp := srv.MCPServer().HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	for _, name := range []string{
		"create_deck", "update_deck", "list_decks",
		"get_deck_detail", "list_categories", "set_deck_progress",
	} {
		assert.Contains(t, string(raw), `"`+name+`"`)
	}
}

func TestFailureMessages(t *testing.T) {
	srv := testServer(t)
	wrap := func(err error) error { return fmt.Errorf("store: %w", err) }

	tests := []struct {
		op     string
		deckID int64
		err    error
		want   string
	}{
		{op: "get deck", deckID: 7, err: wrap(apperr.ErrNotFound), want: "deck 7 not found"},
		{op: "list decks", err: wrap(apperr.ErrNotFound), want: "list decks: not found"},
		{op: "create deck", err: fmt.Errorf("%w: title: cannot be blank", apperr.ErrInvalidInput), want: "invalid input: title: cannot be blank"},
		{op: "update deck", deckID: 3, err: errors.New("disk I/O error"), want: "failed to update deck"},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			r := srv.failure(tt.op, tt.deckID, tt.err)
			assert.True(t, r.IsError)
			assert.Equal(t, tt.want, resultText(r))
		})
	}
}
