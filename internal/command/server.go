// Package command exposes the deck operations as MCP tools so that a front
// end can drive the engine over a stdio pipe.
package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/flashdeck/internal/apperr"
	"github.com/starford/flashdeck/internal/deckservice"
)

var cardSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"front": map[string]any{"type": "string"},
		"back":  map[string]any{"type": "string"},
	},
	"required": []string{"front", "back"},
}

// Server wraps the MCP server with the deck tools.
type Server struct {
	mcp *server.MCPServer
	svc *deckservice.Service
	log *slog.Logger
}

// New creates a new MCP server with all deck tools registered.
func New(svc *deckservice.Service, logger *slog.Logger, version string) *Server {
	s := &Server{svc: svc, log: logger}

	s.mcp = server.NewMCPServer(
		"Flashdeck",
		version,
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("create_deck",
		mcp.WithDescription("Create a deck with its cards. The category is created on first use."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Deck title")),
		mcp.WithString("category", mcp.Description("Category name; empty for uncategorised")),
		mcp.WithArray("cards", mcp.Required(), mcp.Description("Cards in display order"), mcp.Items(cardSchema)),
		mcp.WithNumber("card_count", mcp.Required(), mcp.Description("Number of cards; must match len(cards)")),
	), s.createDeck)

	s.mcp.AddTool(mcp.NewTool("update_deck",
		mcp.WithDescription("Replace a deck's title, category and full card set."),
		mcp.WithNumber("deck_id", mcp.Required(), mcp.Description("Deck to update")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Deck title")),
		mcp.WithString("category", mcp.Description("Category name; empty for uncategorised")),
		mcp.WithArray("cards", mcp.Required(), mcp.Description("New cards in display order"), mcp.Items(cardSchema)),
		mcp.WithNumber("card_count", mcp.Required(), mcp.Description("Number of cards; must match len(cards)")),
	), s.updateDeck)

	s.mcp.AddTool(mcp.NewTool("list_decks",
		mcp.WithDescription("List every deck with category, progress and card count, newest first."),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.listDecks)

	s.mcp.AddTool(mcp.NewTool("get_deck_detail",
		mcp.WithDescription("Get one deck with its cards in display order."),
		mcp.WithNumber("deck_id", mcp.Required(), mcp.Description("Deck to read")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.getDeckDetail)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List every category by name."),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("set_deck_progress",
		mcp.WithDescription("Record how many cards of a deck have been studied."),
		mcp.WithNumber("deck_id", mcp.Required(), mcp.Description("Deck to update")),
		mcp.WithNumber("progress", mcp.Required(), mcp.Description("Studied cards, between 0 and the card count")),
	), s.setDeckProgress)

	return s
}

// Serve reads requests from in and writes responses to out until ctx is
// cancelled or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.log.Handler(), slog.LevelError))
	return stdio.Listen(ctx, in, out)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) createDeck(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in deckservice.SaveDeckRequest
	if err := req.BindArguments(&in); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if _, err := s.svc.CreateDeck(ctx, in); err != nil {
		return s.failure("create deck", 0, err), nil
	}
	return mcp.NewToolResultText("ok"), nil
}

func (s *Server) updateDeck(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in deckservice.UpdateDeckRequest
	if err := req.BindArguments(&in); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if err := s.svc.UpdateDeck(ctx, in); err != nil {
		return s.failure("update deck", in.DeckID, err), nil
	}
	return mcp.NewToolResultText("ok"), nil
}

func (s *Server) listDecks(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decks, err := s.svc.ListDecks(ctx)
	if err != nil {
		return s.failure("list decks", 0, err), nil
	}
	return jsonResult(decks), nil
}

func (s *Server) getDeckDetail(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("deck_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.GetDeckDetail(ctx, int64(id))
	if err != nil {
		return s.failure("get deck", int64(id), err), nil
	}
	return jsonResult(detail), nil
}

func (s *Server) listCategories(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cats, err := s.svc.ListCategories(ctx)
	if err != nil {
		return s.failure("list categories", 0, err), nil
	}
	return jsonResult(cats), nil
}

func (s *Server) setDeckProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("deck_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	progress, err := req.RequireInt("progress")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.SetProgress(ctx, int64(id), progress); err != nil {
		return s.failure("set progress", int64(id), err), nil
	}
	return mcp.NewToolResultText("ok"), nil
}

// failure turns err into the single message the caller sees. Storage
// details are logged, not returned.
func (s *Server) failure(op string, deckID int64, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		if deckID == 0 {
			return mcp.NewToolResultError(op + ": not found")
		}
		return mcp.NewToolResultError(fmt.Sprintf("deck %d not found", deckID))
	case errors.Is(err, apperr.ErrInvalidInput):
		return mcp.NewToolResultError(err.Error())
	default:
		s.log.Error(op+" failed", slog.Int64("deck_id", deckID), slog.String("error", err.Error()))
		return mcp.NewToolResultError("failed to " + op)
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err))
	}
	return mcp.NewToolResultText(string(out))
}
