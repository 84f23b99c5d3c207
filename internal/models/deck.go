// Package models defines the domain types for Flashdeck.
package models

import "time"

// Category groups decks. The empty name is a valid category of its own.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CardInput is one front/back pair as supplied by a caller.
type CardInput struct {
	Front string `json:"front" yaml:"front"`
	Back  string `json:"back" yaml:"back"`
}

// Card is a stored card. Cards of a deck are ordered by ID.
type Card struct {
	ID    int64  `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// DeckSummary is one row of the deck list.
type DeckSummary struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	CategoryName *string `json:"category_name"`
	Progress     int     `json:"progress"`
	CardCount    int     `json:"card_count"`
}

// DeckDetail is a single deck together with its cards.
type DeckDetail struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	CategoryName *string `json:"category_name"`
	Cards        []Card  `json:"cards"`
}
