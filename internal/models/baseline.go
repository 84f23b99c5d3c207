package models

// Baseline is the data written by the one-time seed.
type Baseline struct {
	Categories []string       `yaml:"categories"`
	Decks      []BaselineDeck `yaml:"decks"`
}

// BaselineDeck is one deck of the baseline. Category is looked up by name
// among the baseline categories; an unknown name leaves the deck uncategorised.
type BaselineDeck struct {
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Category    string      `yaml:"category"`
	Cards       []CardInput `yaml:"cards"`
}
