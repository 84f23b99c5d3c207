package deckservice

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/flashdeck/internal/models"
)

// SaveDeckRequest is the payload of create_deck.
type SaveDeckRequest struct {
	Title     string             `json:"title"`
	Category  string             `json:"category"`
	Cards     []models.CardInput `json:"cards"`
	CardCount int                `json:"card_count"`
}

// Validate checks the title, every card, and that card_count matches the
// number of cards supplied.
func (r *SaveDeckRequest) Validate() error {
	if err := validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.By(notBlank)),
		validation.Field(&r.CardCount, validation.Min(0), validation.By(r.matchesCards)),
	); err != nil {
		return err
	}
	for i, c := range r.Cards {
		if strings.TrimSpace(c.Front) == "" || strings.TrimSpace(c.Back) == "" {
			return fmt.Errorf("card %d: front and back must not be blank", i+1)
		}
	}
	return nil
}

func (r *SaveDeckRequest) matchesCards(value any) error {
	n, _ := value.(int)
	if n != len(r.Cards) {
		return fmt.Errorf("must equal the number of cards (%d)", len(r.Cards))
	}
	return nil
}

// UpdateDeckRequest is the payload of update_deck.
type UpdateDeckRequest struct {
	DeckID int64 `json:"deck_id"`
	SaveDeckRequest
}

// Validate checks the deck id and the embedded deck payload.
func (r *UpdateDeckRequest) Validate() error {
	if err := validation.ValidateStruct(r,
		validation.Field(&r.DeckID, validation.Required, validation.Min(int64(1))),
	); err != nil {
		return err
	}
	return r.SaveDeckRequest.Validate()
}

func notBlank(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}
