package poker

import (
	"encoding/json"
	"fmt"
)

// Suit represents a card suit
type Suit string

const (
	Spades   Suit = "♠"
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
)

// Rank represents a card rank
type Rank string

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

// Visibility describes how a card is presented to viewers. It is
// presentation metadata carried on snapshots, never part of card
// identity.
type Visibility string

const (
	CardVisible Visibility = "visible"
	CardHidden  Visibility = "hidden"
	CardFolded  Visibility = "folded"
)

// Card represents a playing card. Equality is suit+rank only.
type Card struct {
	suit Suit
	rank Rank
}

// NewCard creates a card with the given suit and rank.
func NewCard(suit Suit, rank Rank) Card {
	return Card{suit: suit, rank: rank}
}

// Suit returns the card's suit.
func (c Card) Suit() Suit { return c.suit }

// Rank returns the card's rank.
func (c Card) Rank() Rank { return c.rank }

// String returns a string representation of the card.
func (c Card) String() string {
	return string(c.rank) + string(c.suit)
}

// cardJSON is the wire form of a card.
type cardJSON struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

// MarshalJSON implements json.Marshaler.
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{
		Suit: string(c.suit),
		Rank: string(c.rank),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Card) UnmarshalJSON(data []byte) error {
	var cj cardJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return err
	}

	switch cj.Suit {
	case "♠", "s", "S", "spades", "Spades":
		c.suit = Spades
	case "♥", "h", "H", "hearts", "Hearts":
		c.suit = Hearts
	case "♦", "d", "D", "diamonds", "Diamonds":
		c.suit = Diamonds
	case "♣", "c", "C", "clubs", "Clubs":
		c.suit = Clubs
	default:
		return fmt.Errorf("invalid suit: %s", cj.Suit)
	}

	switch cj.Rank {
	case "A", "a":
		c.rank = Ace
	case "K", "k":
		c.rank = King
	case "Q", "q":
		c.rank = Queen
	case "J", "j":
		c.rank = Jack
	case "10", "T", "t":
		c.rank = Ten
	case "9", "8", "7", "6", "5", "4", "3", "2":
		c.rank = Rank(cj.Rank)
	default:
		return fmt.Errorf("invalid rank: %s", cj.Rank)
	}

	return nil
}

// CardView is a card as presented to a viewer. Hidden cards carry no
// suit or rank on the wire.
type CardView struct {
	Suit       string     `json:"suit,omitempty"`
	Rank       string     `json:"rank,omitempty"`
	Visibility Visibility `json:"visibility"`
}

// viewOf builds a CardView for the given visibility, stripping identity
// when the card is hidden.
func viewOf(c Card, vis Visibility) CardView {
	if vis == CardHidden {
		return CardView{Visibility: CardHidden}
	}
	return CardView{
		Suit:       string(c.suit),
		Rank:       string(c.rank),
		Visibility: vis,
	}
}

// Masked returns a copy of the view with card identity removed.
func (v CardView) Masked() CardView {
	return CardView{Visibility: CardHidden}
}
