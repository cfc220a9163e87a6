package poker

import (
	"math/rand"
)

// Deck represents a deck of 52 distinct cards. A fresh deck is built and
// shuffled at the start of every hand, which is what guarantees no card
// is dealt twice within a hand.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck creates a new shuffled deck using the given random number
// generator.
func NewDeck(rng *rand.Rand) *Deck {
	deck := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}

	suits := []Suit{Spades, Hearts, Diamonds, Clubs}
	ranks := []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

	for _, suit := range suits {
		for _, rank := range ranks {
			deck.cards = append(deck.cards, Card{suit: suit, rank: rank})
		}
	}

	deck.Shuffle()

	return deck
}

// Shuffle randomizes the order of cards in the deck.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card from the deck.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// MustDraw removes and returns the top card, panicking if the deck is
// exhausted. Running out of cards mid-hand indicates a dealing bug, not
// a recoverable condition.
func (d *Deck) MustDraw() Card {
	card, ok := d.Draw()
	if !ok {
		panic("poker: deck exhausted")
	}
	return card
}

// Size returns the number of cards remaining in the deck.
func (d *Deck) Size() int {
	return len(d.cards)
}
