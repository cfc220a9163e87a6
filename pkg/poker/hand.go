package poker

import "fmt"

// HoleCards holds a seat's two private cards. The folded flag lives on
// the hand as a whole so the two cards can never disagree about it.
type HoleCards struct {
	cards  [2]Card
	n      int
	folded bool
}

// Deal adds a card to the hand. Dealing a third card is a contract
// violation.
func (h *HoleCards) Deal(c Card) {
	if h.n >= 2 {
		panic(fmt.Sprintf("poker: hand already holds two cards, dealt %s", c))
	}
	h.cards[h.n] = c
	h.n++
}

// Cards returns the cards dealt so far.
func (h *HoleCards) Cards() []Card {
	return append([]Card(nil), h.cards[:h.n]...)
}

// Complete reports whether both cards have been dealt.
func (h *HoleCards) Complete() bool { return h.n == 2 }

// Fold marks the hand folded.
func (h *HoleCards) Fold() { h.folded = true }

// Folded reports whether the hand has been folded.
func (h *HoleCards) Folded() bool { return h.folded }

// Reset clears the hand for a new deal.
func (h *HoleCards) Reset() {
	h.n = 0
	h.folded = false
}

// Board holds the community cards, cleared at hand start.
type Board struct {
	cards []Card
}

// Add appends a dealt community card.
func (b *Board) Add(c Card) {
	if len(b.cards) >= 5 {
		panic(fmt.Sprintf("poker: board already holds five cards, dealt %s", c))
	}
	b.cards = append(b.cards, c)
}

// Cards returns a copy of the community cards.
func (b *Board) Cards() []Card {
	return append([]Card(nil), b.cards...)
}

// Len returns the number of community cards dealt.
func (b *Board) Len() int { return len(b.cards) }

// Reset clears the board for a new hand.
func (b *Board) Reset() { b.cards = b.cards[:0] }
