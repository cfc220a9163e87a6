package poker

import (
	"github.com/chehsunliu/poker"
)

// HandEvaluator is the oracle the engine consults at showdown. It
// receives a seat's two hole cards concatenated with the community
// cards and knows nothing else about the game.
type HandEvaluator interface {
	// Compare returns >0 if a beats b, <0 if b beats a, 0 on a tie.
	Compare(a, b []Card) int
	// Name returns a human-readable description of the best hand.
	Name(cards []Card) string
}

// chehsunliuEvaluator backs HandEvaluator with the chehsunliu/poker
// lookup-table evaluator.
type chehsunliuEvaluator struct{}

// NewEvaluator returns the default hand evaluator.
func NewEvaluator() HandEvaluator {
	return chehsunliuEvaluator{}
}

// toLibCard converts a Card to the chehsunliu representation.
func toLibCard(card Card) poker.Card {
	var rankChar byte
	switch card.rank {
	case Ten:
		rankChar = 'T'
	default:
		rankChar = card.rank[0]
	}

	var suitChar byte
	switch card.suit {
	case Spades:
		suitChar = 's'
	case Hearts:
		suitChar = 'h'
	case Diamonds:
		suitChar = 'd'
	case Clubs:
		suitChar = 'c'
	}

	return poker.NewCard(string([]byte{rankChar, suitChar}))
}

func evaluate(cards []Card) int32 {
	libCards := make([]poker.Card, len(cards))
	for i, c := range cards {
		libCards[i] = toLibCard(c)
	}
	return poker.Evaluate(libCards)
}

// Compare implements HandEvaluator. In the chehsunliu library lower
// rank values are better.
func (chehsunliuEvaluator) Compare(a, b []Card) int {
	ra, rb := evaluate(a), evaluate(b)
	switch {
	case ra < rb:
		return 1
	case ra > rb:
		return -1
	default:
		return 0
	}
}

// Name implements HandEvaluator.
func (chehsunliuEvaluator) Name(cards []Card) string {
	return poker.RankString(evaluate(cards))
}
