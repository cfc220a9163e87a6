package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatResetHand(t *testing.T) {
	s := NewSeat("alice", "", testSettings())
	s.ResetHand()

	assert.True(t, s.InHand())
	assert.Equal(t, int64(1000), s.Stack())
	assert.Equal(t, int64(0), s.HandContribution())

	s.stack = 0
	s.ResetHand()
	assert.False(t, s.InHand(), "felted seat without top-off should not be dealt in")

	s.SetSittingOut(true)
	s.stack = 500
	s.ResetHand()
	assert.False(t, s.InHand(), "sitting-out seat should not be dealt in")
}

func TestSeatTopOff(t *testing.T) {
	settings := testSettings()
	settings.TopOff = true

	s := NewSeat("alice", "", settings)
	s.stack = 0
	s.ResetHand()

	require.Equal(t, int64(1000), s.Stack())
	assert.True(t, s.InHand())
}

func TestSeatMinRaiseRecomputation(t *testing.T) {
	s := NewSeat("alice", "", testSettings())
	s.ResetHand()

	// Facing a raise to 100 over a previous wager of 50, the minimum
	// re-raise is to 150.
	needsAction := s.UpdateSizing(100, 50)
	require.True(t, needsAction)
	assert.Equal(t, int64(150), s.MinRaise())
	assert.Equal(t, int64(100), s.ToCall())

	// An opening raise over the big blind: min raise-to is two big
	// blinds.
	s2 := NewSeat("bob", "", testSettings())
	s2.ResetHand()
	s2.UpdateSizing(10, 0)
	assert.Equal(t, int64(20), s2.MinRaise())
}

func TestSeatAutoClose(t *testing.T) {
	s := NewSeat("alice", "", testSettings())
	s.ResetHand()

	require.True(t, s.UpdateSizing(20, 10))
	s.Call()
	require.Equal(t, int64(20), s.StreetContribution())

	// Same wager level again: no prompt needed.
	assert.False(t, s.UpdateSizing(20, 10))

	// A new raise reopens the action.
	assert.True(t, s.UpdateSizing(60, 20))
	assert.Equal(t, int64(100), s.MinRaise())
	assert.Equal(t, int64(40), s.ToCall())
}

func TestSeatCallForLess(t *testing.T) {
	s := NewSeat("alice", "", testSettings())
	s.ResetHand()
	s.stack = 60

	s.UpdateSizing(100, 0)
	s.Call()

	assert.Equal(t, int64(0), s.Stack())
	assert.True(t, s.AllIn())
	assert.Equal(t, int64(60), s.StreetContribution())
}

func TestSeatRaiseAllInShort(t *testing.T) {
	// A shove below the minimum raise is legal as long as it exceeds the
	// facing wager.
	s := NewSeat("alice", "", testSettings())
	s.ResetHand()
	s.stack = 130

	s.UpdateSizing(100, 50)
	require.Equal(t, int64(150), s.MinRaise())
	s.Raise(130)

	assert.True(t, s.AllIn())
	assert.Equal(t, int64(130), s.StreetContribution())
}

func TestSeatContractViolationsPanic(t *testing.T) {
	newActive := func() *Seat {
		s := NewSeat("alice", "", testSettings())
		s.ResetHand()
		return s
	}

	assert.Panics(t, func() {
		s := newActive()
		s.UpdateSizing(50, 0)
		s.Check()
	}, "check while facing a wager")

	assert.Panics(t, func() {
		s := newActive()
		s.UpdateSizing(0, 0)
		s.Call()
	}, "call with nothing owed")

	assert.Panics(t, func() {
		s := newActive()
		s.UpdateSizing(0, 0)
		s.Bet(5)
	}, "bet below the big blind")

	assert.Panics(t, func() {
		s := newActive()
		s.UpdateSizing(100, 50)
		s.Raise(120)
	}, "raise below the minimum without being all-in")

	assert.Panics(t, func() {
		s := newActive()
		s.UpdateSizing(0, 0)
		s.Bet(2000)
	}, "bet beyond the stack")

	assert.Panics(t, func() {
		s := newActive()
		s.Fold()
		s.Fold()
	}, "fold while not in hand")
}

func TestSeatBetAllInBelowBlind(t *testing.T) {
	s := NewSeat("alice", "", testSettings())
	s.ResetHand()
	s.stack = 7

	s.UpdateSizing(0, 0)
	s.Bet(7)

	assert.True(t, s.AllIn())
}

func TestSeatPayRecordsContributions(t *testing.T) {
	var paid []int64
	s := NewSeat("alice", "", testSettings())
	s.onMoney = func(_ *Seat, amount int64, _ string) {
		paid = append(paid, amount)
	}
	s.ResetHand()

	s.PayAnte(2)
	s.PayBlind(10, "big blind")

	assert.Equal(t, []int64{2, 10}, paid)
	assert.Equal(t, int64(12), s.HandContribution())
	assert.Equal(t, int64(988), s.Stack())
	assert.True(t, s.bigBlind)

	// The ante feeds the pot but only the blind is a street wager.
	assert.Equal(t, int64(10), s.StreetContribution())
}
