package poker

import (
	"fmt"
	"sync/atomic"
)

// Seat holds one player's per-hand and per-street betting state. All
// mutation happens on the engine goroutine; remote decision threads only
// ever deliver Action values through the table's decision channel.
//
// The legality checks here are contract assertions, not input
// validation: the transport layer is responsible for never forwarding an
// illegal action, so a violation is a bug upstream and fails loudly.
type Seat struct {
	name   string
	avatar string

	stack int64
	hole  HoleCards

	streetContribution int64
	handContribution   int64
	startingStack      int64 // stack at hand start, for end-of-hand results

	inHand     bool
	smallBlind bool
	bigBlind   bool

	// sittingOut is the one field written from outside the engine
	// goroutine (RequestRemoval, disconnects), hence the atomic.
	sittingOut atomic.Bool

	// Per-street action bookkeeping.
	acted        bool
	actionClosed bool
	toCall       int64
	minRaise     int64
	facingRaise  int64

	settings TableSettings

	// onMoney and onAction are wired by the engine; they publish the
	// corresponding notifications.
	onMoney  func(s *Seat, amount int64, kind string)
	onAction func(s *Seat, action ActionType, amount int64)
}

// NewSeat creates a seat buying in for the configured starting stack.
func NewSeat(name, avatar string, settings TableSettings) *Seat {
	return &Seat{
		name:     name,
		avatar:   avatar,
		stack:    settings.StartingStack,
		settings: settings,
	}
}

// Name returns the seat's stable identity.
func (s *Seat) Name() string { return s.name }

// Avatar returns the seat's avatar reference.
func (s *Seat) Avatar() string { return s.avatar }

// Stack returns the seat's current chip stack.
func (s *Seat) Stack() int64 { return s.stack }

// InHand reports whether the seat is still contesting the current hand.
func (s *Seat) InHand() bool { return s.inHand }

// AllIn reports whether the seat has no chips behind. Derived, never
// stored.
func (s *Seat) AllIn() bool { return s.inHand && s.stack == 0 }

// SittingOut reports whether the seat auto-folds instead of acting.
func (s *Seat) SittingOut() bool { return s.sittingOut.Load() }

// SetSittingOut marks the seat as sitting out. Safe for concurrent use.
func (s *Seat) SetSittingOut(out bool) { s.sittingOut.Store(out) }

// HoleCards returns the seat's current hand.
func (s *Seat) HoleCards() *HoleCards { return &s.hole }

// StreetContribution returns the chips committed this street.
func (s *Seat) StreetContribution() int64 { return s.streetContribution }

// HandContribution returns the chips committed this hand.
func (s *Seat) HandContribution() int64 { return s.handContribution }

// ToCall returns the amount needed to match the current wager.
func (s *Seat) ToCall() int64 { return s.toCall }

// MinRaise returns the minimum legal raise-to size the seat faces.
func (s *Seat) MinRaise() int64 { return s.minRaise }

// ResetHand prepares the seat for a new hand. A seat sitting out or
// felted without top-off does not take part.
func (s *Seat) ResetHand() {
	if s.settings.TopOff {
		s.stack = s.settings.StartingStack
	}
	s.hole.Reset()
	s.handContribution = 0
	s.startingStack = s.stack
	s.smallBlind = false
	s.bigBlind = false
	s.inHand = !s.SittingOut() && s.stack > 0
	s.resetStreet()
}

// resetStreet clears the per-street bookkeeping.
func (s *Seat) resetStreet() {
	s.streetContribution = 0
	s.acted = false
	s.actionClosed = false
	s.toCall = 0
	s.facingRaise = 0
	s.minRaise = s.settings.BigBlind
}

// pay moves chips from the stack into the seat's contributions and
// emits a money notification. Paying more than the stack is a contract
// violation.
func (s *Seat) pay(amount int64, kind string) {
	if amount > s.stack {
		panic(fmt.Sprintf("poker: seat %s paying %d with stack %d", s.name, amount, s.stack))
	}
	if amount < 0 {
		panic(fmt.Sprintf("poker: seat %s paying negative amount %d", s.name, amount))
	}
	s.stack -= amount
	s.streetContribution += amount
	s.handContribution += amount
	if s.onMoney != nil {
		s.onMoney(s, amount, kind)
	}
}

// PayAnte posts the ante, capped by the engine at the stack. Antes feed
// the pot without opening the street wager, so the preflop call amount
// is measured against the blinds alone.
func (s *Seat) PayAnte(amount int64) {
	s.pay(amount, "ante")
	s.streetContribution = 0
}

// PayBlind posts a blind, capped by the engine at the stack.
func (s *Seat) PayBlind(amount int64, kind string) {
	s.pay(amount, kind)
	switch kind {
	case "small blind":
		s.smallBlind = true
	case "big blind":
		s.bigBlind = true
	}
}

// UpdateSizing is called by the engine immediately before asking the
// seat to act. It recomputes toCall and, whenever the seat faces a new
// wager level, the minimum raise. If the seat already acted at this
// exact level its action auto-closes and it reports that no prompt is
// needed.
func (s *Seat) UpdateSizing(currentRaise, previousRaise int64) bool {
	if s.facingRaise == currentRaise && s.acted {
		s.actionClosed = true
	}
	if s.facingRaise != currentRaise {
		s.minRaise = maxInt64(s.settings.BigBlind, 2*currentRaise-previousRaise)
		s.facingRaise = currentRaise
		s.actionClosed = false
	}
	s.toCall = currentRaise - s.streetContribution
	if s.toCall < 0 {
		s.toCall = 0
	}
	return !s.actionClosed
}

// Fold gives up the hand.
func (s *Seat) Fold() {
	if !s.inHand {
		panic(fmt.Sprintf("poker: seat %s folding while not in hand", s.name))
	}
	s.hole.Fold()
	s.inHand = false
	s.acted = true
	s.actionClosed = true
	if s.onAction != nil {
		s.onAction(s, ActionFold, 0)
	}
}

// Check passes the action without paying. Only legal when nothing is
// owed.
func (s *Seat) Check() {
	if s.toCall != 0 {
		panic(fmt.Sprintf("poker: seat %s checking while facing %d to call", s.name, s.toCall))
	}
	s.acted = true
	if s.onAction != nil {
		s.onAction(s, ActionCheck, 0)
	}
}

// Call matches the current wager, or as much of it as the stack covers.
func (s *Seat) Call() {
	if s.toCall <= 0 {
		panic(fmt.Sprintf("poker: seat %s calling with nothing owed", s.name))
	}
	amount := minInt64(s.stack, s.toCall)
	s.pay(amount, "call")
	s.acted = true
	if s.onAction != nil {
		s.onAction(s, ActionCall, amount)
	}
}

// Bet opens the wagering on a street. size is the total street wager.
// The minimum open is a big blind, or an all-in for less.
func (s *Seat) Bet(size int64) {
	if s.facingRaise != 0 {
		panic(fmt.Sprintf("poker: seat %s betting into a live wager of %d", s.name, s.facingRaise))
	}
	maxTo := s.stack + s.streetContribution
	minTo := minInt64(s.settings.BigBlind, maxTo)
	if size < minTo || size > maxTo {
		panic(fmt.Sprintf("poker: seat %s bet %d outside [%d,%d]", s.name, size, minTo, maxTo))
	}
	s.pay(size-s.streetContribution, "bet")
	s.acted = true
	if s.onAction != nil {
		s.onAction(s, ActionBet, size)
	}
}

// Raise raises the current wager to size (total street contribution).
// Legal sizes are at least the minimum raise, or an all-in shove for
// less.
func (s *Seat) Raise(size int64) {
	maxTo := s.stack + s.streetContribution
	minTo := minInt64(s.minRaise, maxTo)
	if size <= s.facingRaise {
		panic(fmt.Sprintf("poker: seat %s raise to %d does not exceed wager %d", s.name, size, s.facingRaise))
	}
	if size < minTo || size > maxTo {
		panic(fmt.Sprintf("poker: seat %s raise %d outside [%d,%d]", s.name, size, minTo, maxTo))
	}
	s.pay(size-s.streetContribution, "raise")
	s.acted = true
	if s.onAction != nil {
		s.onAction(s, ActionRaise, size)
	}
}

// snapshot deep-copies the seat's public state. Hole cards are visible
// in the engine's own snapshots; per-viewer masking is the transport
// layer's job.
func (s *Seat) snapshot(isButton bool) SeatSnapshot {
	snap := SeatSnapshot{
		Name:               s.name,
		Avatar:             s.avatar,
		Stack:              s.stack,
		StreetContribution: s.streetContribution,
		HandContribution:   s.handContribution,
		InHand:             s.inHand,
		AllIn:              s.AllIn(),
		SittingOut:         s.SittingOut(),
		Button:             isButton,
		SmallBlind:         s.smallBlind,
		BigBlind:           s.bigBlind,
	}
	vis := CardVisible
	if s.hole.Folded() {
		vis = CardFolded
	}
	for _, c := range s.hole.Cards() {
		snap.Cards = append(snap.Cards, viewOf(c, vis))
	}
	return snap
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
