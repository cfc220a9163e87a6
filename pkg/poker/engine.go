package poker

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/google/uuid"
	"github.com/thoas/go-funk"
	"github.com/weedbox/syncsaga"

	"github.com/vctt94/holdemtabled/pkg/statemachine"
)

// Stage identifies where the engine is in the hand lifecycle.
type Stage string

const (
	StageIdle      Stage = "idle"
	StageAntes     Stage = "antes"
	StageBlinds    Stage = "blinds"
	StagePreflop   Stage = "preflop"
	StageFlop      Stage = "flop"
	StageTurn      Stage = "turn"
	StageRiver     Stage = "river"
	StageShowdown  Stage = "showdown"
	StageEndOfHand Stage = "end_of_hand"
)

// engineStateFn is an engine lifecycle state function.
type engineStateFn = statemachine.StateFn[TableEngine]

// TableEngine drives one table. A single goroutine (Run) plays hands
// from antes through showdown; remote decisions arrive on the decision
// channel from per-connection goroutines and are consumed only while
// their seat is the one currently prompted. Everything the outside
// world learns flows through the event channel as immutable snapshots.
type TableEngine struct {
	settings  TableSettings
	log       slog.Logger
	evaluator HandEvaluator
	rng       *rand.Rand

	ring  *SeatRing
	deck  *Deck
	board Board
	pots  []Pot

	stage         Stage
	handID        string
	currentRaise  int64
	previousRaise int64
	runout        bool

	sm  *statemachine.Machine[TableEngine]
	ctx context.Context

	actions chan Action
	events  chan Event

	// Seating changes are the only state shared with other goroutines.
	mu           sync.Mutex
	pendingJoin  []*Seat
	pendingLeave []string
	seatChange   chan struct{}
	removalRG    *syncsaga.ReadyGroup
	removalIDs   map[string]int64
}

// NewTableEngine creates an engine for the given settings. The caller
// starts it with Run.
func NewTableEngine(settings TableSettings, log slog.Logger, evaluator HandEvaluator) (*TableEngine, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if evaluator == nil {
		evaluator = NewEvaluator()
	}

	var rng *rand.Rand
	if settings.Seed != 0 {
		rng = rand.New(rand.NewSource(settings.Seed))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	e := &TableEngine{
		settings:   settings,
		log:        log,
		evaluator:  evaluator,
		rng:        rng,
		ring:       NewSeatRing(),
		stage:      StageIdle,
		actions:    make(chan Action, 8),
		events:     make(chan Event, 256),
		seatChange: make(chan struct{}, 1),
	}
	e.sm = statemachine.New(e, nil)
	return e, nil
}

// Settings returns the table's configuration.
func (e *TableEngine) Settings() TableSettings { return e.settings }

// Events returns the outbound event stream.
func (e *TableEngine) Events() <-chan Event { return e.events }

// Submit delivers a decision to the table. Decisions for seats other
// than the currently prompted one are discarded by the engine loop, so
// delivery never blocks the caller for long; if the small buffer is
// full the action is dropped and the transport layer's retry (or the
// turn timer) takes over.
func (e *TableEngine) Submit(action Action) {
	select {
	case e.actions <- action:
	default:
		e.log.Warnf("table %s: action buffer full, dropping %s from %s",
			e.settings.TableID, action.Type, action.Seat)
	}
}

// AddSeat registers a new player. The seat joins the ring between
// hands; until then it exists only on the pending list.
func (e *TableEngine) AddSeat(name, avatar string) (*Seat, error) {
	if name == "" {
		return nil, fmt.Errorf("seat name is required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	pendingNames := make([]string, 0, len(e.pendingJoin))
	for _, s := range e.pendingJoin {
		pendingNames = append(pendingNames, s.name)
	}
	if e.ring.Contains(name) || funk.Contains(pendingNames, name) {
		return nil, fmt.Errorf("seat %q already taken", name)
	}

	leaving := len(e.pendingLeave)
	if e.ring.Len()+len(e.pendingJoin)-leaving >= e.settings.MaxPlayers {
		return nil, fmt.Errorf("table %s is full", e.settings.TableID)
	}

	seat := NewSeat(name, avatar, e.settings)
	seat.onMoney = e.seatPaid
	seat.onAction = e.seatActed
	e.pendingJoin = append(e.pendingJoin, seat)
	e.signalSeatChange()
	return seat, nil
}

// RequestRemoval flags a seat for removal. The seat keeps its place in
// the ring until the current hand finishes; in the meantime it sits out
// and auto-folds when prompted.
func (e *TableEngine) RequestRemoval(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Seats that never made it into the ring are just dropped.
	for i, s := range e.pendingJoin {
		if s.name == name {
			e.pendingJoin = append(e.pendingJoin[:i], e.pendingJoin[i+1:]...)
			return
		}
	}

	seat := e.ring.Get(name)
	if seat == nil {
		return
	}
	seat.SetSittingOut(true)
	if !funk.Contains(e.pendingLeave, name) {
		e.pendingLeave = append(e.pendingLeave, name)
	}
	e.signalSeatChange()
}

// ConfirmRemoval acknowledges the external teardown of a leaving seat,
// releasing the engine's between-hands removal barrier for it.
func (e *TableEngine) ConfirmRemoval(name string) {
	e.mu.Lock()
	rg := e.removalRG
	id, ok := e.removalIDs[name]
	e.mu.Unlock()

	if rg != nil && ok {
		rg.Ready(id)
	}
}

func (e *TableEngine) signalSeatChange() {
	select {
	case e.seatChange <- struct{}{}:
	default:
	}
}

// Run executes the table loop until the context is cancelled: wait for
// enough players, play one hand, merge seating changes, repeat.
func (e *TableEngine) Run(ctx context.Context) {
	e.ctx = ctx
	e.log.Infof("table %s: engine running (blinds %d/%d, ante %d)",
		e.settings.TableID, e.settings.SmallBlind, e.settings.BigBlind, e.settings.Ante)

	for {
		e.mergeSeating()
		if !e.waitForPlayers() {
			e.log.Infof("table %s: engine stopped", e.settings.TableID)
			return
		}
		e.playHand()
		if ctx.Err() != nil {
			e.log.Infof("table %s: engine stopped", e.settings.TableID)
			return
		}
	}
}

// waitForPlayers blocks until at least two seats can play a hand,
// merging seating changes as they are signalled. It returns false when
// the engine is shutting down.
func (e *TableEngine) waitForPlayers() bool {
	for {
		if e.playableSeats() >= e.settings.MinPlayers {
			return true
		}
		e.stage = StageIdle
		select {
		case <-e.ctx.Done():
			return false
		case <-e.seatChange:
			e.mergeSeating()
		}
	}
}

// playableSeats counts seats able to start a hand.
func (e *TableEngine) playableSeats() int {
	count := 0
	for _, s := range e.ring.Seats() {
		if s.SittingOut() {
			continue
		}
		if s.stack > 0 || e.settings.TopOff {
			count++
		}
	}
	return count
}

// mergeSeating applies pending joins and removals. Never called while a
// hand is in progress.
func (e *TableEngine) mergeSeating() {
	e.mu.Lock()
	joins := e.pendingJoin
	e.pendingJoin = nil
	leaves := make([]string, 0, len(e.pendingLeave))
	for _, name := range e.pendingLeave {
		if e.ring.Contains(name) {
			leaves = append(leaves, name)
		}
	}
	e.pendingLeave = nil
	e.mu.Unlock()

	if len(leaves) > 0 {
		e.removeSeats(leaves)
	}

	for _, seat := range joins {
		// Ring mutations happen under the seating lock so transport
		// goroutines reading the ring in AddSeat/RequestRemoval observe
		// them.
		e.mu.Lock()
		e.ring.Add(seat)
		e.mu.Unlock()
		e.log.Infof("table %s: %s joined with stack %d", e.settings.TableID, seat.name, seat.stack)
		e.publish(EventPlayerJoined, PlayerJoinedPayload{
			Seat:     seat.snapshot(false),
			Snapshot: e.snapshot(),
		})
		e.chat(fmt.Sprintf("%s joins the table with %d chips", seat.name, seat.stack))
	}
}

// removeSeats announces the leaving seats and blocks until the
// transport layer acknowledges each one (or the barrier times out).
// This round-trip is what guarantees a seat is never pulled out from
// under a hand-loop iteration or a live connection teardown.
func (e *TableEngine) removeSeats(names []string) {
	done := make(chan struct{})
	var once sync.Once

	rg := syncsaga.NewReadyGroup()
	rg.OnCompleted(func(*syncsaga.ReadyGroup) {
		once.Do(func() { close(done) })
	})
	rg.SetTimeoutInterval(5)
	rg.OnTimeout(func(*syncsaga.ReadyGroup) {
		e.log.Warnf("table %s: removal barrier timed out waiting for ack", e.settings.TableID)
		once.Do(func() { close(done) })
	})

	ids := make(map[string]int64, len(names))
	for i, name := range names {
		ids[name] = int64(i)
		rg.Add(int64(i), false)
	}

	e.mu.Lock()
	e.removalRG = rg
	e.removalIDs = ids
	e.mu.Unlock()

	rg.Start()
	e.publish(EventSeatsLeaving, SeatsLeavingPayload{Seats: names})

	select {
	case <-done:
	case <-e.ctx.Done():
	}

	e.mu.Lock()
	e.removalRG = nil
	e.removalIDs = nil
	removed := make([]string, 0, len(names))
	for _, name := range names {
		if e.ring.Remove(name) {
			removed = append(removed, name)
		}
	}
	e.mu.Unlock()

	for _, name := range removed {
		e.log.Infof("table %s: %s left", e.settings.TableID, name)
		e.chat(fmt.Sprintf("%s leaves the table", name))
	}
}

// playHand runs one complete hand through the lifecycle state machine.
func (e *TableEngine) playHand() {
	for _, s := range e.ring.Seats() {
		s.ResetHand()
	}
	if e.ring.InHandCount() < 2 {
		return
	}

	e.handID = uuid.New().String()
	e.board.Reset()
	e.deck = NewDeck(e.rng)
	e.pots = BuildPots(e.ring.Seats())
	e.currentRaise = 0
	e.previousRaise = 0
	e.runout = false

	button := e.ring.AdvanceButton()
	e.publish(EventButtonMoved, ButtonMovedPayload{Seat: button.name})
	e.chat(fmt.Sprintf("--- hand %s, button on %s", e.handID, button.name))

	e.sm.SetState(stageAntes)
	for e.sm.Step() {
		if e.ctx.Err() != nil {
			return
		}
	}
}

func stageAntes(e *TableEngine) engineStateFn {
	e.stage = StageAntes
	if e.settings.Ante > 0 {
		for _, s := range e.ring.InHandFrom(e.ring.ButtonIndex() + 1) {
			s.PayAnte(minInt64(e.settings.Ante, s.stack))
		}
	}
	return stageBlinds
}

func stageBlinds(e *TableEngine) engineStateFn {
	e.stage = StageBlinds

	// Blind positions always land on in-hand seats; a seat felted by its
	// ante posts a zero blind and stays eligible.
	sb := e.ring.Seats()[e.ring.SmallBlindIndex()]
	sbAmount := minInt64(e.settings.SmallBlind, sb.stack)
	sb.PayBlind(sbAmount, "small blind")
	e.chat(fmt.Sprintf("%s posts small blind %d", sb.name, sbAmount))

	bb := e.ring.Seats()[e.ring.BigBlindIndex()]
	bbAmount := minInt64(e.settings.BigBlind, bb.stack)
	bb.PayBlind(bbAmount, "big blind")
	e.chat(fmt.Sprintf("%s posts big blind %d", bb.name, bbAmount))

	// The wager level is a full big blind even when the poster was
	// short.
	e.previousRaise = 0
	e.currentRaise = e.settings.BigBlind
	return stagePreflop
}

func stagePreflop(e *TableEngine) engineStateFn {
	e.stage = StagePreflop

	// Two passes in ring order from the button's left, as dealt live.
	for pass := 0; pass < 2; pass++ {
		for _, s := range e.ring.InHandFrom(e.ring.ButtonIndex() + 1) {
			s.hole.Deal(e.deck.MustDraw())
		}
	}
	e.publishStreet()

	e.bettingRound(e.ring.BigBlindIndex() + 1)
	if e.ring.InHandCount() <= 1 {
		return stageShowdown
	}
	return stageFlop
}

func stageFlop(e *TableEngine) engineStateFn {
	return e.dealStreet(StageFlop, 3, stageTurn)
}

func stageTurn(e *TableEngine) engineStateFn {
	return e.dealStreet(StageTurn, 1, stageRiver)
}

func stageRiver(e *TableEngine) engineStateFn {
	return e.dealStreet(StageRiver, 1, stageShowdown)
}

// dealStreet runs one post-flop street: reset per-street state, deal,
// and either run the betting round or pace through an all-in runout.
func (e *TableEngine) dealStreet(stage Stage, cards int, next engineStateFn) engineStateFn {
	e.stage = stage
	e.beginStreet()
	e.maybeAnnounceRunout()

	if e.runout {
		e.sleep(e.settings.AllInPacing)
	}
	for i := 0; i < cards; i++ {
		e.board.Add(e.deck.MustDraw())
	}
	e.chat(fmt.Sprintf("%s: board %s", stage, boardString(e.board.Cards())))
	e.publishStreet()

	if !e.runout {
		e.bettingRound(e.ring.ButtonIndex() + 1)
		if e.ring.InHandCount() <= 1 {
			return stageShowdown
		}
	}
	return next
}

func stageShowdown(e *TableEngine) engineStateFn {
	e.stage = StageShowdown
	e.settle()
	return stageEndOfHand
}

func stageEndOfHand(e *TableEngine) engineStateFn {
	e.stage = StageEndOfHand

	results := make([]SeatResult, 0, e.ring.Len())
	for _, s := range e.ring.Seats() {
		results = append(results, SeatResult{
			Seat:  s.name,
			Stack: s.stack,
			Net:   s.stack - s.startingStack,
		})
	}
	e.publish(EventHandEnded, HandEndedPayload{
		Results:  results,
		Snapshot: e.snapshot(),
	})
	e.chat(fmt.Sprintf("--- hand %s complete", e.handID))
	return nil
}

// beginStreet resets per-street bookkeeping and recomputes the pots.
func (e *TableEngine) beginStreet() {
	for _, s := range e.ring.Seats() {
		s.resetStreet()
	}
	e.currentRaise = 0
	e.previousRaise = 0
	e.pots = BuildPots(e.ring.Seats())
}

// maybeAnnounceRunout flags the hand as everyone-all-in once at most
// one live seat still has chips, so remaining streets deal without
// prompts.
func (e *TableEngine) maybeAnnounceRunout() {
	if e.runout {
		return
	}
	if e.ring.InHandCount() > 1 && e.chipHavingLive() <= 1 {
		e.runout = true
		e.log.Debugf("table %s: all-in runout from %s", e.settings.TableID, e.stage)
		e.publish(EventAllInRunout, AllInRunoutPayload{Stage: e.stage})
		e.sleep(e.settings.AllInPacing)
	}
}

// chipHavingLive counts in-hand seats that still have chips behind.
func (e *TableEngine) chipHavingLive() int {
	count := 0
	for _, s := range e.ring.Seats() {
		if s.inHand && s.stack > 0 {
			count++
		}
	}
	return count
}

// canPrompt reports whether a seat can be asked to act. Folded and
// all-in seats never act; a lone chip-having seat facing no wager is
// the single all-in racer, which stops being re-prompted while staying
// eligible for the pots.
func (e *TableEngine) canPrompt(s *Seat) bool {
	if !s.inHand || s.stack == 0 {
		return false
	}
	if e.chipHavingLive() == 1 && s.streetContribution >= e.currentRaise {
		return false
	}
	return true
}

// roundClosed reports whether every live, chip-having seat has acted
// since the last raise with all facing bets matched.
func (e *TableEngine) roundClosed() bool {
	for _, s := range e.ring.Seats() {
		if !e.canPrompt(s) || s.actionClosed {
			continue
		}
		if !s.acted || s.streetContribution != e.currentRaise {
			return false
		}
	}
	return true
}

// bettingRound visits live seats in ring order from start, prompting
// each actionable seat until the round closes or only one seat remains.
func (e *TableEngine) bettingRound(start int) {
	idx := start
	for {
		if e.ctx.Err() != nil {
			return
		}
		if e.ring.InHandCount() < 2 {
			return
		}
		if e.roundClosed() {
			return
		}

		seat, i := e.ring.NextInHandFrom(idx)
		if seat == nil {
			return
		}
		idx = i + 1

		if !e.canPrompt(seat) {
			continue
		}
		if !seat.UpdateSizing(e.currentRaise, e.previousRaise) {
			// Already acted at this exact wager level; action closes
			// without a prompt.
			continue
		}
		e.promptAndAwait(seat)
	}
}

// promptAndAwait publishes the turn notification and blocks the engine
// until the prompted seat's decision arrives.
func (e *TableEngine) promptAndAwait(seat *Seat) {
	// Anything still buffered predates this prompt and is stale.
	for {
		select {
		case stale := <-e.actions:
			e.log.Debugf("table %s: discarding stale %s from %s",
				e.settings.TableID, stale.Type, stale.Seat)
			continue
		default:
		}
		break
	}

	maxTo := seat.stack + seat.streetContribution
	e.publish(EventTurnStarted, TurnStartedPayload{
		Seat:     seat.name,
		Stage:    e.stage,
		ToCall:   seat.toCall,
		MinRaise: minInt64(seat.minRaise, maxTo),
		MaxRaise: maxTo,
		CanCheck: seat.toCall == 0,
		Snapshot: e.snapshot(),
	})

	if seat.SittingOut() {
		e.apply(seat, Action{Seat: seat.name, Type: ActionFold})
		return
	}

	for {
		select {
		case <-e.ctx.Done():
			return
		case action := <-e.actions:
			if action.Seat != seat.name {
				e.log.Debugf("table %s: ignoring out-of-turn %s from %s (turn: %s)",
					e.settings.TableID, action.Type, action.Seat, seat.name)
				continue
			}
			if !e.legal(seat, action) {
				e.log.Warnf("table %s: ignoring illegal %s(%d) from %s",
					e.settings.TableID, action.Type, action.Amount, action.Seat)
				continue
			}
			e.apply(seat, action)
			return
		}
	}
}

// legal screens a decision against the prompted seat's sizing before it
// reaches the seat's contract-checked methods. Illegal input from a
// remote client is dropped and the seat stays prompted; a violation
// past this point is an engine bug and panics.
func (e *TableEngine) legal(seat *Seat, action Action) bool {
	maxTo := seat.stack + seat.streetContribution
	switch action.Type {
	case ActionFold:
		return true
	case ActionCheck:
		return seat.toCall == 0
	case ActionCall:
		return seat.toCall > 0
	case ActionBet:
		if seat.facingRaise != 0 {
			return false
		}
		minTo := minInt64(e.settings.BigBlind, maxTo)
		return action.Amount >= minTo && action.Amount <= maxTo
	case ActionRaise:
		if action.Amount <= seat.facingRaise {
			return false
		}
		minTo := minInt64(seat.minRaise, maxTo)
		return action.Amount >= minTo && action.Amount <= maxTo
	default:
		return false
	}
}

// apply executes a decision for the prompted seat and tracks the wager
// level for bets and raises.
func (e *TableEngine) apply(seat *Seat, action Action) {
	switch action.Type {
	case ActionFold:
		seat.Fold()
	case ActionCheck:
		seat.Check()
	case ActionCall:
		seat.Call()
	case ActionBet:
		seat.Bet(action.Amount)
		e.previousRaise = 0
		e.currentRaise = action.Amount
	case ActionRaise:
		size := action.Amount
		seat.Raise(size)
		e.previousRaise = e.currentRaise
		e.currentRaise = size
	default:
		panic(fmt.Sprintf("poker: unknown action type %q", action.Type))
	}
}

// settle pays out the pots at the end of the hand.
func (e *TableEngine) settle() {
	e.pots = BuildPots(e.ring.Seats())
	live := e.ring.InHandFrom(e.ring.ButtonIndex() + 1)

	if len(live) == 0 {
		// Every seat disconnected mid-hand. Abandon the payout rather
		// than crash; the chips were already accounted against the
		// leaving stacks.
		e.log.Errorf("table %s: showdown with no live seats\n%s",
			e.settings.TableID, e.dumpState())
		return
	}

	if len(live) == 1 {
		winner := live[0]
		total := potTotal(e.pots)
		winner.stack += total
		e.chat(fmt.Sprintf("%s wins %d uncontested", winner.name, total))
		e.publish(EventShowdown, ShowdownPayload{
			Pots:     []PotResult{{Size: total, Winners: []string{winner.name}, Share: total}},
			Snapshot: e.snapshot(),
		})
		return
	}

	revealed := make(map[string][]Card, len(live))
	handNames := make(map[string]string, len(live))
	for _, s := range live {
		revealed[s.name] = s.hole.Cards()
		handNames[s.name] = e.evaluator.Name(append(s.hole.Cards(), e.board.Cards()...))
	}

	results := make([]PotResult, 0, len(e.pots))
	for _, pot := range e.pots {
		winners := e.potWinners(pot, live)
		if len(winners) == 0 {
			e.log.Errorf("table %s: pot of %d with no live eligible seat\n%s",
				e.settings.TableID, pot.Size, e.dumpState())
			continue
		}

		share := pot.Size / int64(len(winners))
		remainder := pot.Size % int64(len(winners))
		result := PotResult{Size: pot.Size, Share: share}
		for i, w := range winners {
			amount := share
			// Odd chip goes to the first winner left of the button.
			if i == 0 && remainder > 0 {
				amount += remainder
				result.OddChip = w.name
			}
			w.stack += amount
			result.Winners = append(result.Winners, w.name)
			e.chat(fmt.Sprintf("%s wins %d with %s", w.name, amount, handNames[w.name]))
		}
		results = append(results, result)
	}

	e.publish(EventShowdown, ShowdownPayload{
		Pots:      results,
		Revealed:  revealed,
		HandNames: handNames,
		Snapshot:  e.snapshot(),
	})
}

// potWinners returns the best live hands eligible for the pot, in seat
// order starting left of the button.
func (e *TableEngine) potWinners(pot Pot, live []*Seat) []*Seat {
	var winners []*Seat
	for _, s := range live {
		if !pot.eligibleFor(s.name) {
			continue
		}
		if len(winners) == 0 {
			winners = []*Seat{s}
			continue
		}
		cmp := e.evaluator.Compare(
			append(s.hole.Cards(), e.board.Cards()...),
			append(winners[0].hole.Cards(), e.board.Cards()...),
		)
		switch {
		case cmp > 0:
			winners = []*Seat{s}
		case cmp == 0:
			winners = append(winners, s)
		}
	}
	return winners
}

// seatPaid is wired into every seat; money events recompute the pot
// partition from scratch (cheap, stateless, and always correct).
func (e *TableEngine) seatPaid(s *Seat, amount int64, kind string) {
	e.pots = BuildPots(e.ring.Seats())
	e.publish(EventMoneyPaid, MoneyPaidPayload{
		Seat:     s.name,
		Amount:   amount,
		Kind:     kind,
		Stack:    s.stack,
		PotTotal: potTotal(e.pots),
	})
}

// seatActed is wired into every seat.
func (e *TableEngine) seatActed(s *Seat, action ActionType, amount int64) {
	e.publish(EventActionMade, ActionMadePayload{
		Seat:   s.name,
		Stage:  e.stage,
		Type:   action,
		Amount: amount,
	})
	switch action {
	case ActionFold:
		e.chat(fmt.Sprintf("%s folds", s.name))
	case ActionCheck:
		e.chat(fmt.Sprintf("%s checks", s.name))
	case ActionCall:
		e.chat(fmt.Sprintf("%s calls %d", s.name, amount))
	case ActionBet:
		e.chat(fmt.Sprintf("%s bets %d", s.name, amount))
	case ActionRaise:
		e.chat(fmt.Sprintf("%s raises to %d", s.name, amount))
	}
}

// snapshot deep-copies the table state for event consumers.
func (e *TableEngine) snapshot() TableSnapshot {
	seats := make([]SeatSnapshot, 0, e.ring.Len())
	for i, s := range e.ring.Seats() {
		seats = append(seats, s.snapshot(i == e.ring.ButtonIndex()))
	}
	pots := make([]PotSnapshot, 0, len(e.pots))
	for _, p := range e.pots {
		pots = append(pots, PotSnapshot{
			Size:     p.Size,
			Eligible: append([]string(nil), p.Eligible...),
		})
	}
	return TableSnapshot{
		TableID: e.settings.TableID,
		HandID:  e.handID,
		Stage:   e.stage,
		Board:   e.board.Cards(),
		Seats:   seats,
		Pots:    pots,
	}
}

func (e *TableEngine) publishStreet() {
	e.publish(EventStreetStarted, StreetStartedPayload{
		Stage:    e.stage,
		Snapshot: e.snapshot(),
	})
}

// publish sends an event without blocking the engine; a consumer that
// cannot keep up loses events rather than stalling the table.
func (e *TableEngine) publish(eventType EventType, payload interface{}) {
	event := Event{
		Type:      eventType,
		TableID:   e.settings.TableID,
		HandID:    e.handID,
		Timestamp: time.Now(),
		Payload:   payload,
	}
	select {
	case e.events <- event:
	default:
		e.log.Warnf("table %s: event buffer full, dropping %s", e.settings.TableID, eventType)
	}
}

// chat emits one newline-terminated hand-history line.
func (e *TableEngine) chat(line string) {
	e.publish(EventChatLine, ChatLinePayload{Line: line + "\n"})
}

func (e *TableEngine) sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-e.ctx.Done():
	case <-time.After(d):
	}
}

func boardString(cards []Card) string {
	out := ""
	for i, c := range cards {
		if i > 0 {
			out += " "
		}
		out += c.String()
	}
	return out
}
