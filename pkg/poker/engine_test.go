package poker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/decred/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tieEvaluator declares every showdown a tie, which makes pot splits
// deterministic regardless of the dealt cards.
type tieEvaluator struct {
	calls int
}

func (e *tieEvaluator) Compare(a, b []Card) int {
	e.calls++
	return 0
}

func (e *tieEvaluator) Name(cards []Card) string { return "stub hand" }

func engineSettings() TableSettings {
	return TableSettings{
		TableID:       "test-table",
		MinPlayers:    2,
		MaxPlayers:    9,
		SmallBlind:    5,
		BigBlind:      10,
		StartingStack: 1000,
		AllInPacing:   0,
		Seed:          7,
	}
}

// runHand plays one scripted hand to completion and returns every event
// up to and including the first hand_ended. Scripted actions are
// consumed per seat in prompt order.
func runHand(t *testing.T, settings TableSettings, evaluator HandEvaluator,
	names []string, stacks map[string]int64, sitOut map[string]bool,
	script map[string][]Action) []Event {
	t.Helper()

	engine, err := NewTableEngine(settings, slog.Disabled, evaluator)
	require.NoError(t, err)

	for _, name := range names {
		seat, err := engine.AddSeat(name, "")
		require.NoError(t, err)
		if stack, ok := stacks[name]; ok {
			seat.stack = stack
		}
		if sitOut[name] {
			seat.SetSittingOut(true)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		engine.Run(ctx)
		close(done)
	}()

	pending := make(map[string][]Action, len(script))
	for name, actions := range script {
		pending[name] = append([]Action(nil), actions...)
	}

	var recorded []Event
	timeout := time.After(10 * time.Second)
	for {
		select {
		case event := <-engine.Events():
			recorded = append(recorded, event)
			switch payload := event.Payload.(type) {
			case TurnStartedPayload:
				queue := pending[payload.Seat]
				require.NotEmpty(t, queue, "no scripted action left for %s at %s", payload.Seat, payload.Stage)
				action := queue[0]
				pending[payload.Seat] = queue[1:]
				action.Seat = payload.Seat
				engine.Submit(action)
			case HandEndedPayload:
				cancel()
				<-done
				return recorded
			}
		case <-timeout:
			t.Fatal("hand did not complete")
		}
	}
}

func findHandEnded(t *testing.T, events []Event) HandEndedPayload {
	t.Helper()
	for _, event := range events {
		if payload, ok := event.Payload.(HandEndedPayload); ok {
			return payload
		}
	}
	t.Fatal("no hand_ended event recorded")
	return HandEndedPayload{}
}

func findShowdown(t *testing.T, events []Event) ShowdownPayload {
	t.Helper()
	for _, event := range events {
		if payload, ok := event.Payload.(ShowdownPayload); ok {
			return payload
		}
	}
	t.Fatal("no showdown event recorded")
	return ShowdownPayload{}
}

func resultFor(t *testing.T, payload HandEndedPayload, seat string) SeatResult {
	t.Helper()
	for _, result := range payload.Results {
		if result.Seat == seat {
			return result
		}
	}
	t.Fatalf("no result for seat %s", seat)
	return SeatResult{}
}

func TestEngineHeadsUpCheckedDownSplit(t *testing.T) {
	evaluator := &tieEvaluator{}
	events := runHand(t, engineSettings(), evaluator,
		[]string{"alice", "bob"}, nil, nil,
		map[string][]Action{
			// Preflop the small blind (button) acts first; postflop the
			// big blind does.
			"alice": {
				{Type: ActionCall},
				{Type: ActionCheck},
				{Type: ActionCheck},
				{Type: ActionCheck},
			},
			"bob": {
				{Type: ActionCheck},
				{Type: ActionCheck},
				{Type: ActionCheck},
				{Type: ActionCheck},
			},
		})

	// Blinds posted by position: alice has the button and the small
	// blind heads-up.
	var blinds []MoneyPaidPayload
	for _, event := range events {
		if payload, ok := event.Payload.(MoneyPaidPayload); ok {
			if payload.Kind == "small blind" || payload.Kind == "big blind" {
				blinds = append(blinds, payload)
			}
		}
	}
	require.Len(t, blinds, 2)
	assert.Equal(t, "alice", blinds[0].Seat)
	assert.Equal(t, int64(5), blinds[0].Amount)
	assert.Equal(t, "bob", blinds[1].Seat)
	assert.Equal(t, int64(10), blinds[1].Amount)

	// First prompt: alice completing the small blind, min raise two big
	// blinds, max a full shove.
	var firstTurn TurnStartedPayload
	for _, event := range events {
		if payload, ok := event.Payload.(TurnStartedPayload); ok {
			firstTurn = payload
			break
		}
	}
	assert.Equal(t, "alice", firstTurn.Seat)
	assert.Equal(t, StagePreflop, firstTurn.Stage)
	assert.Equal(t, int64(5), firstTurn.ToCall)
	assert.Equal(t, int64(20), firstTurn.MinRaise)
	assert.Equal(t, int64(1000), firstTurn.MaxRaise)
	assert.False(t, firstTurn.CanCheck)

	// A checked-down tie splits the 20-chip pot evenly.
	showdown := findShowdown(t, events)
	require.Len(t, showdown.Pots, 1)
	assert.Equal(t, int64(20), showdown.Pots[0].Size)
	assert.ElementsMatch(t, []string{"alice", "bob"}, showdown.Pots[0].Winners)
	assert.Equal(t, int64(10), showdown.Pots[0].Share)
	assert.Empty(t, showdown.Pots[0].OddChip)

	ended := findHandEnded(t, events)
	assert.Equal(t, int64(0), resultFor(t, ended, "alice").Net)
	assert.Equal(t, int64(0), resultFor(t, ended, "bob").Net)
	assert.Equal(t, int64(1000), resultFor(t, ended, "alice").Stack)
}

func TestEngineMinRaiseReopens(t *testing.T) {
	evaluator := &tieEvaluator{}
	events := runHand(t, engineSettings(), evaluator,
		[]string{"alice", "bob"}, nil, nil,
		map[string][]Action{
			"alice": {{Type: ActionRaise, Amount: 25}},
			"bob":   {{Type: ActionFold}},
		})

	// Facing a raise to 25 over the 10 blind, the minimum re-raise is
	// to 40.
	var turns []TurnStartedPayload
	for _, event := range events {
		if payload, ok := event.Payload.(TurnStartedPayload); ok {
			turns = append(turns, payload)
		}
	}
	require.Len(t, turns, 2)
	assert.Equal(t, "bob", turns[1].Seat)
	assert.Equal(t, int64(15), turns[1].ToCall)
	assert.Equal(t, int64(40), turns[1].MinRaise)

	ended := findHandEnded(t, events)
	assert.Equal(t, int64(10), resultFor(t, ended, "alice").Net)
	assert.Equal(t, int64(-10), resultFor(t, ended, "bob").Net)
}

func TestEngineSidePotsAllInRunout(t *testing.T) {
	evaluator := &tieEvaluator{}
	events := runHand(t, engineSettings(), evaluator,
		[]string{"a", "b", "c"},
		map[string]int64{"a": 200, "b": 100, "c": 100}, nil,
		map[string][]Action{
			"a": {{Type: ActionRaise, Amount: 200}},
			"b": {{Type: ActionCall}},
			"c": {{Type: ActionCall}},
		})

	var sawRunout bool
	for _, event := range events {
		if event.Type == EventAllInRunout {
			sawRunout = true
		}
	}
	assert.True(t, sawRunout, "expected an all-in runout announcement")

	// Main pot of 300 for everyone, side pot of 100 only the big stack
	// can win. The three-way tie splits the main pot; the side pot goes
	// back to its sole contributor.
	showdown := findShowdown(t, events)
	require.Len(t, showdown.Pots, 2)
	assert.Equal(t, int64(300), showdown.Pots[0].Size)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, showdown.Pots[0].Winners)
	assert.Equal(t, int64(100), showdown.Pots[0].Share)
	assert.Equal(t, int64(100), showdown.Pots[1].Size)
	assert.Equal(t, []string{"a"}, showdown.Pots[1].Winners)

	// Everyone ends where they started, and chips were conserved.
	ended := findHandEnded(t, events)
	var total int64
	for _, result := range ended.Results {
		assert.Equal(t, int64(0), result.Net, "seat %s", result.Seat)
		total += result.Stack
	}
	assert.Equal(t, int64(400), total)
}

func TestEngineFoldToOneWinsWithoutShowdown(t *testing.T) {
	evaluator := &tieEvaluator{}
	events := runHand(t, engineSettings(), evaluator,
		[]string{"a", "b", "c"}, nil, nil,
		map[string][]Action{
			"a": {{Type: ActionFold}},
			"b": {{Type: ActionFold}},
		})

	// Both blinds go to the big blind uncontested; the evaluator is
	// never consulted.
	assert.Zero(t, evaluator.calls)

	showdown := findShowdown(t, events)
	require.Len(t, showdown.Pots, 1)
	assert.Equal(t, int64(15), showdown.Pots[0].Size)
	assert.Equal(t, []string{"c"}, showdown.Pots[0].Winners)
	assert.Empty(t, showdown.Revealed)

	ended := findHandEnded(t, events)
	assert.Equal(t, int64(0), resultFor(t, ended, "a").Net)
	assert.Equal(t, int64(-5), resultFor(t, ended, "b").Net)
	assert.Equal(t, int64(5), resultFor(t, ended, "c").Net)
}

func TestEngineAntesFeedThePot(t *testing.T) {
	settings := engineSettings()
	settings.Ante = 2

	evaluator := &tieEvaluator{}
	events := runHand(t, settings, evaluator,
		[]string{"a", "b", "c"},
		map[string]int64{"a": 1}, nil,
		map[string][]Action{
			"b": {{Type: ActionFold}},
		})

	// Antes post in ring order from the button's left; the short stack
	// on the button pays what it has and is all in before the blinds.
	var antes []MoneyPaidPayload
	for _, event := range events {
		if payload, ok := event.Payload.(MoneyPaidPayload); ok && payload.Kind == "ante" {
			antes = append(antes, payload)
		}
	}
	require.Len(t, antes, 3)
	assert.Equal(t, "b", antes[0].Seat)
	assert.Equal(t, int64(2), antes[0].Amount)
	assert.Equal(t, "c", antes[1].Seat)
	assert.Equal(t, int64(2), antes[1].Amount)
	assert.Equal(t, "a", antes[2].Seat)
	assert.Equal(t, int64(1), antes[2].Amount)
	assert.Zero(t, antes[2].Stack)
	assert.Equal(t, int64(5), antes[2].PotTotal)

	// The ante is already in the pot but is not a street wager: the
	// small blind still owes a full call up to the big blind.
	var firstTurn TurnStartedPayload
	for _, event := range events {
		if payload, ok := event.Payload.(TurnStartedPayload); ok {
			firstTurn = payload
			break
		}
	}
	assert.Equal(t, "b", firstTurn.Seat)
	assert.Equal(t, int64(5), firstTurn.ToCall)

	// The short ante makes three tiers. The folded small blind funds the
	// middle one without being eligible at settlement, and the main
	// pot's odd chip goes to the first winner left of the button.
	showdown := findShowdown(t, events)
	require.Len(t, showdown.Pots, 3)
	assert.Equal(t, int64(3), showdown.Pots[0].Size)
	assert.Equal(t, []string{"c", "a"}, showdown.Pots[0].Winners)
	assert.Equal(t, int64(1), showdown.Pots[0].Share)
	assert.Equal(t, "c", showdown.Pots[0].OddChip)
	assert.Equal(t, int64(12), showdown.Pots[1].Size)
	assert.Equal(t, []string{"c"}, showdown.Pots[1].Winners)
	assert.Equal(t, int64(5), showdown.Pots[2].Size)
	assert.Equal(t, []string{"c"}, showdown.Pots[2].Winners)

	ended := findHandEnded(t, events)
	assert.Equal(t, int64(0), resultFor(t, ended, "a").Net)
	assert.Equal(t, int64(-7), resultFor(t, ended, "b").Net)
	assert.Equal(t, int64(7), resultFor(t, ended, "c").Net)

	var total int64
	for _, result := range ended.Results {
		total += result.Stack
	}
	assert.Equal(t, int64(2001), total)
}

func TestEngineHeadsUpBlindsWithSeatSittingOut(t *testing.T) {
	evaluator := &tieEvaluator{}
	events := runHand(t, engineSettings(), evaluator,
		[]string{"alice", "bob", "carol"}, nil,
		map[string]bool{"carol": true},
		map[string][]Action{
			"alice": {
				{Type: ActionCall},
				{Type: ActionCheck},
				{Type: ActionCheck},
				{Type: ActionCheck},
			},
			"bob": {
				{Type: ActionCheck},
				{Type: ActionCheck},
				{Type: ActionCheck},
				{Type: ActionCheck},
			},
		})

	// Only two seats are dealt in, so heads-up positions apply: the
	// button posts the small blind, not the seat after it.
	var blinds []MoneyPaidPayload
	for _, event := range events {
		if payload, ok := event.Payload.(MoneyPaidPayload); ok {
			if payload.Kind == "small blind" || payload.Kind == "big blind" {
				blinds = append(blinds, payload)
			}
		}
	}
	require.Len(t, blinds, 2)
	assert.Equal(t, "alice", blinds[0].Seat)
	assert.Equal(t, "small blind", blinds[0].Kind)
	assert.Equal(t, int64(5), blinds[0].Amount)
	assert.Equal(t, "bob", blinds[1].Seat)
	assert.Equal(t, "big blind", blinds[1].Kind)
	assert.Equal(t, int64(10), blinds[1].Amount)

	// The sitter never pays, never acts, and shows nothing down.
	showdown := findShowdown(t, events)
	require.Len(t, showdown.Pots, 1)
	assert.Equal(t, int64(20), showdown.Pots[0].Size)
	assert.ElementsMatch(t, []string{"alice", "bob"}, showdown.Pots[0].Winners)
	assert.NotContains(t, showdown.Revealed, "carol")

	ended := findHandEnded(t, events)
	assert.Equal(t, int64(0), resultFor(t, ended, "carol").Net)
	assert.Equal(t, int64(1000), resultFor(t, ended, "carol").Stack)
}

func TestEngineIgnoresOutOfTurnActions(t *testing.T) {
	evaluator := &tieEvaluator{}
	engine, err := NewTableEngine(engineSettings(), slog.Disabled, evaluator)
	require.NoError(t, err)

	_, err = engine.AddSeat("alice", "")
	require.NoError(t, err)
	_, err = engine.AddSeat("bob", "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		engine.Run(ctx)
		close(done)
	}()

	timeout := time.After(10 * time.Second)
	var ended HandEndedPayload
loop:
	for {
		select {
		case event := <-engine.Events():
			switch payload := event.Payload.(type) {
			case TurnStartedPayload:
				if payload.Seat == "alice" && payload.Stage == StagePreflop {
					// Noise from the wrong seat must be discarded.
					engine.Submit(Action{Seat: "bob", Type: ActionCheck})
					engine.Submit(Action{Seat: "alice", Type: ActionFold})
					continue
				}
				t.Fatalf("unexpected prompt for %s at %s", payload.Seat, payload.Stage)
			case HandEndedPayload:
				ended = payload
				cancel()
				<-done
				break loop
			}
		case <-timeout:
			t.Fatal("hand did not complete")
		}
	}

	// Alice open-folded the small blind; the out-of-turn check from bob
	// never became bob's decision.
	assert.Equal(t, int64(-5), resultFor(t, ended, "alice").Net)
	assert.Equal(t, int64(5), resultFor(t, ended, "bob").Net)
}

func TestEngineRemovalBarrierBetweenHands(t *testing.T) {
	evaluator := &tieEvaluator{}
	engine, err := NewTableEngine(engineSettings(), slog.Disabled, evaluator)
	require.NoError(t, err)

	for _, name := range []string{"a", "b", "c"} {
		_, err := engine.AddSeat(name, "")
		require.NoError(t, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		engine.Run(ctx)
		close(done)
	}()

	var (
		sawHandEnded   bool
		leavingAfter   bool
		removalOrdered bool
	)
	timeout := time.After(10 * time.Second)
loop:
	for {
		select {
		case event := <-engine.Events():
			switch payload := event.Payload.(type) {
			case TurnStartedPayload:
				// The hand folds around while c's removal is pending;
				// c never gets a live prompt because it sits out and
				// auto-folds.
				switch payload.Seat {
				case "a":
					engine.RequestRemoval("c")
					engine.Submit(Action{Seat: "a", Type: ActionFold})
				case "b":
					engine.Submit(Action{Seat: "b", Type: ActionFold})
				default:
					// Next hand started; the removal completed.
					break loop
				}
			case HandEndedPayload:
				sawHandEnded = true
			case SeatsLeavingPayload:
				// The departure announcement must come after the hand
				// finished, never mid-hand.
				leavingAfter = sawHandEnded
				assert.Equal(t, []string{"c"}, payload.Seats)
				engine.ConfirmRemoval("c")
				removalOrdered = true
			case ButtonMovedPayload:
				if removalOrdered {
					// Second hand is underway with the seat gone.
					break loop
				}
			}
		case <-timeout:
			t.Fatal("removal never completed")
		}
	}

	cancel()
	<-done

	assert.True(t, leavingAfter, "seats_leaving must follow hand_ended")
	assert.False(t, engine.ring.Contains("c"))
	assert.Equal(t, 2, engine.ring.Len())
}

func TestEngineSeatChurnDuringHands(t *testing.T) {
	evaluator := &tieEvaluator{}
	engine, err := NewTableEngine(engineSettings(), slog.Disabled, evaluator)
	require.NoError(t, err)

	_, err = engine.AddSeat("alice", "")
	require.NoError(t, err)
	_, err = engine.AddSeat("bob", "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		engine.Run(ctx)
		close(done)
	}()

	// Guests join and leave from another goroutine while hands fold
	// through, hammering the seating paths against the hand loop. The
	// race detector is the real assertion here; the test itself only
	// checks the table keeps dealing and the regulars keep their seats.
	churned := make(chan struct{})
	go func() {
		defer close(churned)
		for i := 0; i < 20; i++ {
			name := fmt.Sprintf("guest%d", i)
			if _, err := engine.AddSeat(name, ""); err != nil {
				continue
			}
			time.Sleep(time.Millisecond)
			engine.RequestRemoval(name)
		}
	}()

	handsEnded := 0
	churnDone := false
	timeout := time.After(30 * time.Second)
	for handsEnded < 5 || !churnDone {
		select {
		case <-churned:
			churned = nil
			churnDone = true
		case event := <-engine.Events():
			switch payload := event.Payload.(type) {
			case TurnStartedPayload:
				engine.Submit(Action{Seat: payload.Seat, Type: ActionFold})
			case SeatsLeavingPayload:
				for _, name := range payload.Seats {
					engine.ConfirmRemoval(name)
				}
			case HandEndedPayload:
				handsEnded++
			}
		case <-timeout:
			t.Fatal("table stalled under seat churn")
		}
	}

	cancel()
	<-done

	assert.True(t, engine.ring.Contains("alice"))
	assert.True(t, engine.ring.Contains("bob"))
}
