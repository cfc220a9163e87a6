package server

import (
	"context"
	"fmt"

	"github.com/vctt94/holdemtabled/pkg/poker"
)

// pumpEvents is the single consumer of a table's event stream. It fans
// events out to the connected sessions, keeps the turn timer in step
// with the action, persists the hand history, and settles bankrolls
// when hands end. Removal acknowledgements also originate here: the
// seats_leaving event tears down the affected sessions and only then
// confirms each seat back to the engine, which is what lets the engine
// block between hands until the transport side is truly gone.
func (s *Server) pumpEvents(ctx context.Context, runner *tableRunner) {
	tableID := runner.engine.Settings().TableID
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-runner.engine.Events():
			s.handleEvent(runner, tableID, event)
		}
	}
}

func (s *Server) handleEvent(runner *tableRunner, tableID string, event poker.Event) {
	switch payload := event.Payload.(type) {
	case poker.TurnStartedPayload:
		runner.timer.arm(payload.Seat)

	case poker.ActionMadePayload:
		runner.timer.cancel()

	case poker.ChatLinePayload:
		if err := s.db.AppendHandHistory(tableID, event.HandID, payload.Line); err != nil {
			s.log.Errorf("failed to persist history line for table %s: %v", tableID, err)
		}

	case poker.HandEndedPayload:
		runner.timer.cancel()
		s.settleBankrolls(tableID, event.HandID, payload)

	case poker.SeatsLeavingPayload:
		// Broadcast first so remaining viewers see the departure, then
		// tear down and acknowledge.
		runner.broadcast(event)
		for _, name := range payload.Seats {
			runner.dropSession(name)
			runner.engine.ConfirmRemoval(name)
		}
		return
	}

	runner.broadcast(event)
}

// settleBankrolls applies each seat's net result for the hand to its
// persistent bankroll.
func (s *Server) settleBankrolls(tableID, handID string, payload poker.HandEndedPayload) {
	for _, result := range payload.Results {
		if result.Net == 0 {
			continue
		}
		description := fmt.Sprintf("table %s hand %s", tableID, handID)
		err := s.db.UpdatePlayerBankroll(result.Seat, result.Net, "hand_result", description)
		if err != nil {
			s.log.Errorf("failed to settle %s for hand %s: %v", result.Seat, handID, err)
		}
	}
}
