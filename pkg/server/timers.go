package server

import (
	"time"

	"github.com/decred/slog"
	"github.com/weedbox/timebank"

	"github.com/vctt94/holdemtabled/pkg/poker"
)

// turnTimer folds a seat that does not act within the table's time
// bank. The engine itself never times out a turn; this is the transport
// layer's synthesized decision, so it goes through Submit like any
// other action and is ignored if the real decision won the race.
type turnTimer struct {
	engine   *poker.TableEngine
	timeBank *timebank.TimeBank
	duration time.Duration
	log      slog.Logger
}

func newTurnTimer(engine *poker.TableEngine, duration time.Duration, log slog.Logger) *turnTimer {
	return &turnTimer{
		engine:   engine,
		timeBank: timebank.NewTimeBank(),
		duration: duration,
		log:      log,
	}
}

// arm restarts the countdown for the prompted seat.
func (t *turnTimer) arm(seat string) {
	t.timeBank.Cancel()
	if t.duration <= 0 {
		return
	}

	err := t.timeBank.NewTask(t.duration, func(isCancelled bool) {
		if isCancelled {
			return
		}
		t.log.Infof("seat %s ran out of time, folding", seat)
		t.engine.Submit(poker.Action{Seat: seat, Type: poker.ActionFold})
	})
	if err != nil {
		t.log.Errorf("failed to arm turn timer for %s: %v", seat, err)
	}
}

// cancel stops the countdown after a decision lands.
func (t *turnTimer) cancel() {
	t.timeBank.Cancel()
}
