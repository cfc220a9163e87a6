package poker

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// dumpState renders the table's internal state for error logs. Only
// used on paths that indicate an engine bug, so verbosity beats
// brevity here.
func (e *TableEngine) dumpState() string {
	var b strings.Builder

	fmt.Fprintf(&b, "table=%s hand=%s stage=%s raise=%d/%d runout=%v\n",
		e.settings.TableID, e.handID, e.stage, e.currentRaise, e.previousRaise, e.runout)
	fmt.Fprintf(&b, "board=%s button=%d\n", boardString(e.board.Cards()), e.ring.ButtonIndex())

	for i, s := range e.ring.Seats() {
		fmt.Fprintf(&b, "seat[%d] %s stack=%d street=%d hand=%d inHand=%v allIn=%v sitOut=%v acted=%v closed=%v toCall=%d minRaise=%d\n",
			i, s.name, s.stack, s.streetContribution, s.handContribution,
			s.inHand, s.AllIn(), s.SittingOut(), s.acted, s.actionClosed, s.toCall, s.minRaise)
	}

	b.WriteString(spew.Sdump(e.pots))
	return b.String()
}
