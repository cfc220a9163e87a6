package poker

import (
	"fmt"
	"time"
)

// TableSettings holds the static configuration for one table. It is an
// explicit value passed into the engine and every seat at construction;
// nothing here is process-wide state, so concurrently-running tables
// cannot couple through it.
type TableSettings struct {
	TableID string

	MinPlayers int
	MaxPlayers int

	SmallBlind int64
	BigBlind   int64
	Ante       int64

	// StartingStack is the stack a new seat is bought in for. When
	// TopOff is set, every seat's stack is restored to this size at the
	// start of each hand.
	StartingStack int64
	TopOff        bool

	// AllInPacing is the delay between streets dealt with no possible
	// action once everyone is all-in.
	AllInPacing time.Duration

	// TimeBank is how long the transport layer gives a seat to act
	// before synthesizing a fold. The engine itself never times out.
	TimeBank time.Duration

	// Seed makes dealing deterministic when non-zero.
	Seed int64
}

// Validate checks the settings for internal consistency.
func (s TableSettings) Validate() error {
	if s.TableID == "" {
		return fmt.Errorf("settings: table ID is required")
	}
	if s.MinPlayers < 2 {
		return fmt.Errorf("settings: need at least 2 players, got %d", s.MinPlayers)
	}
	if s.MaxPlayers < s.MinPlayers {
		return fmt.Errorf("settings: max players %d below min players %d", s.MaxPlayers, s.MinPlayers)
	}
	if s.SmallBlind <= 0 || s.BigBlind <= 0 {
		return fmt.Errorf("settings: blinds must be positive, got %d/%d", s.SmallBlind, s.BigBlind)
	}
	if s.BigBlind < s.SmallBlind {
		return fmt.Errorf("settings: big blind %d below small blind %d", s.BigBlind, s.SmallBlind)
	}
	if s.Ante < 0 {
		return fmt.Errorf("settings: ante cannot be negative")
	}
	if s.StartingStack < s.BigBlind {
		return fmt.Errorf("settings: starting stack %d below big blind %d", s.StartingStack, s.BigBlind)
	}
	return nil
}
