package poker

import (
	"time"
)

// ActionType identifies a betting decision.
type ActionType string

const (
	ActionFold  ActionType = "fold"
	ActionCheck ActionType = "check"
	ActionCall  ActionType = "call"
	ActionBet   ActionType = "bet"
	ActionRaise ActionType = "raise"
)

// Action is an inbound decision from a seat. Amount is the total street
// wager being raised or bet to; it is only meaningful for bet and raise.
type Action struct {
	Seat   string     `json:"seat"`
	Type   ActionType `json:"type"`
	Amount int64      `json:"amount,omitempty"`
}

// EventType identifies a table event.
type EventType string

const (
	EventMoneyPaid     EventType = "money_paid"
	EventActionMade    EventType = "action_made"
	EventChatLine      EventType = "chat_line"
	EventStreetStarted EventType = "street_started"
	EventTurnStarted   EventType = "turn_started"
	EventAllInRunout   EventType = "all_in_runout"
	EventShowdown      EventType = "showdown"
	EventHandEnded     EventType = "hand_ended"
	EventButtonMoved   EventType = "button_moved"
	EventPlayerJoined  EventType = "player_joined"
	EventSeatsLeaving  EventType = "seats_leaving"
)

// Event is one entry of the table's outbound event stream. Payload is
// one of the typed payload structs below; snapshots inside payloads are
// deep copies taken at publish time so consumers never race with the
// engine mutating live state.
type Event struct {
	Type      EventType   `json:"type"`
	TableID   string      `json:"tableId"`
	HandID    string      `json:"handId,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// SeatSnapshot is an immutable copy of one seat's public state.
type SeatSnapshot struct {
	Name               string     `json:"name"`
	Avatar             string     `json:"avatar,omitempty"`
	Stack              int64      `json:"stack"`
	StreetContribution int64      `json:"streetContribution"`
	HandContribution   int64      `json:"handContribution"`
	InHand             bool       `json:"inHand"`
	AllIn              bool       `json:"allIn"`
	SittingOut         bool       `json:"sittingOut"`
	Button             bool       `json:"button"`
	SmallBlind         bool       `json:"smallBlind"`
	BigBlind           bool       `json:"bigBlind"`
	Cards              []CardView `json:"cards,omitempty"`
}

// PotSnapshot is an immutable copy of one pot.
type PotSnapshot struct {
	Size     int64    `json:"size"`
	Eligible []string `json:"eligible"`
}

// TableSnapshot is an immutable copy of the table at the moment of an
// event.
type TableSnapshot struct {
	TableID string         `json:"tableId"`
	HandID  string         `json:"handId"`
	Stage   Stage          `json:"stage"`
	Board   []Card         `json:"board"`
	Seats   []SeatSnapshot `json:"seats"`
	Pots    []PotSnapshot  `json:"pots"`
}

// MoneyPaidPayload reports chips moving from a stack into the pot.
type MoneyPaidPayload struct {
	Seat     string `json:"seat"`
	Amount   int64  `json:"amount"`
	Kind     string `json:"kind"` // ante, small blind, big blind, call, bet, raise
	Stack    int64  `json:"stack"`
	PotTotal int64  `json:"potTotal"`
}

// ActionMadePayload reports a completed betting decision.
type ActionMadePayload struct {
	Seat   string     `json:"seat"`
	Stage  Stage      `json:"stage"`
	Type   ActionType `json:"type"`
	Amount int64      `json:"amount,omitempty"`
}

// ChatLinePayload carries one newline-terminated hand-history line.
type ChatLinePayload struct {
	Line string `json:"line"`
}

// StreetStartedPayload announces a new street with a full snapshot.
type StreetStartedPayload struct {
	Stage    Stage         `json:"stage"`
	Snapshot TableSnapshot `json:"snapshot"`
}

// TurnStartedPayload announces which seat must act and its legal sizing.
type TurnStartedPayload struct {
	Seat     string        `json:"seat"`
	Stage    Stage         `json:"stage"`
	ToCall   int64         `json:"toCall"`
	MinRaise int64         `json:"minRaise"`
	MaxRaise int64         `json:"maxRaise"`
	CanCheck bool          `json:"canCheck"`
	Snapshot TableSnapshot `json:"snapshot"`
}

// AllInRunoutPayload announces that no further action is possible and
// the remaining streets will be dealt back to back.
type AllInRunoutPayload struct {
	Stage Stage `json:"stage"`
}

// PotResult is the settlement of one pot at showdown.
type PotResult struct {
	Size    int64    `json:"size"`
	Winners []string `json:"winners"`
	Share   int64    `json:"share"`
	OddChip string   `json:"oddChip,omitempty"` // seat receiving the remainder, if any
}

// ShowdownPayload reports the evaluated winners of every pot, with the
// revealed hole cards and hand names of the seats that went to showdown.
type ShowdownPayload struct {
	Pots      []PotResult       `json:"pots"`
	Revealed  map[string][]Card `json:"revealed"`
	HandNames map[string]string `json:"handNames"`
	Snapshot  TableSnapshot     `json:"snapshot"`
}

// SeatResult is one seat's outcome for the hand.
type SeatResult struct {
	Seat  string `json:"seat"`
	Stack int64  `json:"stack"`
	Net   int64  `json:"net"`
}

// HandEndedPayload closes out a hand.
type HandEndedPayload struct {
	Results  []SeatResult  `json:"results"`
	Snapshot TableSnapshot `json:"snapshot"`
}

// ButtonMovedPayload reports the new dealer seat.
type ButtonMovedPayload struct {
	Seat string `json:"seat"`
}

// PlayerJoinedPayload reports a merged-in seat.
type PlayerJoinedPayload struct {
	Seat     SeatSnapshot  `json:"seat"`
	Snapshot TableSnapshot `json:"snapshot"`
}

// SeatsLeavingPayload announces seats pending removal. The engine blocks
// until every named seat is acknowledged via ConfirmRemoval, so the
// transport layer must tear down its side and confirm each one.
type SeatsLeavingPayload struct {
	Seats []string `json:"seats"`
}
