package poker

import (
	"github.com/thoas/go-funk"
)

// SeatRing is the ordered collection of seated players plus the button
// marker. Traversal wraps past the end of the ring back to index 0.
// Only the engine goroutine touches the ring while a hand is running;
// seats join and leave between hands.
type SeatRing struct {
	seats  []*Seat
	button int
}

// NewSeatRing creates an empty ring. The button starts off-table and
// lands on seat 0 at the first advance.
func NewSeatRing() *SeatRing {
	return &SeatRing{button: -1}
}

// Len returns the number of seated players.
func (r *SeatRing) Len() int { return len(r.seats) }

// Seats returns the seats in ring order.
func (r *SeatRing) Seats() []*Seat { return r.seats }

// Names returns the seat names in ring order.
func (r *SeatRing) Names() []string {
	names := make([]string, 0, len(r.seats))
	for _, s := range r.seats {
		names = append(names, s.name)
	}
	return names
}

// Contains reports whether a seat with the given name is in the ring.
func (r *SeatRing) Contains(name string) bool {
	return funk.Contains(r.Names(), name)
}

// Get returns the seat with the given name, or nil.
func (r *SeatRing) Get(name string) *Seat {
	for _, s := range r.seats {
		if s.name == name {
			return s
		}
	}
	return nil
}

// Add appends a seat at the end of the ring.
func (r *SeatRing) Add(s *Seat) {
	r.seats = append(r.seats, s)
}

// Remove drops the named seat, keeping the button on the same player
// where possible.
func (r *SeatRing) Remove(name string) bool {
	for i, s := range r.seats {
		if s.name != name {
			continue
		}
		r.seats = append(r.seats[:i], r.seats[i+1:]...)
		if i < r.button || r.button >= len(r.seats) {
			r.button--
		}
		if r.button < 0 && len(r.seats) > 0 {
			r.button = 0
		}
		return true
	}
	return false
}

// ButtonIndex returns the index of the dealer seat.
func (r *SeatRing) ButtonIndex() int { return r.button }

// ButtonSeat returns the dealer seat, or nil before the first hand.
func (r *SeatRing) ButtonSeat() *Seat {
	if r.button < 0 || r.button >= len(r.seats) {
		return nil
	}
	return r.seats[r.button]
}

// AdvanceButton moves the dealer marker one seat clockwise and returns
// the new dealer.
func (r *SeatRing) AdvanceButton() *Seat {
	if len(r.seats) == 0 {
		return nil
	}
	r.button = (r.button + 1) % len(r.seats)
	return r.seats[r.button]
}

// SmallBlindIndex derives the small blind position from the button,
// counting only seats dealt into the hand. With exactly two in the hand
// the button posts the small blind, even when more players are seated
// but sitting out.
func (r *SeatRing) SmallBlindIndex() int {
	if r.InHandCount() == 2 {
		_, idx := r.NextInHandFrom(r.button)
		return idx
	}
	_, idx := r.NextInHandFrom(r.button + 1)
	return idx
}

// BigBlindIndex derives the big blind position: the next in-hand seat
// after the small blind.
func (r *SeatRing) BigBlindIndex() int {
	_, idx := r.NextInHandFrom(r.SmallBlindIndex() + 1)
	return idx
}

// InHandCount returns the number of seats still contesting the hand.
func (r *SeatRing) InHandCount() int {
	count := 0
	for _, s := range r.seats {
		if s.inHand {
			count++
		}
	}
	return count
}

// NextInHandFrom returns the first in-hand seat at or after offset,
// wrapping around the ring, along with its index. The caller must have
// checked InHandCount() > 0; the iterator itself does not guard against
// an all-folded ring.
func (r *SeatRing) NextInHandFrom(offset int) (*Seat, int) {
	n := len(r.seats)
	for i := 0; i < n; i++ {
		idx := ((offset+i)%n + n) % n
		if r.seats[idx].inHand {
			return r.seats[idx], idx
		}
	}
	return nil, -1
}

// InHandFrom returns the in-hand seats in acting order starting at
// offset, wrapping once around the ring.
func (r *SeatRing) InHandFrom(offset int) []*Seat {
	n := len(r.seats)
	out := make([]*Seat, 0, n)
	for i := 0; i < n; i++ {
		idx := ((offset+i)%n + n) % n
		if r.seats[idx].inHand {
			out = append(out, r.seats[idx])
		}
	}
	return out
}
