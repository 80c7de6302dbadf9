package room

import (
	"github.com/beergame-sim/beergame-sim/game"
)

// OrderBarrier collects one order per participant for the in-flight week and
// reports when the full set is present. Amounts below zero clamp to zero
// (documented policy, not an error); a second submission from the same
// participant is rejected.
//
// The barrier is NOT self-synchronizing: the room's coordinating goroutine
// serializes all access, which is the whole point of that design.
type OrderBarrier struct {
	expected int
	orders   map[string]int
}

// NewOrderBarrier creates a barrier expecting the given number of orders.
func NewOrderBarrier(expected int) *OrderBarrier {
	return &OrderBarrier{
		expected: expected,
		orders:   make(map[string]int, expected),
	}
}

// Submit records a participant's order. Returns true when this submission
// completed the set.
func (b *OrderBarrier) Submit(participantID string, amount int) (bool, error) {
	if _, dup := b.orders[participantID]; dup {
		return false, game.Errorf(game.CodeDuplicateOrder,
			"participant %s already submitted an order this week", participantID)
	}
	if amount < 0 {
		amount = 0
	}
	b.orders[participantID] = amount
	return len(b.orders) == b.expected, nil
}

// Has reports whether the participant has already submitted this week.
func (b *OrderBarrier) Has(participantID string) bool {
	_, ok := b.orders[participantID]
	return ok
}

// Count returns the number of orders collected so far.
func (b *OrderBarrier) Count() int {
	return len(b.orders)
}

// Complete reports whether every expected order is present.
func (b *OrderBarrier) Complete() bool {
	return len(b.orders) == b.expected
}

// Orders returns a copy of the collected orders keyed by participant.
func (b *OrderBarrier) Orders() map[string]int {
	out := make(map[string]int, len(b.orders))
	for k, v := range b.orders {
		out[k] = v
	}
	return out
}

// Reset clears the collected set for the next week and adjusts the expected
// count (it shrinks when instances drop out of play).
func (b *OrderBarrier) Reset(expected int) {
	b.expected = expected
	b.orders = make(map[string]int, expected)
}
