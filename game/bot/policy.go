// Package bot provides deterministic ordering policies for self-play.
//
// A policy looks only at the turns its own participant has seen, the same
// information a human player gets, and returns the order for the coming week.
// Policies are pure functions of that history, so a tournament replayed with
// the same key and the same policies reproduces cost for cost.
package bot

import (
	"math/rand"

	"github.com/beergame-sim/beergame-sim/game"
)

// Policy decides next week's order from the participant's turn history. The
// history is in week order; an empty history means no week has resolved yet.
type Policy interface {
	Order(history []game.TurnSnapshot) int
}

// leadTime is the weeks between placing an order and its shipment arriving:
// one week of order lag plus the first slot of the shipment pipeline.
const leadTime = game.OrderLag + game.ShipmentLag

// BaseStock orders up to a target position derived from a moving-average
// demand forecast. Each week it forecasts demand over the last Window turns,
// targets forecast times the full lead time plus safety stock, and orders the
// gap between that target and its inventory position (on hand minus backorder
// plus everything already on order).
type BaseStock struct {
	Window       int // forecast horizon in weeks, minimum 1
	SafetyStock  int // constant buffer on top of the target position
	InitialOrder int // placed on week 1, before any turn has resolved
}

// NewBaseStock returns a policy with a 4-week forecast window and a one-case
// safety buffer.
func NewBaseStock() *BaseStock {
	return &BaseStock{Window: 4, SafetyStock: 20, InitialOrder: 20}
}

func (p *BaseStock) Order(history []game.TurnSnapshot) int {
	if len(history) == 0 {
		return p.InitialOrder
	}
	last := history[len(history)-1]
	forecast := p.forecast(history)

	// On-order position: everything ordered that has not yet arrived.
	pipeline := 0
	for _, turn := range history {
		pipeline += turn.OrderPlaced - turn.ShipmentReceived
		if pipeline < 0 {
			pipeline = 0
		}
	}

	target := forecast*(leadTime+1) + p.SafetyStock
	position := last.Inventory - last.Backorder + pipeline

	order := target - position
	if order < 0 {
		return 0
	}
	return order
}

// forecast is the integer moving average of received orders over the window.
func (p *BaseStock) forecast(history []game.TurnSnapshot) int {
	window := p.Window
	if window < 1 {
		window = 1
	}
	start := len(history) - window
	if start < 0 {
		start = 0
	}
	sum := 0
	for _, turn := range history[start:] {
		sum += turn.OrderReceived
	}
	return sum / (len(history) - start)
}

// PassThrough reorders exactly what it was asked for last week. It is the
// naive player every bullwhip discussion starts from.
type PassThrough struct {
	InitialOrder int
}

func (p PassThrough) Order(history []game.TurnSnapshot) int {
	if len(history) == 0 {
		return p.InitialOrder
	}
	return history[len(history)-1].OrderReceived
}

// Jitter perturbs an inner policy's order by a uniform offset in
// [-Spread, Spread], clamped at zero. Seed the RNG from the tournament's
// bots subsystem to keep self-play reproducible.
type Jitter struct {
	Inner  Policy
	Spread int
	RNG    *rand.Rand
}

func (p Jitter) Order(history []game.TurnSnapshot) int {
	order := p.Inner.Order(history)
	if p.Spread > 0 {
		order += p.RNG.Intn(2*p.Spread+1) - p.Spread
	}
	if order < 0 {
		return 0
	}
	return order
}
