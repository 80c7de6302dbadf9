package game

import "fmt"

// Pipeline is a fixed-capacity ordered delay line. Capacity equals the lag:
// the head slot arrives this week, the tail slot arrives lag weeks from now.
// Each week the head is popped (Receive), the remaining slots shift forward,
// and the trailing slot is left empty until Load fills it.
//
// The order pipeline has lag 1; the shipment pipeline has lag 2, so pre-fill
// determines the week-1 and week-2 arrivals.
type Pipeline struct {
	slots []int
}

// NewPipeline creates a delay line of the given lag with every slot pre-filled.
func NewPipeline(lag, prefill int) Pipeline {
	if lag < 1 {
		panic(fmt.Sprintf("NewPipeline: lag must be >= 1, got %d", lag))
	}
	slots := make([]int, lag)
	for i := range slots {
		slots[i] = prefill
	}
	return Pipeline{slots: slots}
}

// Receive pops the head slot, shifts every remaining slot forward by one, and
// leaves the trailing slot empty. Returns the popped amount.
func (p *Pipeline) Receive() int {
	head := p.slots[0]
	copy(p.slots, p.slots[1:])
	p.slots[len(p.slots)-1] = 0
	return head
}

// Load places an amount into the trailing slot. It overwrites rather than
// accumulates: exactly one Load per Receive per week.
func (p *Pipeline) Load(amount int) {
	p.slots[len(p.slots)-1] = amount
}

// Lag returns the delay line length in weeks.
func (p *Pipeline) Lag() int {
	return len(p.slots)
}

// InTransit returns the total units currently inside the delay line.
func (p *Pipeline) InTransit() int {
	total := 0
	for _, v := range p.slots {
		total += v
	}
	return total
}

// Slots returns a copy of the delay line contents, head first.
func (p *Pipeline) Slots() []int {
	return append([]int(nil), p.slots...)
}

// RestorePipeline rebuilds a delay line from persisted slot contents.
func RestorePipeline(slots []int) Pipeline {
	if len(slots) < 1 {
		panic("RestorePipeline: need at least one slot")
	}
	return Pipeline{slots: append([]int(nil), slots...)}
}
