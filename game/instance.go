package game

import (
	"github.com/sirupsen/logrus"
)

// InstanceStatus is the lifecycle phase of a SimulationInstance.
type InstanceStatus string

const (
	// InstanceActive accepts weekly advancement.
	InstanceActive InstanceStatus = "ACTIVE"
	// InstanceFinished has played every week of its horizon.
	InstanceFinished InstanceStatus = "FINISHED"
	// InstanceFaulted had an advancement fail unexpectedly and is out of play.
	InstanceFaulted InstanceStatus = "FAULTED"
)

// SimulationInstance is one self-contained 4-role simulation run. It owns four
// ParticipantLedgers keyed by role, the current week counter, and its status.
//
// Concurrency: a SimulationInstance is NOT self-synchronizing. The owner
// (game/room) guarantees at most one AdvanceWeek call is in flight at a time.
type SimulationInstance struct {
	ID      string
	Rules   Rules
	Demand  *DemandSchedule
	Week    int // 1-based, the week the next AdvanceWeek will play
	Status  InstanceStatus
	ledgers [NumRoles]*ParticipantLedger
}

// NewSimulationInstance creates a pre-filled instance at week 1.
func NewSimulationInstance(id string, rules Rules, demand *DemandSchedule) *SimulationInstance {
	si := &SimulationInstance{
		ID:     id,
		Rules:  rules,
		Demand: demand,
		Week:   1,
		Status: InstanceActive,
	}
	for _, role := range AllRoles {
		si.ledgers[role] = NewParticipantLedger(role, rules)
	}
	return si
}

// Ledger returns the ledger for a role. The caller must not mutate it.
func (si *SimulationInstance) Ledger(role Role) *ParticipantLedger {
	return si.ledgers[role]
}

// Finished reports whether the instance has left active play, either by
// completing its horizon or by faulting.
func (si *SimulationInstance) Finished() bool {
	return si.Status != InstanceActive
}

// MarkFaulted takes the instance out of play after an advancement failure.
func (si *SimulationInstance) MarkFaulted() {
	si.Status = InstanceFaulted
}

// AdvanceWeek plays one week for all four roles and returns their snapshots.
//
// Order policy, applied before anything else: amounts clamp to >= 0, roles
// missing from orders default to 0, and unknown keys are ignored; both
// irregularities are logged rather than rejected.
//
// The algorithm is strictly two-phase. Phase A (receive, fulfill, cost) runs
// for all four roles before any Phase B propagation is visible, so each role
// sees only last week's neighbor outputs:
//
//	Phase A, per role: pop shipment head into inventory; resolve the order
//	received (retailer reads the demand schedule, everyone else pops the
//	order line); ship against order + backorder; charge holding/backorder
//	cost.
//	Phase B: each non-retailer's order line is loaded with its downstream
//	neighbor's submitted order; each role's shipment line is loaded with its
//	upstream neighbor's shipment sent. The manufacturer loads its own
//	submitted order (unlimited raw-material supply).
//
// Returns CodeInstanceNotActive without mutating anything if the instance has
// already finished or faulted.
func (si *SimulationInstance) AdvanceWeek(orders map[Role]int) ([NumRoles]TurnSnapshot, error) {
	var snaps [NumRoles]TurnSnapshot
	if si.Status != InstanceActive {
		return snaps, Errorf(CodeInstanceNotActive, "instance %s is %s", si.ID, si.Status)
	}

	placed := si.normalizeOrders(orders)
	week := si.Week

	// Phase A: receive and fulfill.
	var received, sent [NumRoles]int
	for _, role := range AllRoles {
		l := si.ledgers[role]
		shipmentReceived := l.receiveShipment()

		var orderReceived int
		if role == Retailer {
			orderReceived = si.Demand.Demand(week)
			l.Orders.Receive() // keep the (empty) line in step with the week
		} else {
			orderReceived = l.Orders.Receive()
		}
		received[role] = orderReceived
		sent[role] = l.fulfill(orderReceived)

		weekCost := l.accrueCost(si.Rules)
		snaps[role] = TurnSnapshot{
			Week:             week,
			OrderReceived:    orderReceived,
			ShipmentReceived: shipmentReceived,
			ShipmentSent:     sent[role],
			OrderPlaced:      placed[role],
			Inventory:        l.Inventory,
			Backorder:        l.Backorder,
			WeekCost:         weekCost,
			CumulativeCost:   l.CumulativeCost,
		}
	}

	// Phase B: propagate submitted orders upstream and shipments downstream.
	si.ledgers[Wholesaler].Orders.Load(placed[Retailer])
	si.ledgers[Distributor].Orders.Load(placed[Wholesaler])
	si.ledgers[Manufacturer].Orders.Load(placed[Distributor])

	si.ledgers[Manufacturer].Shipments.Load(placed[Manufacturer])
	si.ledgers[Distributor].Shipments.Load(sent[Manufacturer])
	si.ledgers[Wholesaler].Shipments.Load(sent[Distributor])
	si.ledgers[Retailer].Shipments.Load(sent[Wholesaler])

	for _, role := range AllRoles {
		si.ledgers[role].record(snaps[role])
	}

	si.Week++
	if si.Week > si.Rules.HorizonWeeks {
		si.Status = InstanceFinished
		logrus.Infof("instance %s finished after week %d", si.ID, week)
	}
	return snaps, nil
}

// normalizeOrders applies the documented submission policy: clamp below zero,
// default missing roles to zero, drop unknown keys.
func (si *SimulationInstance) normalizeOrders(orders map[Role]int) [NumRoles]int {
	var placed [NumRoles]int
	seen := 0
	for role, amount := range orders {
		if !role.Valid() {
			logrus.Warnf("instance %s week %d: ignoring order for unknown role %d", si.ID, si.Week, int(role))
			continue
		}
		if amount < 0 {
			logrus.Warnf("instance %s week %d: clamping negative order %d for %s", si.ID, si.Week, amount, role)
			amount = 0
		}
		placed[role] = amount
		seen++
	}
	if seen < NumRoles {
		logrus.Warnf("instance %s week %d: only %d of %d roles submitted orders; missing roles order 0",
			si.ID, si.Week, seen, NumRoles)
	}
	return placed
}
