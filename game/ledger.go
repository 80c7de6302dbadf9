package game

// Lags of the two delay lines, fixed by the game's rules.
const (
	OrderLag    = 1
	ShipmentLag = 2
)

// TurnSnapshot records one role's completed week. History entries are
// append-only; the engine never rewrites a past week.
type TurnSnapshot struct {
	Week             int
	OrderReceived    int
	ShipmentReceived int
	ShipmentSent     int
	OrderPlaced      int
	Inventory        int
	Backorder        int
	WeekCost         float64
	CumulativeCost   float64
}

// ParticipantLedger is one role's mutable state inside a SimulationInstance.
//
// Invariant: after fulfill, at most one of Inventory and Backorder is non-zero.
// Full clearing takes precedence: if inventory covers demand plus the existing
// backorder, the backorder is zeroed; otherwise inventory is driven to zero
// and the backorder absorbs the shortfall.
type ParticipantLedger struct {
	Role           Role
	Inventory      int
	Backorder      int
	Orders         Pipeline // upstream orders in transit, lag 1
	Shipments      Pipeline // downstream shipments in transit, lag 2
	CumulativeCost float64
	LastTurn       TurnSnapshot
	History        []TurnSnapshot
}

// NewParticipantLedger builds a ledger pre-filled per the rules. The
// retailer's order pipeline stays empty: its demand comes from the schedule,
// never from the delay line.
func NewParticipantLedger(role Role, rules Rules) *ParticipantLedger {
	orderPrefill := rules.PipelinePreFill
	if role == Retailer {
		orderPrefill = 0
	}
	return &ParticipantLedger{
		Role:      role,
		Inventory: rules.InitialInventory,
		Orders:    NewPipeline(OrderLag, orderPrefill),
		Shipments: NewPipeline(ShipmentLag, rules.PipelinePreFill),
	}
}

// receiveShipment pops the shipment delay line into inventory and returns the
// amount received.
func (l *ParticipantLedger) receiveShipment() int {
	received := l.Shipments.Receive()
	l.Inventory += received
	return received
}

// fulfill ships against this week's order plus the existing backorder and
// returns the amount shipped.
func (l *ParticipantLedger) fulfill(orderReceived int) int {
	totalDemand := orderReceived + l.Backorder
	if l.Inventory >= totalDemand {
		l.Inventory -= totalDemand
		l.Backorder = 0
		return totalDemand
	}
	sent := l.Inventory
	l.Backorder = totalDemand - l.Inventory
	l.Inventory = 0
	return sent
}

// accrueCost charges this week's holding and backorder costs and returns the
// week's cost. CumulativeCost is monotonically non-decreasing.
func (l *ParticipantLedger) accrueCost(rules Rules) float64 {
	weekCost := float64(l.Inventory)*rules.HoldingRate + float64(l.Backorder)*rules.BackorderRate
	l.CumulativeCost += weekCost
	return weekCost
}

// record appends the completed week to history and refreshes LastTurn.
func (l *ParticipantLedger) record(snap TurnSnapshot) {
	l.LastTurn = snap
	l.History = append(l.History, snap)
}
