package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInstance(t *testing.T, festive ...int) *SimulationInstance {
	t.Helper()
	rules := DefaultRules()
	return NewSimulationInstance("instance_0", rules, NewDemandScheduleWithFestive(rules, festive))
}

func flatOrders(amount int) map[Role]int {
	orders := make(map[Role]int, NumRoles)
	for _, role := range AllRoles {
		orders[role] = amount
	}
	return orders
}

func TestAdvanceWeek_WeekOneScenario(t *testing.T) {
	// GIVEN the reference setup: inventory 150, pipelines pre-filled at 20,
	// retailer week-1 demand 20
	si := newTestInstance(t)

	// WHEN week 1 plays with every role ordering 20
	snaps, err := si.AdvanceWeek(flatOrders(20))
	require.NoError(t, err)

	// THEN every role ships exactly its received demand and ends back at 150
	for _, role := range AllRoles {
		snap := snaps[role]
		assert.Equal(t, 1, snap.Week)
		assert.Equal(t, 20, snap.OrderReceived, "%s order received", role)
		assert.Equal(t, 20, snap.ShipmentReceived, "%s shipment received", role)
		assert.Equal(t, 20, snap.ShipmentSent, "%s shipment sent", role)
		assert.Equal(t, 150, snap.Inventory, "%s ending inventory", role)
		assert.Equal(t, 0, snap.Backorder, "%s backorder", role)
		assert.InDelta(t, 112.5, snap.WeekCost, 1e-9, "%s week cost = 150 * 0.75", role)
	}
	assert.Equal(t, 2, si.Week)
	assert.Equal(t, InstanceActive, si.Status)
}

func TestAdvanceWeek_OrdersPropagateWithOneWeekLag(t *testing.T) {
	si := newTestInstance(t)

	_, err := si.AdvanceWeek(map[Role]int{
		Retailer: 31, Wholesaler: 32, Distributor: 33, Manufacturer: 34,
	})
	require.NoError(t, err)

	// Week 2: each upstream role receives its downstream neighbor's week-1 order.
	snaps, err := si.AdvanceWeek(flatOrders(0))
	require.NoError(t, err)

	assert.Equal(t, 30, snaps[Retailer].OrderReceived, "retailer reads the week-2 schedule")
	assert.Equal(t, 31, snaps[Wholesaler].OrderReceived)
	assert.Equal(t, 32, snaps[Distributor].OrderReceived)
	assert.Equal(t, 33, snaps[Manufacturer].OrderReceived)
}

func TestAdvanceWeek_ShipmentsPropagateWithTwoWeekLag(t *testing.T) {
	si := newTestInstance(t)

	_, err := si.AdvanceWeek(map[Role]int{
		Retailer: 0, Wholesaler: 0, Distributor: 0, Manufacturer: 50,
	})
	require.NoError(t, err)

	// Week 2 still receives the pre-filled 20.
	snaps, err := si.AdvanceWeek(flatOrders(0))
	require.NoError(t, err)
	assert.Equal(t, 20, snaps[Manufacturer].ShipmentReceived)

	// Week 3 receives what the manufacturer ordered in week 1: production is
	// unconstrained, so the manufacturer's own order fills its shipment line.
	snaps, err = si.AdvanceWeek(flatOrders(0))
	require.NoError(t, err)
	assert.Equal(t, 50, snaps[Manufacturer].ShipmentReceived)
}

func TestAdvanceWeek_ExhaustsInventory(t *testing.T) {
	// GIVEN a wholesaler about to face demand far beyond its stock
	si := newTestInstance(t)
	_, err := si.AdvanceWeek(map[Role]int{Retailer: 500})
	require.NoError(t, err)

	// WHEN week 2 hits the wholesaler with the retailer's 500-unit order
	snaps, err := si.AdvanceWeek(flatOrders(0))
	require.NoError(t, err)

	// THEN it ships everything it has, inventory hits 0, and the backorder is
	// the exact shortfall: 500 demanded vs 150 + 20 + 20 available.
	ws := snaps[Wholesaler]
	assert.Equal(t, 500, ws.OrderReceived)
	assert.Equal(t, 170, ws.ShipmentSent, "150 on hand plus the 20 received this week, fully drained")
	assert.Equal(t, 0, ws.Inventory)
	assert.Equal(t, 330, ws.Backorder)
	assert.InDelta(t, 330*1.50, ws.WeekCost, 1e-9)
}

func TestAdvanceWeek_UnitsConservedAcrossFullHorizon(t *testing.T) {
	// Conservation: shipments in minus shipments out equals the net change in
	// (inventory - backorder) since inception, per role, over all 25 weeks.
	si := newTestInstance(t, 10, 11)
	rules := si.Rules

	for !si.Finished() {
		_, err := si.AdvanceWeek(flatOrders(35))
		require.NoError(t, err)
	}

	for _, role := range AllRoles {
		l := si.Ledger(role)
		require.Len(t, l.History, rules.HorizonWeeks)

		in, out := 0, 0
		for _, turn := range l.History {
			in += turn.ShipmentReceived
			out += turn.ShipmentSent
		}
		netChange := (l.Inventory - l.Backorder) - rules.InitialInventory
		assert.Equal(t, in-out, netChange, "%s conservation over %d weeks", role, rules.HorizonWeeks)
	}
}

func TestAdvanceWeek_FinishedInstanceRejectsAndDoesNotMutate(t *testing.T) {
	rules := DefaultRules()
	rules.HorizonWeeks = 1
	si := NewSimulationInstance("short", rules, NewDemandScheduleWithFestive(rules, nil))

	_, err := si.AdvanceWeek(flatOrders(20))
	require.NoError(t, err)
	require.Equal(t, InstanceFinished, si.Status)

	before := si.Ledger(Retailer).CumulativeCost
	weekBefore := si.Week

	_, err = si.AdvanceWeek(flatOrders(20))
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeInstanceNotActive), "got %v", err)
	assert.Equal(t, before, si.Ledger(Retailer).CumulativeCost)
	assert.Equal(t, weekBefore, si.Week)
	assert.Len(t, si.Ledger(Retailer).History, 1)
}

func TestAdvanceWeek_MissingRolesDefaultToZeroExtrasIgnored(t *testing.T) {
	si := newTestInstance(t)

	// Only the retailer submits; an out-of-range key rides along.
	_, err := si.AdvanceWeek(map[Role]int{Retailer: 25, Role(9): 99})
	require.NoError(t, err)

	snaps, err := si.AdvanceWeek(flatOrders(0))
	require.NoError(t, err)

	assert.Equal(t, 25, snaps[Wholesaler].OrderReceived)
	assert.Equal(t, 0, snaps[Distributor].OrderReceived, "missing wholesaler order defaulted to 0")
	assert.Equal(t, 0, snaps[Manufacturer].OrderReceived)
}

func TestAdvanceWeek_NegativeOrdersClamp(t *testing.T) {
	si := newTestInstance(t)

	_, err := si.AdvanceWeek(map[Role]int{Retailer: -40})
	require.NoError(t, err)

	snaps, err := si.AdvanceWeek(flatOrders(0))
	require.NoError(t, err)
	assert.Equal(t, 0, snaps[Wholesaler].OrderReceived)
}

func TestAdvanceWeek_HistoryIsAppendOnlyPerWeek(t *testing.T) {
	si := newTestInstance(t)

	for week := 1; week <= 5; week++ {
		_, err := si.AdvanceWeek(flatOrders(20))
		require.NoError(t, err)
	}
	for _, role := range AllRoles {
		history := si.Ledger(role).History
		require.Len(t, history, 5)
		for i, turn := range history {
			assert.Equal(t, i+1, turn.Week)
		}
		assert.Equal(t, history[4], si.Ledger(role).LastTurn)
	}
}
