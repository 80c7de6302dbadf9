package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/beergame-sim/beergame-sim/game"
)

func turns(weeks ...game.TurnSnapshot) []game.TurnSnapshot {
	return weeks
}

func TestBaseStock_FirstWeekPlacesInitialOrder(t *testing.T) {
	p := NewBaseStock()
	assert.Equal(t, p.InitialOrder, p.Order(nil))
}

func TestBaseStock_WellStockedOrdersNothing(t *testing.T) {
	p := NewBaseStock()

	// GIVEN steady demand of 20 and 150 cases on hand
	history := turns(game.TurnSnapshot{
		Week: 1, OrderReceived: 20, ShipmentReceived: 20, Inventory: 150,
	})

	// THEN the position is far above target and nothing is ordered
	assert.Equal(t, 0, p.Order(history))
}

func TestBaseStock_BackorderedOrdersUpToTarget(t *testing.T) {
	p := NewBaseStock()

	// GIVEN demand of 20 with 10 on hand and 30 backordered
	history := turns(game.TurnSnapshot{
		Week: 1, OrderReceived: 20, ShipmentReceived: 20,
		Inventory: 10, Backorder: 30,
	})

	// target 20*4+20 = 100, position 10-30+0 = -20
	assert.Equal(t, 120, p.Order(history))
}

func TestBaseStock_ForecastUsesLastWindow(t *testing.T) {
	p := &BaseStock{Window: 2, SafetyStock: 0, InitialOrder: 20}

	// GIVEN an old spike followed by two quiet weeks, everything shipped on
	// arrival so pipeline and position stay flat
	history := turns(
		game.TurnSnapshot{Week: 1, OrderReceived: 200, ShipmentReceived: 10, OrderPlaced: 10},
		game.TurnSnapshot{Week: 2, OrderReceived: 10, ShipmentReceived: 10, OrderPlaced: 10},
		game.TurnSnapshot{Week: 3, OrderReceived: 10, ShipmentReceived: 10, OrderPlaced: 10, Inventory: 5},
	)

	// forecast (10+10)/2 = 10; the spike outside the window is ignored
	// target 10*4 = 40, position 5+0 = 5
	assert.Equal(t, 35, p.Order(history))
}

func TestBaseStock_OnOrderPipelineCountsAgainstTarget(t *testing.T) {
	p := &BaseStock{Window: 1, SafetyStock: 0, InitialOrder: 20}

	// GIVEN 60 cases ordered last week that have not arrived yet
	history := turns(game.TurnSnapshot{
		Week: 1, OrderReceived: 10, OrderPlaced: 60, Inventory: 0,
	})

	// target 10*4 = 40, position 0+60 = 60
	assert.Equal(t, 0, p.Order(history))
}

func TestBaseStock_IsDeterministic(t *testing.T) {
	p := NewBaseStock()
	history := turns(
		game.TurnSnapshot{Week: 1, OrderReceived: 20, ShipmentReceived: 20, Inventory: 120},
		game.TurnSnapshot{Week: 2, OrderReceived: 40, ShipmentReceived: 20, Inventory: 90, OrderPlaced: 30},
	)
	assert.Equal(t, p.Order(history), p.Order(history))
}

func TestPassThrough_EchoesLastDemand(t *testing.T) {
	p := PassThrough{InitialOrder: 15}

	assert.Equal(t, 15, p.Order(nil))
	assert.Equal(t, 40, p.Order(turns(
		game.TurnSnapshot{Week: 1, OrderReceived: 20},
		game.TurnSnapshot{Week: 2, OrderReceived: 40},
	)))
}

func TestJitter_StaysNonNegativeAndReproducible(t *testing.T) {
	history := turns(game.TurnSnapshot{Week: 1, OrderReceived: 1})

	first := make([]int, 0, 32)
	p := Jitter{
		Inner:  PassThrough{},
		Spread: 5,
		RNG:    game.NewPartitionedRNG(game.TournamentKey(42)).ForSubsystem(game.SubsystemBots),
	}
	for i := 0; i < 32; i++ {
		order := p.Order(history)
		assert.GreaterOrEqual(t, order, 0)
		assert.LessOrEqual(t, order, 6)
		first = append(first, order)
	}

	// the same key replays the same stream
	p.RNG = game.NewPartitionedRNG(game.TournamentKey(42)).ForSubsystem(game.SubsystemBots)
	for i := 0; i < 32; i++ {
		assert.Equal(t, first[i], p.Order(history))
	}
}

func TestJitter_ZeroSpreadMatchesInner(t *testing.T) {
	history := turns(game.TurnSnapshot{Week: 1, OrderReceived: 25})
	p := Jitter{Inner: PassThrough{}, Spread: 0}
	assert.Equal(t, 25, p.Order(history))
}
