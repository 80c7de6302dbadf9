package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionedRNG_SameSubsystemIsCached(t *testing.T) {
	p := NewPartitionedRNG(NewTournamentKey(7))
	a := p.ForSubsystem(SubsystemDemand)
	b := p.ForSubsystem(SubsystemDemand)
	assert.Same(t, a, b, "the same subsystem must return the same cached RNG")
}

func TestPartitionedRNG_SubsystemsAreIsolated(t *testing.T) {
	// Draws on one subsystem must not perturb another subsystem's stream.
	p1 := NewPartitionedRNG(NewTournamentKey(7))
	p1.ForSubsystem(SubsystemBots).Intn(1000)
	p1.ForSubsystem(SubsystemBots).Intn(1000)
	fromPerturbed := p1.ForSubsystem(SubsystemDemand).Intn(1000)

	p2 := NewPartitionedRNG(NewTournamentKey(7))
	fromFresh := p2.ForSubsystem(SubsystemDemand).Intn(1000)

	assert.Equal(t, fromFresh, fromPerturbed)
}

func TestPartitionedRNG_KeyRoundTrip(t *testing.T) {
	p := NewPartitionedRNG(NewTournamentKey(99))
	assert.Equal(t, NewTournamentKey(99), p.Key())
}
