package game

import (
	"hash/fnv"
	"math/rand"
)

// TournamentKey uniquely identifies a reproducible tournament. Two tournaments
// with the same TournamentKey and identical Rules MUST produce identical
// demand schedules and therefore identical cost trajectories for identical
// order streams.
type TournamentKey int64

// NewTournamentKey creates a TournamentKey from a seed value.
func NewTournamentKey(seed int64) TournamentKey {
	return TournamentKey(seed)
}

const (
	// SubsystemDemand is the RNG subsystem that draws festive weeks.
	SubsystemDemand = "demand"

	// SubsystemBots is the RNG subsystem for any randomness in self-play
	// ordering policies.
	SubsystemBots = "bots"
)

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem,
// derived as masterSeed XOR fnv1a64(subsystemName). Isolation matters: adding
// a draw to one subsystem must not perturb another subsystem's stream.
//
// Thread-safety: NOT thread-safe. Must be called from a single goroutine.
type PartitionedRNG struct {
	key        TournamentKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a TournamentKey.
func NewPartitionedRNG(key TournamentKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(int64(p.key) ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

// Key returns the TournamentKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() TournamentKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
