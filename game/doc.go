// Package game provides the core turn engine for the beer distribution game.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - ledger.go: per-role state (inventory, backorder, pipelines) and the fulfill step
//   - demand.go: the customer demand schedule, including festive-week doubling
//   - instance.go: SimulationInstance and the two-phase weekly advancement
//
// # Architecture
//
// The game package holds the single-instance simulation only; multi-instance
// room orchestration lives in sub-packages:
//   - game/room/: room synchronizer, order barrier, shuffler, result aggregation
//   - game/store/: durable record types and the SQL storage collaborator
//   - game/bot/: deterministic ordering policies for self-play
//
// A SimulationInstance is mutated exclusively through AdvanceWeek, one call per
// week, and never concurrently. All randomness flows through PartitionedRNG so
// a run is reproducible from its seed.
package game
