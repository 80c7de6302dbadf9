// Package room provides the multi-instance room synchronizer for the beer
// distribution game: joining and team balance, the all-received order barrier,
// the Latin-square shuffle at tournament start, parallel weekly advancement of
// the four simulation instances, and end-of-tournament score aggregation.
//
// # Concurrency model
//
// All room mutable state is owned by a single coordinating goroutine fed by a
// command channel; public methods hand a closure to that goroutine and wait
// for it to run. Order submissions are therefore linearized: the check that
// the final order of the week arrived, and the flip of the advancing flag,
// happen in one critical section with no shared-map locking.
//
// Advancement itself runs outside the coordinator: one goroutine per active
// instance, joined with an errgroup. While the advancing flag is set the
// coordinator rejects further submissions and serves the last finalized
// snapshot; the structured join reports back over an internal channel and
// finalization runs linearly in the coordinator.
package room
