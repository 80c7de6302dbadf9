package room

import (
	"github.com/beergame-sim/beergame-sim/game"
)

// ParticipantView is one participant's slice of a room snapshot.
type ParticipantView struct {
	ParticipantID  string
	TeamID         string
	InstanceID     string
	Role           game.Role
	Inventory      int
	Backorder      int
	CumulativeCost float64
	LastTurn       game.TurnSnapshot
	OrderSubmitted bool
}

// InstanceView is one instance's slice of a room snapshot.
type InstanceView struct {
	ID     string
	Week   int
	Status game.InstanceStatus
}

// Snapshot is an immutable view of a room. Repeated Status calls without an
// intervening mutation return equal snapshots; while an advancement is in
// flight the last finalized snapshot is served, so observers never see a
// half-advanced week.
type Snapshot struct {
	RoomID       string
	Status       Status
	Week         int // week the next advancement will play; 0 before start
	OrdersSoFar  int
	Advancing    bool
	Instances    []InstanceView
	Participants []ParticipantView // join order
}

// clone deep-copies the snapshot so callers can hold it freely.
func (s Snapshot) clone() Snapshot {
	out := s
	out.Instances = append([]InstanceView(nil), s.Instances...)
	out.Participants = append([]ParticipantView(nil), s.Participants...)
	return out
}
