package room

import (
	"github.com/beergame-sim/beergame-sim/game"
)

// Team is a pre-shuffle grouping: one participant per role. After the shuffle
// runs this grouping is read-only history, kept only to attribute final scores.
type Team struct {
	ID      string
	Members map[game.Role]string // original role -> participant id
}

// Assignment is one participant's post-shuffle seat plus the provenance needed
// for scoring. The original role is not used on the live-play path.
type Assignment struct {
	ParticipantID string
	TeamID        string
	OriginalRole  game.Role
	Instance      int // target instance index, 0..3
	Role          game.Role
}

// Shuffle reassigns the members of four balanced teams across four instances
// under the Latin-square rule: for target instance i and original team j, the
// participant selected from team j is the one whose original role equals
// roles[(i+j) mod 4], and that participant plays roles[j] in instance i.
//
// This is a closed-form bijection, not a search: it guarantees that no two
// participants from the same original team share an instance and that every
// instance receives exactly one participant originally holding each role, and
// it is fully deterministic for reproducibility.
//
// Returns CodeUnbalancedTeams unless given exactly 4 teams, each with exactly
// one occupant per role, all participant ids distinct.
func Shuffle(teams []Team) ([]Assignment, error) {
	if len(teams) != RoomTeams {
		return nil, game.Errorf(game.CodeUnbalancedTeams, "need %d teams, got %d", RoomTeams, len(teams))
	}
	seen := make(map[string]bool, RoomSize)
	for _, team := range teams {
		if len(team.Members) != game.NumRoles {
			return nil, game.Errorf(game.CodeUnbalancedTeams,
				"team %s has %d members, need one per role", team.ID, len(team.Members))
		}
		for _, role := range game.AllRoles {
			id, ok := team.Members[role]
			if !ok || id == "" {
				return nil, game.Errorf(game.CodeUnbalancedTeams,
					"team %s is missing a %s", team.ID, role)
			}
			if seen[id] {
				return nil, game.Errorf(game.CodeUnbalancedTeams,
					"participant %s appears in more than one team", id)
			}
			seen[id] = true
		}
	}

	assignments := make([]Assignment, 0, RoomSize)
	for i := 0; i < RoomInstances; i++ {
		for j, team := range teams {
			originalRole := game.AllRoles[(i+j)%game.NumRoles]
			assignments = append(assignments, Assignment{
				ParticipantID: team.Members[originalRole],
				TeamID:        team.ID,
				OriginalRole:  originalRole,
				Instance:      i,
				Role:          game.AllRoles[j],
			})
		}
	}
	return assignments, nil
}
