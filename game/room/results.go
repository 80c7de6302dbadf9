package room

// ParticipantScore is one participant's final cumulative cost, attributed to
// their original (pre-shuffle) team.
type ParticipantScore struct {
	ParticipantID string
	TeamID        string
	Cost          float64
}

// TeamScore is the summed cost of a team's four original members, now
// scattered across four different instances.
type TeamScore struct {
	TeamID string
	Cost   float64
}

// Results is the post-tournament scoring. Lower cost is better. Ties on MVP
// and winning team break by first-seen order: join order for participants,
// team creation order for teams.
type Results struct {
	MVP          ParticipantScore
	WinningTeam  TeamScore
	Participants []ParticipantScore // join order
	Teams        []TeamScore        // team creation order
}

// aggregateResults computes scores from assignments. participants and teams
// give the first-seen orders; cost looks up a participant's final cumulative
// cost from their assigned ledger.
func aggregateResults(participants []string, teams []string,
	assignments map[string]Assignment, cost func(Assignment) float64) Results {

	teamTotals := make(map[string]float64, len(teams))
	res := Results{Participants: make([]ParticipantScore, 0, len(participants))}

	for i, id := range participants {
		asg := assignments[id]
		score := ParticipantScore{ParticipantID: id, TeamID: asg.TeamID, Cost: cost(asg)}
		res.Participants = append(res.Participants, score)
		teamTotals[asg.TeamID] += score.Cost
		if i == 0 || score.Cost < res.MVP.Cost {
			res.MVP = score
		}
	}

	for i, teamID := range teams {
		score := TeamScore{TeamID: teamID, Cost: teamTotals[teamID]}
		res.Teams = append(res.Teams, score)
		if i == 0 || score.Cost < res.WinningTeam.Cost {
			res.WinningTeam = score
		}
	}
	return res
}
