package cmd

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/beergame-sim/beergame-sim/game"
	"github.com/beergame-sim/beergame-sim/game/bot"
	"github.com/beergame-sim/beergame-sim/game/room"
	"github.com/beergame-sim/beergame-sim/game/store"
)

// pollInterval paces the self-play driver's status polling while an
// advancement is in flight.
const pollInterval = 2 * time.Millisecond

// tournamentDeadline aborts a self-play run that stopped making progress.
const tournamentDeadline = 5 * time.Minute

// runCmd plays one full tournament with 16 bots and prints the scores.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a self-play tournament",
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging()

		rules, err := loadRules(rulesFile)
		if err != nil {
			logrus.Fatalf("Invalid rules: %v", err)
		}

		var st store.Store
		if dbDialect != "" {
			sqlStore, err := store.Open(store.Dialect(dbDialect), dbDSN)
			if err != nil {
				logrus.Fatalf("Cannot open store: %v", err)
			}
			defer sqlStore.Close()
			st = sqlStore
		}

		key := game.NewTournamentKey(seed)
		rng := game.NewPartitionedRNG(key)
		policies := func(team int, role game.Role) bot.Policy {
			var p bot.Policy = &bot.BaseStock{
				Window:       botWindow,
				SafetyStock:  botSafety,
				InitialOrder: rules.PipelinePreFill,
			}
			if botJitter > 0 {
				p = bot.Jitter{Inner: p, Spread: botJitter, RNG: rng.ForSubsystem(game.SubsystemBots)}
			}
			return p
		}

		logrus.Infof("Starting tournament with seed=%d, horizon=%d weeks", seed, rules.HorizonWeeks)
		startTime := time.Now()

		res, seats, err := runTournament(room.NewRegistry(), rules, key, st, policies)
		if err != nil {
			logrus.Fatalf("Tournament failed: %v", err)
		}

		printResults(res, seats)
		logrus.Infof("Tournament complete in %v.", time.Since(startTime).Round(time.Millisecond))
	},
}

// seat is one bot's view of the tournament: its policy plus every turn it has
// seen so far, the same information a human player would have.
type seat struct {
	id      string
	team    string
	policy  bot.Policy
	history []game.TurnSnapshot
}

// runTournament fills a fresh room with 16 bots and drives it to FINISHED.
// Policies see only their own resolved turns, so a bot cannot peek at the
// demand schedule or at other instances.
func runTournament(reg *room.Registry, rules game.Rules, key game.TournamentKey,
	st store.Store, policies func(team int, role game.Role) bot.Policy) (room.Results, []*seat, error) {

	r, err := reg.Create(rules, key, nil, st)
	if err != nil {
		return room.Results{}, nil, err
	}
	defer func() {
		if err := reg.Destroy(r.ID()); err != nil {
			logrus.Warnf("destroy room %s: %v", r.ID(), err)
		}
	}()

	seats := make([]*seat, 0, room.RoomSize)
	byID := make(map[string]*seat, room.RoomSize)
	for j := 0; j < room.RoomTeams; j++ {
		teamID := fmt.Sprintf("team-%d", j)
		for _, role := range game.AllRoles {
			s := &seat{id: fmt.Sprintf("bot-%d-%s", j, role), team: teamID, policy: policies(j, role)}
			if err := r.Join(teamID, role, s.id); err != nil {
				return room.Results{}, nil, err
			}
			seats = append(seats, s)
			byID[s.id] = s
		}
	}

	deadline := time.Now().Add(tournamentDeadline)
	for {
		if time.Now().After(deadline) {
			return room.Results{}, nil, game.Errorf(game.CodeInternal,
				"tournament in room %s stalled", r.ID())
		}
		snap, err := r.Status()
		if err != nil {
			return room.Results{}, nil, err
		}
		if snap.Advancing {
			time.Sleep(pollInterval)
			continue
		}

		// Bank the newly resolved turns before ordering for the coming week.
		for _, view := range snap.Participants {
			s := byID[view.ParticipantID]
			if view.LastTurn.Week == len(s.history)+1 {
				s.history = append(s.history, view.LastTurn)
			}
		}
		if snap.Status == room.StatusFinished {
			break
		}

		for _, view := range snap.Participants {
			if view.OrderSubmitted {
				continue
			}
			s := byID[view.ParticipantID]
			err := r.SubmitOrder(s.id, s.policy.Order(s.history))
			switch {
			case err == nil:
			case game.IsCode(err, game.CodeAdvancementInProgress),
				game.IsCode(err, game.CodeDuplicateOrder),
				game.IsCode(err, game.CodeInstanceFinished):
				// The snapshot went stale under us; the next poll resolves it.
			default:
				return room.Results{}, nil, err
			}
		}
		time.Sleep(pollInterval)
	}

	res, err := r.Results()
	if err != nil {
		return room.Results{}, nil, err
	}
	return res, seats, nil
}

// printResults writes the final scores to stdout, lowest cost first wins.
func printResults(res room.Results, seats []*seat) {
	fmt.Printf("MVP: %s (team %s) with cost %.2f\n",
		res.MVP.ParticipantID, res.MVP.TeamID, res.MVP.Cost)
	fmt.Printf("Winning team: %s with cost %.2f\n\n", res.WinningTeam.TeamID, res.WinningTeam.Cost)

	fmt.Println("Teams:")
	for _, team := range res.Teams {
		fmt.Printf("  %-12s %10.2f\n", team.TeamID, team.Cost)
	}
	fmt.Println("Participants:")
	for _, p := range res.Participants {
		fmt.Printf("  %-24s %-12s %10.2f\n", p.ParticipantID, p.TeamID, p.Cost)
	}

	if printHistory {
		for _, s := range seats {
			fmt.Printf("\nHistory of %s:\n", s.id)
			fmt.Println("  week  received   shipped   ordered inventory backorder      cost")
			for _, turn := range s.history {
				fmt.Printf("  %4d %9d %9d %9d %9d %9d %9.2f\n",
					turn.Week, turn.OrderReceived, turn.ShipmentSent, turn.OrderPlaced,
					turn.Inventory, turn.Backorder, turn.CumulativeCost)
			}
		}
	}
}
