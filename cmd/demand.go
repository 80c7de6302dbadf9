package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/beergame-sim/beergame-sim/game"
)

// demandCmd prints the customer demand a seed produces, week by week, so a
// tournament operator can inspect a schedule before handing the seed out.
var demandCmd = &cobra.Command{
	Use:   "demand",
	Short: "Print the demand schedule for a seed",
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging()

		rules, err := loadRules(rulesFile)
		if err != nil {
			logrus.Fatalf("Invalid rules: %v", err)
		}

		schedule := game.NewDemandSchedule(rules,
			game.NewPartitionedRNG(game.NewTournamentKey(seed)).ForSubsystem(game.SubsystemDemand))

		fmt.Printf("Demand schedule for seed %d (festive weeks %v):\n", seed, schedule.FestiveWeeks())
		fmt.Println("  week    demand")
		for week := 1; week <= rules.HorizonWeeks; week++ {
			marker := ""
			if schedule.IsFestive(week) {
				marker = "  festive"
			}
			fmt.Printf("  %4d %9d%s\n", week, schedule.Demand(week), marker)
		}
	},
}
