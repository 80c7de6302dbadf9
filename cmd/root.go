package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// CLI flags shared by the subcommands
	seed      int64  // Tournament key; same seed, same demand schedule
	logLevel  string // Log verbosity level
	rulesFile string // Optional YAML rules file; compiled-in defaults otherwise

	// Self-play flags
	dbDialect    string // "sqlite" or "postgres"; empty disables persistence
	dbDSN        string // sqlite file path or postgres connection string
	botWindow    int    // Forecast window of the base-stock bots
	botSafety    int    // Safety stock of the base-stock bots
	botJitter    int    // Uniform order perturbation; 0 keeps bots deterministic
	printHistory bool   // Dump every resolved turn, not just the final scores
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "beergame-sim",
	Short: "Supply chain tournament simulator for the beer distribution game",
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configureLogging applies the --log flag before a subcommand does any work.
func configureLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "Tournament seed; fixes the demand schedule")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules-file", "", "YAML rules file; built-in defaults when omitted")

	runCmd.Flags().StringVar(&dbDialect, "db-dialect", "", "Persistence dialect: sqlite or postgres (empty disables)")
	runCmd.Flags().StringVar(&dbDSN, "db-dsn", "", "Database DSN: sqlite file path or postgres connection string")
	runCmd.Flags().IntVar(&botWindow, "bot-window", 4, "Forecast window of the base-stock bots, in weeks")
	runCmd.Flags().IntVar(&botSafety, "bot-safety", 20, "Safety stock of the base-stock bots, in cases")
	runCmd.Flags().IntVar(&botJitter, "bot-jitter", 0, "Max uniform order perturbation; 0 keeps self-play deterministic")
	runCmd.Flags().BoolVar(&printHistory, "print-history", false, "Print every resolved turn, not just final scores")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(demandCmd)
}
