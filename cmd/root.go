package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "practiz",
	Short:         "Adaptive practice scheduler",
	Long:          "Practiz picks the next practice item for a learner from spaced repetition, skill mastery and recency, and tracks streaks and daily goals.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PRACTIZ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(candidatesCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}
