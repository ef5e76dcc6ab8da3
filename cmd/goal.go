package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/abhisek/practiz/internal/goals"
	"github.com/spf13/cobra"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Show or set a learner's daily goal",
}

var goalShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show daily goal progress (today unless --date is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		learnerID, err := learnerFlag(cmd)
		if err != nil {
			return err
		}
		dateVal, _ := cmd.Flags().GetString("date")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		date := a.Coordinator.Today()
		if dateVal != "" {
			date, err = time.ParseInLocation(goals.DayLayout, dateVal, a.Coordinator.Config().Location)
			if err != nil {
				return fmt.Errorf("invalid date %q: want YYYY-MM-DD", dateVal)
			}
		}

		progress, err := a.Coordinator.DailyGoalProgress(cmd.Context(), learnerID, date)
		if err != nil {
			return err
		}
		printGoal(cmd.OutOrStdout(), progress)
		return nil
	},
}

var goalSetCmd = &cobra.Command{
	Use:   "set <target>",
	Short: "Set the daily target (clamped to 1-100)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		learnerID, err := learnerFlag(cmd)
		if err != nil {
			return err
		}
		target, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid target %q: %w", args[0], err)
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		stored, err := a.Coordinator.SetDailyGoalTarget(cmd.Context(), learnerID, target)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Daily target for %s set to %d\n", learnerID, stored)
		return nil
	},
}

func printGoal(out io.Writer, p goals.Progress) {
	status := "in progress"
	if p.Met {
		status = "met"
	}
	fmt.Fprintf(out, "Goal %s: %d/%d (%d%%, %s)\n", p.Day, p.Answered, p.Target, p.Percent, status)
	if p.Answered > 0 {
		fmt.Fprintf(out, "Accuracy: %.0f%%, time spent: %s\n",
			p.Accuracy*100, (time.Duration(p.TimeSpentMs) * time.Millisecond).Round(time.Second))
	}
}

func init() {
	goalShowCmd.Flags().String("learner", "", "Learner ID (required)")
	goalShowCmd.Flags().String("date", "", "Day as YYYY-MM-DD in the configured time zone")
	goalSetCmd.Flags().String("learner", "", "Learner ID (required)")

	goalCmd.AddCommand(goalShowCmd)
	goalCmd.AddCommand(goalSetCmd)
}
