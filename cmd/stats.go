package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a learner's mastery overview and today's goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		learnerID, err := learnerFlag(cmd)
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		overview, err := a.Coordinator.MasteryOverview(ctx, learnerID)
		if err != nil {
			return err
		}
		progress, err := a.Coordinator.DailyGoalProgress(ctx, learnerID, a.Coordinator.Today())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(overview) == 0 {
			fmt.Fprintln(out, "No practice recorded yet.")
		} else {
			fmt.Fprintf(out, "%-16s  %-16s  %-24s  %-12s  %6s  %9s\n",
				"Category", "Domain", "Skill", "Level", "Points", "Correct")
			fmt.Fprintln(out, strings.Repeat("─", 92))
			for _, m := range overview {
				fmt.Fprintf(out, "%-16s  %-16s  %-24s  %-12s  %6d  %4d/%-4d\n",
					truncate(m.Category, 16), truncate(m.Domain, 16), truncate(m.Skill, 24),
					m.MasteryLevel, m.MasteryPoints, m.CorrectAnswers, m.TotalQuestions)
			}
		}

		fmt.Fprintln(out)
		printGoal(out, progress)
		return nil
	},
}

func init() {
	statsCmd.Flags().String("learner", "", "Learner ID (required)")
}
