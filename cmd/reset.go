package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner data",
	Long: `Delete a learner's review and mastery records and zero their streaks.
Session history and daily goals are kept. Refused while the learner has an
active session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		learnerID, err := learnerFlag(cmd)
		if err != nil {
			return err
		}
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("refusing to reset %s without --yes", learnerID)
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Coordinator.ResetProgress(cmd.Context(), learnerID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reset %s: %d review records, %d mastery records deleted\n",
			learnerID, res.ReviewsDeleted, res.MasteryDeleted)
		return nil
	},
}

func init() {
	resetCmd.Flags().String("learner", "", "Learner ID (required)")
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
