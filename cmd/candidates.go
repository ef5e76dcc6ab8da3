package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/practiz/internal/item"
	"github.com/spf13/cobra"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Explain how the next item would be chosen",
	Long: `Rank the learner's in-scope items with the per-signal score breakdown.
With --session, the session's learner, scope and answered items are used.
Nothing is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		learnerID, _ := cmd.Flags().GetString("learner")
		sessionID, _ := cmd.Flags().GetString("session")
		category, _ := cmd.Flags().GetString("category")
		domain, _ := cmd.Flags().GetString("domain")
		limit, _ := cmd.Flags().GetInt("limit")
		if learnerID == "" && sessionID == "" {
			return fmt.Errorf("--learner or --session is required")
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		picks, err := a.Coordinator.Candidates(cmd.Context(), learnerID,
			item.Scope{Category: category, Domain: domain}, sessionID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(picks) == 0 {
			fmt.Fprintln(out, "No items match this scope.")
			return nil
		}
		fmt.Fprintf(out, "%-20s  %-24s  %7s  %7s  %7s  %6s  %7s\n",
			"ID", "Skill", "Urgency", "Weak", "Recency", "Jitter", "Total")
		fmt.Fprintln(out, strings.Repeat("─", 92))
		for i, p := range picks {
			if limit > 0 && i >= limit {
				break
			}
			b := p.Breakdown
			fmt.Fprintf(out, "%-20s  %-24s  %7.1f  %7.1f  %7.1f  %6.1f  %7.1f\n",
				truncate(p.Item.ID, 20), truncate(p.Item.Skill, 24),
				b.Urgency, b.WeakSkill, b.Recency, b.Jitter, b.Total)
		}
		if picks[0].Repeat {
			fmt.Fprintln(out, "\nEvery in-scope item has been answered in this session; ranking the full scope.")
		}
		return nil
	},
}

func init() {
	candidatesCmd.Flags().String("learner", "", "Learner ID")
	candidatesCmd.Flags().String("session", "", "Session ID (overrides learner and scope)")
	candidatesCmd.Flags().String("category", "", "Restrict to a category")
	candidatesCmd.Flags().String("domain", "", "Restrict to a domain")
	candidatesCmd.Flags().Int("limit", 10, "Maximum rows to print (0 for all)")
}
