package cmd

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/practiz/internal/item"
	"github.com/abhisek/practiz/internal/session"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Practice interactively in the terminal",
	Long: `Start or resume a session and answer items interactively.

Enter an answer for each presented item. Type "q" or close input to end
the session and print its summary.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().String("learner", "", "Learner ID (required)")
	playCmd.Flags().String("category", "", "Restrict to a category")
	playCmd.Flags().String("domain", "", "Restrict to a domain")
	playCmd.Flags().Int("count", 0, "Stop after this many answers (0 means until q)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	learnerID, err := learnerFlag(cmd)
	if err != nil {
		return err
	}
	category, _ := cmd.Flags().GetString("category")
	domain, _ := cmd.Flags().GetString("domain")
	count, _ := cmd.Flags().GetInt("count")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	start, err := a.Coordinator.Start(ctx, session.StartRequest{
		LearnerID: learnerID,
		Scope:     item.Scope{Category: category, Domain: domain},
	})
	if err != nil {
		return err
	}
	if start.FirstItemID == "" {
		printNext(out, "")
		return nil
	}

	current := start.FirstItemID
	for i := 1; count == 0 || i <= count; i++ {
		it, err := a.Store.Conn().GetItem(ctx, current)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "── Item %d: %s (%s, difficulty %d) ──\n", i, it.ID, it.Skill, it.Difficulty)

		fmt.Fprint(out, "Your answer: ")
		shown := time.Now()
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}
		answer := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(answer, "q") {
			break
		}

		res, err := a.Coordinator.SubmitAnswer(ctx, session.AnswerRequest{
			SessionID:      start.SessionID,
			ItemID:         current,
			SelectedAnswer: answer,
			TimeSpentMs:    time.Since(shown).Milliseconds(),
		})
		if err != nil {
			return err
		}
		printAnswer(out, res)
		fmt.Fprintln(out)
		current = res.NextItemID
	}

	sum, err := a.Coordinator.End(ctx, start.SessionID)
	if err != nil {
		return err
	}
	printSummary(out, sum)
	return nil
}
