package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events <session-id>",
	Short: "List the recorded events of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		conn := a.Store.Conn()
		if _, err := conn.GetSession(ctx, args[0]); err != nil {
			return err
		}
		lifecycle, err := conn.SessionEvents(ctx, args[0])
		if err != nil {
			return fmt.Errorf("query session events: %w", err)
		}
		answers, err := conn.AnswerEvents(ctx, args[0])
		if err != nil {
			return fmt.Errorf("query answer events: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-5s  %-19s  %-8s  %s\n", "Seq", "Timestamp", "Kind", "Detail")
		fmt.Fprintln(out, strings.Repeat("─", 80))

		// Both lists are ordered by the shared sequence; merge them.
		i, j := 0, 0
		for i < len(lifecycle) || j < len(answers) {
			if j >= len(answers) || (i < len(lifecycle) && lifecycle[i].Sequence < answers[j].Sequence) {
				e := lifecycle[i]
				fmt.Fprintf(out, "%-5d  %-19s  %-8s  %d answered, %d correct\n",
					e.Sequence, e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Action,
					e.QuestionsAnswered, e.CorrectAnswers)
				i++
				continue
			}
			e := answers[j]
			ok := "✓"
			if !e.Correct {
				ok = "✗"
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-8s  %s %q %s %dms\n",
				e.Sequence, e.Timestamp.Local().Format("2006-01-02 15:04:05"), "answer",
				e.ItemID, e.SelectedAnswer, ok, e.TimeSpentMs)
			j++
		}
		return nil
	},
}
