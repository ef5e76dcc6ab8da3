package cmd

import (
	"fmt"
	"io"

	"github.com/abhisek/practiz/internal/item"
	"github.com/abhisek/practiz/internal/session"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Drive a practice session step by step",
}

var sessionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start (or resume) a session for a learner",
	RunE: func(cmd *cobra.Command, args []string) error {
		learnerID, err := learnerFlag(cmd)
		if err != nil {
			return err
		}
		category, _ := cmd.Flags().GetString("category")
		domain, _ := cmd.Flags().GetString("domain")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Coordinator.Start(cmd.Context(), session.StartRequest{
			LearnerID: learnerID,
			Scope:     item.Scope{Category: category, Domain: domain},
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if res.Resumed {
			fmt.Fprintf(out, "Resumed session %s\n", res.SessionID)
		} else {
			fmt.Fprintf(out, "Started session %s\n", res.SessionID)
		}
		printNext(out, res.FirstItemID)
		return nil
	},
}

var sessionAnswerCmd = &cobra.Command{
	Use:   "answer <session-id> <item-id> <answer>",
	Short: "Submit an answer for the presented item",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		timeMs, _ := cmd.Flags().GetInt64("time-ms")
		requestID, _ := cmd.Flags().GetString("request-id")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Coordinator.SubmitAnswer(cmd.Context(), session.AnswerRequest{
			SessionID:      args[0],
			ItemID:         args[1],
			SelectedAnswer: args[2],
			TimeSpentMs:    timeMs,
			RequestID:      requestID,
		})
		if err != nil {
			return err
		}
		printAnswer(cmd.OutOrStdout(), res)
		return nil
	},
}

var sessionEndCmd = &cobra.Command{
	Use:   "end <session-id>",
	Short: "End a session and print its summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sum, err := a.Coordinator.End(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), sum)
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show the state of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.Coordinator.Session(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Session:   %s\n", st.SessionID)
		fmt.Fprintf(out, "Learner:   %s\n", st.LearnerID)
		fmt.Fprintf(out, "Status:    %s\n", st.Status)
		fmt.Fprintf(out, "Answered:  %d (%d correct)\n", st.QuestionsAnswered, st.CorrectAnswers)
		fmt.Fprintf(out, "Streaks:   current %d, session %d, best %d\n", st.CurrentStreak, st.SessionStreak, st.BestStreak)
		fmt.Fprintf(out, "Started:   %s\n", st.StartedAt.Local().Format("2006-01-02 15:04:05"))
		if st.EndedAt != nil {
			fmt.Fprintf(out, "Ended:     %s\n", st.EndedAt.Local().Format("2006-01-02 15:04:05"))
		} else {
			printNext(out, st.CurrentItemID)
		}
		return nil
	},
}

func printNext(out io.Writer, itemID string) {
	if itemID == "" {
		fmt.Fprintln(out, "No items match this session's scope.")
		return
	}
	fmt.Fprintf(out, "Next item: %s\n", itemID)
}

func printAnswer(out io.Writer, res session.AnswerResult) {
	if res.IsCorrect {
		fmt.Fprintln(out, "\033[32m✓ Correct!\033[0m")
	} else {
		fmt.Fprintf(out, "\033[31m✗ Wrong.\033[0m Answer: %s\n", res.CorrectAnswer)
	}
	fmt.Fprintf(out, "%s: %s, %d points (%+d)\n", res.Skill, res.MasteryLevel, res.MasteryPoints, res.PointChange)
	fmt.Fprintf(out, "Streak: %d (session %d, best %d)\n", res.CurrentStreak, res.SessionStreak, res.BestStreak)
	printNext(out, res.NextItemID)
}

func printSummary(out io.Writer, sum session.Summary) {
	fmt.Fprintf(out, "── Summary: %d/%d correct (%.0f%%) ──\n",
		sum.CorrectAnswers, sum.QuestionsAnswered, sum.Accuracy*100)
	fmt.Fprintf(out, "Session streak: %d, best streak: %d\n", sum.SessionStreak, sum.BestStreak)
}

func init() {
	sessionStartCmd.Flags().String("learner", "", "Learner ID (required)")
	sessionStartCmd.Flags().String("category", "", "Restrict to a category")
	sessionStartCmd.Flags().String("domain", "", "Restrict to a domain")
	sessionAnswerCmd.Flags().Int64("time-ms", 0, "Time spent on the item in milliseconds")
	sessionAnswerCmd.Flags().String("request-id", "", "Idempotency token; a repeated token replays the first result")

	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionAnswerCmd)
	sessionCmd.AddCommand(sessionEndCmd)
	sessionCmd.AddCommand(sessionShowCmd)
}
