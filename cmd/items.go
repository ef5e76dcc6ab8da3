package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/practiz/internal/item"
	"github.com/spf13/cobra"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Manage the item pool",
}

var itemsImportCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import items from YAML or JSON pool files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		total := 0
		for _, path := range args {
			n, err := a.ImportFile(cmd.Context(), path)
			if err != nil {
				return err
			}
			total += n
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items from %d file(s)\n", total, len(args))
		return nil
	},
}

var itemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List items (optionally filtered by category or domain)",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		domain, _ := cmd.Flags().GetString("domain")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		items, err := a.Store.Conn().ListItems(cmd.Context(), item.Scope{Category: category, Domain: domain})
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-20s  %-16s  %-16s  %-24s  %4s\n",
			"ID", "Category", "Domain", "Skill", "Diff")
		fmt.Fprintln(out, strings.Repeat("─", 88))
		for _, it := range items {
			fmt.Fprintf(out, "%-20s  %-16s  %-16s  %-24s  %4d\n",
				truncate(it.ID, 20), truncate(it.Category, 16), truncate(it.Domain, 16),
				truncate(it.Skill, 24), it.Difficulty)
		}
		fmt.Fprintf(out, "\n%d items\n", len(items))
		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	itemsListCmd.Flags().String("category", "", "Filter by category")
	itemsListCmd.Flags().String("domain", "", "Filter by domain")

	itemsCmd.AddCommand(itemsImportCmd)
	itemsCmd.AddCommand(itemsListCmd)
}
