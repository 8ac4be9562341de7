package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xfcbe/fake-news-detection/internal/bootstrap"
	"github.com/xfcbe/fake-news-detection/internal/history"
)

func (c *cli) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse and delete past analyses",
	}
	cmd.AddCommand(c.historyListCmd(), c.historyShowCmd(), c.historyDeleteCmd())
	return cmd
}

func (c *cli) historyListCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List past analyses grouped by day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(a *bootstrap.App) error {
				items, err := a.Client.GetHistory(cmd.Context())
				if err != nil {
					return fmt.Errorf("load history failed: %w", err)
				}
				if asJSON {
					return writeJSON(c.out, items)
				}
				groups := history.GroupByDate(items, time.Now())
				if groups.Len() == 0 {
					fmt.Fprintln(c.out, "No history yet")
					return nil
				}
				printSections(c.out, groups.Sections())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func (c *cli) historyShowCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one analysis in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(a *bootstrap.App) error {
				record, err := a.Client.GetHistoryItem(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("load history item failed: %w", err)
				}
				if asJSON {
					return writeJSON(c.out, record)
				}
				printRecord(c.out, *record)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the record as JSON")
	return cmd
}

func (c *cli) historyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete one analysis",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(a *bootstrap.App) error {
				if err := a.Client.DeleteHistoryItem(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("delete history item failed: %w", err)
				}
				fmt.Fprintf(c.out, "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

// withSession is withApp for commands that need a stored token.
func (c *cli) withSession(cmd *cobra.Command, fn func(a *bootstrap.App) error) error {
	return c.withApp(cmd.Context(), func(a *bootstrap.App) error {
		if !a.Client.IsAuthenticated(cmd.Context()) {
			return errNotLoggedIn
		}
		return fn(a)
	})
}
