package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"marquee/internal/request"
)

func newRequestsCommand(ctx *commandContext) *cobra.Command {
	requestsCmd := &cobra.Command{
		Use:   "requests",
		Short: "Inspect the journaled movie requests",
	}

	requestsCmd.AddCommand(newRequestsListCommand(ctx))
	requestsCmd.AddCommand(newRequestsClearCommand(ctx))

	return requestsCmd
}

func newRequestsListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journaled requests, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			journal, err := request.OpenJournal(cfg.JournalPath())
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer journal.Close()

			entries, err := journal.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list requests: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No requests journaled.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				delivered := "no"
				if entry.Delivered {
					delivered = "yes"
				}
				if !entry.Delivered && entry.Reason != "" {
					delivered = "no (" + truncate(entry.Reason, 40) + ")"
				}
				rows = append(rows, []string{
					entry.Request.CreatedAt.Local().Format(time.DateTime),
					entry.Request.RequesterUserID,
					entry.Request.Candidate.Label(),
					delivered,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Created", "Requester", "Title", "Delivered"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of requests to show (0 shows all)")
	return cmd
}

func newRequestsClearCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all journaled requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the journal without --yes")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			journal, err := request.OpenJournal(cfg.JournalPath())
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer journal.Close()

			removed, err := journal.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear requests: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d request(s).\n", removed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
