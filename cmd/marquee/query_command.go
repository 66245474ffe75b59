package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"marquee/internal/match"
	"marquee/internal/services/plex"
	"marquee/internal/title"
)

func newQueryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "query <title>",
		Short: "Check whether a movie is in the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			query, err := title.Normalize(strings.Join(args, " "))
			if err != nil {
				return err
			}

			client := plex.NewClient(cfg)
			candidates, err := client.Search(cmd.Context(), query.Key)
			if err != nil {
				return fmt.Errorf("search library: %w", err)
			}

			ranker := match.NewRanker(match.Thresholds{
				Floor:      cfg.Match.RelevanceFloor,
				Confidence: cfg.Match.ConfidenceThreshold,
				Margin:     cfg.Match.ClosenessMargin,
				MaxOffers:  cfg.Match.MaxOffers,
			})
			outcome := ranker.Rank(query, candidates)

			out := cmd.OutOrStdout()
			switch outcome.Kind {
			case match.SingleMatch:
				if outcome.Best.Available {
					fmt.Fprintf(out, "%s is in the library.\n", outcome.Best.Label())
				} else {
					fmt.Fprintf(out, "%s is cataloged but has no playable copy.\n", outcome.Best.Label())
				}
				if summary := strings.TrimSpace(outcome.Best.Summary); summary != "" {
					fmt.Fprintln(out, summary)
				}

			case match.Ambiguous:
				fmt.Fprintf(out, "Several titles match %q:\n", query.Display)
				rows := make([][]string, 0, len(outcome.Offers))
				for i, offer := range outcome.Offers {
					available := "no"
					if offer.Available {
						available = "yes"
					}
					rows = append(rows, []string{
						fmt.Sprintf("%d", i+1),
						offer.Title,
						fmt.Sprintf("%d", offer.Year),
						fmt.Sprintf("%.2f", offer.Score),
						available,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Title", "Year", "Score", "Available"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft},
				))

			default:
				fmt.Fprintf(out, "No library title matches %q.\n", query.Display)
			}
			return nil
		},
	}
}
