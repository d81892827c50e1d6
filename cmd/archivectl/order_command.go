// Copyright (c) 2026 MIZDB. All rights reserved.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Actionb/MIZDB-sub002/internal/core/periodical"
	"github.com/Actionb/MIZDB-sub002/pkg/query"
)

func newOrderCommand(ctx *commandContext) *cobra.Command {
	var idsFlag string
	var orderFlag string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "order <series-id>",
		Short: "List the issues of a series in chronological order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seriesID, err := parseID(args[0])
			if err != nil {
				return err
			}

			var filter periodical.IssueFilter
			if filter.IDs, err = parseIDList(idsFlag); err != nil {
				return err
			}
			if orderFlag != "" {
				if filter.Order, err = periodical.ParseOrdering(query.StringSlice(orderFlag)); err != nil {
					return err
				}
			}

			return ctx.withService(cmd.Context(), func(service *periodical.Service) error {
				listing, err := service.ListChronological(cmd.Context(), seriesID, filter, limit, 0)
				if err != nil {
					return err
				}

				if asJSON {
					return writeJSON(cmd, listing)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Ordering: %s", strings.Join(listing.Ordering.Strings(), ", "))
				if !listing.Chronological {
					fmt.Fprint(out, " (fallback)")
				}
				fmt.Fprintln(out)

				if len(listing.Issues) == 0 {
					fmt.Fprintln(out, "No issues")
					return nil
				}
				fmt.Fprintln(out, renderIssues(listing.Issues))
				if listing.Total > len(listing.Issues) {
					fmt.Fprintf(out, "%d of %d issues shown\n", len(listing.Issues), listing.Total)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&idsFlag, "ids", "", "Comma separated issue IDs to restrict the listing to")
	cmd.Flags().StringVar(&orderFlag, "order", "", "Comma separated ordering keys taking precedence (e.g. -volume,id)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of issues (0 = all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func renderIssues(issues []*periodical.Issue) string {
	headers := []string{"ID", "Series", "Year", "Volume", "Month", "Number", "Running", "Date", "Special"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft, alignLeft}

	rows := make([][]string, 0, len(issues))
	for _, issue := range issues {
		date := ""
		if issue.Date != nil {
			date = issue.Date.Format("2006-01-02")
		}
		special := ""
		if issue.Special {
			special = "yes"
		}
		rows = append(rows, []string{
			strconv.FormatInt(issue.ID, 10),
			issue.SeriesName,
			formatOptional(issue.Year),
			formatOptional(issue.Volume),
			formatOptional(issue.Month),
			formatOptional(issue.Number),
			formatOptional(issue.RunningNumber),
			date,
			special,
		})
	}
	return renderTable(headers, rows, aligns)
}

func formatOptional(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", raw)
	}
	return id, nil
}

// parseIDList parses a comma separated list; an empty flag yields nil (no restriction).
func parseIDList(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	ids, ok := query.Int64Slice(query.StringSlice(raw))
	if !ok {
		return nil, fmt.Errorf("invalid id list %q", raw)
	}
	return ids, nil
}
