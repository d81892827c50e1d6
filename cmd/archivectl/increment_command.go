// Copyright (c) 2026 MIZDB. All rights reserved.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Actionb/MIZDB-sub002/internal/core/periodical"
	"github.com/Actionb/MIZDB-sub002/pkg/slice"
)

func newIncrementCommand(ctx *commandContext) *cobra.Command {
	var input periodical.VolumeInput
	var idsFlag string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "increment <series-id>",
		Short: "Propagate a volume from a reference issue across a series",
		Long: "Assigns --volume to the reference issue and derives the volumes of the other\n" +
			"issues from their dates, numbers or years. Without --reference the\n" +
			"chronologically first issue is used. --volume 0 clears the volumes.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seriesID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if input.IssueIDs, err = parseIDList(idsFlag); err != nil {
				return err
			}

			return ctx.withService(cmd.Context(), func(service *periodical.Service) error {
				assignment, err := service.PropagateVolume(cmd.Context(), seriesID, input)
				if err != nil {
					return err
				}

				if asJSON {
					return writeJSON(cmd, map[string]any{
						"volumes": assignment,
						"applied": !input.DryRun,
					})
				}

				out := cmd.OutOrStdout()
				if input.Volume == 0 {
					if !input.DryRun {
						fmt.Fprintln(out, "Volumes cleared")
					}
					return nil
				}
				fmt.Fprintln(out, renderAssignment(assignment))
				if input.DryRun {
					fmt.Fprintln(out, "Dry run: nothing written")
				} else {
					fmt.Fprintf(out, "%d issues updated\n", assignment.Len())
				}
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&input.ReferenceID, "reference", 0, "Reference issue ID (0 = first issue in chronological order)")
	cmd.Flags().IntVar(&input.Volume, "volume", 1, "Volume of the reference issue")
	cmd.Flags().StringVar(&idsFlag, "ids", "", "Comma separated issue IDs to restrict the run to")
	cmd.Flags().BoolVar(&input.DryRun, "dry-run", false, "Compute the volumes without writing them")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func renderAssignment(assignment periodical.Assignment) string {
	rows := make([][]string, 0, len(assignment))
	for _, volume := range assignment.Volumes() {
		ids := slice.Map(assignment[volume], func(id int64) string {
			return strconv.FormatInt(id, 10)
		})
		rows = append(rows, []string{
			strconv.Itoa(volume),
			strconv.Itoa(len(ids)),
			strings.Join(ids, ", "),
		})
	}
	return renderTable([]string{"Volume", "Issues", "IDs"}, rows, []columnAlignment{alignRight, alignRight, alignLeft})
}
