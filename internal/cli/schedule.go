package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lanekit/lanekit/pkg/io"
	"github.com/lanekit/lanekit/pkg/roadmap"
	"github.com/lanekit/lanekit/pkg/roadmap/schedule"
)

// scheduleCommand creates the schedule command, which prints the sub-lane
// assignment for each task without rendering anything. Useful for checking
// how a document will pack before generating charts.
func (c *CLI) scheduleCommand() *cobra.Command {
	var allowTouching, check bool

	cmd := &cobra.Command{
		Use:   "schedule <file>",
		Short: "Print sub-lane assignments for a roadmap document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, warns, err := io.Import(args[0])
			if err != nil {
				return err
			}
			printChartWarnings(warns)

			opts := schedule.Options{TouchingCountsAsOverlap: !allowTouching}
			byWS := schedule.ByWorkstream(doc.Tasks, opts)

			if check {
				if err := schedule.CheckLanes(schedule.All(byWS), opts); err != nil {
					printError("Lane assignment invalid: %v", err)
					return err
				}
				printSuccess("Lane assignment valid")
			}

			names := make([]string, 0, len(byWS))
			for name := range byWS {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				tasks := byWS[name]
				fmt.Println(StyleTitle.Render(name) + StyleDim.Render(fmt.Sprintf("  (%d sub-lanes)", schedule.LaneCount(tasks))))
				for _, t := range tasks {
					lane := "-"
					if t.Sublane != nil {
						lane = fmt.Sprintf("%d", *t.Sublane)
					}
					printDetail("lane %s  %s → %s  %s", lane,
						roadmap.FormatDate(t.Start), roadmap.FormatDate(t.End), t.Title)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowTouching, "allow-touching", false, "let tasks sharing a boundary day share a sub-lane")
	cmd.Flags().BoolVar(&check, "check", false, "verify the assignment with the lane checker")

	return cmd
}
