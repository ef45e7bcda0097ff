package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lanekit/lanekit/pkg/errors"
	"github.com/lanekit/lanekit/pkg/io"
	"github.com/lanekit/lanekit/pkg/pipeline"
)

// layoutCommand creates the layout command, which assembles the chart and
// emits the intermediate JSON document instead of rendering pixels. The
// output round-trips into the render stage and is the format served by the
// HTTP API's json format.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output            string
		allowTouching     bool
		groupGap          float64
		minRows           int
		includeOutOfRange bool
		noCache           bool
	)

	cmd := &cobra.Command{
		Use:   "layout <file>",
		Short: "Emit the assembled chart as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" {
				if err := errors.ValidateOutputPath(output); err != nil {
					return err
				}
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := pipeline.Options{
				Path:              args[0],
				AllowTouching:     allowTouching,
				GroupGap:          groupGap,
				MinRows:           minRows,
				IncludeOutOfRange: includeOutOfRange,
				Logger:            c.Logger,
			}

			doc, warns, err := runner.Import(cmd.Context(), opts)
			if err != nil {
				return err
			}
			printChartWarnings(warns)

			chart, err := runner.Assemble(cmd.Context(), doc, opts)
			if err != nil {
				return err
			}
			printChartWarnings(chart.Warnings)

			data, err := chart.Marshal()
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Fprintln(os.Stdout, string(data))
				return nil
			}
			if err := io.ExportArtifact(output, data); err != nil {
				return err
			}
			printFile(output)
			printNextStep("Render", appName+" render "+args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write chart JSON to a file instead of stdout")
	cmd.Flags().BoolVar(&allowTouching, "allow-touching", false, "let tasks sharing a boundary day share a sub-lane")
	cmd.Flags().Float64Var(&groupGap, "group-gap", pipeline.DefaultGroupGap, "gap between workstream bands, in row units")
	cmd.Flags().IntVar(&minRows, "min-rows", pipeline.DefaultMinRows, "minimum rows per workstream band")
	cmd.Flags().BoolVar(&includeOutOfRange, "include-out-of-range", false, "draw tasks entirely outside the chart range")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
