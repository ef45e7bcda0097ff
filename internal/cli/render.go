package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lanekit/lanekit/pkg/errors"
	"github.com/lanekit/lanekit/pkg/io"
	"github.com/lanekit/lanekit/pkg/pipeline"
	"github.com/lanekit/lanekit/pkg/roadmap"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output            string   // output file path (or base path for multiple formats)
	formats           []string // output formats: "svg", "png", "json"
	scale             float64  // raster supersampling factor for PNG
	allowTouching     bool     // tasks sharing a boundary day may share a sub-lane
	groupGap          float64  // vertical gap between workstream bands, in row units
	minRows           int      // minimum rows per workstream band
	includeOutOfRange bool     // draw tasks entirely outside the date range
	noCache           bool     // disable the file cache
	refresh           bool     // bypass cache reads
}

// renderCommand creates the render command for generating chart artifacts.
// With no file argument it offers an interactive picker over the roadmap
// documents found in the working directory.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		scale:    pipeline.DefaultScale,
		groupGap: pipeline.DefaultGroupGap,
		minRows:  pipeline.DefaultMinRows,
	}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a roadmap document to SVG, PNG, or chart JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if opts.output != "" {
				if err := errors.ValidateOutputPath(opts.output); err != nil {
					return err
				}
			}

			input := ""
			if len(args) == 1 {
				input = args[0]
			} else {
				picked, err := pickDocument()
				if err != nil {
					return err
				}
				input = picked
			}
			return c.runRender(cmd.Context(), input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG supersampling factor")
	cmd.Flags().BoolVar(&opts.allowTouching, "allow-touching", false, "let tasks sharing a boundary day share a sub-lane")
	cmd.Flags().Float64Var(&opts.groupGap, "group-gap", opts.groupGap, "gap between workstream bands, in row units")
	cmd.Flags().IntVar(&opts.minRows, "min-rows", opts.minRows, "minimum rows per workstream band")
	cmd.Flags().BoolVar(&opts.includeOutOfRange, "include-out-of-range", false, "draw tasks entirely outside the chart range")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache reads (results are still cached)")

	return cmd
}

// runRender executes the full pipeline for input and writes one file per
// requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	p := newProgress(c.Logger)
	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s", input))
	spin.Start()

	result, err := runner.Execute(ctx, pipeline.Options{
		Path:              input,
		AllowTouching:     opts.allowTouching,
		GroupGap:          opts.groupGap,
		MinRows:           opts.minRows,
		IncludeOutOfRange: opts.includeOutOfRange,
		Formats:           opts.formats,
		Scale:             opts.scale,
		Refresh:           opts.refresh,
		Logger:            c.Logger,
	})
	if err != nil {
		spin.StopWithError(fmt.Sprintf("Render failed: %v", err))
		return err
	}
	spin.Stop()
	p.done(fmt.Sprintf("Rendered %d format(s)", len(opts.formats)))

	printChartWarnings(result.Warnings)

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := opts.output
		if path == "" || len(opts.formats) > 1 {
			path = base + "." + format
		}
		if err := io.ExportArtifact(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}

	printSuccess("Rendered %s", result.Chart.Title)
	printStats(result.Stats.TaskCount, result.Stats.BandCount, result.CacheInfo.RenderHit)
	return nil
}

// printChartWarnings lists data-quality warnings grouped by category in a
// stable order.
func printChartWarnings(warns roadmap.Warnings) {
	if warns.Empty() {
		return
	}
	categories := make([]string, 0, len(warns))
	for cat := range warns {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	for _, cat := range categories {
		for _, msg := range warns[cat] {
			printWarning("%s: %s", cat, msg)
		}
	}
}

// validFormats is the set of format extensions stripped by basePath.
var validFormats = map[string]bool{"svg": true, "png": true, "json": true}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, .json), it strips that
// extension so multiple formats can share the base.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
