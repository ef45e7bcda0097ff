// Package pipeline provides the core rendering pipeline for Lanekit.
//
// This package implements the complete import → assemble → render pipeline
// that can be used by CLI and API components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Import: Read and validate a roadmap document (YAML, TOML, or JSON)
//  2. Assemble: Schedule tasks into sub-lanes and compute chart geometry
//  3. Render: Generate output in various formats (SVG, PNG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Path:    "roadmap.yaml",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Import only
//	doc, warns, err := runner.Import(ctx, opts)
//
//	// Assemble with an existing document
//	c, err := runner.Assemble(ctx, doc, opts)
//
//	// Render with an existing chart
//	artifacts, err := runner.Render(ctx, c, opts)
package pipeline

import (
	stdio "io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lanekit/lanekit/pkg/cache"
	"github.com/lanekit/lanekit/pkg/chart"
	"github.com/lanekit/lanekit/pkg/errors"
	"github.com/lanekit/lanekit/pkg/io"
	"github.com/lanekit/lanekit/pkg/roadmap"
	"github.com/lanekit/lanekit/pkg/roadmap/layout"
	"github.com/lanekit/lanekit/pkg/roadmap/schedule"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScale is the default raster supersampling factor for PNG output.
	DefaultScale = 2.0

	// DefaultGroupGap is the default vertical gap between workstream bands,
	// in row units.
	DefaultGroupGap = 0.35

	// DefaultMinRows is the minimum number of sub-lane rows a workstream
	// band occupies, keeping empty workstreams visible.
	DefaultMinRows = 1
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the rendering pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Import options. Path names a document file; Source carries inline
	// document bytes (Path wins when both are set). SourceFormat is
	// required with Source.
	Path         string `json:"path,omitempty"`
	Source       []byte `json:"source,omitempty"`
	SourceFormat string `json:"source_format,omitempty"`

	// Assemble options
	AllowTouching     bool    `json:"allow_touching,omitempty"` // tasks sharing a boundary day may share a sub-lane
	GroupGap          float64 `json:"group_gap,omitempty"`
	MinRows           int     `json:"min_rows,omitempty"`
	IncludeOutOfRange bool    `json:"include_out_of_range,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`

	// Refresh bypasses cache reads (results are still written back).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger      `json:"-"`
	Now    func() time.Time `json:"-"` // today-line clock override, mainly for tests

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the imported, validated roadmap document.
	Document *roadmap.Document

	// DocHash is the content hash of the document.
	DocHash string

	// Chart is the assembled chart geometry.
	Chart *chart.Chart

	// ChartHash is the content hash of the assembled chart.
	ChartHash string

	// Warnings collects data-quality findings from import and assembly.
	Warnings roadmap.Warnings

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TaskCount    int
	BandCount    int
	ImportTime   time.Duration
	AssembleTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	AssembleHit bool // Whether the assembled chart came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForImport(); err != nil {
		return err
	}
	o.SetAssembleDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForImport checks required fields for importing.
func (o *Options) ValidateForImport() error {
	if o.Path == "" && len(o.Source) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "path or source document is required")
	}
	if o.Path == "" {
		if o.SourceFormat == "" {
			return errors.New(errors.ErrCodeInvalidInput, "source_format is required with an inline document")
		}
		switch io.Format(o.SourceFormat) {
		case io.FormatYAML, io.FormatTOML, io.FormatJSON:
		default:
			return errors.New(errors.ErrCodeInvalidFormat,
				"invalid source_format: %q (must be one of: yaml, toml, json)", o.SourceFormat)
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(stdio.Discard, log.Options{})
	}
	return nil
}

// SetAssembleDefaults sets default values for chart assembly.
func (o *Options) SetAssembleDefaults() {
	if o.GroupGap == 0 {
		o.GroupGap = DefaultGroupGap
	}
	if o.MinRows == 0 {
		o.MinRows = DefaultMinRows
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(stdio.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(stdio.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// ChartOptions returns the chart assembly options derived from o.
func (o *Options) ChartOptions() chart.Options {
	o.SetAssembleDefaults()
	return chart.Options{
		Schedule: schedule.Options{TouchingCountsAsOverlap: !o.AllowTouching},
		Layout:   layout.Options{GroupGap: o.GroupGap, MinRows: o.MinRows},

		IncludeOutOfRange: o.IncludeOutOfRange,
		Now:               o.Now,
	}
}

// ChartKeyOpts returns cache key options for chart assembly.
func (o *Options) ChartKeyOpts() cache.ChartKeyOpts {
	o.SetAssembleDefaults()
	return cache.ChartKeyOpts{
		TouchingCountsAsOverlap: !o.AllowTouching,
		GroupGap:                o.GroupGap,
		MinRows:                 o.MinRows,
		IncludeOutOfRange:       o.IncludeOutOfRange,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Scale:  o.Scale,
	}
}
