package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lanekit/lanekit/pkg/cache"
	"github.com/lanekit/lanekit/pkg/chart"
	"github.com/lanekit/lanekit/pkg/errors"
	"github.com/lanekit/lanekit/pkg/io"
	"github.com/lanekit/lanekit/pkg/observability"
	"github.com/lanekit/lanekit/pkg/render/png"
	"github.com/lanekit/lanekit/pkg/render/svg"
	"github.com/lanekit/lanekit/pkg/roadmap"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete import → assemble → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Warnings:  make(roadmap.Warnings),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Import
	importStart := time.Now()
	observability.Pipeline().OnImportStart(ctx, opts.Path, opts.SourceFormat)
	doc, warns, err := r.Import(ctx, opts)
	result.Stats.ImportTime = time.Since(importStart)
	observability.Pipeline().OnImportComplete(ctx, opts.Path, opts.SourceFormat,
		taskCount(doc), result.Stats.ImportTime, err)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Warnings.Merge(warns)
	result.Stats.TaskCount = len(doc.Tasks)

	if docData, err := json.Marshal(doc); err == nil {
		result.DocHash = cache.Hash(docData)
	}

	r.Logger.Info("imported document",
		"workstreams", len(doc.Workstreams),
		"tasks", len(doc.Tasks),
		"duration", result.Stats.ImportTime)

	// Stage 2: Assemble
	assembleStart := time.Now()
	observability.Pipeline().OnAssembleStart(ctx, len(doc.Tasks))
	c, assembleHit, err := r.AssembleWithCacheInfo(ctx, doc, opts)
	result.Stats.AssembleTime = time.Since(assembleStart)
	observability.Pipeline().OnAssembleComplete(ctx, bandCount(c), result.Stats.AssembleTime, err)
	if err != nil {
		return nil, err
	}
	result.Chart = c
	result.Warnings.Merge(c.Warnings)
	result.Stats.BandCount = len(c.Bands)
	result.CacheInfo.AssembleHit = assembleHit

	if chartData, err := c.Marshal(); err == nil {
		result.ChartHash = cache.Hash(chartData)
	}

	r.Logger.Info("assembled chart",
		"bands", len(c.Bands),
		"blocks", len(c.Blocks),
		"milestones", len(c.Milestones),
		"duration", result.Stats.AssembleTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, c, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Import reads and validates the roadmap document named by opts.
func (r *Runner) Import(ctx context.Context, opts Options) (*roadmap.Document, roadmap.Warnings, error) {
	if err := opts.ValidateForImport(); err != nil {
		return nil, nil, err
	}
	if opts.Path != "" {
		return io.Import(opts.Path)
	}
	return io.Read(bytes.NewReader(opts.Source), io.Format(opts.SourceFormat))
}

// AssembleWithCacheInfo assembles the chart with caching and returns cache
// hit info. The document hash keys the cache together with every assembly
// option that changes the geometry.
func (r *Runner) AssembleWithCacheInfo(ctx context.Context, doc *roadmap.Document, opts Options) (*chart.Chart, bool, error) {
	opts.SetAssembleDefaults()
	r.applyLogger(&opts)

	docData, err := json.Marshal(doc)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize document for cache key")
	}
	cacheKey := r.Keyer.ChartKey(cache.Hash(docData), opts.ChartKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := chart.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "chart")
				return cached, true, nil
			}
			// Corrupt entry falls through to reassembly.
		}
		observability.Cache().OnCacheMiss(ctx, "chart")
	}

	c, err := chart.Build(doc.Settings, doc.Workstreams, doc.Tasks, opts.ChartOptions())
	if err != nil {
		return nil, false, err
	}

	if data, err := c.Marshal(); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLChart) == nil {
			observability.Cache().OnCacheSet(ctx, "chart", len(data))
		}
	}

	return c, false, nil
}

// Assemble is a convenience wrapper that calls AssembleWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Assemble(ctx context.Context, doc *roadmap.Document, opts Options) (*chart.Chart, error) {
	c, _, err := r.AssembleWithCacheInfo(ctx, doc, opts)
	return c, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, c *chart.Chart, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	chartData, err := c.Marshal()
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize chart for cache key")
	}
	chartHash := cache.Hash(chartData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		allCached := true
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(chartHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	// Render all formats
	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			rendered[format] = svg.Render(c)
		case FormatPNG:
			data, err := png.Render(c, png.WithScale(opts.Scale))
			if err != nil {
				return nil, false, errors.Wrap(errors.ErrCodeRenderFailed, err, "rasterizing png")
			}
			rendered[format] = data
		case FormatJSON:
			rendered[format] = chartData
		default:
			return nil, false, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
		}
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(chartHash, opts.ArtifactKeyOpts(format))
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact) == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, c *chart.Chart, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, c, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func taskCount(doc *roadmap.Document) int {
	if doc == nil {
		return 0
	}
	return len(doc.Tasks)
}

func bandCount(c *chart.Chart) int {
	if c == nil {
		return 0
	}
	return len(c.Bands)
}
