// Package cache provides pluggable byte caches keyed by content hashes of
// roadmap inputs, so repeated renders of an unchanged document skip the
// expensive stages. Backends cover local CLI usage (files), hosted usage
// (Redis, MongoDB), and a null cache for tests and --no-cache runs.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte blobs with optional expiry. Implementations
// must be safe for concurrent use.
type Cache interface {
	// Get returns the cached data and whether the key was present. An
	// expired or corrupt entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default retention per entry kind. Charts are cheap to rebuild; rendered
// artifacts are the expensive stage and keep longer.
const (
	TTLChart    = 7 * 24 * time.Hour
	TTLArtifact = 30 * 24 * time.Hour
)

// ChartKeyOpts captures every input that changes the assembled chart, so
// the key misses whenever any of them does.
type ChartKeyOpts struct {
	TouchingCountsAsOverlap bool    `json:"touching"`
	GroupGap                float64 `json:"group_gap"`
	MinRows                 int     `json:"min_rows"`
	IncludeOutOfRange       bool    `json:"include_out_of_range"`
}

// ArtifactKeyOpts captures rendering inputs layered on top of a chart.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// ChartKey keys an assembled chart by the document content hash and
	// the assembly options.
	ChartKey(docHash string, opts ChartKeyOpts) string

	// ArtifactKey keys a rendered artifact by the chart hash and the
	// output options.
	ArtifactKey(chartHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ChartKey generates a key for chart caching.
func (k *DefaultKeyer) ChartKey(docHash string, opts ChartKeyOpts) string {
	return hashKey("chart", docHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(chartHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", chartHash, opts)
}

var _ Keyer = (*DefaultKeyer)(nil)
