package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lanekit/lanekit/pkg/cache"
	"github.com/lanekit/lanekit/pkg/roadmap"
)

const testDoc = `
settings:
  title: Pipeline Test
  start_date: "2026-01-01"
  end_date: "2026-06-30"
workstreams:
  - name: Platform
  - name: Mobile
tasks:
  - id: auth
    workstream: Platform
    title: Auth rollout
    start_date: "2026-01-05"
    end_date: "2026-02-13"
  - id: beta
    workstream: Mobile
    title: App beta
    start_date: "2026-03-02"
    end_date: "2026-04-10"
    status: in_progress
`

func testOptions() Options {
	return Options{
		Source:       []byte(testDoc),
		SourceFormat: "yaml",
		Formats:      []string{FormatSVG, FormatJSON},
		Now:          func() time.Time { return roadmap.Date(2026, 2, 1) },
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Path: "plan.yaml"}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("Valid options should pass: %v", err)
	}

	if opts.GroupGap != DefaultGroupGap {
		t.Errorf("GroupGap should be %v, got %v", DefaultGroupGap, opts.GroupGap)
	}
	if opts.MinRows != DefaultMinRows {
		t.Errorf("MinRows should be %d, got %d", DefaultMinRows, opts.MinRows)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %v, got %v", DefaultScale, opts.Scale)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should default to [svg], got %v", opts.Formats)
	}
}

func TestOptionsValidateForImport(t *testing.T) {
	// Missing path and source
	opts := Options{}
	if err := opts.ValidateForImport(); err == nil {
		t.Error("Missing path/source should fail")
	}

	// Source without format
	opts = Options{Source: []byte("settings: {}")}
	if err := opts.ValidateForImport(); err == nil {
		t.Error("Source without source_format should fail")
	}

	// Bad source format
	opts = Options{Source: []byte("{}"), SourceFormat: "xml"}
	if err := opts.ValidateForImport(); err == nil {
		t.Error("Unknown source_format should fail")
	}

	// Valid with inline source
	opts = Options{Source: []byte("{}"), SourceFormat: "json"}
	if err := opts.ValidateForImport(); err != nil {
		t.Errorf("Inline source should pass: %v", err)
	}
}

func TestOptionsKeyDerivation(t *testing.T) {
	opts := Options{Path: "plan.yaml", AllowTouching: true, IncludeOutOfRange: true}
	opts.SetAssembleDefaults()

	chartOpts := opts.ChartKeyOpts()
	if chartOpts.TouchingCountsAsOverlap {
		t.Error("AllowTouching should invert TouchingCountsAsOverlap")
	}
	if !chartOpts.IncludeOutOfRange {
		t.Error("IncludeOutOfRange should carry through")
	}
	if chartOpts.GroupGap != DefaultGroupGap {
		t.Errorf("GroupGap = %v", chartOpts.GroupGap)
	}

	artOpts := opts.ArtifactKeyOpts(FormatPNG)
	if artOpts.Format != FormatPNG {
		t.Errorf("Format = %q", artOpts.Format)
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), testOptions())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.TaskCount != 2 {
		t.Errorf("TaskCount = %d", result.Stats.TaskCount)
	}
	if result.Stats.BandCount != 2 {
		t.Errorf("BandCount = %d", result.Stats.BandCount)
	}
	if result.DocHash == "" || result.ChartHash == "" {
		t.Error("hashes should be computed")
	}

	svgOut, ok := result.Artifacts[FormatSVG]
	if !ok || !strings.Contains(string(svgOut), "Auth rollout") {
		t.Error("svg artifact missing or incomplete")
	}
	jsonOut, ok := result.Artifacts[FormatJSON]
	if !ok || !strings.Contains(string(jsonOut), `"task_id": "auth"`) {
		t.Error("json artifact missing or incomplete")
	}

	// NullCache never hits.
	if result.CacheInfo.AssembleHit || result.CacheInfo.RenderHit {
		t.Error("null cache should never report hits")
	}
}

func TestExecuteCaching(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	ctx := context.Background()

	first, err := runner.Execute(ctx, testOptions())
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.AssembleHit || first.CacheInfo.RenderHit {
		t.Error("first run should not hit cache")
	}

	second, err := runner.Execute(ctx, testOptions())
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.AssembleHit {
		t.Error("second run should hit the chart cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the artifact cache")
	}
	if string(second.Artifacts[FormatSVG]) != string(first.Artifacts[FormatSVG]) {
		t.Error("cached artifact should match the original")
	}

	// Refresh bypasses cache reads.
	opts := testOptions()
	opts.Refresh = true
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if third.CacheInfo.AssembleHit || third.CacheInfo.RenderHit {
		t.Error("refresh run should bypass the cache")
	}
}

func TestExecuteInvalidDocument(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	opts := testOptions()
	opts.Source = []byte("settings: [")
	if _, err := runner.Execute(context.Background(), opts); err == nil {
		t.Error("malformed document should fail")
	}

	opts = testOptions()
	opts.Formats = []string{"pdf"}
	if _, err := runner.Execute(context.Background(), opts); err == nil {
		t.Error("unsupported format should fail")
	}
}

func TestExecuteWarningsPropagate(t *testing.T) {
	doc := strings.Replace(testDoc, "workstream: Mobile", "workstream: Ghost", 1)
	opts := testOptions()
	opts.Source = []byte(doc)

	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(result.Warnings[roadmap.WarnUnknownWorkstream]) != 1 {
		t.Errorf("warnings = %v", result.Warnings)
	}
}
