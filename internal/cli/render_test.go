package cli

import (
	"testing"

	"github.com/lanekit/lanekit/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,png,json", []string{"svg", "png", "json"}},
		{"png only", "png", []string{"png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("parseFormats(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestRenderValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"valid svg", []string{"svg"}, false},
		{"valid png", []string{"png"}, false},
		{"valid json", []string{"json"}, false},
		{"valid multiple", []string{"svg", "png", "json"}, false},
		{"invalid format", []string{"pdf"}, true},
		{"mixed valid invalid", []string{"svg", "pdf"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pipeline.ValidateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"no output strips input extension", "", "roadmap.yaml", "roadmap"},
		{"no output with path", "", "docs/plan.toml", "docs/plan"},
		{"output with format extension", "out.svg", "roadmap.yaml", "out"},
		{"output with png extension", "charts/q3.png", "roadmap.yaml", "charts/q3"},
		{"output with unrelated extension kept", "out.chart", "roadmap.yaml", "out.chart"},
		{"output without extension kept", "out", "roadmap.yaml", "out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestPipelineDefaults(t *testing.T) {
	if pipeline.DefaultScale != 2.0 {
		t.Errorf("pipeline.DefaultScale = %v, want 2.0", pipeline.DefaultScale)
	}
	if pipeline.DefaultGroupGap != 0.35 {
		t.Errorf("pipeline.DefaultGroupGap = %v, want 0.35", pipeline.DefaultGroupGap)
	}
	if pipeline.DefaultMinRows != 1 {
		t.Errorf("pipeline.DefaultMinRows = %v, want 1", pipeline.DefaultMinRows)
	}
}

func TestValidFormatsMap(t *testing.T) {
	for _, format := range []string{"svg", "png", "json"} {
		if !pipeline.ValidFormats[format] {
			t.Errorf("ValidFormats[%q] = false, want true", format)
		}
	}
	if pipeline.ValidFormats["pdf"] {
		t.Error("ValidFormats[pdf] should be false")
	}
}
