package roadmap

import (
	"testing"

	"github.com/lanekit/lanekit/pkg/errors"
)

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty is auto", "", "", false},
		{"auto keyword", "Auto", "", false},
		{"friendly name", "blue", "#1F77B4", false},
		{"mixed case", "Sky Blue", "#AEC7E8", false},
		{"underscore separator", "sky_blue", "#AEC7E8", false},
		{"dash separator", "SKY-BLUE", "#AEC7E8", false},
		{"legacy synonym", "primary", "#1F77B4", false},
		{"hex with hash", "#a1b2c3", "#A1B2C3", false},
		{"hex without hash", "A1B2C3", "#A1B2C3", false},
		{"padded input", "  green  ", "#2CA02C", false},
		{"unknown name", "chartreuse", "", true},
		{"short hex", "#FFF", "", true},
		{"bad hex digits", "#GGGGGG", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidColor) {
					t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidColor)
				}
				return
			}
			if got != tt.want {
				t.Errorf("NormalizeColor(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPickWorkstreamColors(t *testing.T) {
	workstreams := []Workstream{
		{Name: "Platform"},
		{Name: "Mobile", Color: "#112233"},
		{Name: "Data"},
	}

	colors := PickWorkstreamColors(workstreams, nil)

	if colors["Mobile"] != "#112233" {
		t.Errorf("declared color = %q, want #112233", colors["Mobile"])
	}
	// Declared colors do not consume palette slots.
	if colors["Platform"] != DefaultPalette[0] {
		t.Errorf("Platform = %q, want %q", colors["Platform"], DefaultPalette[0])
	}
	if colors["Data"] != DefaultPalette[1] {
		t.Errorf("Data = %q, want %q", colors["Data"], DefaultPalette[1])
	}
}

func TestPickWorkstreamColorsPaletteWraps(t *testing.T) {
	workstreams := []Workstream{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	palette := []string{"#000001", "#000002"}

	colors := PickWorkstreamColors(workstreams, palette)

	if colors["c"] != "#000001" {
		t.Errorf("palette should wrap, got %q", colors["c"])
	}
}
