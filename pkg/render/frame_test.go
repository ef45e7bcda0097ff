package render

import (
	"math"
	"testing"

	"github.com/lanekit/lanekit/pkg/chart"
	"github.com/lanekit/lanekit/pkg/roadmap"
)

func TestFrameMapping(t *testing.T) {
	settings := roadmap.Settings{
		Title:    "r",
		Start:    roadmap.Date(2026, 1, 1),
		End:      roadmap.Date(2026, 12, 31),
		PageSize: roadmap.PageA4,
	}
	c, err := chart.Build(settings, []roadmap.Workstream{{Name: "eng"}}, nil, chart.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	f := NewFrame(c)
	if f.W != A4Width || f.H != A4Height {
		t.Errorf("page = %vx%v, want A4", f.W, f.H)
	}
	// Range start maps to the chart's left edge.
	if got := f.X(c.X0); math.Abs(got-f.ChartX0) > 1e-9 {
		t.Errorf("X(start) = %v, want %v", got, f.ChartX0)
	}
	// Range end maps to the right edge of the plotting area.
	if got := f.X(c.X1); math.Abs(got-(f.ChartX0+f.ChartW)) > 1e-6 {
		t.Errorf("X(end) = %v, want %v", got, f.ChartX0+f.ChartW)
	}
	// Row zero sits one header height below the chart area top.
	if got := f.Y(0); got <= f.ChartY0 {
		t.Errorf("Y(0) = %v, want below chart top %v", got, f.ChartY0)
	}
	if got := f.HeaderTop(); math.Abs(got-f.ChartY0) > 1e-9 {
		t.Errorf("HeaderTop = %v, want %v", got, f.ChartY0)
	}
}
