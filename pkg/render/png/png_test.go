package png

import (
	"bytes"
	"testing"

	"github.com/lanekit/lanekit/pkg/chart"
	"github.com/lanekit/lanekit/pkg/roadmap"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderProducesPNG(t *testing.T) {
	settings := roadmap.Settings{
		Title: "Q1 Plan",
		Start: roadmap.Date(2026, 1, 1),
		End:   roadmap.Date(2026, 3, 31),
	}
	workstreams := []roadmap.Workstream{{Name: "eng"}}
	tasks := []roadmap.Task{
		{ID: "t1", Workstream: "eng", Title: "API v2",
			Start: roadmap.Date(2026, 1, 15), End: roadmap.Date(2026, 2, 15)},
	}
	c, err := chart.Build(settings, workstreams, tasks, chart.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	out, err := Render(c, WithScale(1.0))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, pngMagic) {
		t.Error("output is not a PNG")
	}
}
