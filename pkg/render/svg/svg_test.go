package svg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lanekit/lanekit/pkg/chart"
	"github.com/lanekit/lanekit/pkg/roadmap"
)

func buildChart(t *testing.T) *chart.Chart {
	t.Helper()
	settings := roadmap.Settings{
		Title:    "Q1 Plan",
		Subtitle: "Engineering",
		Start:    roadmap.Date(2026, 1, 1),
		End:      roadmap.Date(2026, 6, 30),
	}
	workstreams := []roadmap.Workstream{{Name: "eng"}}
	tasks := []roadmap.Task{
		{ID: "t1", Workstream: "eng", Title: "API v2",
			Start: roadmap.Date(2026, 2, 1), End: roadmap.Date(2026, 3, 15)},
		{ID: "m1", Workstream: "eng", Title: "GA", Type: roadmap.TypeMilestone,
			Hyperlink: "https://example.com/ga",
			Start:     roadmap.Date(2026, 4, 1), End: roadmap.Date(2026, 4, 1)},
	}
	c, err := chart.Build(settings, workstreams, tasks, chart.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestRenderStructure(t *testing.T) {
	out := string(Render(buildChart(t)))

	for _, want := range []string{
		"<svg xmlns=",
		"</svg>",
		"Q1 Plan",
		"Engineering",
		"API v2",
		"<polygon",                          // milestone diamond
		`xlink:href="https://example.com/ga"`, // hyperlink wraps the milestone
		"eng", // workstream label
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderEscapesMarkup(t *testing.T) {
	c := buildChart(t)
	c.Title = `<script>alert("x")</script> & more`
	out := Render(c)
	if bytes.Contains(out, []byte("<script>")) {
		t.Error("unescaped markup in output")
	}
	if !bytes.Contains(out, []byte("&lt;script&gt;")) {
		t.Error("expected escaped title text")
	}
}

func TestFitLabel(t *testing.T) {
	if got := fitLabel("short", 500, 10); got != "short" {
		t.Errorf("wide box = %q, want untruncated", got)
	}
	if got := fitLabel("a very long task title here", 40, 10); !strings.HasSuffix(got, "…") {
		t.Errorf("narrow box = %q, want ellipsis", got)
	}
	if got := fitLabel("anything", 0, 10); got != "" {
		t.Errorf("zero width = %q, want empty", got)
	}
}
