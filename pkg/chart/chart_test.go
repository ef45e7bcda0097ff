package chart

import (
	"math"
	"testing"
	"time"

	"github.com/lanekit/lanekit/pkg/errors"
	"github.com/lanekit/lanekit/pkg/roadmap"
	"github.com/lanekit/lanekit/pkg/roadmap/timeline"
)

func testSettings() roadmap.Settings {
	return roadmap.Settings{
		Title: "Platform Roadmap",
		Start: roadmap.Date(2026, 1, 1),
		End:   roadmap.Date(2026, 6, 30),
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildBasic(t *testing.T) {
	workstreams := []roadmap.Workstream{{Name: "eng"}, {Name: "design"}}
	tasks := []roadmap.Task{
		{ID: "t1", Workstream: "eng", Title: "API v2",
			Start: roadmap.Date(2026, 2, 1), End: roadmap.Date(2026, 3, 15)},
		{ID: "t2", Workstream: "design", Title: "Brand refresh",
			Start: roadmap.Date(2026, 1, 10), End: roadmap.Date(2026, 2, 10)},
	}

	c, err := Build(testSettings(), roadmap.SortWorkstreams(workstreams), tasks, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if len(c.Bands) != 2 {
		t.Fatalf("band count = %d, want 2", len(c.Bands))
	}
	if c.Bands[0].Workstream != "design" || c.Bands[1].Workstream != "eng" {
		t.Errorf("band order = [%s, %s], want alphabetical", c.Bands[0].Workstream, c.Bands[1].Workstream)
	}
	if len(c.Blocks) != 2 {
		t.Fatalf("block count = %d, want 2", len(c.Blocks))
	}
	if c.Header.Mode != timeline.ModeMonths {
		t.Errorf("header mode = %q, want months for a six-month range", c.Header.Mode)
	}
	if c.Statuses != nil {
		t.Errorf("single-status chart should carry no legend, got %v", c.Statuses)
	}
	for _, b := range c.Blocks {
		if b.Color == "" {
			t.Errorf("block %s got no color from the palette", b.TaskID)
		}
		if !almostEqual(b.Y1-b.Y0, 1.0-2*RowPadding) {
			t.Errorf("block %s height = %v, want padded row", b.TaskID, b.Y1-b.Y0)
		}
	}
}

func TestBuildClampsAndHides(t *testing.T) {
	workstreams := []roadmap.Workstream{{Name: "eng"}}
	tasks := []roadmap.Task{
		{ID: "inside", Workstream: "eng", Title: "ok",
			Start: roadmap.Date(2026, 2, 1), End: roadmap.Date(2026, 2, 20)},
		{ID: "partial", Workstream: "eng", Title: "spills over",
			Start: roadmap.Date(2025, 12, 1), End: roadmap.Date(2026, 1, 20)},
		{ID: "outside", Workstream: "eng", Title: "gone",
			Start: roadmap.Date(2027, 1, 1), End: roadmap.Date(2027, 2, 1)},
	}

	c, err := Build(testSettings(), workstreams, tasks, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if len(c.Blocks) != 2 {
		t.Fatalf("block count = %d, want 2 (out-of-range hidden)", len(c.Blocks))
	}
	if len(c.Hidden) != 1 || c.Hidden[0] != "outside" {
		t.Errorf("hidden = %v, want [outside]", c.Hidden)
	}
	if len(c.Warnings[roadmap.WarnOutOfRange]) != 1 {
		t.Errorf("out-of-range warnings = %v", c.Warnings[roadmap.WarnOutOfRange])
	}
	if len(c.Warnings[roadmap.WarnClamped]) != 1 {
		t.Errorf("clamped warnings = %v", c.Warnings[roadmap.WarnClamped])
	}

	var partial Block
	for _, b := range c.Blocks {
		if b.TaskID == "partial" {
			partial = b
		}
	}
	if !partial.Clamped {
		t.Error("partially out-of-range block not marked clamped")
	}
	// Clamped start renders at the range edge.
	if !almostEqual(partial.X0, c.X0) {
		t.Errorf("clamped block x0 = %v, want range start %v", partial.X0, c.X0)
	}
}

func TestBuildIncludeOutOfRange(t *testing.T) {
	workstreams := []roadmap.Workstream{{Name: "eng"}}
	tasks := []roadmap.Task{
		{ID: "outside", Workstream: "eng", Title: "gone",
			Start: roadmap.Date(2027, 1, 1), End: roadmap.Date(2027, 2, 1)},
	}

	opts := DefaultOptions()
	opts.IncludeOutOfRange = true
	c, err := Build(testSettings(), workstreams, tasks, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Blocks) != 1 {
		t.Errorf("block count = %d, want 1 when including out-of-range", len(c.Blocks))
	}
	if len(c.Hidden) != 0 {
		t.Errorf("hidden = %v, want none", c.Hidden)
	}
}

func TestBuildMilestoneAndMinWidth(t *testing.T) {
	workstreams := []roadmap.Workstream{{Name: "eng"}}
	tasks := []roadmap.Task{
		{ID: "launch", Workstream: "eng", Title: "GA", Type: roadmap.TypeMilestone,
			Start: roadmap.Date(2026, 3, 1), End: roadmap.Date(2026, 3, 1)},
		{ID: "short", Workstream: "eng", Title: "patch",
			Start: roadmap.Date(2026, 4, 1), End: roadmap.Date(2026, 4, 1)},
	}

	c, err := Build(testSettings(), workstreams, tasks, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Milestones) != 1 {
		t.Fatalf("milestone count = %d, want 1", len(c.Milestones))
	}
	m := c.Milestones[0]
	if !almostEqual(m.HalfW, MilestoneHalfWidth) {
		t.Errorf("milestone half width = %v, want %v", m.HalfW, MilestoneHalfWidth)
	}

	if len(c.Blocks) != 1 {
		t.Fatalf("block count = %d, want 1", len(c.Blocks))
	}
	// A one-day block spans a full day, above the minimum.
	if got := c.Blocks[0].X1 - c.Blocks[0].X0; !almostEqual(got, 1.0) {
		t.Errorf("one-day block width = %v, want 1.0", got)
	}
}

func TestBuildTodayLine(t *testing.T) {
	workstreams := []roadmap.Workstream{{Name: "eng"}}
	settings := testSettings()
	settings.ShowTodayLine = true

	opts := DefaultOptions()
	opts.Now = func() time.Time { return time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC) }

	c, err := Build(settings, workstreams, nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	if c.TodayX == nil {
		t.Fatal("today line missing while inside range")
	}

	// Outside the range the line is suppressed.
	opts.Now = func() time.Time { return time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC) }
	c, err = Build(settings, workstreams, nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	if c.TodayX != nil {
		t.Error("today line set while outside range")
	}

	// An explicit pinned date wins over the clock.
	pinned := roadmap.Date(2026, 2, 1)
	settings.TodayLineDate = &pinned
	c, err = Build(settings, workstreams, nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	if c.TodayX == nil {
		t.Fatal("pinned today line missing")
	}
}

func TestBuildLegendStatuses(t *testing.T) {
	workstreams := []roadmap.Workstream{{Name: "eng"}}
	tasks := []roadmap.Task{
		{ID: "a", Workstream: "eng", Title: "a", Status: roadmap.StatusDone,
			Start: roadmap.Date(2026, 1, 5), End: roadmap.Date(2026, 1, 20)},
		{ID: "b", Workstream: "eng", Title: "b", Status: roadmap.StatusRisk,
			Start: roadmap.Date(2026, 2, 5), End: roadmap.Date(2026, 2, 20)},
		{ID: "c", Workstream: "eng", Title: "c",
			Start: roadmap.Date(2026, 3, 5), End: roadmap.Date(2026, 3, 20)},
	}

	c, err := Build(testSettings(), workstreams, tasks, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{roadmap.StatusPlanned, roadmap.StatusRisk, roadmap.StatusDone}
	if len(c.Statuses) != len(want) {
		t.Fatalf("statuses = %v, want %v", c.Statuses, want)
	}
	for i := range want {
		if c.Statuses[i] != want[i] {
			t.Errorf("statuses[%d] = %q, want %q", i, c.Statuses[i], want[i])
		}
	}
}

func TestBuildRejectsInvertedRange(t *testing.T) {
	settings := testSettings()
	settings.Start, settings.End = settings.End, settings.Start
	_, err := Build(settings, nil, nil, DefaultOptions())
	if err == nil {
		t.Fatal("expected error for inverted range")
	}
	if !errors.Is(err, errors.ErrCodeInvalidRange) {
		t.Errorf("error code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidRange)
	}
}

func TestBuildSortsWorkstreams(t *testing.T) {
	// Unsorted input: declared order values out of sequence, names reversed.
	workstreams := []roadmap.Workstream{
		{Name: "zeta"},
		{Name: "alpha"},
		{Name: "pinned", Order: intPtr(1)},
	}
	c, err := Build(testSettings(), workstreams, nil, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	got := make([]string, len(c.Bands))
	for i, b := range c.Bands {
		got[i] = b.Workstream
	}
	want := []string{"pinned", "alpha", "zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("band order = %v, want %v", got, want)
		}
	}
	// The caller's slice keeps its original order.
	if workstreams[0].Name != "zeta" {
		t.Errorf("input slice mutated: first workstream = %q", workstreams[0].Name)
	}
}

func intPtr(v int) *int { return &v }

func TestMarshalRoundTrip(t *testing.T) {
	workstreams := []roadmap.Workstream{{Name: "eng"}}
	tasks := []roadmap.Task{
		{ID: "t1", Workstream: "eng", Title: "API v2",
			Start: roadmap.Date(2026, 2, 1), End: roadmap.Date(2026, 3, 15)},
	}
	c, err := Build(testSettings(), workstreams, tasks, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	data, err := c.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if back.Title != c.Title || len(back.Blocks) != len(c.Blocks) {
		t.Errorf("round trip lost data: title %q, %d blocks", back.Title, len(back.Blocks))
	}
}

func TestLightenHex(t *testing.T) {
	if got := LightenHex("#000000", 1.0); got != "#FFFFFF" {
		t.Errorf("full lighten = %q, want #FFFFFF", got)
	}
	if got := LightenHex("#FF0000", 0.0); got != "#FF0000" {
		t.Errorf("zero lighten = %q, want unchanged", got)
	}
	if got := LightenHex("not-a-color", 0.5); got != "not-a-color" {
		t.Errorf("bad input = %q, want passthrough", got)
	}
}
