// Package chart assembles a renderer-neutral roadmap document. It runs the
// scheduler and layout engine, clamps tasks to the configured date range,
// resolves colors, and emits abstract geometry (blocks, milestones, header
// segments, today line) that the svg and png sinks draw without any
// further domain logic.
package chart

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/lanekit/lanekit/pkg/errors"
	"github.com/lanekit/lanekit/pkg/roadmap"
	"github.com/lanekit/lanekit/pkg/roadmap/layout"
	"github.com/lanekit/lanekit/pkg/roadmap/schedule"
	"github.com/lanekit/lanekit/pkg/roadmap/timeline"
)

// Geometry constants shared by every renderer, in row/day units.
const (
	// RowPadding is the vertical inset of a block within its row.
	RowPadding = 0.12
	// MinBlockWidth keeps very short tasks visible.
	MinBlockWidth = 0.8
	// MilestoneHalfWidth is half the diamond width in day units.
	MilestoneHalfWidth = 0.35
	// MilestoneHalfHeightFrac is the diamond half-height as a fraction of
	// block height.
	MilestoneHalfHeightFrac = 0.45
)

// Options configures chart assembly.
type Options struct {
	Schedule schedule.Options
	Layout   layout.Options

	// IncludeOutOfRange renders tasks entirely outside the date range
	// instead of hiding them. Either way a warning is recorded.
	IncludeOutOfRange bool

	// Palette overrides the default workstream color palette.
	Palette []string

	// Now supplies the current time for the today line when the settings
	// carry no explicit date. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns standard assembly options.
func DefaultOptions() Options {
	return Options{
		Schedule: schedule.DefaultOptions(),
		Layout:   layout.DefaultOptions(),
	}
}

// Block is one task bar in abstract coordinates: X in day units from the
// epoch, Y in row units growing downward.
type Block struct {
	TaskID      string  `json:"task_id" bson:"task_id"`
	Title       string  `json:"title" bson:"title"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
	Workstream  string  `json:"workstream" bson:"workstream"`
	Sublane     int     `json:"sublane" bson:"sublane"`
	X0          float64 `json:"x0" bson:"x0"`
	X1          float64 `json:"x1" bson:"x1"`
	Y0          float64 `json:"y0" bson:"y0"`
	Y1          float64 `json:"y1" bson:"y1"`
	Color       string  `json:"color" bson:"color"`
	Status      string  `json:"status" bson:"status"`
	Hyperlink   string  `json:"hyperlink,omitempty" bson:"hyperlink,omitempty"`
	Clamped     bool    `json:"clamped,omitempty" bson:"clamped,omitempty"`
}

// Milestone is a diamond centered on its start date.
type Milestone struct {
	TaskID     string  `json:"task_id" bson:"task_id"`
	Title      string  `json:"title" bson:"title"`
	Workstream string  `json:"workstream" bson:"workstream"`
	Sublane    int     `json:"sublane" bson:"sublane"`
	X          float64 `json:"x" bson:"x"`
	CY         float64 `json:"cy" bson:"cy"`
	HalfW      float64 `json:"half_w" bson:"half_w"`
	HalfH      float64 `json:"half_h" bson:"half_h"`
	Color      string  `json:"color" bson:"color"`
	Status     string  `json:"status" bson:"status"`
	Hyperlink  string  `json:"hyperlink,omitempty" bson:"hyperlink,omitempty"`
}

// Band mirrors the layout band with its resolved accent color.
type Band struct {
	Workstream string  `json:"workstream" bson:"workstream"`
	Y0         float64 `json:"y0" bson:"y0"`
	Y1         float64 `json:"y1" bson:"y1"`
	Color      string  `json:"color" bson:"color"`
}

// Chart is the complete renderer-neutral document. X coordinates are day
// units from the epoch, Y coordinates row units; the header band occupies
// negative Y above row zero.
type Chart struct {
	Title           string `json:"title" bson:"title"`
	Subtitle        string `json:"subtitle,omitempty" bson:"subtitle,omitempty"`
	Confidentiality string `json:"confidentiality,omitempty" bson:"confidentiality,omitempty"`

	Start time.Time `json:"start" bson:"start"`
	End   time.Time `json:"end" bson:"end"`
	X0    float64   `json:"x0" bson:"x0"`
	X1    float64   `json:"x1" bson:"x1"`

	PageSize string `json:"page_size" bson:"page_size"`

	Header      *timeline.Header `json:"header" bson:"header"`
	Bands       []Band           `json:"bands" bson:"bands"`
	TotalHeight float64          `json:"total_height" bson:"total_height"`

	Blocks     []Block     `json:"blocks" bson:"blocks"`
	Milestones []Milestone `json:"milestones" bson:"milestones"`

	// TodayX is set when the today line is enabled and falls inside the
	// range.
	TodayX *float64 `json:"today_x,omitempty" bson:"today_x,omitempty"`

	// Statuses lists the distinct task statuses present, in legend order.
	// Renderers draw a legend only when more than one is present.
	Statuses []string `json:"statuses" bson:"statuses"`

	Warnings roadmap.Warnings `json:"warnings,omitempty" bson:"warnings,omitempty"`
	// Hidden lists task ids excluded as fully out of range.
	Hidden []string `json:"hidden,omitempty" bson:"hidden,omitempty"`
}

// Height returns the full drawing height in row units, header included.
func (c *Chart) Height() float64 {
	return c.TotalHeight + c.Header.Height()
}

// Width returns the drawing width in day units.
func (c *Chart) Width() float64 { return c.X1 - c.X0 }

// legendOrder positions statuses in the legend.
var legendOrder = map[string]int{
	roadmap.StatusPlanned:    0,
	roadmap.StatusInProgress: 1,
	roadmap.StatusRisk:       2,
	roadmap.StatusDone:       3,
}

// Build assembles a chart from validated entities. Workstreams are sorted
// into display order internally (order, then name), so callers may pass
// them in any order; tasks need no particular order. Neither slice is
// mutated.
func Build(settings roadmap.Settings, workstreams []roadmap.Workstream, tasks []roadmap.Task, opts Options) (*Chart, error) {
	if settings.End.Before(settings.Start) {
		return nil, errors.New(errors.ErrCodeInvalidRange,
			"settings range ends %s before it starts %s",
			roadmap.FormatDate(settings.End), roadmap.FormatDate(settings.Start))
	}
	workstreams = roadmap.SortWorkstreams(workstreams)

	c := &Chart{
		Title:           settings.Title,
		Subtitle:        settings.Subtitle,
		Confidentiality: settings.ConfidentialityLabel,
		Start:           settings.Start,
		End:             settings.End,
		PageSize:        settings.PageSize,
		Warnings:        make(roadmap.Warnings),
	}
	c.X0, c.X1 = layout.BlockSpan(settings.Start, settings.End)
	c.Header = timeline.Build(settings.Start, settings.End, settings.WeekStartDay)

	// Clamp tasks to the range; fully out-of-range tasks are hidden
	// unless explicitly included.
	visible := make([]roadmap.Task, 0, len(tasks))
	clamped := make(map[string]bool)
	for _, t := range tasks {
		if t.End.Before(settings.Start) || t.Start.After(settings.End) {
			c.Warnings.Add(roadmap.WarnOutOfRange,
				"%s: %q is outside the overall date range", t.ID, t.Title)
			if opts.IncludeOutOfRange {
				visible = append(visible, t)
			} else {
				c.Hidden = append(c.Hidden, t.ID)
			}
			continue
		}

		clampedStart, clampedEnd := t.Start, t.End
		if clampedStart.Before(settings.Start) {
			clampedStart = settings.Start
		}
		if clampedEnd.After(settings.End) {
			clampedEnd = settings.End
		}
		if !clampedStart.Equal(t.Start) || !clampedEnd.Equal(t.End) {
			c.Warnings.Add(roadmap.WarnClamped,
				"%s: %q is partially outside range and was clamped", t.ID, t.Title)
			clamped[t.ID] = true
			t = t.WithDates(clampedStart, clampedEnd)
		}
		visible = append(visible, t)
	}
	slices.Sort(c.Hidden)

	scheduled := schedule.All(schedule.ByWorkstream(visible, opts.Schedule))
	geom := layout.Compute(workstreams, scheduled, opts.Layout)
	c.TotalHeight = geom.TotalHeight

	palette := opts.Palette
	if len(palette) == 0 {
		palette = roadmap.DefaultPalette
	}
	colors := roadmap.PickWorkstreamColors(workstreams, palette)

	for _, b := range geom.Bands {
		c.Bands = append(c.Bands, Band{
			Workstream: b.Workstream,
			Y0:         b.Y0,
			Y1:         b.Y1,
			Color:      colors[b.Workstream],
		})
	}

	statuses := make(map[string]bool)
	for _, t := range scheduled {
		row, ok := geom.Row(t.Workstream, *t.Sublane)
		if !ok {
			// Undeclared workstream; validation reported it upstream.
			continue
		}
		y0 := row.Y0 + RowPadding
		y1 := row.Y1 - RowPadding

		face := t.Color
		if face == "" {
			face = colors[t.Workstream]
		}
		status := t.EffectiveStatus()
		statuses[status] = true

		if t.IsMilestone() {
			x := layout.DateToX(t.Start)
			c.Milestones = append(c.Milestones, Milestone{
				TaskID:     t.ID,
				Title:      t.Title,
				Workstream: t.Workstream,
				Sublane:    *t.Sublane,
				X:          x,
				CY:         (y0 + y1) / 2,
				HalfW:      MilestoneHalfWidth,
				HalfH:      (y1 - y0) * MilestoneHalfHeightFrac,
				Color:      face,
				Status:     status,
				Hyperlink:  t.Hyperlink,
			})
			continue
		}

		x0, x1 := layout.BlockSpan(t.Start, t.End)
		if x1-x0 < MinBlockWidth {
			x1 = x0 + MinBlockWidth
		}
		c.Blocks = append(c.Blocks, Block{
			TaskID:      t.ID,
			Title:       t.Title,
			Description: t.Description,
			Workstream:  t.Workstream,
			Sublane:     *t.Sublane,
			X0:          x0,
			X1:          x1,
			Y0:          y0,
			Y1:          y1,
			Color:       face,
			Status:      status,
			Hyperlink:   t.Hyperlink,
			Clamped:     clamped[t.ID],
		})
	}

	sortBlocks(c.Blocks)
	sortMilestones(c.Milestones)

	if len(statuses) > 1 {
		for s := range statuses {
			c.Statuses = append(c.Statuses, s)
		}
		slices.SortFunc(c.Statuses, func(a, b string) int {
			return legendOrder[a] - legendOrder[b]
		})
	}

	if settings.ShowTodayLine {
		today := todayDate(settings, opts)
		if !today.Before(settings.Start) && !today.After(settings.End) {
			x := layout.DateToX(today)
			c.TodayX = &x
		}
	}

	return c, nil
}

func todayDate(settings roadmap.Settings, opts Options) time.Time {
	if settings.TodayLineDate != nil {
		return *settings.TodayLineDate
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	n := now().UTC()
	return roadmap.Date(n.Year(), n.Month(), n.Day())
}

// sortBlocks orders blocks deterministically by (workstream, sublane,
// start, id) so repeated builds are byte-identical.
func sortBlocks(blocks []Block) {
	slices.SortFunc(blocks, func(a, b Block) int {
		if c := strings.Compare(a.Workstream, b.Workstream); c != 0 {
			return c
		}
		if a.Sublane != b.Sublane {
			return a.Sublane - b.Sublane
		}
		if a.X0 != b.X0 {
			if a.X0 < b.X0 {
				return -1
			}
			return 1
		}
		return strings.Compare(a.TaskID, b.TaskID)
	})
}

func sortMilestones(ms []Milestone) {
	slices.SortFunc(ms, func(a, b Milestone) int {
		if c := strings.Compare(a.Workstream, b.Workstream); c != 0 {
			return c
		}
		if a.Sublane != b.Sublane {
			return a.Sublane - b.Sublane
		}
		if a.X != b.X {
			if a.X < b.X {
				return -1
			}
			return 1
		}
		return strings.Compare(a.TaskID, b.TaskID)
	})
}

// Marshal serializes the chart as indented JSON, the intermediate format
// consumed by external tooling and the json output sink.
func (c *Chart) Marshal() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// Unmarshal parses a chart previously produced by Marshal.
func Unmarshal(data []byte) (*Chart, error) {
	var c Chart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing chart document: %w", err)
	}
	return &c, nil
}
