// Package layout converts scheduled tasks into abstract vertical geometry:
// one row per (workstream, sub-lane) pair, stacked into per-workstream
// bands separated by a fixed gap. Coordinates are row units (one row = 1.0)
// with y growing downward; renderers translate them into pixels or points
// and reserve header space above row zero themselves.
package layout

import (
	"github.com/lanekit/lanekit/pkg/roadmap"
)

// RowKey identifies one physical row.
type RowKey struct {
	Workstream string `json:"workstream" bson:"workstream"`
	Sublane    int    `json:"sublane" bson:"sublane"`
}

// Row is a half-open vertical interval [Y0, Y1) in row units.
type Row struct {
	Y0 float64 `json:"y0" bson:"y0"`
	Y1 float64 `json:"y1" bson:"y1"`
}

// Height returns the row's vertical extent.
func (r Row) Height() float64 { return r.Y1 - r.Y0 }

// Band is the contiguous vertical region covering all rows of one
// workstream, used for band backgrounds and labels.
type Band struct {
	Workstream string  `json:"workstream" bson:"workstream"`
	Y0         float64 `json:"y0" bson:"y0"`
	Y1         float64 `json:"y1" bson:"y1"`
	Lanes      int     `json:"lanes" bson:"lanes"`
}

// Height returns the band's vertical extent.
func (b Band) Height() float64 { return b.Y1 - b.Y0 }

// Layout is the full vertical geometry of a roadmap. Bands preserve
// workstream order; Rows maps every (workstream, sub-lane) to its extent.
// TotalHeight is the tight bounding height of the stacked bands, without
// any trailing gap and without header space.
type Layout struct {
	Bands       []Band         `json:"bands" bson:"bands"`
	Rows        map[RowKey]Row `json:"-" bson:"-"`
	TotalHeight float64        `json:"total_height" bson:"total_height"`
}

// Row looks up the row for a workstream and sub-lane. The second return is
// false when the task's workstream was never declared, a data-integrity
// condition the validation layer reports as a warning; renderers skip such
// tasks.
func (l *Layout) Row(workstream string, sublane int) (Row, bool) {
	r, ok := l.Rows[RowKey{Workstream: workstream, Sublane: sublane}]
	return r, ok
}

// Options configures band geometry.
type Options struct {
	// GroupGap is the vertical gap inserted between consecutive bands, in
	// row units. Not applied after the final band.
	GroupGap float64
	// MinRows is the row count allocated to a workstream with no tasks,
	// so declared-but-empty workstreams still render a visible band.
	MinRows int
}

// DefaultOptions returns the standard geometry: a 0.35-unit gap between
// bands and one row for empty workstreams.
func DefaultOptions() Options {
	return Options{GroupGap: 0.35, MinRows: 1}
}

// laneCounts returns, per workstream name, one more than the highest
// sub-lane index seen among its tasks. Tasks without an assigned sub-lane
// are ignored.
func laneCounts(tasks []roadmap.Task) map[string]int {
	counts := make(map[string]int)
	for _, t := range tasks {
		if t.Sublane == nil {
			continue
		}
		if n := *t.Sublane + 1; n > counts[t.Workstream] {
			counts[t.Workstream] = n
		}
	}
	return counts
}

// Compute stacks the workstreams, in the order given, into bands of
// 1.0-unit rows. Every sub-lane of a workstream gets a row before the next
// band begins; a workstream with no scheduled tasks still gets
// opts.MinRows rows. Pure function: fresh Layout on every call, inputs
// untouched.
func Compute(workstreams []roadmap.Workstream, tasks []roadmap.Task, opts Options) *Layout {
	counts := laneCounts(tasks)

	l := &Layout{Rows: make(map[RowKey]Row)}
	y := 0.0
	for i, ws := range workstreams {
		lanes := counts[ws.Name]
		if lanes < opts.MinRows {
			lanes = opts.MinRows
		}

		bandStart := y
		for lane := 0; lane < lanes; lane++ {
			l.Rows[RowKey{Workstream: ws.Name, Sublane: lane}] = Row{Y0: y, Y1: y + 1.0}
			y += 1.0
		}
		l.Bands = append(l.Bands, Band{
			Workstream: ws.Name,
			Y0:         bandStart,
			Y1:         y,
			Lanes:      lanes,
		})

		if i < len(workstreams)-1 {
			y += opts.GroupGap
		}
	}

	l.TotalHeight = y
	return l
}
