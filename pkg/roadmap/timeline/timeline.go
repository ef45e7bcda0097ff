// Package timeline builds the labeled header band drawn above the
// swimlanes. The granularity is picked automatically from the overall date
// range, from week segments for short roadmaps up to year-plus-quarter
// rows for multi-year ones. Segments carry half-open date spans clamped to
// the roadmap range, so renderers can place them with the same horizontal
// primitives used for task blocks.
package timeline

import (
	"fmt"
	"time"

	"github.com/lanekit/lanekit/pkg/roadmap"
)

// Mode selects the header granularity.
type Mode string

const (
	ModeWeeks         Mode = "weeks"
	ModeMonths        Mode = "months"
	ModeQuarters      Mode = "quarters"
	ModeQuartersYears Mode = "quarters_years"
)

// RowHeight is the height of one header row in row units.
const RowHeight = 0.65

// MonthsSpan counts the distinct calendar months touched by the inclusive
// range [start, end].
func MonthsSpan(start, end time.Time) int {
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
}

// Choose picks the header mode for a date range: under four months shows
// weeks with a month row above, up to a year shows months, up to two years
// shows quarters, and anything longer shows quarters with a year row.
func Choose(start, end time.Time) Mode {
	months := MonthsSpan(start, end)
	switch {
	case months < 4:
		return ModeWeeks
	case months <= 12:
		return ModeMonths
	case months <= 24:
		return ModeQuarters
	default:
		return ModeQuartersYears
	}
}

// Rows returns the number of header rows a mode occupies.
func (m Mode) Rows() int {
	if m == ModeWeeks || m == ModeQuartersYears {
		return 2
	}
	return 1
}

// Height returns the total header height in row units.
func (m Mode) Height() float64 {
	return float64(m.Rows()) * RowHeight
}

// Segment is one labeled cell in a header row. Start is inclusive, End
// exclusive; both are clamped to the roadmap range.
type Segment struct {
	Start time.Time `json:"start" bson:"start"`
	End   time.Time `json:"end" bson:"end"`
	Label string    `json:"label" bson:"label"`
}

// Kind distinguishes the granularity of a header row so renderers can vary
// font size per row.
type Kind string

const (
	KindWeeks    Kind = "weeks"
	KindMonths   Kind = "months"
	KindQuarters Kind = "quarters"
	KindYears    Kind = "years"
)

// HeaderRow is one horizontal strip of segments.
type HeaderRow struct {
	Kind     Kind      `json:"kind" bson:"kind"`
	Segments []Segment `json:"segments" bson:"segments"`
}

// Header is the full timeline band: rows top to bottom, plus gridline
// boundaries for the chart body. Major gridlines mark the coarser unit
// (months in weeks mode, years otherwise).
type Header struct {
	Mode  Mode        `json:"mode" bson:"mode"`
	Rows  []HeaderRow `json:"rows" bson:"rows"`
	Grid  []time.Time `json:"grid" bson:"grid"`
	Major []time.Time `json:"major" bson:"major"`
}

// Height returns the header's total height in row units.
func (h *Header) Height() float64 { return h.Mode.Height() }

// Build assembles the header for the inclusive range [start, end].
// weekStart only matters in weeks mode.
func Build(start, end time.Time, weekStart string) *Header {
	mode := Choose(start, end)
	h := &Header{Mode: mode}

	switch mode {
	case ModeWeeks:
		h.Rows = []HeaderRow{
			{Kind: KindMonths, Segments: MonthSegments(start, end)},
			{Kind: KindWeeks, Segments: WeekSegments(start, end, weekStart)},
		}
		h.Grid = WeekStarts(start, end, weekStart)
		h.Major = MonthStarts(start, end)
	case ModeMonths:
		h.Rows = []HeaderRow{
			{Kind: KindMonths, Segments: MonthSegments(start, end)},
		}
		h.Grid = MonthStarts(start, end)
		h.Major = YearStarts(start, end)
	case ModeQuarters:
		h.Rows = []HeaderRow{
			{Kind: KindQuarters, Segments: QuarterSegments(start, end, true)},
		}
		h.Grid = QuarterStarts(start, end)
		h.Major = YearStarts(start, end)
	default:
		h.Rows = []HeaderRow{
			{Kind: KindYears, Segments: YearSegments(start, end)},
			{Kind: KindQuarters, Segments: QuarterSegments(start, end, false)},
		}
		h.Grid = QuarterStarts(start, end)
		h.Major = YearStarts(start, end)
	}
	return h
}

// StartOfWeek returns the first day of the week containing d.
func StartOfWeek(d time.Time, weekStart string) time.Time {
	wd := (int(d.Weekday()) + 6) % 7 // Mon=0..Sun=6
	if weekStart == roadmap.WeekStartSun {
		wd = int(d.Weekday()) // Sun=0..Sat=6
	}
	return d.AddDate(0, 0, -wd)
}

// WeekStarts lists week boundaries covering [start, end]. The first
// boundary may fall before start; that is fine for gridlines, and segment
// builders clamp it.
func WeekStarts(start, end time.Time, weekStart string) []time.Time {
	var out []time.Time
	for cur := StartOfWeek(start, weekStart); !cur.After(end); cur = cur.AddDate(0, 0, 7) {
		out = append(out, cur)
	}
	return out
}

// MonthStarts lists first-of-month boundaries covering [start, end].
func MonthStarts(start, end time.Time) []time.Time {
	var out []time.Time
	for cur := roadmap.Date(start.Year(), start.Month(), 1); !cur.After(end); cur = cur.AddDate(0, 1, 0) {
		out = append(out, cur)
	}
	return out
}

// quarterStart returns the first day of the quarter containing d.
func quarterStart(d time.Time) time.Time {
	qm := ((int(d.Month())-1)/3)*3 + 1
	return roadmap.Date(d.Year(), time.Month(qm), 1)
}

// QuarterStarts lists quarter boundaries covering [start, end].
func QuarterStarts(start, end time.Time) []time.Time {
	var out []time.Time
	for cur := quarterStart(start); !cur.After(end); cur = cur.AddDate(0, 3, 0) {
		out = append(out, cur)
	}
	return out
}

// YearStarts lists January-1st boundaries covering [start, end].
func YearStarts(start, end time.Time) []time.Time {
	var out []time.Time
	for cur := roadmap.Date(start.Year(), time.January, 1); !cur.After(end); cur = cur.AddDate(1, 0, 0) {
		out = append(out, cur)
	}
	return out
}

// segments slices the half-open range [start, end+1d) at the given
// boundaries, clamping the first and last pieces to the range. Empty
// pieces are dropped.
func segments(boundaries []time.Time, start, end time.Time) []Segment {
	endExcl := end.AddDate(0, 0, 1)
	var out []Segment
	for i, b := range boundaries {
		segStart := b
		if segStart.Before(start) {
			segStart = start
		}
		segEnd := endExcl
		if i+1 < len(boundaries) && boundaries[i+1].Before(endExcl) {
			segEnd = boundaries[i+1]
		}
		if segEnd.After(segStart) {
			out = append(out, Segment{Start: segStart, End: segEnd})
		}
	}
	return out
}

// MonthSegments labels each month cell with its short name, adding the
// year on the first cell, on Januaries, and whenever the year changes.
func MonthSegments(start, end time.Time) []Segment {
	segs := segments(MonthStarts(start, end), start, end)
	prevYear := -1
	for i := range segs {
		s := segs[i].Start
		withYear := i == 0 || s.Year() != prevYear || s.Month() == time.January
		if withYear {
			segs[i].Label = s.Format("Jan 2006")
		} else {
			segs[i].Label = s.Format("Jan")
		}
		prevYear = s.Year()
	}
	return segs
}

// WeekSegments labels each week cell with its day of month, adding the
// month name on the first cell and whenever the month changes.
func WeekSegments(start, end time.Time, weekStart string) []Segment {
	segs := segments(WeekStarts(start, end, weekStart), start, end)
	prevMonth, prevYear := time.Month(0), -1
	for i := range segs {
		s := segs[i].Start
		withMonth := i == 0 || s.Month() != prevMonth || s.Year() != prevYear
		if withMonth {
			segs[i].Label = s.Format("02 Jan")
		} else {
			segs[i].Label = s.Format("02")
		}
		prevMonth, prevYear = s.Month(), s.Year()
	}
	return segs
}

// QuarterSegments labels each quarter cell Q1..Q4. When withYear is set,
// the year is appended on the first cell, on Q1, and when the year
// changes.
func QuarterSegments(start, end time.Time, withYear bool) []Segment {
	segs := segments(QuarterStarts(start, end), start, end)
	prevYear := -1
	for i := range segs {
		s := segs[i].Start
		q := (int(s.Month())-1)/3 + 1
		if withYear && (i == 0 || q == 1 || s.Year() != prevYear) {
			segs[i].Label = fmt.Sprintf("Q%d %d", q, s.Year())
		} else {
			segs[i].Label = fmt.Sprintf("Q%d", q)
		}
		prevYear = s.Year()
	}
	return segs
}

// YearSegments labels each year cell with its four-digit year.
func YearSegments(start, end time.Time) []Segment {
	segs := segments(YearStarts(start, end), start, end)
	for i := range segs {
		segs[i].Label = segs[i].Start.Format("2006")
	}
	return segs
}
