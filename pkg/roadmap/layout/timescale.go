package layout

import "time"

// epoch anchors the horizontal axis. DateToX values are day counts from
// this date, so date differences map exactly to scalar differences.
var epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// DateToX maps a calendar date to its day index since 1970-01-01 as a
// float. One day is exactly 1.0 units; only whole dates are modeled, so
// there is no timezone or DST error.
func DateToX(d time.Time) float64 {
	return d.Sub(epoch).Hours() / 24.0
}

// BlockSpan converts the inclusive task interval [start, end] into the
// half-open rendering span [x0, x1). The end date is widened by one day so
// a same-day task renders with width exactly 1.0 rather than zero. Every
// renderer uses this, keeping block geometry identical across outputs.
func BlockSpan(start, end time.Time) (x0, x1 float64) {
	return DateToX(start), DateToX(end.AddDate(0, 0, 1))
}
