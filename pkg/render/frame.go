// Package render holds the canvas math shared by the svg and png sinks:
// page sizes and the mapping from abstract chart coordinates (day units
// horizontally, row units vertically) onto pixels.
package render

import (
	"github.com/lanekit/lanekit/pkg/chart"
	"github.com/lanekit/lanekit/pkg/roadmap"
)

// Landscape page sizes in pixels at 96 dpi.
const (
	A4Width  = 1123.0
	A4Height = 794.0
	A3Width  = 1587.0
	A3Height = 1123.0
)

// Region fractions of the page, matching the classic layout: a title band
// across the top and a workstream label column on the left.
const (
	titleBandFrac = 0.13
	labelColFrac  = 0.23
	pagePad       = 10.0
)

// Frame maps chart coordinates onto a pixel canvas. Y grows downward in
// both spaces; the timeline header occupies negative row coordinates, so
// Y(-header.Height()) is the top of the chart area.
type Frame struct {
	W, H float64

	// TitleH is the height of the page title band; LabelW the width of
	// the workstream label column.
	TitleH float64
	LabelW float64

	// ChartX0/ChartY0 anchor the plotting area; DayPx and RowPx are the
	// pixel sizes of one day and one row unit.
	ChartX0, ChartY0 float64
	ChartW, ChartH   float64
	DayPx, RowPx     float64

	headerH float64
	x0      float64
}

// NewFrame sizes a frame for the chart's page setting. Unknown page sizes
// fall back to A3, matching the document default.
func NewFrame(c *chart.Chart) Frame {
	w, h := A3Width, A3Height
	if c.PageSize == roadmap.PageA4 {
		w, h = A4Width, A4Height
	}

	f := Frame{
		W:       w,
		H:       h,
		TitleH:  h * titleBandFrac,
		LabelW:  w * labelColFrac,
		headerH: c.Header.Height(),
		x0:      c.X0,
	}
	f.ChartX0 = f.LabelW
	f.ChartY0 = f.TitleH
	f.ChartW = w - f.ChartX0 - pagePad
	f.ChartH = h - f.ChartY0 - pagePad

	if cw := c.Width(); cw > 0 {
		f.DayPx = f.ChartW / cw
	}
	if ch := c.Height(); ch > 0 {
		f.RowPx = f.ChartH / ch
	}
	return f
}

// X converts a day coordinate to pixels.
func (f Frame) X(day float64) float64 {
	return f.ChartX0 + (day-f.x0)*f.DayPx
}

// Y converts a row coordinate to pixels. Row 0 sits below the timeline
// header.
func (f Frame) Y(row float64) float64 {
	return f.ChartY0 + (row+f.headerH)*f.RowPx
}

// HeaderTop returns the pixel y of the top of the timeline header band.
func (f Frame) HeaderTop() float64 { return f.Y(-f.headerH) }
