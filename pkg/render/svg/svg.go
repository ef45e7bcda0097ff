// Package svg renders a chart document as a standalone SVG. The output is
// self-contained: no external fonts or scripts, safe to embed or serve
// directly.
package svg

import (
	"bytes"
	"fmt"

	"github.com/lanekit/lanekit/pkg/chart"
	"github.com/lanekit/lanekit/pkg/render"
	"github.com/lanekit/lanekit/pkg/roadmap/layout"
	"github.com/lanekit/lanekit/pkg/roadmap/timeline"
)

// Palette of chrome colors shared with the png sink.
const (
	colorBorder    = "#DADADA"
	colorSeparator = "#D0D0D0"
	colorGrid      = "#E6E6E6"
	colorMajorGrid = "#C8C8C8"
	colorText      = "#333333"
	colorBlockText = "#1A1A1A"
	colorDoneText  = "#4A4A4A"
	colorLabelFill = "#F6F8FB"
	colorBandAlt   = "#FAFAFA"
	colorHeaderAlt = "#F7F7F7"
	colorTodayLine = "#111111"
	fontFamily     = "Helvetica, Arial, sans-serif"
)

// Option configures the renderer.
type Option func(*renderer)

type renderer struct {
	frame    render.Frame
	fontSize float64
}

// WithFontSize overrides the base font size in pixels.
func WithFontSize(px float64) Option {
	return func(r *renderer) { r.fontSize = px }
}

// Render draws the chart as an SVG document.
func Render(c *chart.Chart, opts ...Option) []byte {
	r := renderer{frame: render.NewFrame(c), fontSize: 12}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	f := r.frame
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="%s">`+"\n",
		f.W, f.H, f.W, f.H, fontFamily)
	fmt.Fprintf(&buf, `<rect width="%.1f" height="%.1f" fill="#FFFFFF"/>`+"\n", f.W, f.H)

	r.renderTitle(&buf, c)
	r.renderHeader(&buf, c)
	r.renderBands(&buf, c)
	r.renderGrid(&buf, c)
	r.renderBlocks(&buf, c)
	r.renderMilestones(&buf, c)
	r.renderTodayLine(&buf, c)
	r.renderLegend(&buf, c)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) renderTitle(buf *bytes.Buffer, c *chart.Chart) {
	f := r.frame
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="%.0f" font-weight="bold" fill="%s">%s</text>`+"\n",
		pagePadX, f.TitleH*0.38, r.fontSize*1.8, colorText, escape(c.Title))
	if c.Subtitle != "" {
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="%.0f" fill="%s">%s</text>`+"\n",
			pagePadX, f.TitleH*0.66, r.fontSize*1.1, colorText, escape(c.Subtitle))
	}
	if c.Confidentiality != "" {
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="%.0f" fill="#888888" text-anchor="end">%s</text>`+"\n",
			f.W-pagePadX, f.TitleH*0.38, r.fontSize*0.9, escape(c.Confidentiality))
	}
	// Divider under the title band.
	fmt.Fprintf(buf, `<line x1="0" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#E6E6E6"/>`+"\n",
		f.TitleH, f.W, f.TitleH)
}

const pagePadX = 14.0

func (r *renderer) renderHeader(buf *bytes.Buffer, c *chart.Chart) {
	f := r.frame
	rowH := timeline.RowHeight * f.RowPx
	top := f.HeaderTop()

	for i, row := range c.Header.Rows {
		y := top + float64(i)*rowH
		fs := r.headerFontSize(row.Kind)
		for j, seg := range row.Segments {
			x0, x1 := f.X(layout.DateToX(seg.Start)), f.X(layout.DateToX(seg.End))
			fill := "#FFFFFF"
			if j%2 == 1 {
				fill = colorHeaderAlt
			}
			fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="0.8"/>`+"\n",
				x0, y, x1-x0, rowH, fill, colorBorder)
			fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="%.1f" fill="%s" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
				(x0+x1)/2, y+rowH*0.55, fs, colorText, escape(seg.Label))
		}
	}

	// Separator between header and swimlanes.
	y := f.Y(0)
	fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1.2"/>`+"\n",
		f.ChartX0, y, f.ChartX0+f.ChartW, y, colorSeparator)
}

func (r *renderer) headerFontSize(kind timeline.Kind) float64 {
	switch kind {
	case timeline.KindWeeks:
		return r.fontSize * 0.8
	case timeline.KindQuarters:
		return r.fontSize * 1.0
	case timeline.KindYears:
		return r.fontSize * 1.1
	default:
		return r.fontSize * 0.9
	}
}

func (r *renderer) renderBands(buf *bytes.Buffer, c *chart.Chart) {
	f := r.frame
	// Label column background.
	fmt.Fprintf(buf, `<rect x="0" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		f.HeaderTop(), f.LabelW, f.H-f.HeaderTop(), colorLabelFill)

	for i, b := range c.Bands {
		y0, y1 := f.Y(b.Y0), f.Y(b.Y1)
		if i%2 == 0 {
			fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
				f.ChartX0, y0, f.ChartW, y1-y0, colorBandAlt)
		}
		fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n",
			f.ChartX0, y0, f.ChartX0+f.ChartW, y0, colorSeparator)
		fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n",
			f.ChartX0, y1, f.ChartX0+f.ChartW, y1, colorSeparator)

		// Accent bar plus workstream name in the label column.
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="4" height="%.1f" fill="%s"/>`+"\n",
			pagePadX, y0, y1-y0, b.Color)
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="%.0f" font-weight="bold" fill="#222222" dominant-baseline="middle">%s</text>`+"\n",
			pagePadX+12, (y0+y1)/2, r.fontSize, escape(b.Workstream))
	}

	// Divider between labels and chart.
	fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#E0E0E0"/>`+"\n",
		f.ChartX0, f.HeaderTop(), f.ChartX0, f.Y(c.TotalHeight))
}

func (r *renderer) renderGrid(buf *bytes.Buffer, c *chart.Chart) {
	f := r.frame
	y0, y1 := f.Y(0), f.Y(c.TotalHeight)
	for _, d := range c.Header.Grid {
		x := f.X(layout.DateToX(d))
		fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="0.8"/>`+"\n",
			x, y0, x, y1, colorGrid)
	}
	for _, d := range c.Header.Major {
		x := f.X(layout.DateToX(d))
		fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1.2"/>`+"\n",
			x, y0, x, y1, colorMajorGrid)
	}
}

func (r *renderer) renderBlocks(buf *bytes.Buffer, c *chart.Chart) {
	f := r.frame
	for _, b := range c.Blocks {
		style := chart.StyleFor(b.Status)
		x0, y0 := f.X(b.X0), f.Y(b.Y0)
		w, h := f.X(b.X1)-x0, f.Y(b.Y1)-y0
		face := style.FaceColor(b.Color)

		dash := ""
		if style.Dashed {
			dash = ` stroke-dasharray="6 3"`
		}

		if b.Hyperlink != "" {
			fmt.Fprintf(buf, `<a xlink:href="%s" target="_blank">`+"\n", escape(b.Hyperlink))
		}
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="%s" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
			x0, y0, w, h, face, style.Edge, style.LineWidth, dash)

		// Status stripe, capped so short blocks stay readable.
		stripeW := 6.0
		if limit := w * 0.35; stripeW > limit {
			stripeW = limit
		}
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" opacity="0.95"/>`+"\n",
			x0, y0, stripeW, h, style.Stripe)

		textColor := colorBlockText
		if b.Status == "done" {
			textColor = colorDoneText
		}
		label := fitLabel(b.Title, w-stripeW-8, r.fontSize*0.8)
		if label != "" {
			fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="%.1f" fill="%s" dominant-baseline="middle">%s</text>`+"\n",
				x0+stripeW+4, y0+h/2, r.fontSize*0.8, textColor, escape(label))
		}
		if b.Hyperlink != "" {
			buf.WriteString("</a>\n")
		}
	}
}

func (r *renderer) renderMilestones(buf *bytes.Buffer, c *chart.Chart) {
	f := r.frame
	for _, m := range c.Milestones {
		style := chart.StyleFor(m.Status)
		x, cy := f.X(m.X), f.Y(m.CY)
		hw, hh := m.HalfW*f.DayPx, m.HalfH*f.RowPx
		face := style.FaceColor(m.Color)

		if m.Hyperlink != "" {
			fmt.Fprintf(buf, `<a xlink:href="%s" target="_blank">`+"\n", escape(m.Hyperlink))
		}
		fmt.Fprintf(buf, `<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
			x, cy-hh, x+hw, cy, x, cy+hh, x-hw, cy, face, style.Edge, style.LineWidth)
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="%.1f" fill="%s" dominant-baseline="middle">%s</text>`+"\n",
			x+hw+5, cy, r.fontSize*0.8, colorBlockText, escape(m.Title))
		if m.Hyperlink != "" {
			buf.WriteString("</a>\n")
		}
	}
}

func (r *renderer) renderTodayLine(buf *bytes.Buffer, c *chart.Chart) {
	if c.TodayX == nil {
		return
	}
	f := r.frame
	x := f.X(*c.TodayX)
	fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1.2" stroke-dasharray="5 3"/>`+"\n",
		x, f.HeaderTop(), x, f.Y(c.TotalHeight), colorTodayLine)
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="%.1f" fill="%s">Today</text>`+"\n",
		x+4, f.HeaderTop()+r.fontSize, r.fontSize*0.75, colorTodayLine)
}

func (r *renderer) renderLegend(buf *bytes.Buffer, c *chart.Chart) {
	if len(c.Statuses) < 2 {
		return
	}
	f := r.frame
	y := f.Y(c.TotalHeight) + 16
	if y > f.H-6 {
		return
	}
	x := f.ChartX0
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="%.1f" fill="%s">Legend:</text>`+"\n",
		x, y, r.fontSize*0.85, colorText)
	x += 60

	for _, s := range c.Statuses {
		style := chart.StyleFor(s)
		dash := ""
		if style.Dashed {
			dash = ` stroke-dasharray="4 2"`
		}
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="26" height="12" fill="#FFFFFF" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
			x, y-10, style.Edge, style.LineWidth, dash)
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="6" height="12" fill="%s"/>`+"\n",
			x, y-10, style.Stripe)
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="%.1f" fill="%s">%s</text>`+"\n",
			x+32, y, r.fontSize*0.85, colorText, chart.StatusLabel(s))
		x += 130
	}
}

// fitLabel truncates a label to roughly the available pixel width. SVG has
// no text measurement at generation time, so an average glyph width
// heuristic stands in.
func fitLabel(s string, widthPx, fontSize float64) string {
	if widthPx <= 0 {
		return ""
	}
	maxChars := int(widthPx / (fontSize * 0.55))
	if maxChars < 2 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars-1]) + "…"
}

// escape sanitizes text for inclusion in SVG markup.
func escape(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
