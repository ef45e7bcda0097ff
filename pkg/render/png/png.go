// Package png rasterizes a chart document directly with a 2D canvas, so
// PNG export needs no external SVG converter. Geometry matches the svg
// sink exactly; both read the same abstract chart coordinates.
package png

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/lanekit/lanekit/pkg/chart"
	"github.com/lanekit/lanekit/pkg/render"
	"github.com/lanekit/lanekit/pkg/roadmap"
	"github.com/lanekit/lanekit/pkg/roadmap/layout"
	"github.com/lanekit/lanekit/pkg/roadmap/timeline"
)

// Option configures the renderer.
type Option func(*renderer)

type renderer struct {
	scale    float64
	fontSize float64
}

// WithScale sets the raster scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) Option {
	return func(r *renderer) { r.scale = s }
}

// WithFontSize overrides the base font size in pixels before scaling.
func WithFontSize(px float64) Option {
	return func(r *renderer) { r.fontSize = px }
}

// Render rasterizes the chart and returns encoded PNG bytes.
func Render(c *chart.Chart, opts ...Option) ([]byte, error) {
	r := renderer{scale: 2.0, fontSize: 12}
	for _, opt := range opts {
		opt(&r)
	}

	f := render.NewFrame(c)
	dc := gg.NewContext(int(f.W*r.scale), int(f.H*r.scale))
	dc.Scale(r.scale, r.scale)

	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing bold font: %w", err)
	}
	p := painter{dc: dc, f: f, c: c, regular: regular, bold: bold, base: r.fontSize, scale: r.scale}

	dc.SetHexColor("#FFFFFF")
	dc.Clear()

	p.title()
	p.header()
	p.bands()
	p.grid()
	p.blocks()
	p.milestones()
	p.todayLine()
	p.legend()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

type painter struct {
	dc      *gg.Context
	f       render.Frame
	c       *chart.Chart
	regular *truetype.Font
	bold    *truetype.Font
	base    float64
	scale   float64
}

func (p *painter) setFont(ft *truetype.Font, size float64) {
	// The context matrix scales positions but not glyph rasterization, so
	// the face itself carries the scale factor.
	p.dc.SetFontFace(truetype.NewFace(ft, &truetype.Options{Size: size * p.scale}))
}

func (p *painter) title() {
	f, c := p.f, p.c
	p.dc.SetHexColor("#333333")
	p.setFont(p.bold, p.base*1.8)
	p.dc.DrawStringAnchored(c.Title, 14, f.TitleH*0.38, 0, 0.35)
	if c.Subtitle != "" {
		p.setFont(p.regular, p.base*1.1)
		p.dc.DrawStringAnchored(c.Subtitle, 14, f.TitleH*0.66, 0, 0.35)
	}
	if c.Confidentiality != "" {
		p.dc.SetHexColor("#888888")
		p.setFont(p.regular, p.base*0.9)
		p.dc.DrawStringAnchored(c.Confidentiality, f.W-14, f.TitleH*0.38, 1, 0.35)
	}
	p.dc.SetHexColor("#E6E6E6")
	p.dc.SetLineWidth(1)
	p.dc.DrawLine(0, f.TitleH, f.W, f.TitleH)
	p.dc.Stroke()
}

func (p *painter) header() {
	f, c := p.f, p.c
	rowH := timeline.RowHeight * f.RowPx
	top := f.HeaderTop()

	for i, row := range c.Header.Rows {
		y := top + float64(i)*rowH
		p.setFont(p.regular, p.headerFontSize(row.Kind))
		for j, seg := range row.Segments {
			x0 := f.X(layout.DateToX(seg.Start))
			x1 := f.X(layout.DateToX(seg.End))
			if j%2 == 1 {
				p.dc.SetHexColor("#F7F7F7")
			} else {
				p.dc.SetHexColor("#FFFFFF")
			}
			p.dc.DrawRectangle(x0, y, x1-x0, rowH)
			p.dc.Fill()
			p.dc.SetHexColor("#DADADA")
			p.dc.SetLineWidth(0.8)
			p.dc.DrawRectangle(x0, y, x1-x0, rowH)
			p.dc.Stroke()
			p.dc.SetHexColor("#333333")
			p.dc.DrawStringAnchored(seg.Label, (x0+x1)/2, y+rowH*0.52, 0.5, 0.35)
		}
	}

	p.dc.SetHexColor("#D0D0D0")
	p.dc.SetLineWidth(1.2)
	p.dc.DrawLine(f.ChartX0, f.Y(0), f.ChartX0+f.ChartW, f.Y(0))
	p.dc.Stroke()
}

func (p *painter) headerFontSize(kind timeline.Kind) float64 {
	switch kind {
	case timeline.KindWeeks:
		return p.base * 0.8
	case timeline.KindQuarters:
		return p.base * 1.0
	case timeline.KindYears:
		return p.base * 1.1
	default:
		return p.base * 0.9
	}
}

func (p *painter) bands() {
	f, c := p.f, p.c
	p.dc.SetHexColor("#F6F8FB")
	p.dc.DrawRectangle(0, f.HeaderTop(), f.LabelW, f.H-f.HeaderTop())
	p.dc.Fill()

	p.setFont(p.bold, p.base)
	for i, b := range c.Bands {
		y0, y1 := f.Y(b.Y0), f.Y(b.Y1)
		if i%2 == 0 {
			p.dc.SetHexColor("#FAFAFA")
			p.dc.DrawRectangle(f.ChartX0, y0, f.ChartW, y1-y0)
			p.dc.Fill()
		}
		p.dc.SetHexColor("#D0D0D0")
		p.dc.SetLineWidth(1)
		p.dc.DrawLine(f.ChartX0, y0, f.ChartX0+f.ChartW, y0)
		p.dc.DrawLine(f.ChartX0, y1, f.ChartX0+f.ChartW, y1)
		p.dc.Stroke()

		p.dc.SetHexColor(b.Color)
		p.dc.DrawRectangle(14, y0, 4, y1-y0)
		p.dc.Fill()
		p.dc.SetHexColor("#222222")
		p.dc.DrawStringAnchored(b.Workstream, 26, (y0+y1)/2, 0, 0.35)
	}
}

func (p *painter) grid() {
	f, c := p.f, p.c
	y0, y1 := f.Y(0), f.Y(c.TotalHeight)
	p.dc.SetLineWidth(0.8)
	p.dc.SetHexColor("#E6E6E6")
	for _, d := range c.Header.Grid {
		x := f.X(layout.DateToX(d))
		p.dc.DrawLine(x, y0, x, y1)
	}
	p.dc.Stroke()
	p.dc.SetLineWidth(1.2)
	p.dc.SetHexColor("#C8C8C8")
	for _, d := range c.Header.Major {
		x := f.X(layout.DateToX(d))
		p.dc.DrawLine(x, y0, x, y1)
	}
	p.dc.Stroke()
}

func (p *painter) blocks() {
	f := p.f
	p.setFont(p.regular, p.base*0.8)
	for _, b := range p.c.Blocks {
		style := chart.StyleFor(b.Status)
		x0, y0 := f.X(b.X0), f.Y(b.Y0)
		w, h := f.X(b.X1)-x0, f.Y(b.Y1)-y0

		p.dc.SetHexColor(style.FaceColor(b.Color))
		p.dc.DrawRoundedRectangle(x0, y0, w, h, 4)
		p.dc.Fill()

		if style.Dashed {
			p.dc.SetDash(6, 3)
		}
		p.dc.SetHexColor(style.Edge)
		p.dc.SetLineWidth(style.LineWidth)
		p.dc.DrawRoundedRectangle(x0, y0, w, h, 4)
		p.dc.Stroke()
		p.dc.SetDash()

		stripeW := 6.0
		if limit := w * 0.35; stripeW > limit {
			stripeW = limit
		}
		p.dc.SetHexColor(style.Stripe)
		p.dc.DrawRectangle(x0, y0, stripeW, h)
		p.dc.Fill()

		if b.Status == roadmap.StatusDone {
			p.dc.SetHexColor("#4A4A4A")
		} else {
			p.dc.SetHexColor("#1A1A1A")
		}
		label := fitLabel(b.Title, w-stripeW-8, p.base*0.8)
		if label != "" {
			p.dc.DrawStringAnchored(label, x0+stripeW+4, y0+h/2, 0, 0.35)
		}
	}
}

func (p *painter) milestones() {
	f := p.f
	p.setFont(p.regular, p.base*0.8)
	for _, m := range p.c.Milestones {
		style := chart.StyleFor(m.Status)
		x, cy := f.X(m.X), f.Y(m.CY)
		hw, hh := m.HalfW*f.DayPx, m.HalfH*f.RowPx

		p.dc.MoveTo(x, cy-hh)
		p.dc.LineTo(x+hw, cy)
		p.dc.LineTo(x, cy+hh)
		p.dc.LineTo(x-hw, cy)
		p.dc.ClosePath()
		p.dc.SetHexColor(style.FaceColor(m.Color))
		p.dc.FillPreserve()
		p.dc.SetHexColor(style.Edge)
		p.dc.SetLineWidth(style.LineWidth)
		p.dc.Stroke()

		p.dc.SetHexColor("#1A1A1A")
		p.dc.DrawStringAnchored(m.Title, x+hw+5, cy, 0, 0.35)
	}
}

func (p *painter) todayLine() {
	if p.c.TodayX == nil {
		return
	}
	f := p.f
	x := f.X(*p.c.TodayX)
	p.dc.SetHexColor("#111111")
	p.dc.SetLineWidth(1.2)
	p.dc.SetDash(5, 3)
	p.dc.DrawLine(x, f.HeaderTop(), x, f.Y(p.c.TotalHeight))
	p.dc.Stroke()
	p.dc.SetDash()
	p.setFont(p.regular, p.base*0.75)
	p.dc.DrawStringAnchored("Today", x+4, f.HeaderTop()+p.base, 0, 0.35)
}

func (p *painter) legend() {
	if len(p.c.Statuses) < 2 {
		return
	}
	f := p.f
	y := f.Y(p.c.TotalHeight) + 16
	if y > f.H-6 {
		return
	}
	x := f.ChartX0
	p.setFont(p.regular, p.base*0.85)
	p.dc.SetHexColor("#333333")
	p.dc.DrawStringAnchored("Legend:", x, y, 0, 0.35)
	x += 60

	for _, s := range p.c.Statuses {
		style := chart.StyleFor(s)
		p.dc.SetHexColor("#FFFFFF")
		p.dc.DrawRectangle(x, y-6, 26, 12)
		p.dc.Fill()
		if style.Dashed {
			p.dc.SetDash(4, 2)
		}
		p.dc.SetHexColor(style.Edge)
		p.dc.SetLineWidth(style.LineWidth)
		p.dc.DrawRectangle(x, y-6, 26, 12)
		p.dc.Stroke()
		p.dc.SetDash()
		p.dc.SetHexColor(style.Stripe)
		p.dc.DrawRectangle(x, y-6, 6, 12)
		p.dc.Fill()
		p.dc.SetHexColor("#333333")
		p.dc.DrawStringAnchored(chart.StatusLabel(s), x+32, y, 0, 0.35)
		x += 130
	}
}

// fitLabel truncates a label to roughly the available pixel width.
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
