package chart

import (
	"fmt"
	"strconv"

	"github.com/lanekit/lanekit/pkg/roadmap"
)

// StatusStyle describes how a status decorates a block: a colored stripe
// on the left edge plus a border treatment. The face keeps the workstream
// color, optionally lightened (done tasks fade toward white).
type StatusStyle struct {
	Stripe    string
	Edge      string
	LineWidth float64
	Dashed    bool
	Lighten   float64
}

var statusStyles = map[string]StatusStyle{
	roadmap.StatusPlanned:    {Stripe: "#6B7280", Edge: "#3A3A3A", LineWidth: 1.0},
	roadmap.StatusInProgress: {Stripe: "#2563EB", Edge: "#2563EB", LineWidth: 1.8, Dashed: true},
	roadmap.StatusDone:       {Stripe: "#16A34A", Edge: "#6B7280", LineWidth: 1.0, Lighten: 0.70},
	roadmap.StatusRisk:       {Stripe: "#DC2626", Edge: "#DC2626", LineWidth: 2.2},
}

// StyleFor returns the rendering style for a status, falling back to the
// planned style for anything unrecognized.
func StyleFor(status string) StatusStyle {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return statusStyles[roadmap.StatusPlanned]
}

// StatusLabel returns the human legend label for a status.
func StatusLabel(status string) string {
	switch status {
	case roadmap.StatusInProgress:
		return "In progress"
	case roadmap.StatusDone:
		return "Done"
	case roadmap.StatusRisk:
		return "Risk"
	default:
		return "Planned"
	}
}

// FaceColor applies the status lighten factor to a block's base color.
func (s StatusStyle) FaceColor(hex string) string {
	if s.Lighten <= 0 {
		return hex
	}
	return LightenHex(hex, s.Lighten)
}

// LightenHex blends a #RRGGBB color toward white by amount in [0, 1].
// Unparseable input is returned unchanged.
func LightenHex(hex string, amount float64) string {
	if len(hex) != 7 || hex[0] != '#' {
		return hex
	}
	blend := func(s string) (int, bool) {
		v, err := strconv.ParseUint(s, 16, 8)
		if err != nil {
			return 0, false
		}
		c := float64(v)
		return int(c + (255-c)*amount), true
	}
	r, okR := blend(hex[1:3])
	g, okG := blend(hex[3:5])
	b, okB := blend(hex[5:7])
	if !okR || !okG || !okB {
		return hex
	}
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}
