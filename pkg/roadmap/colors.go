package roadmap

import (
	"regexp"
	"strings"

	"github.com/lanekit/lanekit/pkg/errors"
)

// DefaultPalette is cycled through for workstreams that declare no color.
// Palettes are injected into [PickWorkstreamColors] rather than consulted as
// mutable global state; this slice is the default argument, never written to.
var DefaultPalette = []string{
	"#1F77B4", // blue
	"#FF7F0E", // orange
	"#2CA02C", // green
	"#D62728", // red
	"#9467BD", // purple
	"#8C564B", // brown
	"#E377C2", // pink
	"#7F7F7F", // gray
	"#BCBD22", // olive
	"#17BECF", // cyan
	"#AEC7E8", // sky blue
	"#FFBB78", // peach
}

// ColorNames lists the friendly color names accepted in roadmap documents,
// in the order they are offered in editing UIs.
var ColorNames = []string{
	"Auto",
	"Blue",
	"Orange",
	"Green",
	"Red",
	"Purple",
	"Brown",
	"Pink",
	"Gray",
	"Olive",
	"Cyan",
	"Sky Blue",
	"Peach",
}

// colorNameToHex maps normalized friendly names to hex values.
// "auto" maps to empty, meaning palette-assigned.
var colorNameToHex = map[string]string{
	"auto":     "",
	"blue":     "#1F77B4",
	"orange":   "#FF7F0E",
	"green":    "#2CA02C",
	"red":      "#D62728",
	"purple":   "#9467BD",
	"brown":    "#8C564B",
	"pink":     "#E377C2",
	"gray":     "#7F7F7F",
	"olive":    "#BCBD22",
	"cyan":     "#17BECF",
	"sky blue": "#AEC7E8",
	"peach":    "#FFBB78",

	// Synonyms kept for documents written against earlier templates.
	"primary":   "#1F77B4",
	"secondary": "#FF7F0E",
	"tertiary":  "#2CA02C",
	"accent 1":  "#9467BD",
	"accent 2":  "#D62728",
	"accent 3":  "#17BECF",
	"neutral":   "#7F7F7F",
}

var hexColorRe = regexp.MustCompile(`^#?[0-9A-Fa-f]{6}$`)

// normalizeColorToken lowercases and collapses separators so that
// "Sky_Blue" and "sky-blue" match the same table entry.
func normalizeColorToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeColor converts a friendly color name or hex value into canonical
// "#RRGGBB" form. Empty input and "Auto" normalize to "" (palette-assigned).
func NormalizeColor(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}

	if hex, ok := colorNameToHex[normalizeColorToken(v)]; ok {
		return hex, nil
	}

	if !hexColorRe.MatchString(v) {
		return "", errors.New(errors.ErrCodeInvalidColor,
			"color must be one of: %s (or a hex like #1F77B4), got %q", strings.Join(ColorNames, ", "), v)
	}
	if !strings.HasPrefix(v, "#") {
		v = "#" + v
	}
	return strings.ToUpper(v), nil
}

// PickWorkstreamColors assigns each workstream a display color: its own
// declared color when present, otherwise the next palette entry. Only
// workstreams without a declared color consume palette slots. A nil palette
// uses [DefaultPalette].
func PickWorkstreamColors(workstreams []Workstream, palette []string) map[string]string {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	out := make(map[string]string, len(workstreams))
	i := 0
	for _, ws := range workstreams {
		if ws.Color != "" {
			out[ws.Name] = ws.Color
			continue
		}
		out[ws.Name] = palette[i%len(palette)]
		i++
	}
	return out
}
