package charts

import (
	"fmt"
	"strconv"
	"strings"
)

// Theme is the fixed dark dashboard styling
type Theme struct {
	Accent         string
	AccentLight    string
	Palette        []string
	LegendColor    string
	TickColor      string
	GridColor      string
	SegmentBorder  string
	LegendFontSize int
}

// DefaultTheme returns the dashboard's dark theme
func DefaultTheme() Theme {
	return Theme{
		Accent:      "rgba(34, 197, 94, 0.8)",
		AccentLight: "rgba(34, 197, 94, 0.2)",
		Palette: []string{
			"rgba(34, 197, 94, 0.8)",  // green
			"rgba(59, 130, 246, 0.8)", // blue
			"rgba(168, 85, 247, 0.8)", // purple
			"rgba(249, 115, 22, 0.8)", // orange
			"rgba(236, 72, 153, 0.8)", // pink
			"rgba(20, 184, 166, 0.8)", // teal
			"rgba(245, 158, 11, 0.8)", // amber
			"rgba(99, 102, 241, 0.8)", // indigo
		},
		LegendColor:    "rgba(148, 163, 184, 1)",
		TickColor:      "rgba(148, 163, 184, 1)",
		GridColor:      "rgba(51, 65, 85, 0.5)",
		SegmentBorder:  "rgba(15, 23, 42, 1)",
		LegendFontSize: 12,
	}
}

// PaletteColors returns n colors taken cyclically from the palette
func (t Theme) PaletteColors(n int) []string {
	colors := make([]string, n)
	if len(t.Palette) == 0 {
		return colors
	}
	for i := range colors {
		colors[i] = t.Palette[i%len(t.Palette)]
	}
	return colors
}

// RGBA is a parsed CSS color; A is in [0, 1]
type RGBA struct {
	R, G, B uint8
	A       float64
}

// CSS formats the color as an rgba() string
func (c RGBA) CSS() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// ParseRGBA parses "rgba(r, g, b, a)", "rgb(r, g, b)" or "#rrggbb"
func ParseRGBA(s string) (RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		return RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 1}, nil
	}

	var body string
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		body = s[len("rgba(") : len(s)-1]
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		body = s[len("rgb(") : len(s)-1]
	default:
		return RGBA{}, fmt.Errorf("unsupported color %q", s)
	}

	parts := strings.Split(body, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return RGBA{}, fmt.Errorf("unsupported color %q", s)
	}
	var channels [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(strings.TrimSpace(parts[i]), 10, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid channel in %q: %w", s, err)
		}
		channels[i] = uint8(v)
	}
	alpha := 1.0
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return RGBA{}, fmt.Errorf("invalid alpha in %q", s)
		}
		alpha = a
	}
	return RGBA{R: channels[0], G: channels[1], B: channels[2], A: alpha}, nil
}
