package tui

import "github.com/muesli/termenv"

// Style is how one series is drawn: a terminal color and a plot marker.
type Style struct {
	Color  string
	Marker rune
}

// Palettes used for the three report sections, one style per policy.
var (
	SweepStyles   = []Style{{Color: "#3b82f6", Marker: '-'}, {Color: "#ef4444", Marker: ':'}, {Color: "#d946ef", Marker: '='}}
	ScatterStyles = []Style{{Color: "#3b82f6", Marker: '+'}, {Color: "#ef4444", Marker: '^'}, {Color: "#d946ef", Marker: 'o'}}
	TraceStyles   = []Style{{Color: "#3b82f6", Marker: '^'}, {Color: "#ef4444", Marker: '+'}, {Color: "#22c55e", Marker: 'o'}}
)

// StyleCycler hands out styles round-robin from a fixed sequence.
type StyleCycler struct {
	styles []Style
	index  int
}

// NewStyleCycler creates a cycler over styles. It panics if styles is empty.
func NewStyleCycler(styles []Style) *StyleCycler {
	if len(styles) == 0 {
		panic("tui: StyleCycler needs at least one style")
	}
	return &StyleCycler{styles: styles}
}

// Next returns the current style and advances, wrapping after the last one.
func (c *StyleCycler) Next() Style {
	s := c.styles[c.index]
	c.index = (c.index + 1) % len(c.styles)
	return s
}

// Paint colors text with the style's color for the given terminal profile.
// The Ascii profile returns text unchanged.
func Paint(p termenv.Profile, s Style, text string) string {
	return p.String(text).Foreground(p.Color(s.Color)).String()
}
