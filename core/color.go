package core

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// NeutralColor is the display color of an unassigned agent.
	NeutralColor = "#444444"
	// FallbackTargetColor is used for targets that carry no color.
	FallbackTargetColor = "#0000ff"
)

var neutral = colorful.Color{R: 0x44 / 255.0, G: 0x44 / 255.0, B: 0x44 / 255.0}

// Neutral returns NeutralColor as a colorful.Color.
func Neutral() colorful.Color { return neutral }

// ParseColor parses a "#rgb" or "#rrggbb" string. Unparseable input yields
// the neutral color, so a bad color degrades to a grey agent rather than an
// error.
func ParseColor(s string) colorful.Color {
	s = strings.TrimSpace(s)
	if s == "" {
		return neutral
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return neutral
	}
	return c
}
