// Package colorutil provides shared color utilities for the mockup studio.
package colorutil

import (
	"fmt"
	"image/color"
	"strings"
)

// Common UI colors.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}

	// GuideColor is used for the center alignment guide lines.
	GuideColor = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	// SafeZoneColor outlines the printable region.
	SafeZoneColor = color.RGBA{R: 0, G: 160, B: 0, A: 255}
	// BleedZoneColor outlines the cut-tolerance region.
	BleedZoneColor = color.RGBA{R: 200, G: 0, B: 0, A: 255}
)

// ParseHex parses a "#RRGGBB" or "#RGB" color string.
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b uint8
	switch len(s) {
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
	case 3:
		if _, err := fmt.Sscanf(s, "%1x%1x%1x", &r, &g, &b); err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		r, g, b = r*17, g*17, b*17
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// ToHex formats a color as "#RRGGBB".
func ToHex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
