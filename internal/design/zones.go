package design

import "mockup-studio/pkg/geometry"

// Margins describes the distance from the canvas edges to a zone edge.
// Left/right are larger than top/bottom because the print wraps around the
// product horizontally.
type Margins struct {
	Left, Right, Top, Bottom float64
}

// Default zone margins in canvas pixels.
var (
	// SafeMargins bound the region guaranteed to survive the print.
	SafeMargins = Margins{Left: 60, Right: 60, Top: 3, Bottom: 5}

	// BleedMargins bound the region beyond which content is discarded by
	// the cut. Looser than the safe margins by the cut tolerance.
	BleedMargins = Margins{Left: 40, Right: 40, Top: 1, Bottom: 2}
)

// Zones holds the two non-interactive guide rectangles derived from the
// canvas dimensions. Never part of a snapshot; recomputed on resize.
type Zones struct {
	Safe  geometry.Rect
	Bleed geometry.Rect
}

// zoneRect insets a width x height canvas by the margins.
func zoneRect(width, height float64, m Margins) geometry.Rect {
	return geometry.Rect{
		X:      m.Left,
		Y:      m.Top,
		Width:  width - m.Left - m.Right,
		Height: height - m.Top - m.Bottom,
	}
}

// ComputeZones derives the safe and bleed rectangles for a canvas size.
func ComputeZones(width, height float64) Zones {
	return Zones{
		Safe:  zoneRect(width, height, SafeMargins),
		Bleed: zoneRect(width, height, BleedMargins),
	}
}

// Guides holds the transient center alignment guide visibility. Reset to
// hidden on every mutation commit; never serialized.
type Guides struct {
	// Vertical is the guide along the canvas horizontal center (visible
	// while an object is snapped on the x axis).
	Vertical bool
	// Horizontal is the guide along the canvas vertical center.
	Horizontal bool
}

// Reset hides both guides.
func (g *Guides) Reset() {
	g.Vertical = false
	g.Horizontal = false
}
