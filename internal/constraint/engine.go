// Package constraint enforces the print-safety rules of the design surface:
// safe-zone clamping for text, bleed-zone violation detection, center
// snapping, and pattern/upload fitting.
package constraint

import (
	"math"

	"mockup-studio/internal/design"
	"mockup-studio/pkg/geometry"
)

// SnapThreshold is the distance in canvas pixels under which an object
// center snaps to the canvas center. The bound is exclusive.
const SnapThreshold = 10.0

// uploadMargin is the extra margin applied when fitting a fresh upload.
const uploadMargin = 40.0

// maxUploadScale caps a fresh upload at 30% of its native size.
const maxUploadScale = 0.3

// Engine applies geometric constraints to design objects. Violations are
// diagnostic only and reported through OnViolation; adjustments mutate the
// object silently.
type Engine struct {
	// OnViolation is invoked when an object's bounding box escapes the
	// bleed zone. May be nil.
	OnViolation func(o design.Object, box geometry.Rect)
}

// CheckBounds validates the object against the zones. Any object outside
// the bleed zone raises a non-fatal violation. Text objects additionally
// get hard-clamped into the safe zone: for axis-aligned text each axis
// whose extent exceeds the zone is rescaled to exactly fit; rotated text
// is rescaled uniformly, since its box extents depend on both scale
// factors and per-axis rescaling would not reach a fixed point. The
// center is then clamped so the box lies inside the zone. Re-applying to
// a compliant object is a no-op.
func (e *Engine) CheckBounds(zones design.Zones, o design.Object) (violated bool) {
	box := design.Bounds(o)
	if !zones.Bleed.ContainsRect(box) {
		violated = true
		if e.OnViolation != nil {
			e.OnViolation(o, box)
		}
	}

	txt, ok := o.(*design.TextObject)
	if !ok {
		// Images and patterns may bleed; only text is clamped.
		return violated
	}

	safe := zones.Safe
	a := txt.Common()
	if axisAligned(a.Rotation) {
		if box.Width > safe.Width && box.Width > 0 {
			a.ScaleX *= safe.Width / box.Width
		}
		if box.Height > safe.Height && box.Height > 0 {
			a.ScaleY *= safe.Height / box.Height
		}
	} else if box.Width > 0 && box.Height > 0 {
		// The rotated box's width and height are each linear in both
		// scale factors, so one uniform factor fits the tighter axis
		// exactly and the other within it.
		f := math.Min(safe.Width/box.Width, safe.Height/box.Height)
		if f < 1 {
			a.ScaleX *= f
			a.ScaleY *= f
		}
	}
	box = design.Bounds(txt)

	a.Position.X = clamp(a.Position.X, safe.X+box.Width/2, safe.Right()-box.Width/2)
	a.Position.Y = clamp(a.Position.Y, safe.Y+box.Height/2, safe.Bottom()-box.Height/2)
	return violated
}

// axisAligned reports whether a rotation in degrees keeps the object's
// box axes parallel to the canvas axes.
func axisAligned(degrees float64) bool {
	m := math.Mod(degrees, 180)
	return m == 0
}

// SnapToCenter snaps the object's center to the canvas center axes when it
// is strictly within SnapThreshold, toggling the matching alignment guide.
// The two axes are evaluated independently. Returns whether any snap
// occurred, so the caller can decide to re-render immediately.
func (e *Engine) SnapToCenter(s *design.Surface, o design.Object) bool {
	width, height := s.Size()
	a := o.Common()
	guides := s.Guides()

	snapped := false
	if math.Abs(a.Position.X-width/2) < SnapThreshold {
		a.Position.X = width / 2
		guides.Vertical = true
		snapped = true
	} else {
		guides.Vertical = false
	}
	if math.Abs(a.Position.Y-height/2) < SnapThreshold {
		a.Position.Y = height / 2
		guides.Horizontal = true
		snapped = true
	} else {
		guides.Horizontal = false
	}
	return snapped
}

// FitPatternToSafeZone sizes the pattern as a cover-fit of the safe zone:
// it fully covers the zone, may overflow on one axis, and is clipped to
// the zone in absolute coordinates. The pattern is centered on the canvas.
func (e *Engine) FitPatternToSafeZone(s *design.Surface, p *design.PatternObject) {
	zones := s.Zones()
	width, height := s.Size()

	if p.NaturalWidth > 0 && p.NaturalHeight > 0 {
		scale := math.Max(zones.Safe.Width/p.NaturalWidth, zones.Safe.Height/p.NaturalHeight)
		p.ScaleX = scale
		p.ScaleY = scale
	}
	p.Position = geometry.Point2D{X: width / 2, Y: height / 2}
	clip := zones.Safe
	p.ClipRegion = &clip
}

// FitUploadToCanvas sizes a fresh upload so it fits the canvas with margin
// and never exceeds 30% of its native size, centers it, and clips it to
// the safe zone in absolute coordinates.
func (e *Engine) FitUploadToCanvas(s *design.Surface, img *design.ImageObject) {
	width, height := s.Size()

	if img.NaturalWidth > 0 && img.NaturalHeight > 0 {
		scale := math.Min(maxUploadScale, math.Min(
			(width-uploadMargin)/img.NaturalWidth,
			(height-uploadMargin)/img.NaturalHeight,
		))
		img.ScaleX = scale
		img.ScaleY = scale
	}
	img.Position = geometry.Point2D{X: width / 2, Y: height / 2}
	clip := s.Zones().Safe
	img.ClipRegion = &clip
}

func clamp(v, lo, hi float64) float64 {
	if lo > hi {
		// Box larger than the zone on this axis; pin to the zone center.
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
