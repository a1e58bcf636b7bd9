package raster

import (
	"image"
	"image/color"
	"log"
	"math"

	xdraw "golang.org/x/image/draw"

	"mockup-studio/internal/design"
	"mockup-studio/pkg/colorutil"
	"mockup-studio/pkg/geometry"
)

// Options configures a surface render.
type Options struct {
	// Multiplier scales the output resolution. Zero means 1.
	Multiplier float64

	// IncludeOverlays draws the export-excluded objects plus the zone
	// outlines and alignment guides (on-screen preview). Bakes and
	// exports leave it false.
	IncludeOverlays bool

	// Background fills the canvas before compositing. Nil leaves the
	// output transparent.
	Background color.Color
}

// Render composites the surface's objects in z order into a bitmap of the
// canvas size times the multiplier.
func Render(s *design.Surface, opts Options) *image.RGBA {
	mult := opts.Multiplier
	if mult <= 0 {
		mult = 1
	}
	cw, ch := s.Size()
	dst := image.NewRGBA(image.Rect(0, 0, round(cw*mult), round(ch*mult)))

	if opts.Background != nil {
		xdraw.Draw(dst, dst.Bounds(), image.NewUniform(opts.Background), image.Point{}, xdraw.Src)
	}

	for _, o := range s.Objects() {
		a := o.Common()
		if !a.Visible {
			continue
		}
		if a.ExcludeFromExport && !opts.IncludeOverlays {
			continue
		}
		renderObject(dst, o, mult)
	}

	if opts.IncludeOverlays {
		drawOverlays(dst, s, mult)
	}
	return dst
}

// renderObject draws one object through its affine transform, honoring its
// clip region.
func renderObject(dst *image.RGBA, o design.Object, mult float64) {
	a := o.Common()

	var src image.Image
	// srcScale maps source pixels to canvas units before the object scale.
	srcScale := geometry.Identity()

	switch v := o.(type) {
	case *design.TextObject:
		img, err := renderText(v, mult)
		if err != nil {
			log.Printf("raster: text %s: %v", v.ID, err)
			return
		}
		src = img
		// Text is rasterized at the output resolution already; undo the
		// multiplier so the shared transform below can re-apply it.
		srcScale = geometry.Scale(1/mult, 1/mult)
	case *design.ImageObject:
		if v.Pixels == nil {
			return
		}
		src = v.Pixels
	case *design.PatternObject:
		if v.Pixels == nil {
			return
		}
		src = v.Pixels
	}

	b := src.Bounds()
	sw, sh := float64(b.Dx()), float64(b.Dy())

	// Source center to origin, object scale/rotation, then to the scaled
	// canvas position.
	t := geometry.Scale(mult, mult)
	t = t.Compose(geometry.Translation(a.Position.X, a.Position.Y))
	t = t.Compose(geometry.Rotation(a.Rotation * (3.14159265358979323846 / 180)))
	t = t.Compose(geometry.Scale(a.ScaleX, a.ScaleY))
	t = t.Compose(srcScale)
	t = t.Compose(geometry.Translation(-sw/2, -sh/2))

	target := clipTarget(dst, a.ClipRegion, mult)
	if target == nil {
		return
	}
	xdraw.CatmullRom.Transform(target, t.Aff3(), src, b, xdraw.Over, nil)
}

// clipTarget returns the destination restricted to the object's clip
// region, or nil when the clip lies fully outside the output.
func clipTarget(dst *image.RGBA, clip *geometry.Rect, mult float64) *image.RGBA {
	if clip == nil {
		return dst
	}
	r := clip.Scaled(mult).Round()
	sub := image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height).Intersect(dst.Bounds())
	if sub.Empty() {
		return nil
	}
	return dst.SubImage(sub).(*image.RGBA)
}

// drawOverlays outlines the safe/bleed zones and draws the visible center
// guides. Preview only; never part of a bake.
func drawOverlays(dst *image.RGBA, s *design.Surface, mult float64) {
	zones := s.Zones()
	drawRectOutline(dst, zones.Bleed.Scaled(mult), colorutil.BleedZoneColor, lineWidth(mult))
	drawRectOutline(dst, zones.Safe.Scaled(mult), colorutil.SafeZoneColor, lineWidth(mult))

	guides := s.Guides()
	cw, ch := s.Size()
	thickness := lineWidth(mult)
	if guides.Vertical {
		x := round(cw / 2 * mult)
		fillRect(dst, image.Rect(x, 0, x+thickness, dst.Bounds().Dy()), colorutil.GuideColor)
	}
	if guides.Horizontal {
		y := round(ch / 2 * mult)
		fillRect(dst, image.Rect(0, y, dst.Bounds().Dx(), y+thickness), colorutil.GuideColor)
	}
}

func drawRectOutline(dst *image.RGBA, r geometry.Rect, c color.Color, thickness int) {
	ri := r.Round()
	x0, y0 := ri.X, ri.Y
	x1, y1 := ri.X+ri.Width, ri.Y+ri.Height
	fillRect(dst, image.Rect(x0, y0, x1, y0+thickness), c)
	fillRect(dst, image.Rect(x0, y1-thickness, x1, y1), c)
	fillRect(dst, image.Rect(x0, y0, x0+thickness, y1), c)
	fillRect(dst, image.Rect(x1-thickness, y0, x1, y1), c)
}

func fillRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	xdraw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, xdraw.Over)
}

func round(v float64) int {
	return int(math.Round(v))
}

// lineWidth converts the multiplier into an overlay line thickness of at
// least one pixel.
func lineWidth(mult float64) int {
	w := round(mult)
	if w < 1 {
		w = 1
	}
	return w
}
