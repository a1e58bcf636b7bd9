package raster

import (
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"mockup-studio/internal/design"
)

// MeasureText computes the untransformed extents of a text object's
// rendered content, including the stroke outline, and stores them on the
// object. Called whenever content or font settings change.
func MeasureText(t *design.TextObject) error {
	f, err := face(t.FontFamily, t.Bold, t.Italic, t.FontSize)
	if err != nil {
		return err
	}
	defer f.Close()

	d := font.Drawer{Face: f}
	adv := d.MeasureString(t.Content)
	m := f.Metrics()

	pad := 2 * t.StrokeWidth
	t.MeasuredWidth = float64(adv.Ceil()) + pad
	t.MeasuredHeight = float64((m.Ascent + m.Descent).Ceil()) + pad
	return nil
}

// renderText rasterizes a text object at the given resolution multiplier
// into a tight standalone bitmap. The stroke outline is drawn first as
// offset passes, then the fill on top.
func renderText(t *design.TextObject, multiplier float64) (*image.RGBA, error) {
	f, err := face(t.FontFamily, t.Bold, t.Italic, t.FontSize*multiplier)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := font.Drawer{Face: f}
	adv := d.MeasureString(t.Content)
	m := f.Metrics()

	strokePx := int(math.Ceil(t.StrokeWidth * multiplier))
	w := adv.Ceil() + 2*strokePx
	h := (m.Ascent + m.Descent).Ceil() + 2*strokePx
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	baseX := strokePx
	baseY := strokePx + m.Ascent.Ceil()

	if strokePx > 0 {
		stroke := image.NewUniform(t.StrokeColor)
		for dy := -strokePx; dy <= strokePx; dy++ {
			for dx := -strokePx; dx <= strokePx; dx++ {
				if dx*dx+dy*dy > strokePx*strokePx || (dx == 0 && dy == 0) {
					continue
				}
				sd := font.Drawer{
					Dst:  img,
					Src:  stroke,
					Face: f,
					Dot:  fixed.P(baseX+dx, baseY+dy),
				}
				sd.DrawString(t.Content)
			}
		}
	}

	fill := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(t.FillColor),
		Face: f,
		Dot:  fixed.P(baseX, baseY),
	}
	fill.DrawString(t.Content)

	return img, nil
}
