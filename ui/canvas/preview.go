// Package canvas provides the 2D design preview widget with drag and
// selection interaction. Thin glue over the session commands; all design
// semantics live in the core packages.
package canvas

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"mockup-studio/internal/app"
	"mockup-studio/internal/design"
	"mockup-studio/pkg/geometry"
)

// displayScale maps design canvas pixels to screen pixels.
const displayScale = 1.5

// DesignPreview renders the design surface with zone/guide overlays and
// forwards pointer interaction to the session.
type DesignPreview struct {
	widget.BaseWidget

	session *app.Session
	img     *fynecanvas.Image

	dragID string
}

// NewDesignPreview creates the preview widget bound to a session.
func NewDesignPreview(session *app.Session) *DesignPreview {
	p := &DesignPreview{session: session}
	p.img = fynecanvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	p.img.FillMode = fynecanvas.ImageFillContain
	p.ExtendBaseWidget(p)
	p.Redraw()
	return p
}

// CreateRenderer implements fyne.Widget.
func (p *DesignPreview) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.img)
}

// MinSize reports the scaled canvas size.
func (p *DesignPreview) MinSize() fyne.Size {
	w, h := p.session.Surface().Size()
	return fyne.NewSize(float32(w*displayScale), float32(h*displayScale))
}

// Redraw re-rasterizes the preview.
func (p *DesignPreview) Redraw() {
	p.img.Image = p.session.Preview(displayScale)
	p.img.Refresh()
}

// toCanvas maps a widget position to design canvas coordinates through the
// inverse of the display transform.
func (p *DesignPreview) toCanvas(pos fyne.Position) geometry.Point2D {
	inv, ok := geometry.Scale(displayScale, displayScale).Inverse()
	if !ok {
		return geometry.Point2D{}
	}
	return inv.Apply(geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)})
}

// Tapped selects the topmost interactive object under the cursor, or
// clears the selection.
func (p *DesignPreview) Tapped(ev *fyne.PointEvent) {
	pt := p.toCanvas(ev.Position)

	objects := p.session.Surface().Objects()
	for i := len(objects) - 1; i >= 0; i-- {
		o := objects[i]
		a := o.Common()
		if !a.Selectable || !a.Evented {
			continue
		}
		if design.Bounds(o).Contains(pt) {
			p.session.SelectObject(o.ObjectID())
			p.dragID = o.ObjectID()
			return
		}
	}
	p.session.SelectObject("")
	p.dragID = ""
}

// Dragged moves the active object, snapping live.
func (p *DesignPreview) Dragged(ev *fyne.DragEvent) {
	if p.dragID == "" {
		active := p.session.Surface().Active()
		if active == nil {
			return
		}
		p.dragID = active.ObjectID()
	}
	pt := p.toCanvas(ev.Position)
	p.session.DragObject(p.dragID, pt.X, pt.Y)
	p.Redraw()
}

// DragEnd commits the completed move.
func (p *DesignPreview) DragEnd() {
	if p.dragID == "" {
		return
	}
	p.session.CompleteMutation()
	p.Redraw()
}
