// Package panels provides the UI side panels of the mockup studio.
package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"mockup-studio/internal/app"
)

// LayersPanel lists the design objects topmost first with visibility,
// lock, and delete controls.
type LayersPanel struct {
	session *app.Session

	layers []app.LayerInfo
	list   *widget.List
	root   fyne.CanvasObject
}

// NewLayersPanel creates the layer panel bound to a session.
func NewLayersPanel(session *app.Session) *LayersPanel {
	lp := &LayersPanel{session: session}

	lp.list = widget.NewList(
		func() int { return len(lp.layers) },
		func() fyne.CanvasObject {
			return container.NewBorder(nil, nil, nil,
				container.NewHBox(
					widget.NewButton("👁", nil),
					widget.NewButton("🔒", nil),
					widget.NewButton("✕", nil),
				),
				widget.NewLabel("layer"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(lp.layers) {
				return
			}
			info := lp.layers[id]
			border := obj.(*fyne.Container)
			label := border.Objects[0].(*widget.Label)
			buttons := border.Objects[1].(*fyne.Container)

			text := info.Label
			if !info.Visible {
				text = fmt.Sprintf("%s (hidden)", text)
			}
			label.SetText(text)

			buttons.Objects[0].(*widget.Button).OnTapped = func() {
				_ = lp.session.ToggleVisibility(info.ID)
			}
			buttons.Objects[1].(*widget.Button).OnTapped = func() {
				_ = lp.session.ToggleLock(info.ID)
			}
			buttons.Objects[2].(*widget.Button).OnTapped = func() {
				_ = lp.session.RemoveObject(info.ID)
			}
		},
	)
	lp.list.OnSelected = func(id widget.ListItemID) {
		if id < len(lp.layers) {
			lp.session.SelectObject(lp.layers[id].ID)
		}
	}

	lp.root = container.NewBorder(widget.NewLabel("Layers"), nil, nil, nil, lp.list)
	lp.Refresh()
	return lp
}

// Container returns the panel's root object.
func (lp *LayersPanel) Container() fyne.CanvasObject {
	return lp.root
}

// Refresh re-reads the layer listing from the session.
func (lp *LayersPanel) Refresh() {
	lp.layers = lp.session.Layers()
	lp.list.Refresh()
}
