// Package mainwindow wires the session, preview canvas, and panels into
// the application window.
package mainwindow

import (
	"fmt"
	"io"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"mockup-studio/internal/app"
	"mockup-studio/internal/raster"
	uicanvas "mockup-studio/ui/canvas"
	"mockup-studio/ui/panels"
)

// MainWindow is the application shell.
type MainWindow struct {
	session *app.Session
	window  fyne.Window

	preview *uicanvas.DesignPreview
	layers  *panels.LayersPanel
	status  *widget.Label
}

// New creates the main window on the given Fyne app.
func New(a fyne.App, session *app.Session) *MainWindow {
	w := &MainWindow{
		session: session,
		window:  a.NewWindow("Mockup Studio"),
		status:  widget.NewLabel(""),
	}

	w.preview = uicanvas.NewDesignPreview(session)
	w.layers = panels.NewLayersPanel(session)

	session.On(app.EventLayersChanged, func(interface{}) {
		w.layers.Refresh()
		w.preview.Redraw()
	})
	session.On(app.EventTextureUpdated, func(interface{}) {
		w.status.SetText("Texture updated")
	})
	session.On(app.EventBoundaryViolation, func(data interface{}) {
		v, ok := data.(app.ViolationData)
		if !ok {
			return
		}
		w.status.SetText(fmt.Sprintf("%s is outside the print area", v.Label))
	})
	session.On(app.EventLoadFailed, func(data interface{}) {
		msg, _ := data.(string)
		dialog.ShowInformation("Load failed", msg, w.window)
	})

	content := container.NewBorder(
		w.toolbar(), w.status, nil, w.layers.Container(),
		container.NewCenter(w.preview),
	)
	w.window.SetContent(content)
	w.window.Resize(fyne.NewSize(1100, 520))
	return w
}

// Window returns the underlying Fyne window.
func (w *MainWindow) Window() fyne.Window {
	return w.window
}

func (w *MainWindow) toolbar() fyne.CanvasObject {
	return container.NewHBox(
		widget.NewButton("Add Text", w.showAddText),
		widget.NewButton("Add Image", func() { w.pickFile(false) }),
		widget.NewButton("Pattern", func() { w.pickFile(true) }),
		widget.NewButton("Pattern Movable", func() {
			w.session.TogglePatternMovable()
		}),
		widget.NewButton("Undo", w.session.Undo),
		widget.NewButton("Reset", w.session.Reset),
		widget.NewButton("Export", w.export),
	)
}

func (w *MainWindow) showAddText() {
	content := widget.NewEntry()
	content.SetPlaceHolder("Your text")
	family := widget.NewSelect(raster.Families(), nil)
	family.SetSelected(raster.FamilyGo)
	colorEntry := widget.NewEntry()
	colorEntry.SetText("#000000")
	bold := widget.NewCheck("Bold", nil)
	italic := widget.NewCheck("Italic", nil)

	form := dialog.NewForm("Add text", "Add", "Cancel", []*widget.FormItem{
		widget.NewFormItem("Text", content),
		widget.NewFormItem("Font", family),
		widget.NewFormItem("Color", colorEntry),
		widget.NewFormItem("", bold),
		widget.NewFormItem("", italic),
	}, func(ok bool) {
		if !ok || content.Text == "" {
			return
		}
		_, err := w.session.AddText(content.Text, app.TextStyle{
			FontFamily: family.Selected,
			FontSize:   32,
			FillHex:    colorEntry.Text,
			Bold:       bold.Checked,
			Italic:     italic.Checked,
		})
		if err != nil {
			dialog.ShowError(err, w.window)
		}
	}, w.window)
	form.Show()
}

func (w *MainWindow) pickFile(pattern bool) {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()

		data, rerr := io.ReadAll(rc)
		if rerr != nil {
			dialog.ShowError(rerr, w.window)
			return
		}

		if pattern {
			w.session.SelectPattern(rc.URI().Name(), data)
		} else {
			w.session.AddImage(rc.URI().Name(), data, false)
		}
	}, w.window)
	fd.Show()
}

func (w *MainWindow) export() {
	path := "design-export.png"
	if home, err := os.UserHomeDir(); err == nil {
		path = home + "/design-export.png"
	}
	if err := w.session.Export(path); err != nil {
		dialog.ShowError(err, w.window)
		return
	}
	w.status.SetText(fmt.Sprintf("Exported to %s", path))
}
