package app

import (
	"fmt"
	"image/color"
	"log"

	"mockup-studio/internal/assets"
	"mockup-studio/internal/design"
	"mockup-studio/internal/raster"
	"mockup-studio/internal/viewport"
	"mockup-studio/pkg/colorutil"
	"mockup-studio/pkg/geometry"
)

// TextStyle carries the style flags of the add-text command.
type TextStyle struct {
	FontFamily string
	FontSize   float64
	FillHex    string
	Bold       bool
	Italic     bool
}

// commitMutation finalizes a completed mutation: guides reset, history
// push, layer refresh, and a texture-sync schedule. Callers hold s.mu.
func (s *Session) commitMutation() {
	s.surface.Guides().Reset()
	s.history.Commit(s.surface.Serialize())
}

// afterCommit emits the post-mutation events and schedules the bake.
// Callers must NOT hold s.mu.
func (s *Session) afterCommit() {
	s.Emit(EventLayersChanged, nil)
	s.Emit(EventModified, true)
	s.sync.Schedule()
}

// AddText adds a styled text object at the canvas center, clamped into the
// safe zone. Returns the new object's id.
func (s *Session) AddText(content string, style TextStyle) (string, error) {
	fill := colorutil.Black
	if style.FillHex != "" {
		parsed, err := colorutil.ParseHex(style.FillHex)
		if err != nil {
			return "", err
		}
		fill = parsed
	}

	t := design.NewText(content)
	if style.FontFamily != "" {
		t.FontFamily = style.FontFamily
	}
	if style.FontSize > 0 {
		t.FontSize = style.FontSize
	}
	t.FillColor = fill
	t.Bold = style.Bold
	t.Italic = style.Italic

	if err := raster.MeasureText(t); err != nil {
		return "", fmt.Errorf("measure text: %w", err)
	}

	s.mu.Lock()
	w, h := s.surface.Size()
	t.Position = geometry.Point2D{X: w / 2, Y: h / 2}
	s.engine.CheckBounds(s.surface.Zones(), t)
	s.surface.Add(t)
	s.commitMutation()
	s.mu.Unlock()

	s.afterCommit()
	return t.ID, nil
}

// UpdateText replaces a text object's content, re-measures it, and
// re-applies the safe-zone clamp.
func (s *Session) UpdateText(id, content string) error {
	s.mu.Lock()
	o := s.surface.FindByID(id)
	t, ok := o.(*design.TextObject)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("no text object %q", id)
	}
	t.Content = content
	if err := raster.MeasureText(t); err != nil {
		s.mu.Unlock()
		return err
	}
	s.engine.CheckBounds(s.surface.Zones(), t)
	s.commitMutation()
	s.mu.Unlock()

	s.afterCommit()
	return nil
}

// AddImage decodes an upload asynchronously and inserts it fitted to the
// canvas, optionally grayscaled (non-reversible; re-insert to undo). A
// decode failure surfaces as EventLoadFailed and mutates nothing.
func (s *Session) AddImage(ref string, data []byte, grayscale bool) {
	s.loader.Load(ref, data, func(res assets.Result) {
		if res.Err != nil {
			log.Printf("app: image load failed: %v", res.Err)
			s.Emit(EventLoadFailed, fmt.Sprintf("Could not load image %s", ref))
			return
		}

		img := design.NewImage(res.Ref, res.Image)
		if grayscale {
			gray, err := raster.Grayscale(res.Image)
			if err != nil {
				log.Printf("app: grayscale failed: %v", err)
				s.Emit(EventLoadFailed, fmt.Sprintf("Could not process image %s", ref))
				return
			}
			img.Pixels = gray
			img.Grayscale = true
		}

		s.mu.Lock()
		s.engine.FitUploadToCanvas(s.surface, img)
		s.engine.CheckBounds(s.surface.Zones(), img)
		s.surface.Add(img)
		s.commitMutation()
		s.mu.Unlock()

		s.afterCommit()
	})
}

// SelectPattern decodes a pattern source asynchronously and installs it as
// the single pattern object, cover-fitted to the safe zone. Any existing
// pattern is replaced.
func (s *Session) SelectPattern(ref string, data []byte) {
	s.loader.Load(ref, data, func(res assets.Result) {
		if res.Err != nil {
			log.Printf("app: pattern load failed: %v", res.Err)
			s.Emit(EventLoadFailed, fmt.Sprintf("Could not load pattern %s", ref))
			return
		}

		p := design.NewPattern(res.Ref, res.Image)

		s.mu.Lock()
		s.engine.FitPatternToSafeZone(s.surface, p)
		s.surface.Add(p)
		s.commitMutation()
		s.mu.Unlock()

		s.afterCommit()
	})
}

// RemoveObject deletes an object by id.
func (s *Session) RemoveObject(id string) error {
	s.mu.Lock()
	o := s.surface.FindByID(id)
	if o == nil {
		s.mu.Unlock()
		return fmt.Errorf("no object %q", id)
	}
	s.surface.Remove(o)
	s.commitMutation()
	s.mu.Unlock()

	s.afterCommit()
	return nil
}

// SelectObject marks an object as the active selection; an empty id
// clears it. Selection is not a history-worthy mutation.
func (s *Session) SelectObject(id string) {
	s.mu.Lock()
	s.surface.SetActive(id)
	s.mu.Unlock()
	s.Emit(EventSelectionChanged, id)
}

// ToggleLock flips an object's scaling/rotation locks.
func (s *Session) ToggleLock(id string) error {
	s.mu.Lock()
	o := s.surface.FindByID(id)
	if o == nil {
		s.mu.Unlock()
		return fmt.Errorf("no object %q", id)
	}
	a := o.Common()
	locked := !a.LockScaling
	a.LockScaling = locked
	a.LockRotation = locked
	s.commitMutation()
	s.mu.Unlock()

	s.afterCommit()
	return nil
}

// ToggleVisibility flips an object's visibility in both the preview and
// the bake.
func (s *Session) ToggleVisibility(id string) error {
	s.mu.Lock()
	o := s.surface.FindByID(id)
	if o == nil {
		s.mu.Unlock()
		return fmt.Errorf("no object %q", id)
	}
	o.Common().Visible = !o.Common().Visible
	s.commitMutation()
	s.mu.Unlock()

	s.afterCommit()
	return nil
}

// TogglePatternMovable toggles the pattern between its default locked,
// non-interactive state and a movable state where it can be dragged but
// still not scaled or rotated by pointer handles.
func (s *Session) TogglePatternMovable() {
	s.mu.Lock()
	p := s.surface.Pattern()
	if p == nil {
		s.mu.Unlock()
		return
	}
	p.Locked = !p.Locked
	p.Selectable = !p.Locked
	p.Evented = !p.Locked
	s.commitMutation()
	s.mu.Unlock()

	s.afterCommit()
}

// DragObject moves an object's center during an interactive drag, applying
// center snapping and bounds checking live. No history commit happens until
// CompleteMutation. Returns whether a snap occurred, so the caller can
// redraw immediately instead of waiting for the next frame.
func (s *Session) DragObject(id string, x, y float64) (snapped bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.surface.FindByID(id)
	if o == nil {
		return false
	}
	a := o.Common()
	if !a.Selectable {
		return false
	}
	a.Position = geometry.Point2D{X: x, Y: y}
	snapped = s.engine.SnapToCenter(s.surface, o)
	s.engine.CheckBounds(s.surface.Zones(), o)
	return snapped
}

// ScaleObject sets an object's scale during interactive manipulation,
// honoring its scaling lock. Text is re-clamped live.
func (s *Session) ScaleObject(id string, sx, sy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.surface.FindByID(id)
	if o == nil || o.Common().LockScaling {
		return
	}
	o.Common().ScaleX = sx
	o.Common().ScaleY = sy
	s.engine.CheckBounds(s.surface.Zones(), o)
}

// RotateObject sets an object's rotation during interactive manipulation,
// honoring its rotation lock.
func (s *Session) RotateObject(id string, degrees float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.surface.FindByID(id)
	if o == nil || o.Common().LockRotation {
		return
	}
	o.Common().Rotation = degrees
	s.engine.CheckBounds(s.surface.Zones(), o)
}

// CompleteMutation commits an interactive manipulation that ended (drag
// release, scale handle release).
func (s *Session) CompleteMutation() {
	s.mu.Lock()
	s.commitMutation()
	s.mu.Unlock()
	s.afterCommit()
}

// Undo walks one step back in history. With no earlier state left it
// performs a full reset instead.
func (s *Session) Undo() {
	s.mu.Lock()
	snap, ok := s.history.Undo()
	if !ok {
		s.resetLocked()
		s.mu.Unlock()
		s.Emit(EventLayersChanged, nil)
		s.Emit(EventReset, nil)
		return
	}

	if err := s.surface.Restore(snap); err != nil {
		log.Printf("app: undo restore failed: %v", err)
		s.mu.Unlock()
		return
	}
	s.reapplyGrayscale()
	s.mu.Unlock()

	s.Emit(EventLayersChanged, nil)
	s.Emit(EventSelectionChanged, "")
	s.sync.Schedule()
}

// reapplyGrayscale re-runs the insert-time grayscale on restored image
// objects, since the asset store holds the original pixels.
func (s *Session) reapplyGrayscale() {
	for _, o := range s.surface.Objects() {
		img, ok := o.(*design.ImageObject)
		if !ok || !img.Grayscale || img.Pixels == nil {
			continue
		}
		gray, err := raster.Grayscale(img.Pixels)
		if err != nil {
			log.Printf("app: grayscale on restore failed: %v", err)
			continue
		}
		img.Pixels = gray
	}
}

// Reset clears the whole design: objects, history, and the bound texture.
func (s *Session) Reset() {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()

	s.Emit(EventLayersChanged, nil)
	s.Emit(EventReset, nil)
}

// resetLocked clears objects and history and releases the texture binding.
// Callers hold s.mu.
func (s *Session) resetLocked() {
	s.surface.Clear()
	s.history.Reset()
	s.sync.CancelPending()
	s.sync.ClearBinding()
}

// Export writes the manual high-resolution raster to a PNG file. Bypasses
// the debounce and does not touch the live binding.
func (s *Session) Export(path string) error {
	img := s.sync.ExportHiRes()
	if err := raster.WritePNG(path, img); err != nil {
		return err
	}
	log.Printf("app: exported design to %s", path)
	return nil
}

// ViewportResized updates the canvas dimensions: zones are recomputed, the
// pattern is re-fitted, clip regions follow the new safe zone, and the
// adaptive bake multiplier picks up the new width. Not a history-worthy
// mutation.
func (s *Session) ViewportResized(width, height float64) {
	s.mu.Lock()
	s.surface.Resize(width, height)
	safe := s.surface.Zones().Safe
	for _, o := range s.surface.Objects() {
		a := o.Common()
		if a.ClipRegion != nil {
			clip := safe
			a.ClipRegion = &clip
		}
	}
	if p := s.surface.Pattern(); p != nil {
		s.engine.FitPatternToSafeZone(s.surface, p)
	}
	s.mu.Unlock()

	s.sync.SetViewportWidth(width)
	s.sync.Schedule()
}

// SetInnerColor applies a flat color to the product's inner surface.
func (s *Session) SetInnerColor(c color.RGBA) {
	if mat, ok := s.viewport.Mesh(viewport.MeshInner); ok {
		mat.SetColor(c)
	}
}

// LayerInfo describes one entry of the layer panel.
type LayerInfo struct {
	ID      string
	Label   string
	Kind    design.Kind
	Visible bool
	Locked  bool
}

// Layers lists the user-facing objects top-most first, the order the layer
// panel shows them.
func (s *Session) Layers() []LayerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	var layers []LayerInfo
	for o := range s.surface.ListDesignObjects() {
		a := o.Common()
		layers = append(layers, LayerInfo{
			ID:      o.ObjectID(),
			Label:   o.Label(),
			Kind:    o.ObjectKind(),
			Visible: a.Visible,
			Locked:  a.LockScaling && a.LockRotation,
		})
	}
	// Reverse: ListDesignObjects yields bottom-first.
	for i, j := 0, len(layers)-1; i < j; i, j = i+1, j-1 {
		layers[i], layers[j] = layers[j], layers[i]
	}
	return layers
}
