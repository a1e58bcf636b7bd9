package app

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mockup-studio/internal/design"
	"mockup-studio/internal/texture"
	"mockup-studio/internal/viewport"
	"mockup-studio/pkg/geometry"
)

type fixture struct {
	session  *Session
	registry *viewport.SoftwareRegistry
	clock    *texture.VirtualClock
}

func newFixture() *fixture {
	registry := viewport.NewSoftwareRegistry(16)
	clock := texture.NewVirtualClock()
	return &fixture{
		session:  NewSession(614, 230, registry, clock),
		registry: registry,
		clock:    clock,
	}
}

func (f *fixture) outerTexture() viewport.Texture {
	mat, _ := f.registry.Mesh(viewport.MeshOuter)
	return mat.Texture()
}

func (f *fixture) addText(t *testing.T, content string) string {
	t.Helper()
	id, err := f.session.AddText(content, TextStyle{})
	require.NoError(t, err)
	return id
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.SetRGBA(0, 0, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func awaitEvent(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestAddTextCommitsAndBakes(t *testing.T) {
	f := newFixture()

	updates := 0
	f.session.On(EventTextureUpdated, func(interface{}) { updates++ })

	id := f.addText(t, "Hello")
	assert.Equal(t, 1, f.session.HistoryLen())
	assert.Equal(t, 1, f.session.Surface().Len())
	assert.Equal(t, texture.PhaseScheduled, f.session.Synchronizer().Phase())
	assert.Nil(t, f.outerTexture())

	f.clock.Advance(texture.DebounceDelay)

	tex := f.outerTexture()
	require.NotNil(t, tex)
	assert.Equal(t, 1, updates)
	assert.Equal(t, texture.PhaseIdle, f.session.Synchronizer().Phase())

	params := viewport.Params(tex)
	assert.True(t, params.SRGB)
	assert.Equal(t, 16, params.Anisotropy)

	obj := f.session.Surface().FindByID(id)
	require.NotNil(t, obj)
	assert.Equal(t, geometry.Point2D{X: 307, Y: 115}, obj.Common().Position)
}

func TestMutationBurstBakesOnce(t *testing.T) {
	f := newFixture()

	updates := 0
	f.session.On(EventTextureUpdated, func(interface{}) { updates++ })

	for i := 0; i < 5; i++ {
		f.addText(t, fmt.Sprintf("line %d", i))
		f.clock.Advance(100 * time.Millisecond)
	}
	assert.Equal(t, 0, updates)

	f.clock.Advance(texture.DebounceDelay)
	assert.Equal(t, 1, updates)
}

func TestRebindReleasesPreviousTexture(t *testing.T) {
	f := newFixture()

	f.addText(t, "first")
	f.clock.Advance(texture.DebounceDelay)
	first := f.outerTexture()
	require.NotNil(t, first)

	f.addText(t, "second")
	f.clock.Advance(texture.DebounceDelay)
	second := f.outerTexture()
	require.NotNil(t, second)

	assert.True(t, viewport.Released(first))
	assert.False(t, viewport.Released(second))
}

func TestHistoryBoundAndUndo(t *testing.T) {
	f := newFixture()

	for i := 0; i < 51; i++ {
		f.addText(t, fmt.Sprintf("object %d", i))
	}
	assert.Equal(t, 51, f.session.Surface().Len())
	assert.Equal(t, 50, f.session.HistoryLen())

	// The undo returns to the most recent retained state below the top.
	f.session.Undo()
	assert.Equal(t, 50, f.session.Surface().Len())
	assert.Equal(t, 49, f.session.HistoryLen())
}

func TestUndoPastBottomResets(t *testing.T) {
	f := newFixture()

	resets := 0
	f.session.On(EventReset, func(interface{}) { resets++ })

	f.addText(t, "only")
	f.clock.Advance(texture.DebounceDelay)
	require.NotNil(t, f.outerTexture())
	bound := f.outerTexture()

	// One commit: there is no earlier snapshot, so undo resets everything.
	f.session.Undo()
	assert.Equal(t, 1, resets)
	assert.Equal(t, 0, f.session.Surface().Len())
	assert.Equal(t, 0, f.session.HistoryLen())
	assert.Nil(t, f.outerTexture())
	assert.True(t, viewport.Released(bound))
}

func TestResetClearsEverything(t *testing.T) {
	f := newFixture()

	f.addText(t, "a")
	f.addText(t, "b")
	f.clock.Advance(texture.DebounceDelay)
	require.NotNil(t, f.outerTexture())

	f.session.Reset()
	assert.Equal(t, 0, f.session.Surface().Len())
	assert.Equal(t, 0, f.session.HistoryLen())
	assert.Nil(t, f.outerTexture())

	// The cancelled pending bake never fires.
	f.clock.Advance(time.Second)
	assert.Nil(t, f.outerTexture())
}

func TestDragSnapsAndCommitsOnRelease(t *testing.T) {
	f := newFixture()

	id := f.addText(t, "drag me")
	before := f.session.HistoryLen()

	snapped := f.session.DragObject(id, 307+5, 80)
	assert.True(t, snapped)
	obj := f.session.Surface().FindByID(id)
	assert.Equal(t, 307.0, obj.Common().Position.X)
	assert.True(t, f.session.Surface().Guides().Vertical)

	// Live dragging does not touch history.
	assert.Equal(t, before, f.session.HistoryLen())

	f.session.CompleteMutation()
	assert.Equal(t, before+1, f.session.HistoryLen())
	assert.False(t, f.session.Surface().Guides().Vertical)
}

func TestUpdateTextReclamps(t *testing.T) {
	f := newFixture()

	id := f.addText(t, "short")
	require.NoError(t, f.session.UpdateText(id, "a very long line of text that cannot possibly fit inside the safe zone at full size"))

	obj := f.session.Surface().FindByID(id)
	box := design.Bounds(obj)
	assert.True(t, f.session.Surface().Zones().Safe.ContainsRect(box))
}

func TestAddImageAsync(t *testing.T) {
	f := newFixture()

	changed := make(chan struct{}, 8)
	f.session.On(EventLayersChanged, func(interface{}) { changed <- struct{}{} })

	f.session.AddImage("upload.png", pngBytes(t, 200, 100), false)
	awaitEvent(t, changed)

	require.Equal(t, 1, f.session.Surface().Len())
	img, ok := f.session.Surface().Objects()[0].(*design.ImageObject)
	require.True(t, ok)
	assert.Equal(t, "upload.png", img.SourceRef)
	assert.Equal(t, geometry.Point2D{X: 307, Y: 115}, img.Position)
	assert.Equal(t, 0.3, img.ScaleX)
	require.NotNil(t, img.ClipRegion)
	assert.Equal(t, f.session.Surface().Zones().Safe, *img.ClipRegion)
}

func TestAddImageDecodeFailure(t *testing.T) {
	f := newFixture()

	failed := make(chan struct{}, 1)
	f.session.On(EventLoadFailed, func(interface{}) { failed <- struct{}{} })

	f.session.AddImage("bad.png", []byte("garbage"), false)
	awaitEvent(t, failed)

	assert.Equal(t, 0, f.session.Surface().Len())
	assert.Equal(t, 0, f.session.HistoryLen())
}

func TestSelectPatternReplacesExisting(t *testing.T) {
	f := newFixture()

	changed := make(chan struct{}, 8)
	f.session.On(EventLayersChanged, func(interface{}) { changed <- struct{}{} })

	f.session.SelectPattern("dots.png", pngBytes(t, 100, 50))
	awaitEvent(t, changed)
	f.session.SelectPattern("stripes.png", pngBytes(t, 100, 50))
	awaitEvent(t, changed)

	require.Equal(t, 1, f.session.Surface().Len())
	p := f.session.Surface().Pattern()
	require.NotNil(t, p)
	assert.Equal(t, "stripes.png", p.SourceRef)
	assert.True(t, p.Locked)
	assert.InDelta(t, 4.94, p.ScaleX, 1e-9)
}

func TestTogglePatternMovable(t *testing.T) {
	f := newFixture()

	changed := make(chan struct{}, 8)
	f.session.On(EventLayersChanged, func(interface{}) { changed <- struct{}{} })
	f.session.SelectPattern("dots.png", pngBytes(t, 100, 50))
	awaitEvent(t, changed)

	p := f.session.Surface().Pattern()
	require.True(t, p.Locked)
	assert.False(t, f.session.DragObject(p.ID, 300, 100))

	f.session.TogglePatternMovable()
	assert.False(t, p.Locked)
	assert.True(t, p.Selectable)

	f.session.DragObject(p.ID, 200, 100)
	assert.Equal(t, 200.0, p.Position.X)

	f.session.TogglePatternMovable()
	assert.True(t, p.Locked)
	assert.False(t, p.Selectable)
}

func TestScaleAndRotateHonorLocks(t *testing.T) {
	f := newFixture()

	id := f.addText(t, "locked")
	require.NoError(t, f.session.ToggleLock(id))

	f.session.ScaleObject(id, 2, 2)
	f.session.RotateObject(id, 45)

	obj := f.session.Surface().FindByID(id)
	assert.Equal(t, 1.0, obj.Common().ScaleX)
	assert.Equal(t, 0.0, obj.Common().Rotation)

	require.NoError(t, f.session.ToggleLock(id))
	f.session.RotateObject(id, 45)
	assert.Equal(t, 45.0, obj.Common().Rotation)
}

func TestBoundaryViolationEvent(t *testing.T) {
	f := newFixture()

	var got ViolationData
	f.session.On(EventBoundaryViolation, func(data interface{}) {
		got, _ = data.(ViolationData)
	})

	id := f.addText(t, "wanderer")
	f.session.DragObject(id, -200, -200)

	assert.Equal(t, id, got.ObjectID)
	assert.NotEmpty(t, got.Label)
}

func TestViewportResizeRefitsAndReschedules(t *testing.T) {
	f := newFixture()

	changed := make(chan struct{}, 8)
	f.session.On(EventLayersChanged, func(interface{}) { changed <- struct{}{} })
	f.session.SelectPattern("dots.png", pngBytes(t, 100, 50))
	awaitEvent(t, changed)
	f.clock.Advance(texture.DebounceDelay)

	before := f.session.HistoryLen()
	f.session.ViewportResized(1228, 460)
	assert.Equal(t, before, f.session.HistoryLen())

	p := f.session.Surface().Pattern()
	safe := f.session.Surface().Zones().Safe
	assert.Equal(t, safe, *p.ClipRegion)
	assert.Equal(t, geometry.Point2D{X: 614, Y: 230}, p.Position)

	// The wider viewport raises the adaptive multiplier.
	assert.InDelta(t, 2.456, f.session.Synchronizer().Multiplier(), 1e-9)
}

func TestLayersTopFirst(t *testing.T) {
	f := newFixture()

	f.addText(t, "bottom")
	f.addText(t, "top")

	layers := f.session.Layers()
	require.Len(t, layers, 2)
	assert.Contains(t, layers[0].Label, "top")
	assert.Contains(t, layers[1].Label, "bottom")
	assert.Equal(t, design.KindText, layers[0].Kind)
}

func TestUndoRestoresPreviousState(t *testing.T) {
	f := newFixture()

	f.addText(t, "keep")
	removed := f.addText(t, "transient")
	require.NoError(t, f.session.RemoveObject(removed))
	assert.Equal(t, 1, f.session.Surface().Len())

	// Undo the removal: both objects return.
	f.session.Undo()
	assert.Equal(t, 2, f.session.Surface().Len())
	assert.NotNil(t, f.session.Surface().FindByID(removed))

	// Undo again: back to just the first object.
	f.session.Undo()
	assert.Equal(t, 1, f.session.Surface().Len())
	assert.Nil(t, f.session.Surface().FindByID(removed))
}

func TestExportWritesPNG(t *testing.T) {
	f := newFixture()
	f.addText(t, "export me")

	path := t.TempDir() + "/export.png"
	require.NoError(t, f.session.Export(path))

	decoded := decodePNG(t, path)
	assert.Equal(t, 614*8, decoded.Bounds().Dx())
	assert.Equal(t, 230*8, decoded.Bounds().Dy())
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}
