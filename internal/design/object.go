// Package design provides the design surface: the ordered collection of
// placeable objects composed inside the print area, the safe/bleed guide
// zones, and snapshot serialization.
package design

import (
	"fmt"
	"image"
	"image/color"

	"mockup-studio/pkg/geometry"
)

// Kind identifies the closed set of design object variants.
type Kind int

const (
	KindText Kind = iota
	KindImage
	KindPattern
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindPattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// Attrs holds the attributes common to every design object. Position is the
// object's center in canvas coordinates.
type Attrs struct {
	ID       string
	Position geometry.Point2D
	ScaleX   float64
	ScaleY   float64
	Rotation float64 // degrees, clockwise
	ZIndex   int

	Selectable        bool
	Evented           bool
	LockScaling       bool
	LockRotation      bool
	ExcludeFromExport bool
	ExcludeFromLayers bool
	Visible           bool

	// ClipRegion, when set, restricts rendering to an absolute canvas
	// rectangle (used to keep uploads and patterns inside the safe zone).
	ClipRegion *geometry.Rect
}

// Object is the common interface of the design object variants. The set of
// implementations is closed: TextObject, ImageObject, PatternObject.
type Object interface {
	// ObjectID returns the unique identifier for this object.
	ObjectID() string

	// ObjectKind returns the variant tag.
	ObjectKind() Kind

	// Common returns the shared attributes for in-place mutation.
	Common() *Attrs

	// NaturalSize returns the untransformed width and height.
	NaturalSize() (w, h float64)

	// Label returns the human-readable name shown in the layer panel.
	Label() string

	sealed()
}

// Transform returns the object's local-to-canvas transform: scale, then
// rotation, then translation to the object's center position.
func Transform(o Object) geometry.AffineTransform {
	a := o.Common()
	t := geometry.Translation(a.Position.X, a.Position.Y)
	t = t.Compose(geometry.Rotation(a.Rotation * degToRad))
	return t.Compose(geometry.Scale(a.ScaleX, a.ScaleY))
}

const degToRad = 3.14159265358979323846 / 180.0

// Bounds returns the object's post-transform axis-aligned bounding box.
func Bounds(o Object) geometry.Rect {
	w, h := o.NaturalSize()
	box := geometry.TransformedBounds(w, h, Transform(o))
	return box
}

// TextObject is a line of styled text.
type TextObject struct {
	Attrs

	Content    string
	FontFamily string
	FontSize   float64
	FillColor  color.RGBA
	Bold       bool
	Italic     bool

	StrokeWidth float64
	StrokeColor color.RGBA

	// Measured untransformed extents of the rendered content, kept in sync
	// by the session whenever content or font settings change.
	MeasuredWidth  float64
	MeasuredHeight float64
}

func (t *TextObject) ObjectID() string { return t.ID }
func (t *TextObject) ObjectKind() Kind { return KindText }
func (t *TextObject) Common() *Attrs { return &t.Attrs }
func (t *TextObject) sealed() {}

func (t *TextObject) NaturalSize() (float64, float64) {
	return t.MeasuredWidth, t.MeasuredHeight
}

func (t *TextObject) Label() string {
	const maxLabel = 18
	s := t.Content
	if len(s) > maxLabel {
		s = s[:maxLabel-1] + "…"
	}
	return fmt.Sprintf("Text %q", s)
}

// ImageObject is an uploaded raster image.
type ImageObject struct {
	Attrs

	SourceRef string
	Grayscale bool

	NaturalWidth  float64
	NaturalHeight float64

	// Pixels holds the decoded (and possibly grayscaled) source. Not part
	// of the snapshot; re-bound from the asset store on restore.
	Pixels image.Image
}

func (i *ImageObject) ObjectID() string { return i.ID }
func (i *ImageObject) ObjectKind() Kind { return KindImage }
func (i *ImageObject) Common() *Attrs { return &i.Attrs }
func (i *ImageObject) sealed() {}

func (i *ImageObject) NaturalSize() (float64, float64) {
	return i.NaturalWidth, i.NaturalHeight
}

func (i *ImageObject) Label() string {
	return fmt.Sprintf("Image %s", i.SourceRef)
}

// PatternObject is the repeating background image. At most one exists on a
// surface at any time; its scale is always a cover-fit of the safe zone.
type PatternObject struct {
	Attrs

	SourceRef string

	// Locked reports whether the pattern ignores pointer interaction.
	// Lifted by the "pattern movable" mode.
	Locked bool

	NaturalWidth  float64
	NaturalHeight float64

	Pixels image.Image
}

func (p *PatternObject) ObjectID() string { return p.ID }
func (p *PatternObject) ObjectKind() Kind { return KindPattern }
func (p *PatternObject) Common() *Attrs { return &p.Attrs }
func (p *PatternObject) sealed() {}

func (p *PatternObject) NaturalSize() (float64, float64) {
	return p.NaturalWidth, p.NaturalHeight
}

func (p *PatternObject) Label() string { return "Pattern" }

// defaultAttrs returns the attribute set shared by freshly created objects.
func defaultAttrs() Attrs {
	return Attrs{
		ScaleX:     1,
		ScaleY:     1,
		Selectable: true,
		Evented:    true,
		Visible:    true,
	}
}

// NewText creates a text object with default attributes.
func NewText(content string) *TextObject {
	return &TextObject{
		Attrs:      defaultAttrs(),
		Content:    content,
		FontFamily: "Go",
		FontSize:   32,
		FillColor:  color.RGBA{A: 255},
	}
}

// NewImage creates an image object for a decoded upload.
func NewImage(sourceRef string, pixels image.Image) *ImageObject {
	b := pixels.Bounds()
	return &ImageObject{
		Attrs:         defaultAttrs(),
		SourceRef:     sourceRef,
		NaturalWidth:  float64(b.Dx()),
		NaturalHeight: float64(b.Dy()),
		Pixels:        pixels,
	}
}

// NewPattern creates a pattern object for a decoded source image. Patterns
// start locked and are excluded from pointer interaction.
func NewPattern(sourceRef string, pixels image.Image) *PatternObject {
	b := pixels.Bounds()
	a := defaultAttrs()
	a.Selectable = false
	a.Evented = false
	a.LockScaling = true
	a.LockRotation = true
	return &PatternObject{
		Attrs:         a,
		SourceRef:     sourceRef,
		Locked:        true,
		NaturalWidth:  float64(b.Dx()),
		NaturalHeight: float64(b.Dy()),
		Pixels:        pixels,
	}
}
